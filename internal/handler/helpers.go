package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"noteshare/internal/domain"
	"noteshare/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, notFoundDetail(err))
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, domain.ErrTransient):
		slog.Warn("storage unavailable", "error", err)
		httputil.RespondError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		slog.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// handleDocumentError is handleError for routes under /api/documents/{id}.
// A document the caller may not see is reported exactly like a missing one.
func handleDocumentError(w http.ResponseWriter, err error) {
	var notFound *domain.NotFoundError
	switch {
	case errors.As(err, &notFound):
		httputil.RespondError(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "document not found")
	default:
		handleError(w, err)
	}
}

func notFoundDetail(err error) string {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	return "not found"
}

// documentID reads the {id} path value, writing a 400 when it is malformed
func documentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := httputil.PathInt64(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID")
		return 0, false
	}
	return id, true
}

// parseBody decodes the request body, writing a 400 or 413 on failure
func parseBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
			return false
		}
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
