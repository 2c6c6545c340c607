package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "noteshare/internal/domain/services/docsystem"
	"noteshare/internal/httputil"
)

// CollaboratorHandler handles document sharing HTTP requests
type CollaboratorHandler struct {
	collabService docsysSvc.CollaboratorService
	logger        *slog.Logger
}

// NewCollaboratorHandler creates a new collaborator handler
func NewCollaboratorHandler(collabService docsysSvc.CollaboratorService, logger *slog.Logger) *CollaboratorHandler {
	return &CollaboratorHandler{
		collabService: collabService,
		logger:        logger,
	}
}

// AddOrUpdateCollaborator shares a document or changes a grant
// POST /api/documents/{id}/collaborators
func (h *CollaboratorHandler) AddOrUpdateCollaborator(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	var req docsysSvc.ShareRequest
	if !parseBody(w, r, &req) {
		return
	}

	collab, err := h.collabService.AddOrUpdateCollaborator(r.Context(), httputil.GetUserID(r), id, &req)
	if err != nil {
		handleDocumentError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, collab)
}

// ListCollaborators lists a document's grants
// GET /api/documents/{id}/collaborators
func (h *CollaboratorHandler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	collabs, err := h.collabService.ListCollaborators(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleDocumentError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, collabs)
}

// RemoveCollaborator revokes a grant. Missing grants report removed=false.
// DELETE /api/documents/{id}/collaborators/{userId}
func (h *CollaboratorHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	targetID, err := httputil.PathInt64(r, "userId")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	removed, err := h.collabService.RemoveCollaborator(r.Context(), httputil.GetUserID(r), id, targetID)
	if err != nil {
		handleDocumentError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}
