package handler

import (
	"log/slog"
	"net/http"
	"strings"

	docsysSvc "noteshare/internal/domain/services/docsystem"
	"noteshare/internal/httputil"
)

// ExportHandler serves document downloads
type ExportHandler struct {
	exportService docsysSvc.ExportService
	logger        *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService docsysSvc.ExportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// ExportDocument renders a document as an attachment
// GET /api/documents/{id}/export?format=md|html|txt&metadata=true|false
func (h *ExportHandler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	format := strings.TrimSpace(r.URL.Query().Get("format"))
	if format == "" {
		format = string(docsysSvc.ExportMarkdown)
	}
	opts := docsysSvc.RenderOptions{
		IncludeMetadata: httputil.QueryBool(r, "metadata", true),
	}

	file, err := h.exportService.ExportDocument(r.Context(), httputil.GetUserID(r), id, docsysSvc.ExportFormat(format), opts)
	if err != nil {
		handleDocumentError(w, err)
		return
	}

	httputil.RespondAttachment(w, file.FileName, file.ContentType, file.Body)
}
