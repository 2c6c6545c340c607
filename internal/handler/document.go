package handler

import (
	"log/slog"
	"net/http"

	"noteshare/internal/domain"
	docsysSvc "noteshare/internal/domain/services/docsystem"
	"noteshare/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService docsysSvc.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService docsysSvc.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// CreateDocument creates a new document owned by the caller
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.CreateDocumentRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.OwnerID = httputil.GetUserID(r)

	doc, err := h.docService.CreateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// ListDocuments lists owned and shared documents
// GET /api/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docService.ListDocuments(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// GetDocument retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleDocumentError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// updateDocumentBody distinguishes absent fields from explicit nulls
type updateDocumentBody struct {
	Title   httputil.OptionalString `json:"title"`
	Content httputil.OptionalString `json:"content"`
}

// UpdateDocument applies a partial update
// PUT /api/documents/{id}
// PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	var body updateDocumentBody
	if !parseBody(w, r, &body) {
		return
	}

	title, err := body.Title.Ptr()
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "title: "+err.Error())
		return
	}
	content, err := body.Content.Ptr()
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "content: "+err.Error())
		return
	}

	doc, err := h.docService.UpdateDocument(r.Context(), httputil.GetUserID(r), id, &docsysSvc.UpdateDocumentRequest{
		Title:   title,
		Content: content,
	})
	if err != nil {
		handleDocumentError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a document and its collaborator grants
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	deleted, err := h.docService.DeleteDocument(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleDocumentError(w, err)
		return
	}
	if !deleted {
		handleDocumentError(w, domain.ErrNotFound)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// DuplicateDocument copies a readable document into a new one owned by the caller
// POST /api/documents/{id}/duplicate
func (h *DocumentHandler) DuplicateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.DuplicateDocument(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleDocumentError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}
