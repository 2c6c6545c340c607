package handler

import "net/http"

// Handlers groups everything RegisterRoutes mounts
type Handlers struct {
	Account      *AccountHandler
	Document     *DocumentHandler
	Collaborator *CollaboratorHandler
	Export       *ExportHandler
	DB           Pinger
}

// RegisterRoutes mounts the API on mux
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET /health", Health(h.DB))

	// Accounts
	mux.HandleFunc("POST /api/auth/register", h.Account.Register)
	mux.HandleFunc("POST /api/auth/login", h.Account.Login)
	mux.HandleFunc("GET /api/auth/me", h.Account.Me)

	// Documents
	mux.HandleFunc("POST /api/documents", h.Document.CreateDocument)
	mux.HandleFunc("GET /api/documents", h.Document.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", h.Document.GetDocument)
	mux.HandleFunc("PUT /api/documents/{id}", h.Document.UpdateDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", h.Document.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", h.Document.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/duplicate", h.Document.DuplicateDocument)
	mux.HandleFunc("GET /api/documents/{id}/export", h.Export.ExportDocument)

	// Collaborators
	mux.HandleFunc("POST /api/documents/{id}/collaborators", h.Collaborator.AddOrUpdateCollaborator)
	mux.HandleFunc("GET /api/documents/{id}/collaborators", h.Collaborator.ListCollaborators)
	mux.HandleFunc("DELETE /api/documents/{id}/collaborators/{userId}", h.Collaborator.RemoveCollaborator)
}
