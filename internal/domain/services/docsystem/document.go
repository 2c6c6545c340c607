package docsystem

import (
	"context"

	"noteshare/internal/domain/models/docsystem"
)

// DocumentService handles the document lifecycle. Every method that touches an
// existing document consults the DocumentAuthorizer exactly once.
type DocumentService interface {
	// CreateDocument creates a document owned by req.OwnerID. No authorization check.
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*docsystem.Document, error)

	// ListDocuments returns owned and shared documents, most recently updated first
	ListDocuments(ctx context.Context, userID int64) ([]docsystem.Document, error)

	// GetDocument retrieves a document the user can read.
	// Returns domain.ErrNotFound if absent, domain.ErrForbidden if not readable.
	GetDocument(ctx context.Context, userID, documentID int64) (*docsystem.Document, error)

	// UpdateDocument applies the supplied fields. Requires write access.
	UpdateDocument(ctx context.Context, userID, documentID int64, req *UpdateDocumentRequest) (*docsystem.Document, error)

	// DeleteDocument removes a document and its grants. Owner only.
	// Returns whether a row was removed.
	DeleteDocument(ctx context.Context, userID, documentID int64) (bool, error)

	// DuplicateDocument copies a readable document into a new one owned by userID
	DuplicateDocument(ctx context.Context, userID, documentID int64) (*docsystem.Document, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	OwnerID int64  `json:"-"` // Set by handler from auth context, not from request body
	Title   string `json:"title"`
	Content string `json:"content"` // Markdown content
}

// UpdateDocumentRequest represents a partial document update.
// Nil fields keep their previous value.
type UpdateDocumentRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}
