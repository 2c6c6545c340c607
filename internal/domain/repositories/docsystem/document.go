package docsystem

import (
	"context"

	"noteshare/internal/domain/models/docsystem"
)

// DocumentRepository defines data access operations for documents
type DocumentRepository interface {
	// Create creates a new document and fills in its generated ID
	Create(ctx context.Context, doc *docsystem.Document) error

	// GetByID retrieves a document by ID, regardless of owner.
	// Authorization is the caller's job.
	GetByID(ctx context.Context, id int64) (*docsystem.Document, error)

	// GetByIDForUpdate retrieves a document and locks its row until the
	// surrounding transaction ends. Must be called inside TransactionManager.ExecTx.
	GetByIDForUpdate(ctx context.Context, id int64) (*docsystem.Document, error)

	// ListAccessible returns documents owned by userID plus documents shared with
	// userID, deduplicated, ordered by updated_at DESC then id ASC.
	// Each document's Access field is set to the user's level.
	ListAccessible(ctx context.Context, userID int64) ([]docsystem.Document, error)

	// Update writes title, content, word_count and updated_at
	Update(ctx context.Context, doc *docsystem.Document) error

	// Delete hard-deletes a document. Returns false if no row matched.
	Delete(ctx context.Context, id int64) (bool, error)
}
