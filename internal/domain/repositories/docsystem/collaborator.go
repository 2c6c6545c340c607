package docsystem

import (
	"context"

	"noteshare/internal/domain/models/docsystem"
)

// CollaboratorRepository defines data access operations for document grants
type CollaboratorRepository interface {
	// Get returns the grant for (documentID, userID) or domain.ErrNotFound
	Get(ctx context.Context, documentID, userID int64) (*docsystem.Collaborator, error)

	// Upsert inserts the grant or overwrites the permission level of an existing one
	// in a single atomic statement. Fills in timestamps and the joined user fields.
	Upsert(ctx context.Context, collab *docsystem.Collaborator) error

	// Delete removes one grant. Returns false if it did not exist.
	Delete(ctx context.Context, documentID, userID int64) (bool, error)

	// DeleteAllByDocument removes every grant of a document and returns the count
	DeleteAllByDocument(ctx context.Context, documentID int64) (int64, error)

	// ListByDocument lists grants with user email/name, ordered by created_at, user_id
	ListByDocument(ctx context.Context, documentID int64) ([]docsystem.Collaborator, error)
}
