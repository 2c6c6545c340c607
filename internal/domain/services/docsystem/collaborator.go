package docsystem

import (
	"context"

	"noteshare/internal/domain/models/docsystem"
)

// CollaboratorService manages who a document is shared with.
// Mutations are owner-only; listing is open to anyone who can read the document.
type CollaboratorService interface {
	// AddOrUpdateCollaborator grants or changes a user's permission level (upsert)
	AddOrUpdateCollaborator(ctx context.Context, ownerID, documentID int64, req *ShareRequest) (*docsystem.Collaborator, error)

	// RemoveCollaborator revokes a grant. Removing a missing grant returns false, not an error.
	RemoveCollaborator(ctx context.Context, ownerID, documentID, targetUserID int64) (bool, error)

	// ListCollaborators lists the grants of a document the requester can read
	ListCollaborators(ctx context.Context, requesterID, documentID int64) ([]docsystem.Collaborator, error)
}

// ShareRequest identifies the target user by ID or by email (exactly one)
type ShareRequest struct {
	UserID          int64                     `json:"user_id,omitempty"`
	Email           string                    `json:"email,omitempty"`
	PermissionLevel docsystem.PermissionLevel `json:"permission_level"`
}
