package services

import (
	"context"

	"noteshare/internal/domain/models/docsystem"
)

// Action is one of the four capabilities that can be requested on a document.
// Every operation that touches an existing document checks exactly one action.
type Action string

const (
	ActionRead                Action = "read"
	ActionWrite               Action = "write"
	ActionManageCollaborators Action = "manage_collaborators"
	ActionDelete              Action = "delete"
)

// DocumentAuthorizer loads a document and the requester's grant, and decides
// whether the requester may perform an action on it.
//
// Grants are evaluated fresh on every call. Nothing is cached between requests,
// so removing a collaborator takes effect on their next request.
type DocumentAuthorizer interface {
	// Authorize returns the document and the requester's grant (nil for owners and
	// strangers) when the action is allowed.
	// Returns domain.ErrNotFound if the document does not exist and
	// domain.ErrForbidden if the action is denied.
	// When lock is true the document row is locked for the rest of the transaction.
	Authorize(ctx context.Context, action Action, documentID, requesterID int64, lock bool) (*docsystem.Document, *docsystem.Collaborator, error)
}
