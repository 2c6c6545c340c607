package auth

import (
	models "noteshare/internal/domain/models/docsystem"
	"noteshare/internal/domain/services"
)

// The functions in this file are the whole authorization surface for documents.
// They are pure: callers supply the document and, where relevant, the
// requester's collaborator row (nil when there is none). They never fail; a
// denial is a false return that the caller turns into an error.

// Resolve returns the requester's effective access level on doc.
// A grant that belongs to another document or another user is ignored.
func Resolve(doc *models.Document, grant *models.Collaborator, requesterID int64) models.AccessLevel {
	if doc == nil || requesterID <= 0 {
		return models.AccessNone
	}
	if doc.OwnerID == requesterID {
		return models.AccessOwner
	}
	if grant == nil || grant.DocumentID != doc.ID || grant.UserID != requesterID {
		return models.AccessNone
	}

	switch grant.PermissionLevel {
	case models.PermissionWrite:
		return models.AccessWrite
	case models.PermissionRead:
		return models.AccessRead
	default:
		return models.AccessNone
	}
}

// AuthorizeRead reports whether the requester owns doc or holds any grant on it.
func AuthorizeRead(doc *models.Document, grant *models.Collaborator, requesterID int64) bool {
	return Resolve(doc, grant, requesterID) != models.AccessNone
}

// AuthorizeWrite reports whether the requester owns doc or holds a write grant on it.
func AuthorizeWrite(doc *models.Document, grant *models.Collaborator, requesterID int64) bool {
	switch Resolve(doc, grant, requesterID) {
	case models.AccessOwner, models.AccessWrite:
		return true
	default:
		return false
	}
}

// AuthorizeManageCollaborators reports whether the requester owns doc.
// Write collaborators can edit content but never change who the document is
// shared with.
func AuthorizeManageCollaborators(doc *models.Document, requesterID int64) bool {
	return Resolve(doc, nil, requesterID) == models.AccessOwner
}

// AuthorizeDelete reports whether the requester owns doc.
func AuthorizeDelete(doc *models.Document, requesterID int64) bool {
	return Resolve(doc, nil, requesterID) == models.AccessOwner
}

// Authorize dispatches to the predicate for action. Unknown actions are denied.
func Authorize(action services.Action, doc *models.Document, grant *models.Collaborator, requesterID int64) bool {
	switch action {
	case services.ActionRead:
		return AuthorizeRead(doc, grant, requesterID)
	case services.ActionWrite:
		return AuthorizeWrite(doc, grant, requesterID)
	case services.ActionManageCollaborators:
		return AuthorizeManageCollaborators(doc, requesterID)
	case services.ActionDelete:
		return AuthorizeDelete(doc, requesterID)
	default:
		return false
	}
}
