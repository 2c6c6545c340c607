package docsystem

import (
	"time"
)

// PermissionLevel is the level granted to a collaborator on a document.
type PermissionLevel string

const (
	PermissionRead  PermissionLevel = "read"
	PermissionWrite PermissionLevel = "write"
)

// Valid reports whether p is one of the known permission levels.
func (p PermissionLevel) Valid() bool {
	return p == PermissionRead || p == PermissionWrite
}

// AccessLevel is the effective relation between a user and a document.
type AccessLevel string

const (
	AccessNone  AccessLevel = "none"
	AccessRead  AccessLevel = "read"
	AccessWrite AccessLevel = "write"
	AccessOwner AccessLevel = "owner"
)

// Collaborator is a grant row keyed by (DocumentID, UserID).
// The document owner never has a row for their own document.
type Collaborator struct {
	DocumentID      int64           `json:"document_id" db:"document_id"`
	UserID          int64           `json:"user_id" db:"user_id"`
	PermissionLevel PermissionLevel `json:"permission_level" db:"permission_level"`
	Email           string          `json:"email,omitempty"` // Joined from users, not stored
	Name            string          `json:"name,omitempty"`  // Joined from users, not stored
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}
