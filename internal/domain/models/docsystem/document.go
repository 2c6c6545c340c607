package docsystem

import (
	"time"
)

type Document struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"` // Markdown content
	OwnerID   int64     `json:"owner_id" db:"owner_id"`
	WordCount int       `json:"word_count" db:"word_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Access is the requesting user's resolved access level. Computed per request, not stored.
	Access AccessLevel `json:"access,omitempty"`
}
