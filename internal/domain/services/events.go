package services

import (
	"context"
	"time"
)

// CollaboratorEventType names a change to a document's collaborator list
type CollaboratorEventType string

const (
	CollaboratorUpserted CollaboratorEventType = "collaborator.upserted"
	CollaboratorRemoved  CollaboratorEventType = "collaborator.removed"
)

// CollaboratorEvent is published after a collaborator change has been committed.
type CollaboratorEvent struct {
	Type            CollaboratorEventType `json:"type"`
	DocumentID      int64                 `json:"document_id"`
	UserID          int64                 `json:"user_id"`
	ActorID         int64                 `json:"actor_id"`
	PermissionLevel string                `json:"permission_level,omitempty"`
	OccurredAt      time.Time             `json:"occurred_at"`
}

// EventPublisher delivers domain events to downstream consumers (notifications).
// Publishing is best effort: callers log failures and never fail the request.
type EventPublisher interface {
	PublishCollaboratorEvent(ctx context.Context, event CollaboratorEvent) error
	Close() error
}
