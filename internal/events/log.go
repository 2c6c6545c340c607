package events

import (
	"context"
	"log/slog"

	"noteshare/internal/domain/services"
)

// LogPublisher writes events to the log instead of a broker. Used when no
// broker URL is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that logs at debug level
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// PublishCollaboratorEvent logs the event
func (p *LogPublisher) PublishCollaboratorEvent(ctx context.Context, event services.CollaboratorEvent) error {
	p.logger.DebugContext(ctx, "collaborator event",
		"type", event.Type,
		"document_id", event.DocumentID,
		"user_id", event.UserID,
		"actor_id", event.ActorID,
		"permission_level", event.PermissionLevel,
	)
	return nil
}

// Close is a no-op
func (p *LogPublisher) Close() error { return nil }
