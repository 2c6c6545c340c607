package docsystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"noteshare/internal/domain"
	"noteshare/internal/domain/models"
	docmodels "noteshare/internal/domain/models/docsystem"
	"noteshare/internal/domain/repositories"
	docsysRepo "noteshare/internal/domain/repositories/docsystem"
	"noteshare/internal/domain/services"
	docsysSvc "noteshare/internal/domain/services/docsystem"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// collaboratorService implements the CollaboratorService interface
type collaboratorService struct {
	collabRepo docsysRepo.CollaboratorRepository
	userRepo   repositories.UserRepository
	txManager  repositories.TransactionManager
	authorizer services.DocumentAuthorizer
	publisher  services.EventPublisher
	logger     *slog.Logger
}

// NewCollaboratorService creates a new collaborator service
func NewCollaboratorService(
	collabRepo docsysRepo.CollaboratorRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	authorizer services.DocumentAuthorizer,
	publisher services.EventPublisher,
	logger *slog.Logger,
) docsysSvc.CollaboratorService {
	return &collaboratorService{
		collabRepo: collabRepo,
		userRepo:   userRepo,
		txManager:  txManager,
		authorizer: authorizer,
		publisher:  publisher,
		logger:     logger,
	}
}

// AddOrUpdateCollaborator grants or changes a user's access. The target is
// resolved only after the caller is known to own the document, so strangers
// cannot learn which accounts exist.
func (s *collaboratorService) AddOrUpdateCollaborator(ctx context.Context, ownerID, documentID int64, req *docsysSvc.ShareRequest) (*docmodels.Collaborator, error) {
	ctx, span := tracer.Start(ctx, "CollaboratorService.AddOrUpdateCollaborator",
		trace.WithAttributes(attribute.Int64("document.id", documentID)))
	defer span.End()

	req.Email = strings.TrimSpace(req.Email)
	if err := validateShareRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var collab *docmodels.Collaborator
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		doc, _, err := s.authorizer.Authorize(txCtx, services.ActionManageCollaborators, documentID, ownerID, true)
		if err != nil {
			return err
		}

		target, err := s.resolveTarget(txCtx, req)
		if err != nil {
			return err
		}
		if target.ID == doc.OwnerID {
			return fmt.Errorf("%w: the owner cannot be added as a collaborator", domain.ErrValidation)
		}

		now := time.Now().UTC()
		collab = &docmodels.Collaborator{
			DocumentID:      documentID,
			UserID:          target.ID,
			PermissionLevel: req.PermissionLevel,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		return s.collabRepo.Upsert(txCtx, collab)
	})
	if err != nil {
		return nil, recordError(span, err)
	}

	s.logger.Info("collaborator upserted",
		"document_id", documentID,
		"user_id", collab.UserID,
		"permission_level", collab.PermissionLevel,
		"owner_id", ownerID,
	)

	s.publish(ctx, services.CollaboratorEvent{
		Type:            services.CollaboratorUpserted,
		DocumentID:      documentID,
		UserID:          collab.UserID,
		ActorID:         ownerID,
		PermissionLevel: string(collab.PermissionLevel),
		OccurredAt:      collab.UpdatedAt,
	})

	return collab, nil
}

// RemoveCollaborator revokes a grant. Targeting the owner is a no-op.
func (s *collaboratorService) RemoveCollaborator(ctx context.Context, ownerID, documentID, targetUserID int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "CollaboratorService.RemoveCollaborator",
		trace.WithAttributes(attribute.Int64("document.id", documentID)))
	defer span.End()

	var removed bool
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		doc, _, err := s.authorizer.Authorize(txCtx, services.ActionManageCollaborators, documentID, ownerID, true)
		if err != nil {
			return err
		}
		if targetUserID == doc.OwnerID {
			removed = false
			return nil
		}

		removed, err = s.collabRepo.Delete(txCtx, documentID, targetUserID)
		return err
	})
	if err != nil {
		return false, recordError(span, err)
	}

	if !removed {
		return false, nil
	}

	s.logger.Info("collaborator removed",
		"document_id", documentID,
		"user_id", targetUserID,
		"owner_id", ownerID,
	)

	s.publish(ctx, services.CollaboratorEvent{
		Type:       services.CollaboratorRemoved,
		DocumentID: documentID,
		UserID:     targetUserID,
		ActorID:    ownerID,
		OccurredAt: time.Now().UTC(),
	})

	return true, nil
}

// ListCollaborators lists grants for anyone who can read the document
func (s *collaboratorService) ListCollaborators(ctx context.Context, requesterID, documentID int64) ([]docmodels.Collaborator, error) {
	ctx, span := tracer.Start(ctx, "CollaboratorService.ListCollaborators",
		trace.WithAttributes(attribute.Int64("document.id", documentID)))
	defer span.End()

	var collabs []docmodels.Collaborator
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, _, err := s.authorizer.Authorize(txCtx, services.ActionRead, documentID, requesterID, false); err != nil {
			return err
		}

		var err error
		collabs, err = s.collabRepo.ListByDocument(txCtx, documentID)
		return err
	})
	if err != nil {
		return nil, recordError(span, err)
	}

	return collabs, nil
}

func (s *collaboratorService) resolveTarget(ctx context.Context, req *docsysSvc.ShareRequest) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	if req.UserID > 0 {
		user, err = s.userRepo.GetByID(ctx, req.UserID)
	} else {
		user, err = s.userRepo.GetByEmail(ctx, req.Email)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{ResourceType: "user"}
		}
		return nil, fmt.Errorf("collaborator target: %w", err)
	}
	return user, nil
}

// publish delivers an event after commit. Failures are logged and dropped.
func (s *collaboratorService) publish(ctx context.Context, event services.CollaboratorEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishCollaboratorEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish collaborator event",
			"type", event.Type,
			"document_id", event.DocumentID,
			"user_id", event.UserID,
			"error", err,
		)
	}
}

func validateShareRequest(req *docsysSvc.ShareRequest) error {
	if (req.UserID > 0) == (req.Email != "") {
		return fmt.Errorf("exactly one of user_id or email is required")
	}

	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Min(int64(0))),
		validation.Field(&req.Email, is.EmailFormat),
		validation.Field(&req.PermissionLevel,
			validation.Required,
			validation.In(docmodels.PermissionRead, docmodels.PermissionWrite).Error("must be read or write"),
		),
	)
}
