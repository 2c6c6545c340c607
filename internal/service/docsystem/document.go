package docsystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"noteshare/internal/config"
	"noteshare/internal/domain"
	models "noteshare/internal/domain/models/docsystem"
	"noteshare/internal/domain/repositories"
	docsysRepo "noteshare/internal/domain/repositories/docsystem"
	"noteshare/internal/domain/services"
	docsysSvc "noteshare/internal/domain/services/docsystem"
	"noteshare/internal/service/auth"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("DocumentSystem.Service")

// documentService implements the DocumentService interface
type documentService struct {
	docRepo         docsysRepo.DocumentRepository
	collabRepo      docsysRepo.CollaboratorRepository
	txManager       repositories.TransactionManager
	authorizer      services.DocumentAuthorizer
	contentAnalyzer docsysSvc.ContentAnalyzer
	logger          *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo docsysRepo.DocumentRepository,
	collabRepo docsysRepo.CollaboratorRepository,
	txManager repositories.TransactionManager,
	authorizer services.DocumentAuthorizer,
	contentAnalyzer docsysSvc.ContentAnalyzer,
	logger *slog.Logger,
) docsysSvc.DocumentService {
	return &documentService{
		docRepo:         docRepo,
		collabRepo:      collabRepo,
		txManager:       txManager,
		authorizer:      authorizer,
		contentAnalyzer: contentAnalyzer,
		logger:          logger,
	}
}

// CreateDocument creates a document owned by req.OwnerID
func (s *documentService) CreateDocument(ctx context.Context, req *docsysSvc.CreateDocumentRequest) (*models.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.CreateDocument")
	defer span.End()

	if req.OwnerID <= 0 {
		return nil, domain.ErrUnauthorized
	}

	title := strings.TrimSpace(req.Title)
	if err := validateDocumentFields(&title, &req.Content); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now().UTC()
	doc := &models.Document{
		Title:     title,
		Content:   req.Content,
		OwnerID:   req.OwnerID,
		WordCount: s.contentAnalyzer.CountWords(req.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.docRepo.Create(txCtx, doc)
	})
	if err != nil {
		return nil, recordError(span, err)
	}
	doc.Access = models.AccessOwner

	span.SetAttributes(attribute.Int64("document.id", doc.ID))
	s.logger.Info("document created",
		"id", doc.ID,
		"owner_id", doc.OwnerID,
		"word_count", doc.WordCount,
	)

	return doc, nil
}

// ListDocuments returns owned and shared documents
func (s *documentService) ListDocuments(ctx context.Context, userID int64) ([]models.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.ListDocuments")
	defer span.End()

	var docs []models.Document
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		docs, err = s.docRepo.ListAccessible(txCtx, userID)
		return err
	})
	if err != nil {
		return nil, recordError(span, err)
	}

	span.SetAttributes(attribute.Int("documents.count", len(docs)))
	return docs, nil
}

// GetDocument retrieves a document the user can read
func (s *documentService) GetDocument(ctx context.Context, userID, documentID int64) (*models.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.GetDocument",
		trace.WithAttributes(attribute.Int64("document.id", documentID)))
	defer span.End()

	var doc *models.Document
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		d, grant, err := s.authorizer.Authorize(txCtx, services.ActionRead, documentID, userID, false)
		if err != nil {
			return err
		}
		d.Access = auth.Resolve(d, grant, userID)
		doc = d
		return nil
	})
	if err != nil {
		return nil, recordError(span, err)
	}

	return doc, nil
}

// UpdateDocument applies the supplied fields under a row lock
func (s *documentService) UpdateDocument(ctx context.Context, userID, documentID int64, req *docsysSvc.UpdateDocumentRequest) (*models.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.UpdateDocument",
		trace.WithAttributes(attribute.Int64("document.id", documentID)))
	defer span.End()

	var title *string
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		title = &trimmed
	}
	if err := validateDocumentFields(title, req.Content); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var doc *models.Document
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		d, grant, err := s.authorizer.Authorize(txCtx, services.ActionWrite, documentID, userID, true)
		if err != nil {
			return err
		}

		if title != nil {
			d.Title = *title
		}
		if req.Content != nil {
			d.Content = *req.Content
			d.WordCount = s.contentAnalyzer.CountWords(d.Content)
		}
		d.UpdatedAt = time.Now().UTC()

		if err := s.docRepo.Update(txCtx, d); err != nil {
			return err
		}

		d.Access = auth.Resolve(d, grant, userID)
		doc = d
		return nil
	})
	if err != nil {
		return nil, recordError(span, err)
	}

	s.logger.Info("document updated",
		"id", doc.ID,
		"user_id", userID,
		"title_changed", req.Title != nil,
		"content_changed", req.Content != nil,
	)

	return doc, nil
}

// DeleteDocument removes a document and its grants in one transaction.
// A document that does not exist reports false.
func (s *documentService) DeleteDocument(ctx context.Context, userID, documentID int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.DeleteDocument",
		trace.WithAttributes(attribute.Int64("document.id", documentID)))
	defer span.End()

	var (
		deleted bool
		revoked int64
	)
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, _, err := s.authorizer.Authorize(txCtx, services.ActionDelete, documentID, userID, true); err != nil {
			return err
		}

		var err error
		revoked, err = s.collabRepo.DeleteAllByDocument(txCtx, documentID)
		if err != nil {
			return err
		}

		deleted, err = s.docRepo.Delete(txCtx, documentID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, recordError(span, err)
	}

	s.logger.Info("document deleted",
		"id", documentID,
		"user_id", userID,
		"collaborators_removed", revoked,
	)

	return deleted, nil
}

// DuplicateDocument copies a readable document into a new one owned by userID
func (s *documentService) DuplicateDocument(ctx context.Context, userID, documentID int64) (*models.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.DuplicateDocument",
		trace.WithAttributes(attribute.Int64("document.id", documentID)))
	defer span.End()

	var doc *models.Document
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		source, _, err := s.authorizer.Authorize(txCtx, services.ActionRead, documentID, userID, false)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		doc = &models.Document{
			Title:     copyTitle(source.Title),
			Content:   source.Content,
			OwnerID:   userID,
			WordCount: source.WordCount,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return s.docRepo.Create(txCtx, doc)
	})
	if err != nil {
		return nil, recordError(span, err)
	}
	doc.Access = models.AccessOwner

	s.logger.Info("document duplicated",
		"id", doc.ID,
		"source_id", documentID,
		"owner_id", userID,
	)

	return doc, nil
}

// validateDocumentFields checks the fields that are present; nil means absent
func validateDocumentFields(title, content *string) error {
	if title != nil {
		err := validation.Validate(*title,
			validation.Required.Error("title is required"),
			validation.RuneLength(1, config.MaxDocumentTitleLength),
		)
		if err != nil {
			return fmt.Errorf("title: %w", err)
		}
	}
	if content != nil && len(*content) > config.MaxDocumentContentBytes {
		return fmt.Errorf("content: exceeds %d bytes", config.MaxDocumentContentBytes)
	}
	return nil
}

// copyTitle appends the copy suffix, trimming the original so the result still fits
func copyTitle(title string) string {
	limit := config.MaxDocumentTitleLength - utf8.RuneCountInString(config.CopyTitleSuffix)
	if utf8.RuneCountInString(title) > limit {
		title = string([]rune(title)[:limit])
	}
	return title + config.CopyTitleSuffix
}

// recordError marks the span failed for unexpected errors and returns err.
// Authorization and lookup outcomes are expected and left unmarked.
func recordError(span trace.Span, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrValidation):
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
