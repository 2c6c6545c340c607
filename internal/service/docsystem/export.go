package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"noteshare/internal/domain"
	models "noteshare/internal/domain/models/docsystem"
	"noteshare/internal/domain/repositories"
	"noteshare/internal/domain/services"
	docsysSvc "noteshare/internal/domain/services/docsystem"
	"noteshare/internal/service/docsystem/converter"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-z0-9]+`)

// exportService implements the ExportService interface
type exportService struct {
	txManager  repositories.TransactionManager
	authorizer services.DocumentAuthorizer
	renderers  *converter.RendererRegistry
	logger     *slog.Logger
}

// NewExportService creates a new export service
func NewExportService(
	txManager repositories.TransactionManager,
	authorizer services.DocumentAuthorizer,
	renderers *converter.RendererRegistry,
	logger *slog.Logger,
) docsysSvc.ExportService {
	return &exportService{
		txManager:  txManager,
		authorizer: authorizer,
		renderers:  renderers,
		logger:     logger,
	}
}

// ExportDocument renders a readable document as a downloadable file
func (s *exportService) ExportDocument(ctx context.Context, userID, documentID int64, format docsysSvc.ExportFormat, opts docsysSvc.RenderOptions) (*docsysSvc.ExportedFile, error) {
	ctx, span := tracer.Start(ctx, "ExportService.ExportDocument",
		trace.WithAttributes(
			attribute.Int64("document.id", documentID),
			attribute.String("export.format", string(format)),
		))
	defer span.End()

	renderer, err := s.renderers.Get(string(format))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var doc *models.Document
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		d, _, err := s.authorizer.Authorize(txCtx, services.ActionRead, documentID, userID, false)
		doc = d
		return err
	})
	if err != nil {
		return nil, recordError(span, err)
	}

	body, err := renderer.Render(ctx, doc, opts)
	if err != nil {
		return nil, recordError(span, fmt.Errorf("render %s: %w", renderer.Format(), err))
	}

	s.logger.Debug("document exported",
		"id", documentID,
		"user_id", userID,
		"format", renderer.Format(),
		"bytes", len(body),
	)

	return &docsysSvc.ExportedFile{
		FileName:    exportFileName(doc.Title, renderer.Format(), opts.IncludeMetadata, time.Now().UTC()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// exportFileName lower-cases the title and replaces everything but ASCII
// letters and digits with underscores. Exports with metadata carry the date.
func exportFileName(title string, format docsysSvc.ExportFormat, dated bool, now time.Time) string {
	base := strings.Trim(unsafeFileNameChars.ReplaceAllString(strings.ToLower(title), "_"), "_")
	if base == "" {
		base = "document"
	}
	if dated {
		base += "_" + now.Format("2006-01-02")
	}
	return base + "." + string(format)
}
