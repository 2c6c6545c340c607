package converter

import (
	"context"
	"fmt"
	"time"

	models "noteshare/internal/domain/models/docsystem"
	docsysSvc "noteshare/internal/domain/services/docsystem"
)

// textRenderer strips markdown syntax to plain text
type textRenderer struct {
	analyzer docsysSvc.ContentAnalyzer
}

// NewTextRenderer creates a plain text renderer
func NewTextRenderer(analyzer docsysSvc.ContentAnalyzer) docsysSvc.DocumentRenderer {
	return &textRenderer{analyzer: analyzer}
}

// Render cleans the markdown; metadata becomes a short header
func (r *textRenderer) Render(ctx context.Context, doc *models.Document, opts docsysSvc.RenderOptions) ([]byte, error) {
	body := r.analyzer.CleanMarkdown(doc.Content)
	if !opts.IncludeMetadata {
		return []byte(body), nil
	}

	header := fmt.Sprintf("%s\nCreated: %s\nUpdated: %s\n\n",
		doc.Title,
		doc.CreatedAt.UTC().Format(time.RFC3339),
		doc.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return []byte(header + body), nil
}

func (r *textRenderer) Format() docsysSvc.ExportFormat { return docsysSvc.ExportText }

func (r *textRenderer) ContentType() string { return "text/plain; charset=utf-8" }
