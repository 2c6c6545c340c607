package converter

import (
	"context"
	"fmt"
	"strings"
	"time"

	models "noteshare/internal/domain/models/docsystem"
	docsysSvc "noteshare/internal/domain/services/docsystem"
)

// markdownRenderer exports the stored markdown, optionally behind a YAML
// front matter block.
type markdownRenderer struct{}

// NewMarkdownRenderer creates a markdown renderer
func NewMarkdownRenderer() docsysSvc.DocumentRenderer {
	return &markdownRenderer{}
}

// Render returns the content unchanged, or with front matter when requested
func (r *markdownRenderer) Render(ctx context.Context, doc *models.Document, opts docsysSvc.RenderOptions) ([]byte, error) {
	if !opts.IncludeMetadata {
		return []byte(doc.Content), nil
	}
	return []byte(frontMatter(doc) + doc.Content), nil
}

func (r *markdownRenderer) Format() docsysSvc.ExportFormat { return docsysSvc.ExportMarkdown }

func (r *markdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }

// frontMatter builds the metadata header shared by the text formats
func frontMatter(doc *models.Document) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", doc.Title)
	fmt.Fprintf(&b, "created: %s\n", doc.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "updated: %s\n", doc.UpdatedAt.UTC().Format(time.RFC3339))
	b.WriteString("---\n\n")
	return b.String()
}
