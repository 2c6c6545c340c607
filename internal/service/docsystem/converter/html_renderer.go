package converter

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	models "noteshare/internal/domain/models/docsystem"
	docsysSvc "noteshare/internal/domain/services/docsystem"
	"noteshare/internal/service/docsystem/converter/sanitizer"
)

var pageTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { max-width: 800px; margin: 40px auto; padding: 0 20px; font-family: -apple-system, system-ui, sans-serif; line-height: 1.6; }
pre { background: #f5f5f5; padding: 1em; overflow-x: auto; }
img { max-width: 100%; }
</style>
</head>
<body>
{{- if .IncludeMetadata}}
<header>
<h1>{{.Title}}</h1>
<p><small>Created {{.Created}} · Updated {{.Updated}}</small></p>
</header>
{{- end}}
{{.Body}}
</body>
</html>
`))

// htmlRenderer renders markdown to a standalone HTML page in two stages:
// goldmark converts, then the sanitizer strips anything unsafe that raw HTML
// in the markdown smuggled in.
type htmlRenderer struct {
	markdown  goldmark.Markdown
	sanitizer *sanitizer.HTMLSanitizer
}

// NewHTMLRenderer creates an HTML renderer with GitHub-flavoured markdown
func NewHTMLRenderer() docsysSvc.DocumentRenderer {
	return &htmlRenderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		sanitizer: sanitizer.NewHTMLSanitizer(),
	}
}

// Render converts, sanitizes and wraps the document body
func (r *htmlRenderer) Render(ctx context.Context, doc *models.Document, opts docsysSvc.RenderOptions) ([]byte, error) {
	var converted bytes.Buffer
	if err := r.markdown.Convert([]byte(doc.Content), &converted); err != nil {
		return nil, fmt.Errorf("failed to convert markdown: %w", err)
	}

	body := r.sanitizer.Sanitize(converted.Bytes())

	var page bytes.Buffer
	err := pageTemplate.Execute(&page, struct {
		Title           string
		Created         string
		Updated         string
		IncludeMetadata bool
		Body            template.HTML
	}{
		Title:           doc.Title,
		Created:         doc.CreatedAt.UTC().Format(time.RFC3339),
		Updated:         doc.UpdatedAt.UTC().Format(time.RFC3339),
		IncludeMetadata: opts.IncludeMetadata,
		Body:            template.HTML(body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}

	return page.Bytes(), nil
}

func (r *htmlRenderer) Format() docsysSvc.ExportFormat { return docsysSvc.ExportHTML }

func (r *htmlRenderer) ContentType() string { return "text/html; charset=utf-8" }
