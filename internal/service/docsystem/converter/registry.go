package converter

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	docsysSvc "noteshare/internal/domain/services/docsystem"
)

// RendererRegistry routes export requests to the renderer for a format.
//
// Thread-safe for concurrent access.
type RendererRegistry struct {
	mu        sync.RWMutex
	renderers map[docsysSvc.ExportFormat]docsysSvc.DocumentRenderer
}

// NewRendererRegistry creates a registry with the markdown, html and text
// renderers pre-registered.
func NewRendererRegistry(analyzer docsysSvc.ContentAnalyzer) *RendererRegistry {
	registry := &RendererRegistry{
		renderers: make(map[docsysSvc.ExportFormat]docsysSvc.DocumentRenderer),
	}

	registry.Register(NewMarkdownRenderer())
	registry.Register(NewHTMLRenderer())
	registry.Register(NewTextRenderer(analyzer))

	return registry
}

// Register adds or replaces the renderer for its format
func (r *RendererRegistry) Register(renderer docsysSvc.DocumentRenderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[renderer.Format()] = renderer
}

// Get returns the renderer for format. Lookup is case-insensitive and accepts
// "markdown" and "text" as aliases.
func (r *RendererRegistry) Get(format string) (docsysSvc.DocumentRenderer, error) {
	normalized := docsysSvc.ExportFormat(strings.ToLower(strings.TrimSpace(format)))
	switch normalized {
	case "markdown":
		normalized = docsysSvc.ExportMarkdown
	case "text":
		normalized = docsysSvc.ExportText
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[normalized]
	if !ok {
		return nil, fmt.Errorf("unsupported export format: %q", format)
	}
	return renderer, nil
}

// Formats returns the registered formats, sorted
func (r *RendererRegistry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.renderers))
	for format := range r.renderers {
		formats = append(formats, string(format))
	}
	sort.Strings(formats)
	return formats
}
