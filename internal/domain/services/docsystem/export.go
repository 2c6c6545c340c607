package docsystem

import (
	"context"

	"noteshare/internal/domain/models/docsystem"
)

// ExportFormat is a downloadable rendering of a document
type ExportFormat string

const (
	ExportMarkdown ExportFormat = "md"
	ExportHTML     ExportFormat = "html"
	ExportText     ExportFormat = "txt"
)

// ExportedFile is a rendered document ready to be sent as an attachment
type ExportedFile struct {
	FileName    string
	ContentType string
	Body        []byte
}

// DocumentRenderer renders a document into one export format.
// Implementations must be safe for concurrent use.
type DocumentRenderer interface {
	Render(ctx context.Context, doc *docsystem.Document, opts RenderOptions) ([]byte, error)

	// Format returns the export format handled by this renderer
	Format() ExportFormat

	// ContentType returns the MIME type of the rendered output
	ContentType() string
}

// RenderOptions tune a rendering
type RenderOptions struct {
	IncludeMetadata bool // Prepend title and timestamps
}

// ExportService renders documents the caller can read
type ExportService interface {
	ExportDocument(ctx context.Context, userID, documentID int64, format ExportFormat, opts RenderOptions) (*ExportedFile, error)
}
