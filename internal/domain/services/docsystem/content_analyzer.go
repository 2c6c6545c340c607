package docsystem

// ContentAnalyzer derives plain-text facts from markdown content
type ContentAnalyzer interface {
	// CountWords counts words in markdown content
	CountWords(markdown string) int

	// CleanMarkdown strips markdown syntax, leaving readable text
	CleanMarkdown(markdown string) string
}
