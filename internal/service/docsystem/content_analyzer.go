package docsystem

import (
	"regexp"
	"strings"
	"unicode"

	docsysSvc "noteshare/internal/domain/services/docsystem"
)

var (
	linkPattern     = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	orderedListItem = regexp.MustCompile(`^\d+[.)]\s+`)
)

type contentAnalyzerService struct{}

// NewContentAnalyzer creates a new content analyzer service
func NewContentAnalyzer() docsysSvc.ContentAnalyzer {
	return &contentAnalyzerService{}
}

// CountWords counts whitespace-separated words of the cleaned text
func (s *contentAnalyzerService) CountWords(markdown string) int {
	return len(strings.FieldsFunc(s.CleanMarkdown(markdown), unicode.IsSpace))
}

// CleanMarkdown removes markdown syntax but keeps line structure, so the
// result doubles as the plain-text export.
func (s *contentAnalyzerService) CleanMarkdown(markdown string) string {
	text := strings.ReplaceAll(markdown, "\r\n", "\n")
	text = removeCodeFences(text)

	// Links and images keep their label
	text = linkPattern.ReplaceAllString(text, "$1")

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)

		switch {
		case line == "---" || line == "***" || line == "___":
			line = ""
		case strings.HasPrefix(line, "#"):
			line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		case strings.HasPrefix(line, ">"):
			line = strings.TrimSpace(strings.TrimLeft(line, ">"))
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), strings.HasPrefix(line, "+ "):
			line = line[2:]
		default:
			line = orderedListItem.ReplaceAllString(line, "")
		}

		for _, marker := range []string{"**", "__", "~~", "`", "*"} {
			line = strings.ReplaceAll(line, marker, "")
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// removeCodeFences drops the ``` fence lines and keeps the code itself
func removeCodeFences(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
