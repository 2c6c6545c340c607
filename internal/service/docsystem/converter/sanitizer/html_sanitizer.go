// Package sanitizer cleans HTML produced from user-authored markdown.
package sanitizer

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer holds the policy applied to exported HTML documents.
// Safe for concurrent use once built.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer starts from bluemonday's UGC policy and widens it just
// enough for what goldmark's GFM output needs.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()

	// Fenced code blocks carry their language as a class
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code")

	// GFM task lists render as disabled checkboxes
	policy.AllowAttrs("type").Matching(bluemonday.SpaceSeparatedTokens).OnElements("input")
	policy.AllowAttrs("checked", "disabled").OnElements("input")

	// Exports are opened outside the app; links must not hand it an opener
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnFullyQualifiedLinks(true)

	return &HTMLSanitizer{policy: policy}
}

// Sanitize returns html with scripts, event handlers and unsafe URLs removed
func (s *HTMLSanitizer) Sanitize(html []byte) []byte {
	return s.policy.SanitizeBytes(html)
}
