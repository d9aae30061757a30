package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips all markup from free-text fields before they reach
// the store. Text content is kept.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a strip-everything sanitizer
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean strips markup and trims surrounding whitespace
func (s *Sanitizer) Clean(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(text))
}
