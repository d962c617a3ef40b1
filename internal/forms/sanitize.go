package forms

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from visitor input before it reaches the sink.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds a sanitizer that removes every HTML element.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Value cleans a single value.
func (s *Sanitizer) Value(v string) string {
	if s == nil || s.policy == nil {
		return strings.TrimSpace(v)
	}
	// the policy escapes entities; the sink stores plain text
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}

// Values returns a cleaned copy of values.
func (s *Sanitizer) Values(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = s.Value(v)
	}
	return out
}
