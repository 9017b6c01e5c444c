// Package sanitize strips markup from user-supplied free text before it is
// validated or persisted.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from input and trims surrounding whitespace. The
// policy escapes entities it leaves behind, so the result is unescaped back to
// plain text for storage; output encoding is the renderer's job.
func Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(input)))
}

// Truncate shortens s to at most max runes.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
