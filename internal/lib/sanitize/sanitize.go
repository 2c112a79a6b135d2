package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy removes all tags and attributes.
var StrictPolicy = bluemonday.StrictPolicy()

// Text strips HTML from user input and returns plain text. Entities that the
// policy escapes are decoded again so "Q&A" is stored as typed.
func Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(StrictPolicy.Sanitize(input)))
}
