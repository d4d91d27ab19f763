package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var strict = sync.OnceValue(bluemonday.StrictPolicy)

// StripHTML drops every tag and returns the text content. Entities the
// policy escapes are decoded again so "Q&A" stays "Q&A".
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	return html.UnescapeString(strict().Sanitize(s))
}

// Line turns user input into a single display line: markup removed,
// any run of whitespace collapsed to one space, ends trimmed.
func Line(s string) string {
	return strings.Join(strings.Fields(StripHTML(s)), " ")
}
