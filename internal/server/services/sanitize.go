package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// plainText strips markup from user-supplied display text and returns it
// unescaped and trimmed, so "Ana <b>Silva</b>" is stored as "Ana Silva".
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
