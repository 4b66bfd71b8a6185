// Package htmlsanitize strips unsafe HTML from user-provided text before
// it is stored. Post bodies and comments accept a small UGC subset;
// everything else (titles, descriptions) is reduced to plain text.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans user-generated content, keeping basic formatting tags
// (links, emphasis, lists) and stripping scripts and event handlers.
func Sanitize(s string) string {
	return ugcPolicy.Sanitize(s)
}

// PlainText strips all HTML, leaving only text content.
func PlainText(s string) string {
	return strictPolicy.Sanitize(s)
}
