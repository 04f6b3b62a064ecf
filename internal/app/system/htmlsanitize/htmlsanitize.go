// Package htmlsanitize strips unsafe HTML from user-supplied text
// before it is stored or rendered. Used for the admin's request-info
// message and the public contact form fields.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

var strict = bluemonday.StrictPolicy()

// Sanitize keeps user-generated-content-safe markup (paragraphs,
// emphasis, safe links) and removes scripts, event handlers, and
// javascript: URLs.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}

// PlainText strips ALL markup, leaving only text. Used where the value
// is stored as data rather than rendered as HTML.
func PlainText(s string) string {
	return strict.Sanitize(s)
}
