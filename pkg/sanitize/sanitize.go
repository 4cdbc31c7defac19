package sanitize

import (
	"regexp"
	"strings"
)

// tagPattern matches an opening angle bracket up to and including the next
// closing bracket, or to the end of input when none follows.
var tagPattern = regexp.MustCompile(`<[^>]*>?`)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// Text strips HTML tags and escapes special characters so the value is safe
// to store and to interpolate into generated output. The entity forms match
// the ones already present in persisted records and must not change.
func Text(s string) string {
	return escaper.Replace(tagPattern.ReplaceAllString(s, ""))
}

// TrimmedText applies Text after trimming surrounding whitespace.
func TrimmedText(s string) string {
	return Text(strings.TrimSpace(s))
}
