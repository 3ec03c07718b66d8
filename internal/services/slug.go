package services

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w-]+`)
	dashRuns     = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a title into a URL path segment: lowercase, whitespace runs
// become "-", anything outside [A-Za-z0-9_-] is dropped, dash runs collapse and
// edge dashes are trimmed. A title with no word characters gives "".
func Slugify(title string) string {
	s := strings.Join(strings.Fields(strings.ToLower(title)), "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
