package service

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL-safe slug: lowercase, runs of non-alphanumeric
// characters collapsed to "-", leading and trailing "-" stripped.
func slugify(s string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}
