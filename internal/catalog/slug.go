package catalog

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify derives a URL-safe slug from a human-readable name: trims
// surrounding whitespace, lowercases, and collapses each run of inner
// whitespace into a single hyphen. No transliteration or punctuation
// stripping is performed. Idempotent on already-slugified ASCII input.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	return whitespaceRun.ReplaceAllString(slug, "-")
}
