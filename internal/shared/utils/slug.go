package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// SlugFallback is used when a title normalizes to nothing usable.
const SlugFallback = "media"

// GenerateSlug normalizes a title into a URL-safe base slug.
// "My Vacation #3!" → "my-vacation-3". An empty result falls back
// to SlugFallback so every item gets an addressable slug.
func GenerateSlug(title string) string {
	lower := strings.ToLower(strings.TrimSpace(title))

	// Spaces and underscores become hyphens before stripping.
	hyphenated := strings.NewReplacer(" ", "-", "_", "-").Replace(lower)

	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")
	normalized := slugHyphenRuns.ReplaceAllString(cleaned, "-")
	trimmed := strings.Trim(normalized, "-")

	if trimmed == "" {
		return SlugFallback
	}
	return trimmed
}
