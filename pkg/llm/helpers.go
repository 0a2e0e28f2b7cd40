package llm

import (
	"regexp"
	"strings"
)

const maxMetaChars = 160

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from a title: lowercase, runs
// of anything outside [a-z0-9] collapse to a single hyphen, no leading
// or trailing hyphen. "Café & Co." becomes "caf-co".
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func clipMeta(meta string) string {
	meta = strings.TrimSpace(meta)
	runes := []rune(meta)
	if len(runes) <= maxMetaChars {
		return meta
	}
	return strings.TrimSpace(string(runes[:maxMetaChars]))
}
