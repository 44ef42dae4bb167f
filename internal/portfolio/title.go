package portfolio

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// NormalizeTitle is the write-boundary transform: titles are stored
// lower-cased. The matching read-boundary transform is DisplayTitle.
func NormalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DisplayTitle renders a stored (lower-cased) title for presentation,
// capitalizing each word. Non-ASCII input passes through the same
// Unicode-aware casing, so "über bau" becomes "Über Bau".
func DisplayTitle(s string) string {
	return titleCaser.String(s)
}
