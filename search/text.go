package search

import "strings"

// excerptRuneLimit is the maximum excerpt length in runes.
const excerptRuneLimit = 200

// truncateExcerpt cuts text to at most limit runes, appending an ellipsis
// when anything was removed. Cutting happens on rune boundaries so
// multi-byte text is never split mid-character.
func truncateExcerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
