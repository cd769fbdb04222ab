package search

import (
	"strings"
	"unicode"

	"github.com/kailas-cloud/opsmap/internal/domain/richtext"
	"github.com/kailas-cloud/opsmap/internal/domain/search/query"
)

// Snippet window shape: context kept before the match and the minimum kept after it.
const (
	defaultSnippetLength = 180
	snippetLeadRunes     = 55
	snippetTailRunes     = 80
	ellipsis             = "..."
)

// buildSnippet extracts the plain text of body and returns an excerpt of
// roughly maxLength runes centred on the first query match. The window is
// skewed towards text after the match.
func buildSnippet(body, q string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = defaultSnippetLength
	}

	text := richtext.ExtractText(body)
	if text == "" {
		return ""
	}
	runes := []rune(text)

	normalized := query.Normalize(q)
	if normalized == "" {
		return truncate(runes, maxLength)
	}

	candidates := append([]string{normalized}, strings.Fields(normalized)...)
	lowered := lowerRunes(runes)

	matchIndex, matchLen := -1, 0
	for _, c := range candidates {
		needle := lowerRunes([]rune(c))
		if idx := indexRunes(lowered, needle); idx >= 0 {
			matchIndex, matchLen = idx, len(needle)
			break
		}
	}
	if matchIndex < 0 {
		return truncate(runes, maxLength)
	}

	start := max(0, matchIndex-snippetLeadRunes)
	end := min(len(runes), max(start+maxLength, matchIndex+matchLen+snippetTailRunes))

	excerpt := strings.TrimSpace(string(runes[start:end]))
	if start > 0 {
		excerpt = ellipsis + excerpt
	}
	if end < len(runes) {
		excerpt += ellipsis
	}
	return excerpt
}

func truncate(runes []rune, maxLength int) string {
	if len(runes) <= maxLength {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:maxLength])) + ellipsis
}

// lowerRunes lowercases rune by rune so indexes stay aligned with the original text.
func lowerRunes(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, r := range needle {
			if haystack[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}
