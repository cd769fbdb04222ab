package search

import (
	"strings"

	"github.com/kailas-cloud/opsmap/internal/domain/search/query"
)

// Title match ranks, best first.
const (
	rankExact = iota
	rankPrefix
	rankSubstring
	rankAllTokens
	rankAnyToken
	rankNoMatch
)

// scoreTitleRank grades how specifically title matches the query (lower is better).
// An empty query ranks every title rankNoMatch; the service rejects short
// queries before scoring, so that branch only matters for direct callers.
func scoreTitleRank(title, normalizedQuery string, tokens []string) int {
	if normalizedQuery == "" {
		return rankNoMatch
	}
	t := query.Normalize(title)
	switch {
	case t == normalizedQuery:
		return rankExact
	case strings.HasPrefix(t, normalizedQuery):
		return rankPrefix
	case strings.Contains(t, normalizedQuery):
		return rankSubstring
	}

	matched := tokenCoverage(t, tokens)
	switch {
	case len(tokens) > 0 && matched == len(tokens):
		return rankAllTokens
	case matched > 0:
		return rankAnyToken
	}
	return rankNoMatch
}

// tokenCoverage counts distinct tokens that occur in text. Tokens are expected lowercased.
func tokenCoverage(text string, tokens []string) int {
	lowered := strings.ToLower(text)
	n := 0
	for _, tok := range tokens {
		if tok != "" && strings.Contains(lowered, tok) {
			n++
		}
	}
	return n
}
