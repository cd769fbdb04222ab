package search

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/opsmap/internal/domain/search/result"
)

// scored pairs a result with its ranking signals. Signals never leave the package.
type scored struct {
	res             result.Result
	titleRank       int
	titleCoverage   int
	snippetCoverage int
	sortTitle       string
}

// rankResults orders candidates by title rank, title coverage, snippet
// coverage, kind priority and case-insensitive title, then truncates to limit.
func rankResults(candidates []scored, limit int) []result.Result {
	sort.SliceStable(candidates, func(i, j int) bool {
		return less(&candidates[i], &candidates[j])
	})

	if limit >= 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]result.Result, len(candidates))
	for i := range candidates {
		out[i] = candidates[i].res
	}
	return out
}

func less(a, b *scored) bool {
	if a.titleRank != b.titleRank {
		return a.titleRank < b.titleRank
	}
	if a.titleCoverage != b.titleCoverage {
		return a.titleCoverage > b.titleCoverage
	}
	if a.snippetCoverage != b.snippetCoverage {
		return a.snippetCoverage > b.snippetCoverage
	}
	pa, pb := a.res.Kind().Priority(), b.res.Kind().Priority()
	if pa != pb {
		return pa < pb
	}
	if a.sortTitle != b.sortTitle {
		return a.sortTitle < b.sortTitle
	}
	return a.res.Common().ID < b.res.Common().ID
}

func newScored(res result.Result, normalizedQuery string, tokens []string) scored {
	h := res.Common()
	return scored{
		res:             res,
		titleRank:       scoreTitleRank(h.Title, normalizedQuery, tokens),
		titleCoverage:   tokenCoverage(h.Title, tokens),
		snippetCoverage: tokenCoverage(h.Snippet, tokens),
		sortTitle:       strings.ToLower(h.Title),
	}
}
