package request

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Search parameter limits.
const (
	// MinQueryLength is the shortest trimmed query that reaches the store.
	MinQueryLength = 2
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 256
	DefaultLimit   = 20
	MaxLimit       = 50
	// CandidateFactor scales the limit into the per-query row cap.
	CandidateFactor = 3
)

// Request is a normalized search query.
type Request struct {
	query string
	limit int
}

// New trims the query and resolves the limit.
// Non-positive limits fall back to DefaultLimit; limits above MaxLimit are clamped.
func New(query string, limit int) Request {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) > MaxQueryLength {
		query = string([]rune(query)[:MaxQueryLength])
	}
	return Request{query: query, limit: resolveLimit(limit)}
}

// ParseLimit parses a raw limit parameter. Empty, non-numeric and
// non-finite values yield DefaultLimit; fractional values are floored.
func ParseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLimit
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultLimit
	}
	f = math.Floor(f)
	if f > MaxLimit {
		return MaxLimit
	}
	return resolveLimit(int(f))
}

func resolveLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Query returns the trimmed query text.
func (r *Request) Query() string { return r.query }

// Limit returns the maximum number of results.
func (r *Request) Limit() int { return r.limit }

// CandidateLimit caps each upstream filter query.
func (r *Request) CandidateLimit() int { return r.limit * CandidateFactor }

// TooShort reports whether the query is below MinQueryLength and must not reach the store.
func (r *Request) TooShort() bool {
	return utf8.RuneCountInString(r.query) < MinQueryLength
}
