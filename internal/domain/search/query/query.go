// Package query normalizes and tokenizes free-text search input.
package query

import "strings"

// Normalize lowercases q, trims it and collapses inner whitespace.
func Normalize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// Tokens splits an already-normalized query into distinct tokens, first occurrence first.
func Tokens(normalized string) []string {
	fields := strings.Fields(normalized)
	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// EscapeLike escapes LIKE wildcards in s using backslash as the escape character.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// PrefixPattern builds a case-insensitive "s%" LIKE pattern for s.
func PrefixPattern(s string) string {
	return EscapeLike(strings.ToLower(s)) + "%"
}

// ContainsPattern builds a case-insensitive "%s%" LIKE pattern for s.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(strings.ToLower(s)) + "%"
}
