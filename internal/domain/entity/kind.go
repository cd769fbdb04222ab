// Package entity holds the read-only projections the search pipeline works on.
package entity

// Kind identifies one of the four searchable entity types.
type Kind string

// Searchable entity kinds.
const (
	Process Kind = "process"
	Role    Kind = "role"
	System  Kind = "system"
	Action  Kind = "action"
)

// Kinds lists every searchable kind in priority order.
var Kinds = []Kind{Process, Role, System, Action}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case Process, Role, System, Action:
		return true
	}
	return false
}

// Priority orders equally scored results: processes first, actions last.
func (k Kind) Priority() int {
	switch k {
	case Process:
		return 0
	case Role:
		return 1
	case System:
		return 2
	case Action:
		return 3
	}
	return len(Kinds)
}

// ListingRoute is the generic listing page for the kind.
// Actions have no listing of their own and fall back to processes.
func (k Kind) ListingRoute() string {
	switch k {
	case Role:
		return "/roles"
	case System:
		return "/systems"
	default:
		return "/processes"
	}
}

// Key is a composite (kind, id) identity.
type Key struct {
	Kind Kind
	ID   string
}
