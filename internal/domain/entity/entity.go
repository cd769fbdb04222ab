package entity

import (
	"strings"
	"unicode"
)

// Field selects which column a free-text filter runs against.
type Field string

// Searchable fields.
const (
	FieldTitle Field = "title"
	FieldBody  Field = "body"
)

// Row is a single searchable hit as returned by the store.
// Body is either plain text or a serialized rich document.
type Row struct {
	Kind  Kind
	ID    string
	Slug  string
	Title string
	Body  string
}

// Key returns the (kind, id) identity of the row.
func (r Row) Key() Key { return Key{Kind: r.Kind, ID: r.ID} }

// Link is an action's linkage to its parent process, owning role and system.
type Link struct {
	ID        string
	Sequence  int
	ProcessID string
	RoleID    string
	SystemID  string
}

// PortalRef is a minimal navigable handle for an entity's detail page.
type PortalRef struct {
	ID       string `json:"-"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Initials string `json:"initials,omitempty"`
}

// Initials derives up to two uppercase initials from a display name.
func Initials(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
		if b.Len() > 0 && len([]rune(b.String())) == 2 {
			break
		}
	}
	return b.String()
}
