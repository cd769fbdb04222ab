package result

import "github.com/kailas-cloud/opsmap/internal/domain/entity"

// Flat is the serialized shape of a result. For each axis at most one of
// Portal*/Context* is set: the result's own kind (and an action's parent
// process) is a portal, everything else is context.
type Flat struct {
	ID             string            `json:"id"`
	Type           entity.Kind       `json:"type"`
	Title          string            `json:"title"`
	Snippet        string            `json:"snippet"`
	Href           string            `json:"href"`
	ActionSequence *int              `json:"actionSequence"`
	PortalProcess  *entity.PortalRef `json:"portalProcess"`
	PortalRole     *entity.PortalRef `json:"portalRole"`
	PortalSystem   *entity.PortalRef `json:"portalSystem"`
	ContextProcess *entity.PortalRef `json:"contextProcess"`
	ContextRole    *entity.PortalRef `json:"contextRole"`
	ContextSystem  *entity.PortalRef `json:"contextSystem"`
}

// Flatten converts a result variant into its wire shape.
func Flatten(r Result) Flat {
	h := r.Common()
	f := Flat{ID: h.ID, Type: r.Kind(), Title: h.Title, Snippet: h.Snippet, Href: h.Href}
	switch v := r.(type) {
	case *ProcessResult:
		f.PortalProcess = v.Process
		f.ContextRole = v.Role
		f.ContextSystem = v.System
	case *RoleResult:
		f.PortalRole = v.Role
		f.ContextProcess = v.Process
		f.ContextSystem = v.System
	case *SystemResult:
		f.PortalSystem = v.System
		f.ContextProcess = v.Process
		f.ContextRole = v.Role
	case *ActionResult:
		if v.Parent != nil {
			seq := v.Sequence
			f.ActionSequence = &seq
			f.PortalProcess = v.Parent
		}
		f.ContextRole = v.Role
		f.ContextSystem = v.System
	}
	return f
}

// FlattenAll converts a slice of results, never returning nil.
func FlattenAll(rs []Result) []Flat {
	out := make([]Flat, 0, len(rs))
	for _, r := range rs {
		out = append(out, Flatten(r))
	}
	return out
}

// Reconstruct rebuilds a result variant from its wire shape (e.g. a cache entry).
// Unknown types return nil.
func Reconstruct(f Flat) Result {
	h := Hit{ID: f.ID, Title: f.Title, Snippet: f.Snippet, Href: f.Href}
	switch f.Type {
	case entity.Process:
		return &ProcessResult{Hit: h, Process: f.PortalProcess, Role: f.ContextRole, System: f.ContextSystem}
	case entity.Role:
		return &RoleResult{Hit: h, Role: f.PortalRole, Process: f.ContextProcess, System: f.ContextSystem}
	case entity.System:
		return &SystemResult{Hit: h, System: f.PortalSystem, Process: f.ContextProcess, Role: f.ContextRole}
	case entity.Action:
		a := &ActionResult{Hit: h, Parent: f.PortalProcess, Role: f.ContextRole, System: f.ContextSystem}
		if f.ActionSequence != nil {
			a.Sequence = *f.ActionSequence
		}
		return a
	}
	return nil
}
