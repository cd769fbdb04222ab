package result

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kailas-cloud/opsmap/internal/domain/entity"
)

func TestFlatten_PortalAndContextAreExclusive(t *testing.T) {
	role := &entity.PortalRef{Slug: "ops-lead", Name: "Ops Lead", Initials: "OL"}
	sys := &entity.PortalRef{Slug: "crm", Name: "CRM"}
	proc := &entity.PortalRef{Slug: "client-onboarding", Name: "Client Onboarding"}

	tests := []struct {
		name  string
		in    Result
		check func(t *testing.T, f Flat)
	}{
		{"process", &ProcessResult{Process: proc, Role: role, System: sys}, func(t *testing.T, f Flat) {
			if f.PortalProcess != proc || f.ContextProcess != nil {
				t.Error("process axis must be a portal")
			}
			if f.ContextRole != role || f.PortalRole != nil {
				t.Error("role axis must be context")
			}
		}},
		{"role", &RoleResult{Role: role, Process: proc}, func(t *testing.T, f Flat) {
			if f.PortalRole != role || f.ContextRole != nil {
				t.Error("role axis must be a portal")
			}
			if f.ContextProcess != proc || f.PortalProcess != nil {
				t.Error("process axis must be context")
			}
		}},
		{"system", &SystemResult{System: sys, Role: role}, func(t *testing.T, f Flat) {
			if f.PortalSystem != sys || f.ContextSystem != nil {
				t.Error("system axis must be a portal")
			}
			if f.ContextRole != role {
				t.Error("role axis must be context")
			}
		}},
		{"resolved action", &ActionResult{Sequence: 2, Parent: proc, Role: role, System: sys}, func(t *testing.T, f Flat) {
			if f.ActionSequence == nil || *f.ActionSequence != 2 {
				t.Error("expected action sequence 2")
			}
			if f.PortalProcess != proc || f.ContextProcess != nil {
				t.Error("parent process must be a portal")
			}
			if f.ContextRole != role || f.ContextSystem != sys {
				t.Error("role and system must be context")
			}
		}},
		{"unresolved action", &ActionResult{Sequence: 4}, func(t *testing.T, f Flat) {
			if f.ActionSequence != nil {
				t.Error("sequence must be null without a parent")
			}
			if f.PortalProcess != nil {
				t.Error("no parent portal expected")
			}
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := Flatten(tc.in)
			if f.Type != tc.in.Kind() {
				t.Errorf("type: got %s", f.Type)
			}
			tc.check(t, f)
		})
	}
}

func TestFlat_JSONShape(t *testing.T) {
	f := Flatten(&RoleResult{
		Hit:  Hit{ID: "r1", Title: "Ops Lead", Snippet: "Owns ops", Href: "/roles/ops-lead"},
		Role: &entity.PortalRef{ID: "r1", Slug: "ops-lead", Name: "Ops Lead", Initials: "OL"},
	})
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{
		`"id":"r1"`, `"type":"role"`, `"href":"/roles/ops-lead"`,
		`"actionSequence":null`, `"portalProcess":null`, `"contextSystem":null`,
		`"portalRole":{"slug":"ops-lead","name":"Ops Lead","initials":"OL"}`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %s", want, s)
		}
	}
}

func TestReconstruct(t *testing.T) {
	in := []Result{
		&ProcessResult{Hit: Hit{ID: "p1", Title: "Daily Ops"}, Process: &entity.PortalRef{Slug: "daily-ops"}},
		&ActionResult{Hit: Hit{ID: "a1"}, Sequence: 3, Parent: &entity.PortalRef{Slug: "daily-ops"}},
		&SystemResult{Hit: Hit{ID: "s1"}, System: &entity.PortalRef{Slug: "crm"}},
	}
	for _, r := range in {
		got := Reconstruct(Flatten(r))
		if got == nil {
			t.Fatalf("%s: nil reconstruct", r.Kind())
		}
		if got.Kind() != r.Kind() || got.Common() != r.Common() {
			t.Errorf("%s: got %+v", r.Kind(), got)
		}
	}
	a := Reconstruct(Flatten(in[1])).(*ActionResult)
	if a.Sequence != 3 {
		t.Errorf("sequence: got %d", a.Sequence)
	}
	if Reconstruct(Flat{Type: "flag"}) != nil {
		t.Error("unknown type must reconstruct to nil")
	}
}
