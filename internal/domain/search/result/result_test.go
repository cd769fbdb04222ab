package result

import (
	"testing"

	"github.com/kailas-cloud/opsmap/internal/domain/entity"
)

func TestVariants_KindAndCommon(t *testing.T) {
	hit := Hit{ID: "x", Title: "T", Snippet: "S", Href: "/h"}
	tests := []struct {
		r    Result
		kind entity.Kind
	}{
		{&ProcessResult{Hit: hit}, entity.Process},
		{&RoleResult{Hit: hit}, entity.Role},
		{&SystemResult{Hit: hit}, entity.System},
		{&ActionResult{Hit: hit, Sequence: 2}, entity.Action},
	}
	for _, tt := range tests {
		if tt.r.Kind() != tt.kind {
			t.Errorf("Kind() = %q, want %q", tt.r.Kind(), tt.kind)
		}
		if tt.r.Common() != hit {
			t.Errorf("%s: Common() = %+v", tt.kind, tt.r.Common())
		}
	}
}
