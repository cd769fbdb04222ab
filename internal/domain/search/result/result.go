// Package result defines ranked search hits, one variant per entity kind.
package result

import "github.com/kailas-cloud/opsmap/internal/domain/entity"

// Result is a single ranked hit: *ProcessResult, *RoleResult, *SystemResult or *ActionResult.
type Result interface {
	Kind() entity.Kind
	Common() Hit
}

// Hit holds the fields every result carries.
type Hit struct {
	ID      string
	Title   string
	Snippet string
	Href    string
}

// ProcessResult is a matched process. Role and System are context taken
// from the process's first action.
type ProcessResult struct {
	Hit
	Process *entity.PortalRef
	Role    *entity.PortalRef
	System  *entity.PortalRef
}

// RoleResult is a matched role with process/system context.
type RoleResult struct {
	Hit
	Role    *entity.PortalRef
	Process *entity.PortalRef
	System  *entity.PortalRef
}

// SystemResult is a matched system with process/role context.
type SystemResult struct {
	Hit
	System  *entity.PortalRef
	Process *entity.PortalRef
	Role    *entity.PortalRef
}

// ActionResult is a matched action. Parent is nil when the parent process
// could not be resolved; such an action links to the process listing.
type ActionResult struct {
	Hit
	Sequence int
	Parent   *entity.PortalRef
	Role     *entity.PortalRef
	System   *entity.PortalRef
}

// Kind implements Result.
func (*ProcessResult) Kind() entity.Kind { return entity.Process }

// Kind implements Result.
func (*RoleResult) Kind() entity.Kind { return entity.Role }

// Kind implements Result.
func (*SystemResult) Kind() entity.Kind { return entity.System }

// Kind implements Result.
func (*ActionResult) Kind() entity.Kind { return entity.Action }

// Common implements Result.
func (r *ProcessResult) Common() Hit { return r.Hit }

// Common implements Result.
func (r *RoleResult) Common() Hit { return r.Hit }

// Common implements Result.
func (r *SystemResult) Common() Hit { return r.Hit }

// Common implements Result.
func (r *ActionResult) Common() Hit { return r.Hit }

// Response is the outcome of one search.
type Response struct {
	Query   string
	Results []Result
}
