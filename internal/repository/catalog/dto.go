package catalog

import (
	"github.com/kailas-cloud/opsmap/internal/db/gormdb"
	"github.com/kailas-cloud/opsmap/internal/domain/entity"
)

// rowDTO is the scan target of the cross-table match query.
type rowDTO struct {
	Kind  string
	ID    string
	Slug  string
	Title string
	Body  string
}

func (r rowDTO) toDomain() entity.Row {
	return entity.Row{
		Kind:  entity.Kind(r.Kind),
		ID:    r.ID,
		Slug:  r.Slug,
		Title: r.Title,
		Body:  r.Body,
	}
}

// refDTO is the scan target of portal handle lookups.
type refDTO struct {
	ID       string
	Slug     string
	Name     string
	Initials string
}

func (r refDTO) toDomain(kind entity.Kind) entity.PortalRef {
	ref := entity.PortalRef{ID: r.ID, Slug: r.Slug, Name: r.Name}
	if kind == entity.Role {
		ref.Initials = r.Initials
		if ref.Initials == "" {
			ref.Initials = entity.Initials(r.Name)
		}
	}
	return ref
}

func linkFromModel(a gormdb.Action) entity.Link {
	return entity.Link{
		ID:        a.ID,
		Sequence:  a.Sequence,
		ProcessID: a.ProcessID,
		RoleID:    a.RoleID,
		SystemID:  a.SystemID,
	}
}
