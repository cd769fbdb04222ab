// Package catalog reads and writes an org's processes, roles, systems and
// actions in the relational store.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kailas-cloud/opsmap/internal/db"
	"github.com/kailas-cloud/opsmap/internal/db/gormdb"
	"github.com/kailas-cloud/opsmap/internal/domain/entity"
	"github.com/kailas-cloud/opsmap/internal/domain/search/query"
)

// source describes how one entity table projects onto a search row.
type source struct {
	kind  entity.Kind
	table string
	slug  string
	title string
}

var sources = []source{
	{kind: entity.Process, table: "processes", slug: "slug", title: "name"},
	{kind: entity.Role, table: "roles", slug: "slug", title: "name"},
	{kind: entity.System, table: "systems", slug: "slug", title: "name"},
	{kind: entity.Action, table: "actions", slug: "''", title: "title"},
}

// Repo implements usecase/search.Repository over gorm.
type Repo struct {
	db *gorm.DB
}

// New creates a catalog repository.
func New(gdb *gorm.DB) *Repo {
	return &Repo{db: gdb}
}

// SearchRows matches text as a case-insensitive substring of field across
// all four tables. When more than limit rows match, exact matches are kept
// before prefix matches and substring matches, then processes, roles,
// systems and actions, then title and id.
func (r *Repo) SearchRows(
	ctx context.Context, orgID, text string, field entity.Field, limit int,
) ([]entity.Row, error) {
	if limit <= 0 {
		return []entity.Row{}, nil
	}

	exact := query.Normalize(text)
	prefix := query.PrefixPattern(text)
	pattern := query.ContainsPattern(text)
	parts := make([]string, 0, len(sources))
	args := make([]any, 0, 4*len(sources)+1)
	for _, s := range sources {
		col := s.title
		if field == entity.FieldBody {
			col = "description"
		}
		parts = append(parts, fmt.Sprintf(
			`SELECT '%s' AS kind, %d AS kind_rank, `+
				`CASE WHEN LOWER(%s) = ? THEN 0 WHEN LOWER(%s) LIKE ? ESCAPE '\' THEN 1 ELSE 2 END AS match_rank, `+
				`id, %s AS slug, %s AS title, description AS body FROM %s `+
				`WHERE org_id = ? AND LOWER(%s) LIKE ? ESCAPE '\'`,
			s.kind, s.kind.Priority(), col, col, s.slug, s.title, s.table, col,
		))
		args = append(args, exact, prefix, orgID, pattern)
	}
	sql := "SELECT kind, id, slug, title, body FROM (" + strings.Join(parts, " UNION ALL ") + ") AS candidates " +
		"ORDER BY match_rank, kind_rank, LOWER(title), id LIMIT ?"
	args = append(args, limit)

	var dtos []rowDTO
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&dtos).Error; err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("search %s: %w", field, err)}
	}

	rows := make([]entity.Row, 0, len(dtos))
	for _, d := range dtos {
		rows = append(rows, d.toDomain())
	}
	return rows, nil
}

// LinksByActionIDs returns the link rows of the given actions.
func (r *Repo) LinksByActionIDs(ctx context.Context, orgID string, ids []string) ([]entity.Link, error) {
	return r.links(ctx, orgID, "id", ids)
}

// LinksByProcessIDs returns every action of the given processes.
func (r *Repo) LinksByProcessIDs(ctx context.Context, orgID string, ids []string) ([]entity.Link, error) {
	return r.links(ctx, orgID, "process_id", ids)
}

// LinksByRoleIDs returns every action performed by the given roles.
func (r *Repo) LinksByRoleIDs(ctx context.Context, orgID string, ids []string) ([]entity.Link, error) {
	return r.links(ctx, orgID, "role_id", ids)
}

// LinksBySystemIDs returns every action run in the given systems.
func (r *Repo) LinksBySystemIDs(ctx context.Context, orgID string, ids []string) ([]entity.Link, error) {
	return r.links(ctx, orgID, "system_id", ids)
}

func (r *Repo) links(ctx context.Context, orgID, column string, ids []string) ([]entity.Link, error) {
	if len(ids) == 0 {
		return []entity.Link{}, nil
	}

	var actions []gormdb.Action
	err := r.db.WithContext(ctx).
		Select("id", "sequence", "process_id", "role_id", "system_id").
		Where("org_id = ?", orgID).
		Where(column+" IN ?", ids).
		Order("sequence ASC, id ASC").
		Find(&actions).Error
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("links by %s: %w", column, err)}
	}

	links := make([]entity.Link, 0, len(actions))
	for _, a := range actions {
		links = append(links, linkFromModel(a))
	}
	return links, nil
}

// PortalRefs returns display handles for the given processes, roles or systems.
// Role initials are derived from the name when not stored.
func (r *Repo) PortalRefs(
	ctx context.Context, kind entity.Kind, orgID string, ids []string,
) ([]entity.PortalRef, error) {
	if len(ids) == 0 {
		return []entity.PortalRef{}, nil
	}

	var (
		model   any
		columns = []string{"id", "slug", "name"}
	)
	switch kind {
	case entity.Process:
		model = &gormdb.Process{}
	case entity.Role:
		model = &gormdb.Role{}
		columns = append(columns, "initials")
	case entity.System:
		model = &gormdb.System{}
	default:
		return nil, fmt.Errorf("portal refs: unsupported kind %q", kind)
	}

	var dtos []refDTO
	err := r.db.WithContext(ctx).
		Model(model).
		Select(columns).
		Where("org_id = ? AND id IN ?", orgID, ids).
		Order("id").
		Scan(&dtos).Error
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("portal refs for %s: %w", kind, err)}
	}

	refs := make([]entity.PortalRef, 0, len(dtos))
	for _, d := range dtos {
		refs = append(refs, d.toDomain(kind))
	}
	return refs, nil
}
