package search

import (
	"github.com/kailas-cloud/opsmap/internal/domain/entity"
	"github.com/kailas-cloud/opsmap/internal/domain/search/query"
	"github.com/kailas-cloud/opsmap/internal/domain/search/request"
	"github.com/kailas-cloud/opsmap/internal/domain/search/result"
)

// MapInput is everything MapResults needs. All rows are fetched up front so
// mapping itself is pure.
type MapInput struct {
	Query string
	// Limit caps the results; non-positive means request.DefaultLimit.
	Limit int
	// SnippetLength bounds snippets; zero means the default of 180 runes.
	SnippetLength int
	// Rows holds title matches followed by body matches. Duplicates are allowed.
	Rows []entity.Row
	// Links is the union of link rows, in any order.
	Links     []entity.Link
	Processes map[string]entity.PortalRef
	Roles     map[string]entity.PortalRef
	Systems   map[string]entity.PortalRef
}

// MapResults scores, contextualizes, ranks and truncates matched rows.
// It never fails: unresolvable links degrade to listing routes and raw titles.
func MapResults(in MapInput) []result.Result {
	rows := dedupeRows(in.Rows)
	matched := partitionIDs(rows)

	links := append([]entity.Link(nil), in.Links...)
	sortLinks(links)
	resolver := newContextResolver(links, matched.actions, portalRefs{
		processes: in.Processes,
		roles:     in.Roles,
		systems:   in.Systems,
	})

	normalized := query.Normalize(in.Query)
	tokens := query.Tokens(normalized)

	candidates := make([]scored, 0, len(rows))
	for _, row := range rows {
		res := buildResult(row, in.Query, in.SnippetLength, resolver)
		candidates = append(candidates, newScored(res, normalized, tokens))
	}
	limit := in.Limit
	if limit <= 0 {
		limit = request.DefaultLimit
	}
	return rankResults(candidates, limit)
}

// dedupeRows keeps the first occurrence of every (kind, id).
func dedupeRows(batches ...[]entity.Row) []entity.Row {
	seen := make(map[entity.Key]struct{})
	var out []entity.Row
	for _, batch := range batches {
		for _, r := range batch {
			if !r.Kind.Valid() || r.ID == "" {
				continue
			}
			if _, ok := seen[r.Key()]; ok {
				continue
			}
			seen[r.Key()] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

func buildResult(row entity.Row, q string, snippetLength int, c *contextResolver) result.Result {
	snippet := buildSnippet(row.Body, q, snippetLength)
	if snippet == "" {
		snippet = row.Title
	}
	hit := result.Hit{ID: row.ID, Title: row.Title, Snippet: snippet}

	switch row.Kind {
	case entity.Process:
		self := ownRef(row, c.refs)
		hit.Href = entityRoute(entity.Process, refSlug(self))
		ctx := c.contextFor(row.Key())
		return &result.ProcessResult{Hit: hit, Process: self, Role: ctx.role, System: ctx.system}
	case entity.Role:
		self := ownRef(row, c.refs)
		hit.Href = entityRoute(entity.Role, refSlug(self))
		ctx := c.contextFor(row.Key())
		return &result.RoleResult{Hit: hit, Role: self, Process: ctx.process, System: ctx.system}
	case entity.System:
		self := ownRef(row, c.refs)
		hit.Href = entityRoute(entity.System, refSlug(self))
		ctx := c.contextFor(row.Key())
		return &result.SystemResult{Hit: hit, System: self, Process: ctx.process, Role: ctx.role}
	default:
		t, ok := c.target(row.ID)
		if !ok {
			hit.Href = entity.Action.ListingRoute()
			return &result.ActionResult{Hit: hit}
		}
		parent := t.parent
		hit.Href = actionRoute(parent.Slug, row.ID)
		hit.Title = actionTitle(t.sequence, parent.Name)
		return &result.ActionResult{
			Hit:      hit,
			Sequence: t.sequence,
			Parent:   &parent,
			Role:     t.role,
			System:   t.system,
		}
	}
}

// ownRef is the portal of a matched process, role or system. The fetched
// ref wins; otherwise the row itself provides slug and name.
func ownRef(row entity.Row, refs portalRefs) *entity.PortalRef {
	if ref := refs.lookup(row.Kind, row.ID); ref != nil {
		if ref.Name == "" {
			ref.Name = row.Title
		}
		if ref.Slug == "" {
			ref.Slug = row.Slug
		}
		if ref.Slug != "" {
			return ref
		}
	}
	if row.Slug == "" {
		return nil
	}
	ref := &entity.PortalRef{ID: row.ID, Slug: row.Slug, Name: row.Title}
	if row.Kind == entity.Role {
		ref.Initials = entity.Initials(row.Title)
	}
	return ref
}

func refSlug(ref *entity.PortalRef) string {
	if ref == nil {
		return ""
	}
	return ref.Slug
}
