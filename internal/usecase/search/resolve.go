package search

import (
	"sort"

	"github.com/kailas-cloud/opsmap/internal/domain/entity"
)

// idSets holds matched row ids partitioned by kind, in first-seen order.
type idSets struct {
	processes []string
	roles     []string
	systems   []string
	actions   []string
}

func partitionIDs(rows []entity.Row) idSets {
	var s idSets
	for _, r := range rows {
		switch r.Kind {
		case entity.Process:
			s.processes = append(s.processes, r.ID)
		case entity.Role:
			s.roles = append(s.roles, r.ID)
		case entity.System:
			s.systems = append(s.systems, r.ID)
		case entity.Action:
			s.actions = append(s.actions, r.ID)
		}
	}
	return s
}

// mergeLinks unions link batches, keeping one row per action id, ordered by (sequence, id).
func mergeLinks(batches ...[]entity.Link) []entity.Link {
	seen := make(map[string]struct{})
	var out []entity.Link
	for _, batch := range batches {
		for _, l := range batch {
			if _, ok := seen[l.ID]; ok {
				continue
			}
			seen[l.ID] = struct{}{}
			out = append(out, l)
		}
	}
	sortLinks(out)
	return out
}

func sortLinks(links []entity.Link) {
	sort.SliceStable(links, func(i, j int) bool {
		if links[i].Sequence != links[j].Sequence {
			return links[i].Sequence < links[j].Sequence
		}
		return links[i].ID < links[j].ID
	})
}

// refIDs returns every process, role and system id that needs a portal ref:
// the ones referenced by links plus the matched rows of those kinds.
func refIDs(links []entity.Link, matched idSets) idSets {
	processes := newOrderedSet(matched.processes...)
	roles := newOrderedSet(matched.roles...)
	systems := newOrderedSet(matched.systems...)
	for _, l := range links {
		processes.add(l.ProcessID)
		roles.add(l.RoleID)
		systems.add(l.SystemID)
	}
	return idSets{processes: processes.ids, roles: roles.ids, systems: systems.ids}
}

// orderedSet keeps distinct non-empty ids in insertion order.
type orderedSet struct {
	ids  []string
	seen map[string]struct{}
}

func newOrderedSet(ids ...string) *orderedSet {
	s := &orderedSet{seen: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s *orderedSet) add(id string) {
	if id == "" {
		return
	}
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}

// portalRefs holds display handles per kind, keyed by entity id.
type portalRefs struct {
	processes map[string]entity.PortalRef
	roles     map[string]entity.PortalRef
	systems   map[string]entity.PortalRef
}

func (p portalRefs) lookup(kind entity.Kind, id string) *entity.PortalRef {
	var m map[string]entity.PortalRef
	switch kind {
	case entity.Process:
		m = p.processes
	case entity.Role:
		m = p.roles
	case entity.System:
		m = p.systems
	}
	ref, ok := m[id]
	if !ok || id == "" {
		return nil
	}
	return &ref
}

// linkedContext is the process, role and system reached through one action.
type linkedContext struct {
	process *entity.PortalRef
	role    *entity.PortalRef
	system  *entity.PortalRef
}

// actionTarget is the navigable route of a matched action.
type actionTarget struct {
	sequence int
	parent   entity.PortalRef
	role     *entity.PortalRef
	system   *entity.PortalRef
}

// contextResolver answers "what is this hit related to" from already-fetched rows.
type contextResolver struct {
	refs    portalRefs
	first   map[entity.Key]entity.Link
	targets map[string]actionTarget
}

// newContextResolver indexes links. links must be ordered by (sequence, id)
// so that the first action per entity is its representative.
func newContextResolver(links []entity.Link, actionIDs []string, refs portalRefs) *contextResolver {
	c := &contextResolver{
		refs:    refs,
		first:   make(map[entity.Key]entity.Link),
		targets: make(map[string]actionTarget),
	}

	for _, l := range links {
		c.remember(entity.Key{Kind: entity.Process, ID: l.ProcessID}, l)
		c.remember(entity.Key{Kind: entity.Role, ID: l.RoleID}, l)
		c.remember(entity.Key{Kind: entity.System, ID: l.SystemID}, l)
	}

	wanted := make(map[string]struct{}, len(actionIDs))
	for _, id := range actionIDs {
		wanted[id] = struct{}{}
	}
	for _, l := range links {
		if _, ok := wanted[l.ID]; !ok {
			continue
		}
		parent := refs.lookup(entity.Process, l.ProcessID)
		if parent == nil || parent.Slug == "" {
			// Parent was deleted or never resolved: the action cannot be linked.
			continue
		}
		c.targets[l.ID] = actionTarget{
			sequence: l.Sequence,
			parent:   *parent,
			role:     refs.lookup(entity.Role, l.RoleID),
			system:   refs.lookup(entity.System, l.SystemID),
		}
	}
	return c
}

func (c *contextResolver) remember(k entity.Key, l entity.Link) {
	if k.ID == "" {
		return
	}
	if _, ok := c.first[k]; !ok {
		c.first[k] = l
	}
}

// contextFor resolves the entities linked to a matched process, role or
// system through its first action. The axis of the entity's own kind is left nil.
func (c *contextResolver) contextFor(k entity.Key) linkedContext {
	l, ok := c.first[k]
	if !ok {
		return linkedContext{}
	}
	ctx := linkedContext{
		process: c.refs.lookup(entity.Process, l.ProcessID),
		role:    c.refs.lookup(entity.Role, l.RoleID),
		system:  c.refs.lookup(entity.System, l.SystemID),
	}
	switch k.Kind {
	case entity.Process:
		ctx.process = nil
	case entity.Role:
		ctx.role = nil
	case entity.System:
		ctx.system = nil
	}
	return ctx
}

// target returns the resolved route of a matched action.
func (c *contextResolver) target(actionID string) (actionTarget, bool) {
	t, ok := c.targets[actionID]
	return t, ok
}
