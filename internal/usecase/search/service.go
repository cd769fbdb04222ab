package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/opsmap/internal/domain"
	"github.com/kailas-cloud/opsmap/internal/domain/entity"
	"github.com/kailas-cloud/opsmap/internal/domain/search/request"
	"github.com/kailas-cloud/opsmap/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/opsmap/internal/logger"
	"github.com/kailas-cloud/opsmap/internal/metrics"
)

// Service runs free-text search over processes, roles, systems and actions.
type Service struct {
	repo          Repository
	cache         Cache
	snippetLength int
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo, snippetLength: defaultSnippetLength}
}

// WithCache enables response caching. A nil cache disables it.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// WithSnippetLength overrides the snippet length (non-positive keeps the default).
func (s *Service) WithSnippetLength(n int) *Service {
	if n > 0 {
		s.snippetLength = n
	}
	return s
}

// Search returns up to req.Limit() ranked results for orgID.
// Queries shorter than request.MinQueryLength return no results without touching the store.
// Any store failure fails the whole search with domain.ErrSearchUnavailable.
func (s *Service) Search(ctx context.Context, orgID string, req *request.Request) (result.Response, error) {
	resp := result.Response{Query: req.Query(), Results: []result.Result{}}
	if req.TooShort() {
		metrics.SearchRequestsTotal.WithLabelValues(metrics.SearchOutcomeShortCircuit).Inc()
		return resp, nil
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, orgID, req); ok {
			metrics.SearchRequestsTotal.WithLabelValues(metrics.SearchOutcomeCacheHit).Inc()
			return cached, nil
		}
	}

	start := time.Now()
	results, err := s.run(ctx, orgID, req)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(metrics.SearchOutcomeError).Inc()
		logpkg.FromContext(ctx).Error("Search failed",
			zap.String("org_id", orgID),
			zap.Int("limit", req.Limit()),
			zap.Error(err),
		)
		return result.Response{}, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(metrics.SearchOutcomeOK).Inc()
	metrics.SearchResults.Observe(float64(len(results)))

	resp.Results = results
	if s.cache != nil {
		s.cache.Put(ctx, orgID, req, resp)
	}
	return resp, nil
}

func (s *Service) run(ctx context.Context, orgID string, req *request.Request) ([]result.Result, error) {
	titleRows, bodyRows, err := s.matchRows(ctx, orgID, req)
	if err != nil {
		return nil, err
	}

	rows := dedupeRows(titleRows, bodyRows)
	if len(rows) == 0 {
		return []result.Result{}, nil
	}
	matched := partitionIDs(rows)

	links, err := s.links(ctx, orgID, matched)
	if err != nil {
		return nil, err
	}

	refs, err := s.portalRefs(ctx, orgID, refIDs(links, matched))
	if err != nil {
		return nil, err
	}

	logpkg.FromContext(ctx).Debug("Search rows fetched",
		zap.String("org_id", orgID),
		zap.Int("title_rows", len(titleRows)),
		zap.Int("body_rows", len(bodyRows)),
		zap.Int("unique_rows", len(rows)),
		zap.Int("links", len(links)),
	)

	return MapResults(MapInput{
		Query:         req.Query(),
		Limit:         req.Limit(),
		SnippetLength: s.snippetLength,
		Rows:          rows,
		Links:         links,
		Processes:     refs.processes,
		Roles:         refs.roles,
		Systems:       refs.systems,
	}), nil
}

// matchRows runs the title and body filters in parallel.
func (s *Service) matchRows(
	ctx context.Context, orgID string, req *request.Request,
) (titleRows, bodyRows []entity.Row, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.repo.SearchRows(gctx, orgID, req.Query(), entity.FieldTitle, req.CandidateLimit())
		if err != nil {
			return fmt.Errorf("search titles: %w", err)
		}
		titleRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.SearchRows(gctx, orgID, req.Query(), entity.FieldBody, req.CandidateLimit())
		if err != nil {
			return fmt.Errorf("search bodies: %w", err)
		}
		bodyRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err //nolint:wrapcheck // wrapped inside the goroutines
	}
	return titleRows, bodyRows, nil
}

// links fetches link rows for every matched id set in at most four parallel lookups.
func (s *Service) links(ctx context.Context, orgID string, matched idSets) ([]entity.Link, error) {
	lookups := []struct {
		name string
		ids  []string
		fn   func(context.Context, string, []string) ([]entity.Link, error)
	}{
		{"actions", matched.actions, s.repo.LinksByActionIDs},
		{"processes", matched.processes, s.repo.LinksByProcessIDs},
		{"roles", matched.roles, s.repo.LinksByRoleIDs},
		{"systems", matched.systems, s.repo.LinksBySystemIDs},
	}

	batches := make([][]entity.Link, len(lookups))
	g, gctx := errgroup.WithContext(ctx)
	for i, l := range lookups {
		if len(l.ids) == 0 {
			continue
		}
		g.Go(func() error {
			links, err := l.fn(gctx, orgID, l.ids)
			if err != nil {
				return fmt.Errorf("links by %s: %w", l.name, err)
			}
			batches[i] = links
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // wrapped inside the goroutines
	}
	return mergeLinks(batches...), nil
}

// portalRefs fetches display handles for every referenced process, role and system.
func (s *Service) portalRefs(ctx context.Context, orgID string, ids idSets) (portalRefs, error) {
	kinds := []struct {
		kind entity.Kind
		ids  []string
	}{
		{entity.Process, ids.processes},
		{entity.Role, ids.roles},
		{entity.System, ids.systems},
	}

	fetched := make([][]entity.PortalRef, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, k := range kinds {
		if len(k.ids) == 0 {
			continue
		}
		g.Go(func() error {
			refs, err := s.repo.PortalRefs(gctx, k.kind, orgID, k.ids)
			if err != nil {
				return fmt.Errorf("portal refs for %s: %w", k.kind, err)
			}
			fetched[i] = refs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return portalRefs{}, err //nolint:wrapcheck // wrapped inside the goroutines
	}

	return portalRefs{
		processes: indexRefs(fetched[0]),
		roles:     indexRefs(fetched[1]),
		systems:   indexRefs(fetched[2]),
	}, nil
}

func indexRefs(refs []entity.PortalRef) map[string]entity.PortalRef {
	m := make(map[string]entity.PortalRef, len(refs))
	for _, r := range refs {
		m[r.ID] = r
	}
	return m
}
