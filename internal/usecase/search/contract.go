package search

import (
	"context"

	"github.com/kailas-cloud/opsmap/internal/domain/entity"
	"github.com/kailas-cloud/opsmap/internal/domain/search/request"
	"github.com/kailas-cloud/opsmap/internal/domain/search/result"
)

// Repository defines the storage contract for search. All lookups are
// scoped to one org; link lookups return rows ordered by (sequence, id).
type Repository interface {
	// SearchRows matches text as a case-insensitive substring of field
	// across all four entity kinds, returning at most limit rows.
	SearchRows(ctx context.Context, orgID, text string, field entity.Field, limit int) ([]entity.Row, error)

	LinksByActionIDs(ctx context.Context, orgID string, ids []string) ([]entity.Link, error)
	LinksByProcessIDs(ctx context.Context, orgID string, ids []string) ([]entity.Link, error)
	LinksByRoleIDs(ctx context.Context, orgID string, ids []string) ([]entity.Link, error)
	LinksBySystemIDs(ctx context.Context, orgID string, ids []string) ([]entity.Link, error)

	PortalRefs(ctx context.Context, kind entity.Kind, orgID string, ids []string) ([]entity.PortalRef, error)
}

// Cache stores finished responses. Implementations swallow their own errors.
type Cache interface {
	Get(ctx context.Context, orgID string, req *request.Request) (result.Response, bool)
	Put(ctx context.Context, orgID string, req *request.Request, resp result.Response)
}
