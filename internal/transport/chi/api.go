package chi

import "github.com/kailas-cloud/opsmap/internal/domain/search/result"

// ErrorCode is a stable, machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeNotFound          ErrorCode = "not_found"
	ErrorCodeSearchUnavailable ErrorCode = "search_unavailable"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchParams are the query parameters of GET /api/v1/orgs/{org}/search.
// Limit is bound as a string so malformed values fall back to the default
// instead of failing the request.
type SearchParams struct {
	Q     *string `form:"q,omitempty" json:"q,omitempty"`
	Limit *string `form:"limit,omitempty" json:"limit,omitempty"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Query   string        `json:"query"`
	Results []result.Flat `json:"results"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
