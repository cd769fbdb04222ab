package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/opsmap/internal/domain"
	"github.com/kailas-cloud/opsmap/internal/domain/search/request"
	"github.com/kailas-cloud/opsmap/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/opsmap/internal/logger"
	"github.com/kailas-cloud/opsmap/internal/metrics"
	healthuc "github.com/kailas-cloud/opsmap/internal/usecase/health"
	searchuc "github.com/kailas-cloud/opsmap/internal/usecase/search"
)

// searchUnavailableMessage is the only text a caller sees when a store query fails.
const searchUnavailableMessage = "Search is temporarily unavailable. Please try again."

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the search API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSearchUnavailable,
			http.StatusServiceUnavailable, ErrorCodeSearchUnavailable, searchUnavailableMessage),
		sentinelHandler(domain.ErrInvalidRequest,
			http.StatusBadRequest, ErrorCodeBadRequest, domain.ErrInvalidRequest.Error()),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound, domain.ErrNotFound.Error()),
	}
	return s
}

// Search handles GET /api/v1/orgs/{org}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request, org string, params SearchParams) {
	req := request.New(deref(params.Q), request.ParseLimit(deref(params.Limit)))
	ctx := logpkg.With(r.Context(), zap.String("org_id", org))

	resp, err := s.search.Search(ctx, org, &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:   resp.Query,
		Results: result.FlattenAll(resp.Results),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, message)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
