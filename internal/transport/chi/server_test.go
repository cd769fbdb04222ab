package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/opsmap/internal/domain/entity"
	"github.com/kailas-cloud/opsmap/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/opsmap/internal/usecase/health"
	searchuc "github.com/kailas-cloud/opsmap/internal/usecase/search"
)

// --- Mocks ---

type fakeRepo struct {
	rows       []entity.Row
	links      []entity.Link
	refs       map[entity.Kind][]entity.PortalRef
	err        error
	mu         sync.Mutex
	lastLimit  int
	searchHits int
}

func (f *fakeRepo) SearchRows(_ context.Context, _, _ string, field entity.Field, limit int) ([]entity.Row, error) {
	f.mu.Lock()
	f.searchHits++
	f.lastLimit = limit
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if field == entity.FieldBody {
		return nil, nil
	}
	return f.rows, nil
}

func (f *fakeRepo) LinksByActionIDs(context.Context, string, []string) ([]entity.Link, error) {
	return f.links, nil
}

func (f *fakeRepo) LinksByProcessIDs(context.Context, string, []string) ([]entity.Link, error) {
	return f.links, nil
}

func (f *fakeRepo) LinksByRoleIDs(context.Context, string, []string) ([]entity.Link, error) {
	return f.links, nil
}

func (f *fakeRepo) LinksBySystemIDs(context.Context, string, []string) ([]entity.Link, error) {
	return f.links, nil
}

func (f *fakeRepo) PortalRefs(_ context.Context, kind entity.Kind, _ string, _ []string) ([]entity.PortalRef, error) {
	return f.refs[kind], nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, repo *fakeRepo, dbErr error) http.Handler {
	t.Helper()
	srv := NewServer(searchuc.New(repo), healthuc.New(fakePinger{err: dbErr}, nil), zap.NewNop())
	return Handler(srv, Options{BaseRouter: chi.NewRouter()})
}

func onboardingRepo() *fakeRepo {
	return &fakeRepo{
		rows: []entity.Row{
			{Kind: entity.Action, ID: "a2", Title: "Action 2", Body: "Send onboarding reminder email."},
			{Kind: entity.Process, ID: "p1", Slug: "client-onboarding", Title: "Client Onboarding"},
		},
		links: []entity.Link{{ID: "a2", Sequence: 2, ProcessID: "p1"}},
		refs: map[entity.Kind][]entity.PortalRef{
			entity.Process: {{ID: "p1", Slug: "client-onboarding", Name: "Client Onboarding"}},
		},
	}
}

func doGet(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// --- Tests ---

func TestSearch_OK(t *testing.T) {
	h := newTestRouter(t, onboardingRepo(), nil)

	rr := doGet(h, "/api/v1/orgs/acme/search?q=onboarding&limit=10")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Query   string           `json:"query"`
		Results []map[string]any `json:"results"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Query != "onboarding" {
		t.Errorf("query = %q", resp.Query)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}

	var action map[string]any
	for _, r := range resp.Results {
		if r["type"] == "action" {
			action = r
		}
	}
	if action == nil {
		t.Fatal("action result missing")
	}
	if action["title"] != "Action 2 in Client Onboarding" {
		t.Errorf("title = %v", action["title"])
	}
	if action["href"] != "/processes/client-onboarding?actionId=a2" {
		t.Errorf("href = %v", action["href"])
	}
	if action["actionSequence"] != float64(2) {
		t.Errorf("actionSequence = %v", action["actionSequence"])
	}
	for _, k := range []string{"portalProcess", "portalRole", "contextSystem"} {
		if _, ok := action[k]; !ok {
			t.Errorf("field %s must always be present", k)
		}
	}
}

func TestSearch_ShortQuery(t *testing.T) {
	repo := onboardingRepo()
	h := newTestRouter(t, repo, nil)

	rr := doGet(h, "/api/v1/orgs/acme/search?q=a")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"results":[]`) {
		t.Errorf("expected empty results array, got %s", rr.Body.String())
	}
	if repo.searchHits != 0 {
		t.Errorf("short query must not reach the store, got %d calls", repo.searchHits)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	h := newTestRouter(t, onboardingRepo(), nil)

	rr := doGet(h, "/api/v1/orgs/acme/search")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestSearch_LimitParsing(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", request.DefaultLimit},
		{"abc", request.DefaultLimit},
		{"-4", request.DefaultLimit},
		{"7", 7},
		{"500", request.MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			repo := onboardingRepo()
			h := newTestRouter(t, repo, nil)

			rr := doGet(h, "/api/v1/orgs/acme/search?q=onboarding&limit="+tt.raw)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d", rr.Code)
			}
			if repo.lastLimit != tt.want*request.CandidateFactor {
				t.Errorf("candidate limit = %d, want %d", repo.lastLimit, tt.want*request.CandidateFactor)
			}
		})
	}
}

func TestSearch_StoreFailure(t *testing.T) {
	repo := onboardingRepo()
	repo.err = errors.New("pq: connection reset by peer")
	h := newTestRouter(t, repo, nil)

	rr := doGet(h, "/api/v1/orgs/acme/search?q=onboarding")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != ErrorCodeSearchUnavailable {
		t.Errorf("code = %s", errResp.Code)
	}
	if errResp.Message != "Search is temporarily unavailable. Please try again." {
		t.Errorf("message = %q", errResp.Message)
	}
}

func TestHealthCheck(t *testing.T) {
	h := newTestRouter(t, onboardingRepo(), nil)
	rr := doGet(h, "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("unexpected health: %+v", resp)
	}
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	h := newTestRouter(t, onboardingRepo(), errors.New("down"))
	rr := doGet(h, "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestHandleDomainError_Unknown(t *testing.T) {
	srv := NewServer(nil, nil, zap.NewNop())
	rr := httptest.NewRecorder()
	srv.handleDomainError(rr, errors.New("boom"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "boom") {
		t.Error("internal error text leaked to the client")
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := JSONRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rr := doGet(h, "/")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestBadRequestHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	BadRequestHandler(rr, nil, &InvalidParamFormatError{ParamName: "org", Err: errors.New("x")})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}
