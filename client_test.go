package opsmap

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const workspace = `
roles:
  - name: Account Manager
systems:
  - name: Salesforce CRM
    slug: crm
  - name: Google Workspace
    slug: gworkspace
processes:
  - name: Client Onboarding
    description:
      type: doc
      content:
        - type: paragraph
          content:
            - type: text
              text: Review unresolved flags and assign next steps.
    actions:
      - title: Action 1
        role: account-manager
        system: crm
        description: Create the account record.
      - title: Action 2
        role: account-manager
        system: gworkspace
        description: Send onboarding reminder email.
`

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(context.Background(), WithSQLite("file::memory:"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)

	if _, err := c.Import(context.Background(), "acme", []byte(workspace)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	return c
}

func TestNew_NoDatabase(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no database is configured")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), func(c *clientConfig) { c.driver = "oracle" })
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_WithDB(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	c, err := New(context.Background(), WithDB(gdb))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Close()

	// Close must leave a caller-owned connection open.
	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("caller connection closed: %v", err)
	}
	_ = sqlDB.Close()
}

func TestWithCacheConfig(t *testing.T) {
	var cfg clientConfig
	WithCacheConfig(CacheConfig{
		Addrs:    []string{"cache:6379"},
		Username: "opsmap",
		Password: "secret",
		DB:       2,
		TTL:      time.Minute,
	})(&cfg)

	rc := cfg.cache.redis()
	if rc.Username != "opsmap" || rc.DB != 2 || rc.Password != "secret" || len(rc.Addrs) != 1 {
		t.Errorf("redis config = %+v", rc)
	}
	if cfg.cache.TTL != time.Minute {
		t.Errorf("ttl = %v", cfg.cache.TTL)
	}

	WithCache([]string{"cache:6379"}, "pw", 0)(&cfg)
	if cfg.cache.DB != 0 || cfg.cache.Username != "" || cfg.cache.Password != "pw" {
		t.Errorf("WithCache = %+v", cfg.cache)
	}
}

func TestSearch_ActionEnrichment(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.Search(context.Background(), "acme", "reminder", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}

	r := resp.Results[0]
	if r.Title != "Action 2 in Client Onboarding" {
		t.Errorf("title = %q", r.Title)
	}
	if !strings.HasPrefix(r.Href, "/processes/client-onboarding?actionId=") {
		t.Errorf("href = %q", r.Href)
	}
	if r.ActionSequence == nil || *r.ActionSequence != 2 {
		t.Errorf("actionSequence = %v", r.ActionSequence)
	}
	if r.PortalProcess == nil || r.PortalProcess.Slug != "client-onboarding" {
		t.Errorf("portalProcess = %+v", r.PortalProcess)
	}
	if r.ContextRole == nil || r.ContextRole.Initials != "AM" {
		t.Errorf("contextRole = %+v", r.ContextRole)
	}
	if r.Snippet != "Send onboarding reminder email." {
		t.Errorf("snippet = %q", r.Snippet)
	}
}

func TestSearch_ProcessSnippetFromRichText(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.Search(context.Background(), "acme", "flags", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}

	r := resp.Results[0]
	if r.Type != "process" {
		t.Errorf("type = %q", r.Type)
	}
	if r.Snippet != "Review unresolved flags and assign next steps." {
		t.Errorf("snippet = %q", r.Snippet)
	}
	if r.Href != "/processes/client-onboarding" {
		t.Errorf("href = %q", r.Href)
	}
	if r.ContextRole == nil || r.ContextSystem == nil || r.ContextSystem.Slug != "crm" {
		t.Errorf("context from first action missing: role=%+v system=%+v", r.ContextRole, r.ContextSystem)
	}
}

func TestSearch_ExactTitleFirst(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.Search(context.Background(), "acme", "Client Onboarding", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) < 2 {
		t.Fatalf("expected process and action, got %d", len(resp.Results))
	}
	if resp.Results[0].Type != "process" {
		t.Errorf("first result = %s %q", resp.Results[0].Type, resp.Results[0].Title)
	}

	seen := map[string]bool{}
	for _, r := range resp.Results {
		key := string(r.Type) + ":" + r.ID
		if seen[key] {
			t.Errorf("duplicate result %s", key)
		}
		seen[key] = true
	}
}

func TestSearch_ExactProcessSurvivesCandidateCap(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	ops := `
roles:
  - name: DevOps Lead
systems:
  - name: Pager
processes:
  - name: Ops
    actions:
      - {title: Ops check 1, role: devops-lead, system: pager}
      - {title: Ops check 2, role: devops-lead, system: pager}
      - {title: Ops check 3, role: devops-lead, system: pager}
`
	if _, err := c.Import(ctx, "ops-team", []byte(ops)); err != nil {
		t.Fatalf("Import: %v", err)
	}

	resp, err := c.Search(ctx, "ops-team", "Ops", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if got := resp.Results[0]; got.Type != "process" || got.Title != "Ops" {
		t.Errorf("first result = %s %q, want process \"Ops\"", got.Type, got.Title)
	}
}

func TestSearch_ShortQueryAndOtherOrg(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	resp, err := c.Search(ctx, "acme", " a ", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("expected empty non-nil results, got %v", resp.Results)
	}

	resp, err = c.Search(ctx, "globex", "onboarding", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("org isolation broken: %d results", len(resp.Results))
	}
}

func TestSearch_StoreFailure(t *testing.T) {
	c := newTestClient(t)
	if err := c.store.Close(); err != nil {
		t.Fatal(err)
	}

	_, err := c.Search(context.Background(), "acme", "onboarding", 10)
	if !errors.Is(err, ErrSearchUnavailable) {
		t.Fatalf("expected ErrSearchUnavailable, got %v", err)
	}
}

func TestImport_InvalidFixture(t *testing.T) {
	c := newTestClient(t)
	_, err := c.Import(context.Background(), "acme", []byte("processes: [{actions: [{role: ghost}]}]"))
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
