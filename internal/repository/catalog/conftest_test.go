package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/opsmap/internal/db/gormdb"
)

const testOrg = "acme"

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	s, err := gormdb.Open(gormdb.Config{Driver: gormdb.DriverSQLite, DSN: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return New(s.DB())
}

const onboardingFixture = `
roles:
  - name: Account Manager
  - name: Finance Lead
    slug: finance
    initials: FL
systems:
  - name: Salesforce CRM
    slug: crm
  - name: QuickBooks
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
      - role: account-manager
        system: crm
        description: Send onboarding reminder email.
      - role: finance
        system: quickbooks
        description: Issue the first invoice.
  - name: Quarterly Review
    slug: quarterly-review
    description: Walk through 100% of open accounts.
    actions:
      - title: Prepare deck
        role: account-manager
        system: crm
`

func seed(t *testing.T, r *Repo, org, fixture string) ImportStats {
	t.Helper()
	f, err := ParseFixture([]byte(fixture))
	require.NoError(t, err)
	stats, err := r.Import(context.Background(), org, f)
	require.NoError(t, err)
	return stats
}
