// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"asphaltscope/collections"
	"asphaltscope/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestTenant creates a tenant record with the given name and ABN and
// returns it. The ABN is stored in display format.
func CreateTestTenant(t *testing.T, app core.App, name, abn string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("tenants")
	if err != nil {
		t.Fatalf("failed to find tenants collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("slug", services.Slugify(name)+"-"+services.NormalizeDigits(abn)[:8])
	record.Set("abn", services.FormatABN(services.NormalizeDigits(abn)))
	record.Set("gst_registered", true)
	record.Set("address_line1", "1 Test Street")
	record.Set("suburb", "Parramatta")
	record.Set("state", "NSW")
	record.Set("postcode", "2150")
	record.Set("active", true)
	record.Set("subscription_tier", "basic")
	record.Set("subscription_status", "trial")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test tenant: %v", err)
	}

	return record
}

// CreateTestCustomer creates a customer record owned by a tenant.
func CreateTestCustomer(t *testing.T, app core.App, tenantID, businessName string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("tenant", tenantID)
	record.Set("business_name", businessName)
	record.Set("suburb", "Blacktown")
	record.Set("state", "NSW")
	record.Set("postcode", "2148")
	record.Set("is_active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}

	return record
}

// CreateTestJob creates a draft resheet job for a tenant with a 5% waste factor.
func CreateTestJob(t *testing.T, app core.App, tenantID, jobNumber, title string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("jobs")
	if err != nil {
		t.Fatalf("failed to find jobs collection: %v", err)
	}

	quoteDate := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	record := core.NewRecord(col)
	record.Set("tenant", tenantID)
	record.Set("job_number", jobNumber)
	record.Set("title", title)
	record.Set("job_type", string(services.JobResheet))
	record.Set("job_status", string(services.StatusDraft))
	record.Set("waste_factor", 5)
	record.Set("quote_number", "Q-"+jobNumber)
	record.Set("quote_date", quoteDate)
	record.Set("quote_expiry_date", services.QuoteExpiry(quoteDate, 30))
	record.Set("truck_access", string(services.TruckAny))

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test job: %v", err)
	}

	return record
}

// CreateTestJobItem creates an AC14 local-council area section on a job.
// Tonnage and price are left unset; callers that need them go through
// services.ReplaceJobSections.
func CreateTestJobItem(t *testing.T, app core.App, jobID, tenantID string, sortOrder int, name string, areaSqm, depthMm, unitPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("job_items")
	if err != nil {
		t.Fatalf("failed to find job_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("job", jobID)
	record.Set("tenant", tenantID)
	record.Set("sort_order", sortOrder)
	record.Set("name", name)
	record.Set("area_sqm", areaSqm)
	record.Set("depth_mm", depthMm)
	record.Set("asphalt_mix_type", string(services.MixAC14))
	record.Set("specification", string(services.SpecLocalCouncil))
	record.Set("unit_price_per_tonne", unitPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test job item: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
