package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"asphaltscope/templates"
	"asphaltscope/testhelpers"
)

func TestGetActiveTenant_FromContext(t *testing.T) {
	expected := &templates.ActiveTenant{ID: "test123", Name: "Smith Asphalt"}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), ActiveTenantKey, expected)
	req = req.WithContext(ctx)

	got := GetActiveTenant(req)
	if got == nil {
		t.Fatal("expected active tenant, got nil")
	}
	if got.ID != expected.ID {
		t.Errorf("expected ID %q, got %q", expected.ID, got.ID)
	}
}

func TestGetActiveTenant_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetActiveTenant(req); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestGetHeaderData_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got := GetHeaderData(req)
	if got.ActiveTenant != nil || len(got.Tenants) != 0 {
		t.Error("expected empty header data")
	}
}

func TestActiveTenantMiddleware_LoadsTenantFromCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	tenant := testhelpers.CreateTestTenant(t, app, "Smith Asphalt", "51 824 753 556")
	testhelpers.CreateTestTenant(t, app, "Jones Roads", "53 004 085 616")
	testhelpers.CreateTestJob(t, app, tenant.Id, "J-20260302-001", "Depot resheet")

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.AddCookie(&http.Cookie{Name: "active_tenant", Value: tenant.Id})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	// e.Next() returns nil when there is no handler chain.
	if err := ActiveTenantMiddleware(app)(e); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}

	active := GetActiveTenant(e.Request)
	if active == nil || active.ID != tenant.Id {
		t.Fatalf("expected active tenant %s, got %v", tenant.Id, active)
	}
	if active.ABN != "51 824 753 556" {
		t.Errorf("ABN = %q", active.ABN)
	}

	header := GetHeaderData(e.Request)
	if len(header.Tenants) != 2 {
		t.Fatalf("expected 2 tenants in selector, got %d", len(header.Tenants))
	}
	activeCount := 0
	for _, item := range header.Tenants {
		if item.IsActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Errorf("expected exactly one active selector item, got %d", activeCount)
	}

	sidebar := GetSidebarData(e.Request)
	if sidebar.JobCount != 1 || sidebar.ActivePath != "/jobs" {
		t.Errorf("sidebar = %+v", sidebar)
	}
}

func TestActiveTenantMiddleware_ClearsStaleCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.AddCookie(&http.Cookie{Name: "active_tenant", Value: "missing"})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	_ = ActiveTenantMiddleware(app)(e)

	if GetActiveTenant(e.Request) != nil {
		t.Error("expected no active tenant")
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "active_tenant" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected stale active_tenant cookie to be cleared")
	}
}
