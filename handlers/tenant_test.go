package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"asphaltscope/testhelpers"
)

func registrationForm(abn string) url.Values {
	form := url.Values{}
	form.Set("business_name", "Smith Asphalt Pty Ltd")
	form.Set("abn", abn)
	form.Set("gst_registered", "on")
	form.Set("address_line1", "12 Bitumen Way")
	form.Set("suburb", "Penrith")
	form.Set("state", "NSW")
	form.Set("postcode", "2750")
	form.Set("email", "office@smithasphalt.com.au")
	return form
}

func TestHandleRegisterPage_RendersForm(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	rec := httptest.NewRecorder()

	if err := HandleRegisterPage(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `name="business_name"`, `name="abn"`, `value="QLD"`)
}

func TestHandleRegister_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := newFormRequest("/register", registrationForm("51824753556"))
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	if err := HandleRegister(app, 14)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/jobs")

	tenant, err := app.FindFirstRecordByData("tenants", "abn", "51 824 753 556")
	if err != nil {
		t.Fatalf("expected tenant stored with formatted ABN: %v", err)
	}

	var cookieVal string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "active_tenant" {
			cookieVal = c.Value
		}
	}
	if cookieVal != tenant.Id {
		t.Errorf("active_tenant cookie = %q, want %q", cookieVal, tenant.Id)
	}
}

func TestHandleRegister_InvalidABN(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := newFormRequest("/register", registrationForm("12345678901"))
	rec := httptest.NewRecorder()

	if err := HandleRegister(app, 14)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Invalid ABN format or checksum", `value="Smith Asphalt Pty Ltd"`)

	tenants, _ := app.FindAllRecords("tenants")
	if len(tenants) != 0 {
		t.Errorf("expected no tenant saved, got %d", len(tenants))
	}
}

func TestHandleRegister_DuplicateABN(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestTenant(t, app, "Existing", "51 824 753 556")

	req := newFormRequest("/register", registrationForm("51 824 753 556"))
	rec := httptest.NewRecorder()

	if err := HandleRegister(app, 14)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "already exists")
}

func TestHandleRegister_MissingFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	form := registrationForm("51824753556")
	form.Set("business_name", "")
	form.Set("postcode", "27")
	req := newFormRequest("/register", form)
	rec := httptest.NewRecorder()

	if err := HandleRegister(app, 14)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Business name is required", "Postcode must be 4 digits")
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "warning") {
		t.Error("expected warning toast")
	}
}

func TestHandleTenantActivate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	tenant := testhelpers.CreateTestTenant(t, app, "Smith Asphalt", "51 824 753 556")

	req := httptest.NewRequest(http.MethodPost, "/tenants/"+tenant.Id+"/activate", nil)
	req.SetPathValue("id", tenant.Id)
	rec := httptest.NewRecorder()

	if err := HandleTenantActivate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/jobs")
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "active_tenant="+tenant.Id) {
		t.Errorf("expected active_tenant cookie, got %q", rec.Header().Get("Set-Cookie"))
	}
}

func TestHandleTenantActivate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/tenants/missing/activate", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	if err := HandleTenantActivate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}
