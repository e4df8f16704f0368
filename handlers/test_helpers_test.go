package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"asphaltscope/templates"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// withTenant puts the tenant into the request context the way
// ActiveTenantMiddleware does.
func withTenant(req *http.Request, tenant *core.Record) *http.Request {
	active := &templates.ActiveTenant{
		ID:   tenant.Id,
		Name: tenant.GetString("name"),
		ABN:  tenant.GetString("abn"),
	}
	ctx := context.WithValue(req.Context(), ActiveTenantKey, active)
	return req.WithContext(ctx)
}

// newFormRequest builds a urlencoded POST.
func newFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// newJSONRequest builds a JSON POST.
func newJSONRequest(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, io.NopCloser(strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}
