package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"asphaltscope/templates"
)

type contextKey string

const ActiveTenantKey contextKey = "activeTenant"
const HeaderDataKey contextKey = "headerData"
const SidebarDataKey contextKey = "sidebarData"

// activeTenantCookie holds the id of the business currently being worked on.
const activeTenantCookie = "active_tenant"

// GetActiveTenant extracts the active tenant from the request context.
func GetActiveTenant(r *http.Request) *templates.ActiveTenant {
	if val, ok := r.Context().Value(ActiveTenantKey).(*templates.ActiveTenant); ok {
		return val
	}
	return nil
}

// GetHeaderData extracts the pre-built HeaderData from the request context.
func GetHeaderData(r *http.Request) templates.HeaderData {
	if val, ok := r.Context().Value(HeaderDataKey).(templates.HeaderData); ok {
		return val
	}
	return templates.HeaderData{}
}

// GetSidebarData extracts the pre-built SidebarData from the request context.
func GetSidebarData(r *http.Request) templates.SidebarData {
	if val, ok := r.Context().Value(SidebarDataKey).(templates.SidebarData); ok {
		return val
	}
	return templates.SidebarData{}
}

// ActiveTenantMiddleware reads the "active_tenant" cookie, loads the tenant
// record, builds HeaderData with the full tenant list, and stores both in the
// request context so handlers and templates can use them.
func ActiveTenantMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var active *templates.ActiveTenant

		cookie, err := e.Request.Cookie(activeTenantCookie)
		if err == nil && cookie.Value != "" {
			rec, err := app.FindRecordById("tenants", cookie.Value)
			if err == nil {
				active = &templates.ActiveTenant{
					ID:   rec.Id,
					Name: rec.GetString("name"),
					ABN:  rec.GetString("abn"),
				}
			} else {
				log.Printf("middleware: active tenant %s not found, clearing cookie", cookie.Value)
				http.SetCookie(e.Response, &http.Cookie{
					Name:   activeTenantCookie,
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
			}
		}

		var selectorItems []templates.TenantSelectorItem
		records, _ := app.FindRecordsByFilter("tenants", "active = true", "name", 0, 0)
		for _, rec := range records {
			selectorItems = append(selectorItems, templates.TenantSelectorItem{
				ID:       rec.Id,
				Name:     rec.GetString("name"),
				ABN:      rec.GetString("abn"),
				IsActive: active != nil && rec.Id == active.ID,
			})
		}

		headerData := templates.HeaderData{
			ActiveTenant: active,
			Tenants:      selectorItems,
		}

		ctx := context.WithValue(e.Request.Context(), ActiveTenantKey, active)
		ctx = context.WithValue(ctx, HeaderDataKey, headerData)
		e.Request = e.Request.WithContext(ctx)

		// Sidebar counts need the tenant in context first.
		sidebarData := BuildSidebarData(e.Request, app)
		ctx = context.WithValue(e.Request.Context(), SidebarDataKey, sidebarData)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}

// requireTenant returns the active tenant, or sends the browser to the
// registration page when none is selected. A nil tenant means the response
// has already been written.
func requireTenant(e *core.RequestEvent) (*templates.ActiveTenant, error) {
	if tenant := GetActiveTenant(e.Request); tenant != nil {
		return tenant, nil
	}
	SetToast(e, "warning", "Select or register a business first")
	return nil, redirect(e, "/register")
}
