package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"

	"asphaltscope/templates"
)

// BuildSidebarData constructs the SidebarData from the current request context.
// It reads the active tenant from middleware context and counts its jobs and customers.
func BuildSidebarData(r *http.Request, app *pocketbase.PocketBase) templates.SidebarData {
	active := GetActiveTenant(r)
	data := templates.SidebarData{
		ActiveTenant: active,
		ActivePath:   r.URL.Path,
	}
	if active == nil {
		return data
	}

	params := map[string]any{"tid": active.ID}
	if jobs, err := app.FindRecordsByFilter("jobs", "tenant = {:tid}", "", 0, 0, params); err == nil {
		data.JobCount = len(jobs)
	}
	if customers, err := app.FindRecordsByFilter("customers", "tenant = {:tid}", "", 0, 0, params); err == nil {
		data.CustomerCount = len(customers)
	}
	return data
}
