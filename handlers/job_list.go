package handlers

import (
	"log"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"asphaltscope/services"
	"asphaltscope/templates"
)

// HandleJobList renders the active tenant's jobs, newest first, optionally
// filtered by ?status=.
func HandleJobList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tenant, err := requireTenant(e)
		if tenant == nil {
			return err
		}

		filter := "tenant = {:tid}"
		params := map[string]any{"tid": tenant.ID}
		statusFilter := strings.TrimSpace(e.Request.URL.Query().Get("status"))
		if _, err := services.ParseJobStatus(statusFilter); err == nil {
			filter += " && job_status = {:status}"
			params["status"] = statusFilter
		} else {
			statusFilter = ""
		}

		records, err := app.FindRecordsByFilter("jobs", filter, "-job_number", 0, 0, params)
		if err != nil {
			log.Printf("job_list: could not query jobs: %v", err)
		}

		customerNames := make(map[string]string)
		for _, c := range loadCustomerRows(app, tenant.ID) {
			customerNames[c.ID] = c.BusinessName
		}

		rows := make([]templates.JobRow, 0, len(records))
		for _, rec := range records {
			status := services.JobStatus(rec.GetString("job_status"))
			rows = append(rows, templates.JobRow{
				ID:           rec.Id,
				JobNumber:    rec.GetString("job_number"),
				Title:        rec.GetString("title"),
				CustomerName: customerNames[rec.GetString("customer")],
				JobTypeLabel: services.JobType(rec.GetString("job_type")).Label(),
				Status:       string(status),
				StatusLabel:  status.Label(),
				QuoteDate:    formatDisplayDate(rec.GetDateTime("quote_date").Time()),
				Tonnage:      services.FormatTonnage(decimal.NewFromFloat(rec.GetFloat("total_tonnage"))),
				TotalIncGST:  services.FormatAUD(decimal.NewFromFloat(rec.GetFloat("quote_total_inc_gst"))),
			})
		}

		data := templates.JobListData{
			Jobs:         rows,
			StatusFilter: statusFilter,
			Statuses:     services.JobStatusOptions(),
		}
		component := templates.JobListPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
		return component.Render(e.Request.Context(), e.Response)
	}
}
