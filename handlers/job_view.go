package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"asphaltscope/services"
	"asphaltscope/templates"
)

// HandleJobView renders the quote summary for a job.
func HandleJobView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tenant, err := requireTenant(e)
		if tenant == nil {
			return err
		}
		job, err := findTenantJob(app, tenant.ID, e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Job not found")
		}

		items, err := services.FindJobItems(app, job.Id)
		if err != nil {
			log.Printf("job_view: could not load sections for %s: %v", job.Id, err)
		}

		status := services.JobStatus(job.GetString("job_status"))
		data := templates.JobViewData{
			ID:              job.Id,
			JobNumber:       job.GetString("job_number"),
			Title:           job.GetString("title"),
			Status:          string(status),
			StatusLabel:     status.Label(),
			JobTypeLabel:    services.JobType(job.GetString("job_type")).Label(),
			CustomerName:    "No customer",
			Description:     job.GetString("description"),
			QuoteNumber:     job.GetString("quote_number"),
			QuoteDate:       formatDisplayDate(job.GetDateTime("quote_date").Time()),
			QuoteExpiryDate: formatDisplayDate(job.GetDateTime("quote_expiry_date").Time()),
			PONumber:        job.GetString("purchase_order_number"),
			WasteFactor:     services.JobWasteFactor(job).String(),
			NightShift:      job.GetBool("is_night_shift"),
			TruckLabel:      services.TruckType(job.GetString("truck_access")).Label(),
			SiteArea:        services.FormatQty(recordDecimal(job, "site_area_sqm")),
			TotalTonnage:    services.FormatTonnage(recordDecimal(job, "total_tonnage")),
			SubtotalEx:      services.FormatAUD(recordDecimal(job, "quote_total_ex_gst")),
			GST:             services.FormatAUD(recordDecimal(job, "quote_gst_amount")),
			TotalInc:        services.FormatAUD(recordDecimal(job, "quote_total_inc_gst")),
			Statuses:        services.JobStatusOptions(),
		}
		if data.QuoteNumber == "" {
			data.QuoteNumber = data.JobNumber
		}
		if customerID := job.GetString("customer"); customerID != "" {
			if cust, err := app.FindRecordById("customers", customerID); err == nil {
				data.CustomerName = cust.GetString("business_name")
			}
		}

		for i, item := range items {
			s := services.SectionFromRecord(item)
			specLabel := s.Specification.Label()
			if s.Specification == services.SpecCustom && s.CustomSpecification != "" {
				specLabel = s.CustomSpecification
			}
			data.Sections = append(data.Sections, templates.JobViewSection{
				No:        i + 1,
				Name:      s.Name,
				MixLabel:  s.MixType.Label(),
				SpecLabel: specLabel,
				AreaSqm:   services.FormatQty(s.AreaSqm),
				DepthMm:   services.FormatQty(s.DepthMm),
				Tonnage:   services.FormatTonnage(recordDecimal(item, "tonnage")),
				UnitPrice: services.FormatAUD(s.UnitPricePerTonne),
				Amount:    services.FormatAUD(recordDecimal(item, "total_price_ex_gst")),
				Notes:     s.Notes,
			})
		}

		component := templates.JobViewPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
		return component.Render(e.Request.Context(), e.Response)
	}
}

func recordDecimal(rec *core.Record, field string) decimal.Decimal {
	return decimal.NewFromFloat(rec.GetFloat(field))
}
