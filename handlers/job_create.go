package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"asphaltscope/services"
	"asphaltscope/templates"
)

// HandleJobCreate renders the job basic info form with today's quote dates.
func HandleJobCreate(app *pocketbase.PocketBase, rules services.JobRules, defaultWaste decimal.Decimal) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tenant, err := requireTenant(e)
		if tenant == nil {
			return err
		}
		today := time.Now()
		data := templates.JobCreateData{
			WasteFactor:     defaultWaste.String(),
			QuoteDate:       today.Format(formDateLayout),
			QuoteExpiryDate: services.QuoteExpiry(today, rules.QuoteValidityDays).Format(formDateLayout),
			TruckAccess:     string(services.DefaultTruck),
			Errors:          make(map[string]string),
		}
		fillJobCreateOptions(app, tenant.ID, rules, &data)
		component := templates.JobCreatePage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleJobSave creates a draft job and continues to the area step.
func HandleJobSave(app *pocketbase.PocketBase, rules services.JobRules, defaultWaste decimal.Decimal) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tenant, err := requireTenant(e)
		if tenant == nil {
			return err
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		form := templates.JobCreateData{
			Title:               strings.TrimSpace(e.Request.FormValue("title")),
			JobType:             strings.TrimSpace(e.Request.FormValue("job_type")),
			CustomerID:          strings.TrimSpace(e.Request.FormValue("customer")),
			Description:         strings.TrimSpace(e.Request.FormValue("description")),
			WasteFactor:         strings.TrimSpace(e.Request.FormValue("waste_factor")),
			PurchaseOrderNumber: strings.TrimSpace(e.Request.FormValue("purchase_order_number")),
			QuoteNumber:         strings.TrimSpace(e.Request.FormValue("quote_number")),
			QuoteDate:           strings.TrimSpace(e.Request.FormValue("quote_date")),
			QuoteExpiryDate:     strings.TrimSpace(e.Request.FormValue("quote_expiry_date")),
			NightShift:          isChecked(e.Request.FormValue("is_night_shift")),
			TruckAccess:         strings.TrimSpace(e.Request.FormValue("truck_access")),
		}

		errs := make(map[string]string)
		waste, err := parseDecimalField(form.WasteFactor, defaultWaste)
		if err != nil {
			errs["waste_factor"] = "Waste factor must be a number"
		}
		quoteDate, err := parseFormDate(form.QuoteDate)
		if err != nil {
			errs["quote_date"] = "Please enter a valid date"
		}
		expiry, err := parseFormDate(form.QuoteExpiryDate)
		if err != nil {
			errs["quote_expiry_date"] = "Please enter a valid date"
		}

		if len(errs) == 0 {
			in := services.JobInput{
				Title:               form.Title,
				JobType:             services.JobType(form.JobType),
				CustomerID:          form.CustomerID,
				Description:         form.Description,
				WasteFactor:         waste,
				PurchaseOrderNumber: form.PurchaseOrderNumber,
				QuoteNumber:         form.QuoteNumber,
				QuoteDate:           quoteDate,
				QuoteExpiryDate:     expiry,
				NightShift:          form.NightShift,
				TruckAccess:         services.TruckType(form.TruckAccess),
			}
			job, err := services.CreateJob(app, tenant.ID, in, rules, time.Now())
			if err == nil {
				SetToast(e, "success", "Job "+job.GetString("job_number")+" created")
				return redirect(e, "/jobs/"+job.Id+"/areas")
			}
			errs = services.ErrorMap(err)
			if errs["_form"] != "" {
				log.Printf("job_create: could not create job: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}

		SetToast(e, "warning", "Please fix the errors below")
		form.Errors = errs
		fillJobCreateOptions(app, tenant.ID, rules, &form)
		component := templates.JobCreatePage(form, GetHeaderData(e.Request), GetSidebarData(e.Request))
		return component.Render(e.Request.Context(), e.Response)
	}
}

func fillJobCreateOptions(app *pocketbase.PocketBase, tenantID string, rules services.JobRules, data *templates.JobCreateData) {
	data.JobTypes = services.JobTypeOptions()
	data.TruckTypes = services.TruckTypeOptions()
	data.Customers = customerOptions(app, tenantID)
	data.MaxWasteFactor = rules.MaxWasteFactor.String()
}
