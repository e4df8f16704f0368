package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"asphaltscope/services"
	"asphaltscope/templates"
)

// HandleCustomerList renders the active tenant's customers with the add form.
func HandleCustomerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tenant, err := requireTenant(e)
		if tenant == nil {
			return err
		}
		data := templates.CustomerListData{
			Customers: loadCustomerRows(app, tenant.ID),
			Form: templates.CustomerFormData{
				States: services.StateOptions(),
				Errors: make(map[string]string),
			},
		}
		component := templates.CustomersPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleCustomerSave adds a customer to the active tenant.
func HandleCustomerSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tenant, err := requireTenant(e)
		if tenant == nil {
			return err
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		in := services.CustomerInput{
			BusinessName: strings.TrimSpace(e.Request.FormValue("business_name")),
			TradingName:  strings.TrimSpace(e.Request.FormValue("trading_name")),
			ABN:          strings.TrimSpace(e.Request.FormValue("abn")),
			AddressLine1: strings.TrimSpace(e.Request.FormValue("address_line1")),
			Suburb:       strings.TrimSpace(e.Request.FormValue("suburb")),
			State:        strings.TrimSpace(e.Request.FormValue("state")),
			Postcode:     strings.TrimSpace(e.Request.FormValue("postcode")),
			Notes:        strings.TrimSpace(e.Request.FormValue("notes")),
		}

		if _, err := services.CreateCustomer(app, tenant.ID, in); err != nil {
			errs := services.ErrorMap(err)
			if errs["_form"] != "" {
				log.Printf("customers: could not save customer: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			SetToast(e, "warning", "Please fix the errors below")
			data := templates.CustomerListData{
				Customers: loadCustomerRows(app, tenant.ID),
				Form: templates.CustomerFormData{
					BusinessName: in.BusinessName,
					TradingName:  in.TradingName,
					ABN:          in.ABN,
					AddressLine1: in.AddressLine1,
					Suburb:       in.Suburb,
					State:        in.State,
					Postcode:     in.Postcode,
					Notes:        in.Notes,
					States:       services.StateOptions(),
					Errors:       errs,
				},
			}
			component := templates.CustomersPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
			return component.Render(e.Request.Context(), e.Response)
		}

		SetToast(e, "success", "Customer added")
		return redirect(e, "/customers")
	}
}

func loadCustomerRows(app *pocketbase.PocketBase, tenantID string) []templates.CustomerRow {
	records, err := app.FindRecordsByFilter("customers", "tenant = {:tid}", "business_name", 0, 0,
		map[string]any{"tid": tenantID})
	if err != nil {
		log.Printf("customers: could not load customers for %s: %v", tenantID, err)
		return nil
	}
	rows := make([]templates.CustomerRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, templates.CustomerRow{
			ID:           rec.Id,
			BusinessName: rec.GetString("business_name"),
			TradingName:  rec.GetString("trading_name"),
			ABN:          rec.GetString("abn"),
			Suburb:       rec.GetString("suburb"),
			State:        rec.GetString("state"),
			Postcode:     rec.GetString("postcode"),
		})
	}
	return rows
}

// customerOptions lists the tenant's customers for the job form select.
func customerOptions(app *pocketbase.PocketBase, tenantID string) []services.Option {
	rows := loadCustomerRows(app, tenantID)
	opts := make([]services.Option, len(rows))
	for i, r := range rows {
		opts[i] = services.Option{Value: r.ID, Label: r.BusinessName}
	}
	return opts
}
