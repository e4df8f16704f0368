package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"asphaltscope/services"
	"asphaltscope/templates"
)

// HandleRegisterPage renders the business registration form.
func HandleRegisterPage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := templates.RegisterData{
			GSTRegistered: true,
			States:        services.StateOptions(),
			Errors:        make(map[string]string),
		}
		component := templates.RegisterPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleRegister creates a tenant on a trial subscription and makes it the
// active tenant. A bad ABN checksum answers 400 and a taken ABN 409.
func HandleRegister(app *pocketbase.PocketBase, trialDays int) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		reg := services.Registration{
			BusinessName:  strings.TrimSpace(e.Request.FormValue("business_name")),
			ABN:           strings.TrimSpace(e.Request.FormValue("abn")),
			ACN:           strings.TrimSpace(e.Request.FormValue("acn")),
			GSTRegistered: isChecked(e.Request.FormValue("gst_registered")),
			AddressLine1:  strings.TrimSpace(e.Request.FormValue("address_line1")),
			AddressLine2:  strings.TrimSpace(e.Request.FormValue("address_line2")),
			Suburb:        strings.TrimSpace(e.Request.FormValue("suburb")),
			State:         strings.TrimSpace(e.Request.FormValue("state")),
			Postcode:      strings.TrimSpace(e.Request.FormValue("postcode")),
			Phone:         strings.TrimSpace(e.Request.FormValue("phone")),
			Email:         strings.TrimSpace(e.Request.FormValue("email")),
			Website:       strings.TrimSpace(e.Request.FormValue("website")),
		}

		tenant, err := services.RegisterTenant(app, reg, trialDays, time.Now())
		if err != nil {
			status := http.StatusOK
			errs := services.ErrorMap(err)
			switch {
			case errors.Is(err, services.ErrInvalidABN):
				status = http.StatusBadRequest
				errs = map[string]string{"abn": "Invalid ABN format or checksum"}
			case errors.Is(err, services.ErrDuplicateABN):
				status = http.StatusConflict
				errs = map[string]string{"abn": "An account with this ABN already exists"}
			case errs["_form"] != "":
				log.Printf("register: could not register tenant: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}

			SetToast(e, "warning", "Please fix the errors below")
			data := registerDataFrom(reg)
			data.Errors = errs
			e.Response.WriteHeader(status)
			component := templates.RegisterPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
			return component.Render(e.Request.Context(), e.Response)
		}

		setActiveTenantCookie(e, tenant.Id)
		SetToast(e, "success", "Business registered")
		return redirect(e, "/jobs")
	}
}

// HandleTenantActivate sets the active tenant cookie and returns a full page
// redirect via HX-Redirect so the header and sidebar re-render.
func HandleTenantActivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tenantID := e.Request.PathValue("id")

		if _, err := app.FindRecordById("tenants", tenantID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Business not found")
		}

		setActiveTenantCookie(e, tenantID)
		SetToast(e, "success", "Business activated")

		e.Response.Header().Set("HX-Redirect", "/jobs")
		return e.String(http.StatusOK, "OK")
	}
}

func setActiveTenantCookie(e *core.RequestEvent, tenantID string) {
	http.SetCookie(e.Response, &http.Cookie{
		Name:     activeTenantCookie,
		Value:    tenantID,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func registerDataFrom(reg services.Registration) templates.RegisterData {
	return templates.RegisterData{
		BusinessName:  reg.BusinessName,
		ABN:           reg.ABN,
		ACN:           reg.ACN,
		GSTRegistered: reg.GSTRegistered,
		AddressLine1:  reg.AddressLine1,
		AddressLine2:  reg.AddressLine2,
		Suburb:        reg.Suburb,
		State:         reg.State,
		Postcode:      reg.Postcode,
		Phone:         reg.Phone,
		Email:         reg.Email,
		Website:       reg.Website,
		States:        services.StateOptions(),
	}
}
