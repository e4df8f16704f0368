package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
)

var (
	// ErrInvalidABN is returned when a submitted ABN fails the checksum.
	ErrInvalidABN = errors.New("invalid ABN format or checksum")
	// ErrDuplicateABN is returned when another tenant already holds the ABN.
	ErrDuplicateABN = errors.New("an account with this ABN already exists")
)

const (
	DefaultCrewName  = "Main Crew"
	DefaultCrewColor = "#3498DB"
)

// Registration is the business detail captured when a contractor signs up.
type Registration struct {
	BusinessName  string `json:"business_name"`
	ABN           string `json:"abn"`
	ACN           string `json:"acn"`
	GSTRegistered bool   `json:"gst_registered"`
	AddressLine1  string `json:"address_line1"`
	AddressLine2  string `json:"address_line2"`
	Suburb        string `json:"suburb"`
	State         string `json:"state"`
	Postcode      string `json:"postcode"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Website       string `json:"website"`
}

// AustralianStates lists the state and territory codes offered in forms.
var AustralianStates = []string{"NSW", "VIC", "QLD", "WA", "SA", "TAS", "ACT", "NT"}

// Validate checks required business fields. The ABN checksum is checked
// separately by RegisterTenant so it can be reported as ErrInvalidABN.
func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BusinessName, validation.By(notBlank("Business name is required"))),
		validation.Field(&r.ABN, validation.By(notBlank("ABN is required"))),
		validation.Field(&r.AddressLine1, validation.By(notBlank("Address is required"))),
		validation.Field(&r.Suburb, validation.By(notBlank("Suburb is required"))),
		validation.Field(&r.State,
			validation.Required.Error("State is required"),
			validation.In(anySlice(AustralianStates)...).Error("Please select a state or territory"),
		),
		validation.Field(&r.Postcode,
			validation.Required.Error("Postcode is required"),
			validation.Length(4, 4).Error("Postcode must be 4 digits"),
			is.Digit.Error("Postcode must be 4 digits"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			is.EmailFormat.Error("Please enter a valid email address"),
		),
	)
}

// RegisterTenant creates a tenant on a trial subscription together with its
// default crew. The ABN is stored in display format.
func RegisterTenant(app core.App, reg Registration, trialDays int, now time.Time) (*core.Record, error) {
	reg.BusinessName = strings.TrimSpace(reg.BusinessName)
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	digits := NormalizeDigits(reg.ABN)
	if !ValidateABN(digits) {
		return nil, ErrInvalidABN
	}
	formatted := FormatABN(digits)

	taken, err := app.FindFirstRecordByData("tenants", "abn", formatted)
	if err == nil && taken != nil {
		return nil, ErrDuplicateABN
	}

	var tenant *core.Record
	err = app.RunInTransaction(func(txApp core.App) error {
		tenantsCol, err := txApp.FindCollectionByNameOrId("tenants")
		if err != nil {
			return fmt.Errorf("tenants collection: %w", err)
		}

		tenant = core.NewRecord(tenantsCol)
		tenant.Set("name", reg.BusinessName)
		tenant.Set("slug", Slugify(reg.BusinessName)+"-"+uuid.NewString()[:8])
		tenant.Set("abn", formatted)
		tenant.Set("acn", strings.TrimSpace(reg.ACN))
		tenant.Set("gst_registered", reg.GSTRegistered)
		tenant.Set("address_line1", strings.TrimSpace(reg.AddressLine1))
		tenant.Set("address_line2", strings.TrimSpace(reg.AddressLine2))
		tenant.Set("suburb", strings.TrimSpace(reg.Suburb))
		tenant.Set("state", reg.State)
		tenant.Set("postcode", reg.Postcode)
		tenant.Set("phone", strings.TrimSpace(reg.Phone))
		tenant.Set("email", strings.TrimSpace(reg.Email))
		tenant.Set("website", strings.TrimSpace(reg.Website))
		tenant.Set("active", true)
		tenant.Set("subscription_tier", "basic")
		tenant.Set("subscription_status", "trial")
		tenant.Set("trial_ends_at", now.AddDate(0, 0, trialDays))
		if err := txApp.Save(tenant); err != nil {
			return fmt.Errorf("save tenant: %w", err)
		}

		crewsCol, err := txApp.FindCollectionByNameOrId("crews")
		if err != nil {
			return fmt.Errorf("crews collection: %w", err)
		}
		crew := core.NewRecord(crewsCol)
		crew.Set("tenant", tenant.Id)
		crew.Set("name", DefaultCrewName)
		crew.Set("color", DefaultCrewColor)
		crew.Set("is_active", true)
		if err := txApp.Save(crew); err != nil {
			return fmt.Errorf("save default crew: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	app.Logger().Info("tenant registered",
		"tenantId", tenant.Id,
		"slug", tenant.GetString("slug"),
		"abn", formatted,
	)
	return tenant, nil
}

// CustomerInput is the customer detail captured on the customers screen.
type CustomerInput struct {
	BusinessName string `json:"business_name"`
	TradingName  string `json:"trading_name"`
	ABN          string `json:"abn"`
	AddressLine1 string `json:"address_line1"`
	Suburb       string `json:"suburb"`
	State        string `json:"state"`
	Postcode     string `json:"postcode"`
	Notes        string `json:"notes"`
}

// Validate checks the customer fields. The ABN is optional but must pass
// the checksum when given.
func (c CustomerInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BusinessName, validation.By(notBlank("Business name is required"))),
		validation.Field(&c.ABN, validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if strings.TrimSpace(s) == "" {
				return nil
			}
			if !ValidateABN(NormalizeDigits(s)) {
				return validation.NewError("validation_abn", "Please enter a valid ABN")
			}
			return nil
		})),
		validation.Field(&c.State, validation.In(anySlice(AustralianStates)...).Error("Please select a state or territory")),
	)
}

// CreateCustomer validates and saves a customer for a tenant.
func CreateCustomer(app core.App, tenantID string, in CustomerInput) (*core.Record, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		return nil, fmt.Errorf("customers collection: %w", err)
	}

	abn := ""
	if digits := NormalizeDigits(in.ABN); digits != "" {
		abn = FormatABN(digits)
	}

	rec := core.NewRecord(col)
	rec.Set("tenant", tenantID)
	rec.Set("business_name", strings.TrimSpace(in.BusinessName))
	rec.Set("trading_name", strings.TrimSpace(in.TradingName))
	rec.Set("abn", abn)
	rec.Set("address_line1", strings.TrimSpace(in.AddressLine1))
	rec.Set("suburb", strings.TrimSpace(in.Suburb))
	rec.Set("state", in.State)
	rec.Set("postcode", strings.TrimSpace(in.Postcode))
	rec.Set("notes", strings.TrimSpace(in.Notes))
	rec.Set("is_active", true)
	if err := app.Save(rec); err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}
	return rec, nil
}
