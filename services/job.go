package services

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// JobInput is the basic job information captured before any area sections.
type JobInput struct {
	Title               string          `json:"title"`
	JobType             JobType         `json:"job_type"`
	CustomerID          string          `json:"customer"`
	Description         string          `json:"description"`
	WasteFactor         decimal.Decimal `json:"waste_factor"`
	PurchaseOrderNumber string          `json:"purchase_order_number"`
	QuoteNumber         string          `json:"quote_number"`
	QuoteDate           time.Time       `json:"quote_date"`
	QuoteExpiryDate     time.Time       `json:"quote_expiry_date"`
	NightShift          bool            `json:"is_night_shift"`
	TruckAccess         TruckType       `json:"truck_access"`
}

// JobRules are the tenant-wide limits applied to job input.
type JobRules struct {
	MaxWasteFactor    decimal.Decimal
	QuoteValidityDays int
}

// Validate checks the job fields against rules.
func (in JobInput) Validate(rules JobRules) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if len([]rune(strings.TrimSpace(s))) < 3 {
				return validation.NewError("validation_title", "Job title must be at least 3 characters")
			}
			return nil
		})),
		validation.Field(&in.JobType,
			validation.Required.Error("Please select a job type"),
			validation.In(anySlice(JobTypes)...).Error("Please select a job type"),
		),
		validation.Field(&in.WasteFactor, validation.By(func(value interface{}) error {
			w, _ := value.(decimal.Decimal)
			return ValidateWasteFactor(w, rules.MaxWasteFactor)
		})),
		validation.Field(&in.TruckAccess, validation.In(anySlice(TruckTypes)...).Error("Please select truck access")),
		validation.Field(&in.QuoteExpiryDate, validation.By(func(value interface{}) error {
			exp, _ := value.(time.Time)
			if !exp.IsZero() && !in.QuoteDate.IsZero() && exp.Before(in.QuoteDate) {
				return validation.NewError("validation_quote_expiry", "Quote expiry must be on or after the quote date")
			}
			return nil
		})),
	)
}

// CreateJob validates the input and saves a draft job with the next job number.
// Unset quote dates default to now and now plus the validity period.
func CreateJob(app core.App, tenantID string, in JobInput, rules JobRules, now time.Time) (*core.Record, error) {
	if in.TruckAccess == "" {
		in.TruckAccess = DefaultTruck
	}
	if err := in.Validate(rules); err != nil {
		return nil, err
	}

	if in.CustomerID != "" {
		cust, err := app.FindRecordById("customers", in.CustomerID)
		if err != nil || cust.GetString("tenant") != tenantID {
			return nil, validation.Errors{"customer": validation.NewError("validation_customer", "Please select a valid customer")}
		}
	}

	quoteDate := in.QuoteDate
	if quoteDate.IsZero() {
		quoteDate = now
	}
	expiry := in.QuoteExpiryDate
	if expiry.IsZero() {
		expiry = QuoteExpiry(quoteDate, rules.QuoteValidityDays)
	}

	jobNumber, err := GenerateJobNumber(app, tenantID, now)
	if err != nil {
		return nil, err
	}

	col, err := app.FindCollectionByNameOrId("jobs")
	if err != nil {
		return nil, fmt.Errorf("jobs collection: %w", err)
	}

	job := core.NewRecord(col)
	job.Set("tenant", tenantID)
	job.Set("job_number", jobNumber)
	job.Set("customer", in.CustomerID)
	job.Set("job_type", string(in.JobType))
	job.Set("job_status", string(StatusDraft))
	job.Set("title", strings.TrimSpace(in.Title))
	job.Set("description", strings.TrimSpace(in.Description))
	job.Set("waste_factor", in.WasteFactor.InexactFloat64())
	job.Set("purchase_order_number", strings.TrimSpace(in.PurchaseOrderNumber))
	job.Set("quote_number", strings.TrimSpace(in.QuoteNumber))
	job.Set("quote_date", quoteDate)
	job.Set("quote_expiry_date", expiry)
	job.Set("is_night_shift", in.NightShift)
	job.Set("truck_access", string(in.TruckAccess))
	SetJobTotals(job, JobTotals{})

	if err := app.Save(job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}
	return job, nil
}

// UpdateJobStatus moves a job to another status in the JobStatus set.
func UpdateJobStatus(app core.App, jobID, status string) (*core.Record, error) {
	st, err := ParseJobStatus(status)
	if err != nil {
		return nil, err
	}
	job, err := app.FindRecordById("jobs", jobID)
	if err != nil {
		return nil, fmt.Errorf("job not found: %w", err)
	}
	job.Set("job_status", string(st))
	if err := app.Save(job); err != nil {
		return nil, fmt.Errorf("save job status: %w", err)
	}
	return job, nil
}
