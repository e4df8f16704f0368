package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// formDateLayout is the value format of <input type="date">.
const formDateLayout = "2006-01-02"

// displayDateLayout matches the date style printed on quotes.
const displayDateLayout = "2 January 2006"

var errJobNotFound = errors.New("job not found")

// findTenantJob loads a job and checks it belongs to the tenant.
func findTenantJob(app *pocketbase.PocketBase, tenantID, jobID string) (*core.Record, error) {
	job, err := app.FindRecordById("jobs", jobID)
	if err != nil || job.GetString("tenant") != tenantID {
		return nil, errJobNotFound
	}
	return job, nil
}

// parseDecimalField parses a form number. Blank input yields fallback.
func parseDecimalField(raw string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return fallback, nil
	}
	return decimal.NewFromString(raw)
}

// parseFormDate parses a date input. Blank input yields the zero time.
func parseFormDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(formDateLayout, raw)
}

func formatDisplayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayDateLayout)
}

func isChecked(v string) bool {
	return v == "on" || v == "true"
}

// sanitizeFilename makes a job or quote number safe for Content-Disposition.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, "\"", "")
	return s
}
