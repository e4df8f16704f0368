package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// jobNumberPrefix returns the per-day prefix, e.g. "J-20260314-".
func jobNumberPrefix(day time.Time) string {
	return "J-" + day.Format("20060102") + "-"
}

// formatJobNumber constructs the job number string from components.
func formatJobNumber(day time.Time, sequence int) string {
	return fmt.Sprintf("%s%03d", jobNumberPrefix(day), sequence)
}

// parseJobSequence extracts the trailing sequence from a job number carrying
// the given prefix. It returns 0 when the number does not match.
func parseJobSequence(jobNumber, prefix string) int {
	rest, ok := strings.CutPrefix(jobNumber, prefix)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// GenerateJobNumber creates the next job number for a tenant.
// Format: J-{YYYYMMDD}-{sequence}
//   - the date is the creation day in the caller's location
//   - sequence: 3-digit zero-padded, per tenant per day, one past the highest in use
func GenerateJobNumber(app core.App, tenantID string, now time.Time) (string, error) {
	if _, err := app.FindRecordById("tenants", tenantID); err != nil {
		return "", fmt.Errorf("tenant not found: %w", err)
	}

	prefix := jobNumberPrefix(now)

	existing, err := app.FindRecordsByFilter(
		"jobs",
		"tenant = {:tenantId} && job_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{
			"tenantId": tenantID,
			"prefix":   prefix + "%",
		},
	)
	if err != nil {
		existing = nil
	}

	highest := 0
	for _, job := range existing {
		if seq := parseJobSequence(job.GetString("job_number"), prefix); seq > highest {
			highest = seq
		}
	}

	return formatJobNumber(now, highest+1), nil
}

// QuoteExpiry returns the default quote expiry date: quoteDate plus validityDays.
func QuoteExpiry(quoteDate time.Time, validityDays int) time.Time {
	return quoteDate.AddDate(0, 0, validityDays)
}
