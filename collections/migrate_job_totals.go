package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"asphaltscope/services"
)

// MigrateJobTotals recomputes stored totals for jobs that have area sections
// but whose totals were never written (total tonnage still zero).
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateJobTotals(app core.App, calc services.Calculator) error {
	jobsCol, err := app.FindCollectionByNameOrId("jobs")
	if err != nil {
		return fmt.Errorf("migrate_totals: could not find jobs collection: %w", err)
	}

	stale, err := app.FindRecordsByFilter(
		jobsCol,
		"total_tonnage = 0 && quote_total_ex_gst = 0",
		"",
		0,
		0,
	)
	if err != nil {
		return fmt.Errorf("migrate_totals: could not query jobs: %w", err)
	}

	fixed := 0
	for _, job := range stale {
		sections, err := services.LoadJobSections(app, job.Id)
		if err != nil {
			log.Printf("migrate_totals: could not load sections for job %s: %v\n", job.Id, err)
			continue
		}
		if len(sections) == 0 {
			continue
		}

		if _, err := services.ReplaceJobSections(app, job.Id, sections, calc); err != nil {
			log.Printf("migrate_totals: failed to recompute job %s (%s): %v\n", job.GetString("job_number"), job.Id, err)
			continue
		}
		fixed++
	}

	if fixed > 0 {
		log.Printf("migrate_totals: recomputed totals for %d job(s).\n", fixed)
	}
	return nil
}
