package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// SectionFromRecord converts a job_items record into an AreaSection.
func SectionFromRecord(rec *core.Record) AreaSection {
	return AreaSection{
		Name:                rec.GetString("name"),
		AreaSqm:             decimal.NewFromFloat(rec.GetFloat("area_sqm")),
		DepthMm:             decimal.NewFromFloat(rec.GetFloat("depth_mm")),
		MixType:             MixType(rec.GetString("asphalt_mix_type")),
		Specification:       Specification(rec.GetString("specification")),
		CustomSpecification: rec.GetString("custom_specification"),
		UnitPricePerTonne:   decimal.NewFromFloat(rec.GetFloat("unit_price_per_tonne")),
		Notes:               rec.GetString("notes"),
	}
}

// JobWasteFactor reads a job's waste factor percentage.
func JobWasteFactor(job *core.Record) decimal.Decimal {
	return decimal.NewFromFloat(job.GetFloat("waste_factor"))
}

// FindJobItems returns the job_items of a job in display order.
func FindJobItems(app core.App, jobID string) ([]*core.Record, error) {
	items, err := app.FindRecordsByFilter(
		"job_items",
		"job = {:jobId}",
		"sort_order",
		0,
		0,
		map[string]any{"jobId": jobID},
	)
	if err != nil {
		return nil, fmt.Errorf("find job items: %w", err)
	}
	return items, nil
}

// LoadJobSections returns a job's area sections in display order.
func LoadJobSections(app core.App, jobID string) ([]AreaSection, error) {
	items, err := FindJobItems(app, jobID)
	if err != nil {
		return nil, err
	}
	sections := make([]AreaSection, 0, len(items))
	for _, item := range items {
		sections = append(sections, SectionFromRecord(item))
	}
	return sections, nil
}

// ReplaceJobSections prices the given sections and swaps them in for the
// job's existing job_items, writing per-section tonnage and price plus the
// job's five totals. Everything happens in one transaction: on any error the
// job keeps its previous sections and totals.
func ReplaceJobSections(app core.App, jobID string, sections []AreaSection, calc Calculator) (JobTotals, error) {
	var totals JobTotals

	err := app.RunInTransaction(func(txApp core.App) error {
		job, err := txApp.FindRecordById("jobs", jobID)
		if err != nil {
			return fmt.Errorf("job not found: %w", err)
		}

		totals, err = calc.JobTotals(sections, JobWasteFactor(job))
		if err != nil {
			return err
		}

		existing, err := FindJobItems(txApp, jobID)
		if err != nil {
			return err
		}
		for _, item := range existing {
			if err := txApp.Delete(item); err != nil {
				return fmt.Errorf("delete job item %s: %w", item.Id, err)
			}
		}

		itemsCol, err := txApp.FindCollectionByNameOrId("job_items")
		if err != nil {
			return fmt.Errorf("job_items collection: %w", err)
		}
		for i, res := range totals.Sections {
			rec := core.NewRecord(itemsCol)
			setSectionFields(rec, res)
			rec.Set("job", jobID)
			rec.Set("tenant", job.GetString("tenant"))
			rec.Set("sort_order", i+1)
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("save section %d (%s): %w", i+1, res.Section.Name, err)
			}
		}

		SetJobTotals(job, totals)
		if err := txApp.Save(job); err != nil {
			return fmt.Errorf("save job totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return JobTotals{}, err
	}

	app.Logger().Info("job sections replaced",
		"jobId", jobID,
		"sections", len(totals.Sections),
		"totalTonnage", totals.TotalTonnage.String(),
		"quoteTotalIncGst", totals.QuoteTotalIncGST.String(),
	)
	return totals, nil
}

// SetJobTotals copies the aggregate figures onto a jobs record without saving it.
func SetJobTotals(job *core.Record, totals JobTotals) {
	job.Set("site_area_sqm", totals.SiteAreaSqm.InexactFloat64())
	job.Set("total_tonnage", totals.TotalTonnage.InexactFloat64())
	job.Set("quote_total_ex_gst", totals.QuoteTotalExGST.InexactFloat64())
	job.Set("quote_gst_amount", totals.QuoteGSTAmount.InexactFloat64())
	job.Set("quote_total_inc_gst", totals.QuoteTotalIncGST.InexactFloat64())
}

func setSectionFields(rec *core.Record, res SectionResult) {
	s := res.Section
	spec := s.Specification
	if spec == "" {
		spec = DefaultSpecification
	}
	rec.Set("name", s.Name)
	rec.Set("area_sqm", s.AreaSqm.InexactFloat64())
	rec.Set("depth_mm", s.DepthMm.InexactFloat64())
	rec.Set("asphalt_mix_type", string(s.MixType))
	rec.Set("specification", string(spec))
	rec.Set("custom_specification", s.CustomSpecification)
	rec.Set("unit_price_per_tonne", s.UnitPricePerTonne.InexactFloat64())
	rec.Set("tonnage", res.Tonnage.InexactFloat64())
	rec.Set("total_price_ex_gst", res.TotalPriceExGST.InexactFloat64())
	rec.Set("notes", s.Notes)
}
