package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"asphaltscope/services"
	"asphaltscope/templates"
)

// sectionFieldPattern matches indexed row inputs such as sections[2][area_sqm].
var sectionFieldPattern = regexp.MustCompile(`^sections\[(\d+)\]\[([a-z_]+)\]$`)

// HandleJobAreas renders the area sections step for a job.
func HandleJobAreas(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tenant, err := requireTenant(e)
		if tenant == nil {
			return err
		}
		job, err := findTenantJob(app, tenant.ID, e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Job not found")
		}

		rows := loadSectionRows(app, job.Id)
		if len(rows) == 0 {
			rows = append(rows, blankSectionRow(0))
		}

		return renderJobAreas(e, job, rows, make(map[string]string))
	}
}

// HandleJobAreasSave replaces the job's sections with the submitted rows and
// recalculates the job totals. action=add_row and action=remove_N re-render
// the form without saving.
func HandleJobAreasSave(app *pocketbase.PocketBase, calc services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tenant, err := requireTenant(e)
		if tenant == nil {
			return err
		}
		job, err := findTenantJob(app, tenant.ID, e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Job not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		rows := parseSectionRows(e.Request.PostForm)
		action := e.Request.FormValue("action")

		switch {
		case action == "add_row":
			rows = append(renumberRows(rows), blankSectionRow(len(rows)))
			return renderJobAreas(e, job, rows, make(map[string]string))
		case strings.HasPrefix(action, "remove_"):
			idx, _ := strconv.Atoi(strings.TrimPrefix(action, "remove_"))
			kept := rows[:0]
			for _, r := range rows {
				if r.Index != idx {
					kept = append(kept, r)
				}
			}
			return renderJobAreas(e, job, renumberRows(kept), make(map[string]string))
		}

		rows = renumberRows(dropBlankRows(rows))
		sections := make([]services.AreaSection, 0, len(rows))
		errs := make(map[string]string)
		for _, row := range rows {
			s, rowErrs := sectionFromRow(row)
			for field, msg := range rowErrs {
				errs[fmt.Sprintf("sections.%d.%s", row.Index, field)] = msg
			}
			sections = append(sections, s)
		}

		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return renderJobAreas(e, job, rows, errs)
		}

		if _, err := services.ReplaceJobSections(app, job.Id, sections, calc); err != nil {
			log.Printf("job_areas: could not save sections for %s: %v", job.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save areas. Please try again.")
		}

		if action == "save_draft" {
			SetToast(e, "success", "Draft saved")
			return redirect(e, "/jobs")
		}
		SetToast(e, "success", "Areas saved")
		return redirect(e, "/jobs/"+job.Id)
	}
}

// loadSectionRows converts the job's saved items into form rows.
func loadSectionRows(app *pocketbase.PocketBase, jobID string) []templates.SectionFormRow {
	items, err := services.FindJobItems(app, jobID)
	if err != nil {
		log.Printf("job_areas: could not load sections for %s: %v", jobID, err)
	}
	rows := make([]templates.SectionFormRow, 0, len(items)+1)
	for i, item := range items {
		s := services.SectionFromRecord(item)
		rows = append(rows, templates.SectionFormRow{
			Index:               i,
			Name:                s.Name,
			AreaSqm:             s.AreaSqm.String(),
			DepthMm:             s.DepthMm.String(),
			MixType:             string(s.MixType),
			Specification:       string(s.Specification),
			CustomSpecification: s.CustomSpecification,
			UnitPricePerTonne:   s.UnitPricePerTonne.String(),
			Notes:               s.Notes,
			Tonnage:             services.FormatTonnage(recordDecimal(item, "tonnage")),
			TotalPrice:          services.FormatAUD(recordDecimal(item, "total_price_ex_gst")),
		})
	}
	return rows
}

func renderJobAreas(e *core.RequestEvent, job *core.Record, rows []templates.SectionFormRow, errs map[string]string) error {
	return renderJobAreasData(e, job, rows, errs, nil)
}

func renderJobAreasData(e *core.RequestEvent, job *core.Record, rows []templates.SectionFormRow, errs map[string]string, importErrs []services.ImportRowError) error {
	data := templates.JobAreasData{
		JobID:          job.Id,
		JobNumber:      job.GetString("job_number"),
		Title:          job.GetString("title"),
		WasteFactor:    services.JobWasteFactor(job).String(),
		Sections:       rows,
		MixTypes:       services.MixTypeOptions(),
		Specifications: services.SpecificationOptions(),
		Errors:         errs,
		ImportErrors:   importErrs,
	}
	component := templates.JobAreasPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
	return component.Render(e.Request.Context(), e.Response)
}

func blankSectionRow(index int) templates.SectionFormRow {
	return templates.SectionFormRow{
		Index:         index,
		Specification: string(services.DefaultSpecification),
	}
}

// parseSectionRows collects sections[i][field] inputs into rows ordered by index.
func parseSectionRows(form url.Values) []templates.SectionFormRow {
	byIndex := make(map[int]*templates.SectionFormRow)
	for key, vals := range form {
		m := sectionFieldPattern.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		row, ok := byIndex[idx]
		if !ok {
			row = &templates.SectionFormRow{Index: idx}
			byIndex[idx] = row
		}
		v := strings.TrimSpace(vals[0])
		switch m[2] {
		case "name":
			row.Name = v
		case "area_sqm":
			row.AreaSqm = v
		case "depth_mm":
			row.DepthMm = v
		case "asphalt_mix_type":
			row.MixType = v
		case "specification":
			row.Specification = v
		case "custom_specification":
			row.CustomSpecification = v
		case "unit_price_per_tonne":
			row.UnitPricePerTonne = v
		case "notes":
			row.Notes = v
		}
	}

	indices := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	rows := make([]templates.SectionFormRow, 0, len(indices))
	for _, idx := range indices {
		rows = append(rows, *byIndex[idx])
	}
	return rows
}

func renumberRows(rows []templates.SectionFormRow) []templates.SectionFormRow {
	for i := range rows {
		rows[i].Index = i
	}
	return rows
}

// dropBlankRows removes rows the user added but never filled in.
func dropBlankRows(rows []templates.SectionFormRow) []templates.SectionFormRow {
	kept := rows[:0]
	for _, r := range rows {
		if r.Name == "" && r.AreaSqm == "" && r.DepthMm == "" && r.UnitPricePerTonne == "" && r.MixType == "" {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// sectionFromRow converts a submitted row, returning field errors keyed by
// input name.
func sectionFromRow(row templates.SectionFormRow) (services.AreaSection, map[string]string) {
	errs := make(map[string]string)

	area, err := parseDecimalField(row.AreaSqm, decimal.Zero)
	if err != nil {
		errs["area_sqm"] = "Area must be a number"
	}
	depth, err := parseDecimalField(row.DepthMm, decimal.Zero)
	if err != nil {
		errs["depth_mm"] = "Depth must be a number"
	}
	price, err := parseDecimalField(row.UnitPricePerTonne, decimal.Zero)
	if err != nil {
		errs["unit_price_per_tonne"] = "Unit price must be a number"
	}

	spec := services.Specification(row.Specification)
	if parsed, err := services.ParseSpecification(row.Specification); err == nil {
		spec = parsed
	}

	s := services.AreaSection{
		Name:                row.Name,
		AreaSqm:             area,
		DepthMm:             depth,
		MixType:             services.MixType(row.MixType),
		Specification:       spec,
		CustomSpecification: row.CustomSpecification,
		UnitPricePerTonne:   price,
		Notes:               row.Notes,
	}
	for field, msg := range services.ErrorMap(s.Validate()) {
		if _, ok := errs[field]; !ok {
			errs[field] = msg
		}
	}
	return s, errs
}
