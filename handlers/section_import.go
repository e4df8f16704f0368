package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"asphaltscope/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HandleSectionTemplateDownload serves the Excel template for area section import.
// Route: GET /jobs/areas/template
func HandleSectionTemplateDownload() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateSectionTemplate()
		if err != nil {
			log.Printf("section_template: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}

		filename := fmt.Sprintf("Area_Sections_Template_%d.xlsx", time.Now().Year())
		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleSectionImport appends the sections in an uploaded .csv or .xlsx file
// to the job and recalculates its totals. Nothing is saved if any row fails.
// Route: POST /jobs/{id}/areas/import
func HandleSectionImport(app *pocketbase.PocketBase, calc services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tenant, err := requireTenant(e)
		if tenant == nil {
			return err
		}
		job, err := findTenantJob(app, tenant.ID, e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Job not found")
		}

		// max 10MB
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ParseSectionFile(file, header.Filename)
		if err != nil {
			log.Printf("section_import: %s: %v", header.Filename, err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		if !result.Valid() {
			SetToast(e, "warning", fmt.Sprintf("%d problem(s) found. Nothing was imported.", len(result.Errors)))
			rows := loadSectionRows(app, job.Id)
			if len(rows) == 0 {
				rows = append(rows, blankSectionRow(0))
			}
			return renderJobAreasData(e, job, rows, make(map[string]string), result.Errors)
		}

		existing, err := services.LoadJobSections(app, job.Id)
		if err != nil {
			log.Printf("section_import: could not load sections for %s: %v", job.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load existing areas")
		}
		if _, err := services.ReplaceJobSections(app, job.Id, append(existing, result.Sections...), calc); err != nil {
			log.Printf("section_import: could not save sections for %s: %v", job.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save areas. Please try again.")
		}

		SetToast(e, "success", fmt.Sprintf("Imported %d area section(s)", len(result.Sections)))
		return redirect(e, "/jobs/"+job.Id+"/areas")
	}
}

// HandleSectionImportErrors downloads import row errors as an Excel report.
// The errors arrive as the JSON-encoded "errors" form field.
// Route: POST /jobs/areas/import/errors
func HandleSectionImportErrors() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var rowErrs []services.ImportRowError
		if err := json.Unmarshal([]byte(e.Request.FormValue("errors")), &rowErrs); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateImportErrorReport(rowErrs)
		if err != nil {
			log.Printf("section_import: failed to generate error report: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate error report")
		}

		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", `attachment; filename="Area_Import_Errors.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}
