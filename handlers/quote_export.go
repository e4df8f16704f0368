package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"asphaltscope/services"
)

// HandleQuotePDF returns a handler that generates and downloads the quotation PDF for a job.
func HandleQuotePDF(app *pocketbase.PocketBase, validityDays int) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := loadQuoteData(e, app, validityDays)
		if data == nil {
			return err
		}

		pdfBytes, err := services.GenerateQuotePDF(data)
		if err != nil {
			log.Printf("quote_export: failed to generate PDF: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF")
		}

		filename := fmt.Sprintf("Quote-%s.pdf", sanitizeFilename(data.QuoteNumber))
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleQuoteExcel returns a handler that generates and downloads the quotation workbook for a job.
func HandleQuoteExcel(app *pocketbase.PocketBase, validityDays int) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := loadQuoteData(e, app, validityDays)
		if data == nil {
			return err
		}

		xlsxBytes, err := services.GenerateQuoteExcel(data)
		if err != nil {
			log.Printf("quote_export: failed to generate Excel: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Quote-%s.xlsx", sanitizeFilename(data.QuoteNumber))
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// loadQuoteData resolves the job for the active tenant. A nil result means
// the error response has already been written.
func loadQuoteData(e *core.RequestEvent, app *pocketbase.PocketBase, validityDays int) (*services.QuoteData, error) {
	tenant, err := requireTenant(e)
	if tenant == nil {
		return nil, err
	}
	id := e.Request.PathValue("id")
	if id == "" {
		return nil, e.String(http.StatusBadRequest, "Missing job ID")
	}
	if _, err := findTenantJob(app, tenant.ID, id); err != nil {
		log.Printf("quote_export: job %s not found for tenant %s", id, tenant.ID)
		return nil, e.String(http.StatusNotFound, "Job not found")
	}

	data, err := services.BuildQuoteData(app, id, validityDays, time.Now())
	if err != nil {
		log.Printf("quote_export: failed to build data: %v", err)
		return nil, e.String(http.StatusInternalServerError, "Failed to build quote data")
	}
	return data, nil
}
