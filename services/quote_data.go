package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// quoteDateLayout renders dates as "2 March 2026".
const quoteDateLayout = "2 January 2006"

// QuoteTerms are the standard terms printed on every quotation.
var QuoteTerms = []string{
	"This quote is valid for 30 days from the date of issue unless otherwise specified.",
	"All prices are in Australian Dollars (AUD) and include GST where specified.",
	"Payment terms: 50% deposit required before work commencement, balance due within 14 days of completion.",
	"Work will be scheduled upon receipt of written acceptance of this quotation.",
	"This quote is based on the information provided and may be subject to change if site conditions differ.",
	"Weather conditions may affect scheduling. We reserve the right to reschedule in case of unsuitable weather.",
	"All work will be carried out in accordance with Australian Standards and local regulations.",
	"Any variations to the scope of work will require a written change order and may affect pricing.",
}

// QuoteData holds everything needed to render a quotation document.
type QuoteData struct {
	// Company (the tenant issuing the quote)
	CompanyName    string
	CompanyABN     string
	CompanyAddress string
	CompanyContact string

	// Quote header
	QuoteNumber string
	QuoteDate   string
	ValidUntil  string
	JobNumber   string
	PONumber    string
	Draft       bool

	// Customer
	CustomerName    string
	CustomerABN     string
	CustomerAddress string

	// Job
	JobTitle    string
	JobType     string
	Description string

	Lines []QuoteLine

	TotalTonnage decimal.Decimal
	SubtotalEx   decimal.Decimal
	GSTAmount    decimal.Decimal
	TotalInc     decimal.Decimal

	Terms []string
}

// QuoteLine is one priced area section on the quote.
type QuoteLine struct {
	No          int
	Description string
	MixLabel    string
	Notes       string
	AreaSqm     decimal.Decimal
	DepthMm     decimal.Decimal
	Tonnage     decimal.Decimal
	UnitPrice   decimal.Decimal
	AmountExGST decimal.Decimal
}

// BuildQuoteData assembles the quotation for a job from PocketBase records.
// now supplies the quote date when the job has none.
func BuildQuoteData(app core.App, jobID string, validityDays int, now time.Time) (*QuoteData, error) {
	job, err := app.FindRecordById("jobs", jobID)
	if err != nil {
		return nil, fmt.Errorf("job not found: %w", err)
	}

	data := &QuoteData{
		QuoteNumber: job.GetString("quote_number"),
		JobNumber:   job.GetString("job_number"),
		PONumber:    job.GetString("purchase_order_number"),
		Draft:       job.GetString("job_status") == string(StatusDraft),
		JobTitle:    job.GetString("title"),
		JobType:     JobType(job.GetString("job_type")).Label(),
		Description: job.GetString("description"),
		Terms:       QuoteTerms,
	}
	if data.QuoteNumber == "" {
		data.QuoteNumber = data.JobNumber
	}

	quoteDate := now
	if dt := job.GetDateTime("quote_date"); !dt.IsZero() {
		quoteDate = dt.Time()
	}
	expiry := QuoteExpiry(quoteDate, validityDays)
	if dt := job.GetDateTime("quote_expiry_date"); !dt.IsZero() {
		expiry = dt.Time()
	}
	data.QuoteDate = quoteDate.Format(quoteDateLayout)
	data.ValidUntil = expiry.Format(quoteDateLayout)

	if tenantID := job.GetString("tenant"); tenantID != "" {
		tenant, err := app.FindRecordById("tenants", tenantID)
		if err != nil {
			log.Printf("quote_export: could not find tenant %s: %v", tenantID, err)
		} else {
			data.CompanyName = tenant.GetString("name")
			data.CompanyABN = tenant.GetString("abn")
			data.CompanyAddress = joinNonEmpty([]string{
				tenant.GetString("address_line1"),
				tenant.GetString("address_line2"),
				joinNonEmpty([]string{tenant.GetString("suburb"), tenant.GetString("state"), tenant.GetString("postcode")}, " "),
			}, ", ")
			data.CompanyContact = joinNonEmpty([]string{tenant.GetString("phone"), tenant.GetString("email")}, " | ")
		}
	}

	data.CustomerName = "Customer"
	if customerID := job.GetString("customer"); customerID != "" {
		cust, err := app.FindRecordById("customers", customerID)
		if err != nil {
			log.Printf("quote_export: could not find customer %s: %v", customerID, err)
		} else {
			data.CustomerName = cust.GetString("business_name")
			data.CustomerABN = cust.GetString("abn")
			data.CustomerAddress = joinNonEmpty([]string{
				cust.GetString("address_line1"),
				joinNonEmpty([]string{cust.GetString("suburb"), cust.GetString("state"), cust.GetString("postcode")}, " "),
			}, ", ")
		}
	}

	items, err := FindJobItems(app, jobID)
	if err != nil {
		return nil, err
	}
	data.TotalTonnage = decimal.Zero
	for i, item := range items {
		line := QuoteLine{
			No:          i + 1,
			Description: item.GetString("name"),
			MixLabel:    MixType(item.GetString("asphalt_mix_type")).Label(),
			Notes:       item.GetString("notes"),
			AreaSqm:     decimal.NewFromFloat(item.GetFloat("area_sqm")),
			DepthMm:     decimal.NewFromFloat(item.GetFloat("depth_mm")),
			Tonnage:     decimal.NewFromFloat(item.GetFloat("tonnage")),
			UnitPrice:   decimal.NewFromFloat(item.GetFloat("unit_price_per_tonne")),
			AmountExGST: decimal.NewFromFloat(item.GetFloat("total_price_ex_gst")),
		}
		data.Lines = append(data.Lines, line)
		data.TotalTonnage = data.TotalTonnage.Add(line.Tonnage)
	}

	data.SubtotalEx = decimal.NewFromFloat(job.GetFloat("quote_total_ex_gst"))
	data.GSTAmount = decimal.NewFromFloat(job.GetFloat("quote_gst_amount"))
	if data.GSTAmount.IsZero() {
		data.GSTAmount = CalculateGST(data.SubtotalEx)
	}
	data.TotalInc = decimal.NewFromFloat(job.GetFloat("quote_total_inc_gst"))
	if data.TotalInc.IsZero() {
		data.TotalInc = data.SubtotalEx.Add(data.GSTAmount)
	}

	return data, nil
}

// LineTitle is the section name followed by its mix, e.g. "Driveway - AC14 (14mm)".
func (l QuoteLine) LineTitle() string {
	return l.Description + " - " + l.MixLabel
}

// joinNonEmpty joins non-empty, trimmed strings with the given separator.
func joinNonEmpty(parts []string, sep string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, sep)
}
