package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"asphaltscope/services"
)

type calculateRequest struct {
	WasteFactor *decimal.Decimal       `json:"waste_factor"`
	Sections    []services.AreaSection `json:"sections"`
}

type calculatedSection struct {
	Index           int               `json:"index"`
	Name            string            `json:"name"`
	Tonnage         *decimal.Decimal  `json:"tonnage,omitempty"`
	TotalPriceExGST *decimal.Decimal  `json:"total_price_ex_gst,omitempty"`
	Errors          map[string]string `json:"errors,omitempty"`
}

type calculateResponse struct {
	WasteFactor      decimal.Decimal     `json:"waste_factor"`
	Sections         []calculatedSection `json:"sections"`
	SiteAreaSqm      decimal.Decimal     `json:"site_area_sqm"`
	TotalTonnage     decimal.Decimal     `json:"total_tonnage"`
	QuoteTotalExGST  decimal.Decimal     `json:"quote_total_ex_gst"`
	QuoteGSTAmount   decimal.Decimal     `json:"quote_gst_amount"`
	QuoteTotalIncGST decimal.Decimal     `json:"quote_total_inc_gst"`
	Display          map[string]string   `json:"display"`
}

// HandleCalculate prices sections for the live quote preview. Sections that
// fail validation are reported with their errors and left out of the totals.
func HandleCalculate(calc services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req calculateRequest
		if err := e.BindBody(&req); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		}

		waste := services.DefaultWasteFactor
		if req.WasteFactor != nil {
			waste = *req.WasteFactor
		}

		results := make([]calculatedSection, len(req.Sections))
		valid := make([]services.AreaSection, 0, len(req.Sections))
		validIdx := make([]int, 0, len(req.Sections))
		for i, s := range req.Sections {
			if s.Specification == "" {
				s.Specification = services.DefaultSpecification
			}
			results[i] = calculatedSection{Index: i, Name: s.Name}
			if err := s.Validate(); err != nil {
				results[i].Errors = services.ErrorMap(err)
				continue
			}
			valid = append(valid, s)
			validIdx = append(validIdx, i)
		}

		totals, err := calc.JobTotals(valid, waste)
		if err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		for j, res := range totals.Sections {
			tonnage, price := res.Tonnage, res.TotalPriceExGST
			results[validIdx[j]].Tonnage = &tonnage
			results[validIdx[j]].TotalPriceExGST = &price
		}

		return e.JSON(http.StatusOK, calculateResponse{
			WasteFactor:      waste,
			Sections:         results,
			SiteAreaSqm:      totals.SiteAreaSqm,
			TotalTonnage:     totals.TotalTonnage,
			QuoteTotalExGST:  totals.QuoteTotalExGST,
			QuoteGSTAmount:   totals.QuoteGSTAmount,
			QuoteTotalIncGST: totals.QuoteTotalIncGST,
			Display: map[string]string{
				"total_tonnage":       services.FormatTonnage(totals.TotalTonnage),
				"quote_total_ex_gst":  services.FormatAUD(totals.QuoteTotalExGST),
				"quote_gst_amount":    services.FormatAUD(totals.QuoteGSTAmount),
				"quote_total_inc_gst": services.FormatAUD(totals.QuoteTotalIncGST),
			},
		})
	}
}
