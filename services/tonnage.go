package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned (wrapped in *InputError) when a geometric or
// financial input to the calculator is negative or out of range.
var ErrInvalidInput = errors.New("invalid input")

// InputError names the offending calculator input.
type InputError struct {
	Field  string
	Value  decimal.Decimal
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %s: %s", e.Field, e.Value.String(), e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

var (
	// DefaultDensity converts area (m²) × depth (mm) into tonnes once divided by 1000.
	DefaultDensity = decimal.RequireFromString("2.4")

	// DefaultWasteFactor is the waste percentage applied when a job does not set one.
	DefaultWasteFactor = decimal.NewFromInt(5)

	// MaxCalcWasteFactor is the upper bound the calculator accepts. Job forms
	// apply the tighter configured maximum.
	MaxCalcWasteFactor = decimal.NewFromInt(100)

	one = decimal.NewFromInt(1)
)

// SectionResult is a priced area section.
type SectionResult struct {
	Section         AreaSection     `json:"section"`
	Tonnage         decimal.Decimal `json:"tonnage"`
	TotalPriceExGST decimal.Decimal `json:"total_price_ex_gst"`
}

// JobTotals holds the aggregate figures written back to a job.
// Values are unrounded; round only for display.
type JobTotals struct {
	Sections         []SectionResult `json:"sections"`
	SiteAreaSqm      decimal.Decimal `json:"site_area_sqm"`
	TotalTonnage     decimal.Decimal `json:"total_tonnage"`
	QuoteTotalExGST  decimal.Decimal `json:"quote_total_ex_gst"`
	QuoteGSTAmount   decimal.Decimal `json:"quote_gst_amount"`
	QuoteTotalIncGST decimal.Decimal `json:"quote_total_inc_gst"`
}

// Calculator prices area sections for a given material density.
// The zero value uses DefaultDensity.
type Calculator struct {
	Density decimal.Decimal
}

// NewCalculator returns a Calculator for the given density.
func NewCalculator(density decimal.Decimal) Calculator {
	return Calculator{Density: density}
}

func (c Calculator) density() decimal.Decimal {
	if c.Density.IsZero() {
		return DefaultDensity
	}
	return c.Density
}

// Tonnage computes area × depth × density ÷ 1000 × (1 + waste/100).
func (c Calculator) Tonnage(areaSqm, depthMm, wasteFactorPercent decimal.Decimal) (decimal.Decimal, error) {
	density := c.density()
	if err := checkTonnageInputs(areaSqm, depthMm, wasteFactorPercent, density); err != nil {
		return decimal.Zero, err
	}
	if areaSqm.IsZero() || depthMm.IsZero() {
		return decimal.Zero, nil
	}

	raw := areaSqm.Mul(depthMm).Mul(density).Shift(-3)
	return raw.Mul(one.Add(wasteFactorPercent.Shift(-2))), nil
}

// Section prices a single area section.
func (c Calculator) Section(s AreaSection, wasteFactorPercent decimal.Decimal) (SectionResult, error) {
	if s.UnitPricePerTonne.IsNegative() {
		return SectionResult{}, &InputError{Field: "unit price per tonne", Value: s.UnitPricePerTonne, Reason: "must not be negative"}
	}
	tonnage, err := c.Tonnage(s.AreaSqm, s.DepthMm, wasteFactorPercent)
	if err != nil {
		return SectionResult{}, err
	}
	return SectionResult{
		Section:         s,
		Tonnage:         tonnage,
		TotalPriceExGST: CalcSectionPrice(tonnage, s.UnitPricePerTonne),
	}, nil
}

// JobTotals prices every section and aggregates the job figures.
// All sections are checked before anything is summed, so an error never
// comes with partial totals. An empty slice yields all-zero totals.
func (c Calculator) JobTotals(sections []AreaSection, wasteFactorPercent decimal.Decimal) (JobTotals, error) {
	if err := checkWasteFactor(wasteFactorPercent); err != nil {
		return JobTotals{}, err
	}
	if err := checkDensity(c.density()); err != nil {
		return JobTotals{}, err
	}
	for i, s := range sections {
		if err := checkSectionInputs(s); err != nil {
			return JobTotals{}, fmt.Errorf("section %d (%s): %w", i+1, s.Name, err)
		}
	}

	totals := JobTotals{
		Sections:         make([]SectionResult, 0, len(sections)),
		SiteAreaSqm:      decimal.Zero,
		TotalTonnage:     decimal.Zero,
		QuoteTotalExGST:  decimal.Zero,
		QuoteGSTAmount:   decimal.Zero,
		QuoteTotalIncGST: decimal.Zero,
	}
	for i, s := range sections {
		res, err := c.Section(s, wasteFactorPercent)
		if err != nil {
			return JobTotals{}, fmt.Errorf("section %d (%s): %w", i+1, s.Name, err)
		}
		totals.Sections = append(totals.Sections, res)
		totals.SiteAreaSqm = totals.SiteAreaSqm.Add(s.AreaSqm)
		totals.TotalTonnage = totals.TotalTonnage.Add(res.Tonnage)
		totals.QuoteTotalExGST = totals.QuoteTotalExGST.Add(res.TotalPriceExGST)
	}

	totals.QuoteGSTAmount = CalculateGST(totals.QuoteTotalExGST)
	totals.QuoteTotalIncGST = totals.QuoteTotalExGST.Add(totals.QuoteGSTAmount)
	return totals, nil
}

// CalcTonnage computes tonnage with an explicit density.
func CalcTonnage(areaSqm, depthMm, wasteFactorPercent, density decimal.Decimal) (decimal.Decimal, error) {
	if err := checkDensity(density); err != nil {
		return decimal.Zero, err
	}
	return NewCalculator(density).Tonnage(areaSqm, depthMm, wasteFactorPercent)
}

// CalcTonnageDefault computes tonnage at DefaultDensity.
func CalcTonnageDefault(areaSqm, depthMm, wasteFactorPercent decimal.Decimal) (decimal.Decimal, error) {
	return Calculator{}.Tonnage(areaSqm, depthMm, wasteFactorPercent)
}

// CalcSectionPrice returns tonnage × unit price. A zero unit price yields zero.
func CalcSectionPrice(tonnage, unitPricePerTonne decimal.Decimal) decimal.Decimal {
	if unitPricePerTonne.IsZero() {
		return decimal.Zero
	}
	return tonnage.Mul(unitPricePerTonne)
}

// CalcSection prices one section at DefaultDensity.
func CalcSection(s AreaSection, wasteFactorPercent decimal.Decimal) (SectionResult, error) {
	return Calculator{}.Section(s, wasteFactorPercent)
}

// CalcJobTotals aggregates sections at DefaultDensity.
func CalcJobTotals(sections []AreaSection, wasteFactorPercent decimal.Decimal) (JobTotals, error) {
	return Calculator{}.JobTotals(sections, wasteFactorPercent)
}

func checkTonnageInputs(areaSqm, depthMm, wasteFactorPercent, density decimal.Decimal) error {
	if areaSqm.IsNegative() {
		return &InputError{Field: "area", Value: areaSqm, Reason: "must not be negative"}
	}
	if depthMm.IsNegative() {
		return &InputError{Field: "depth", Value: depthMm, Reason: "must not be negative"}
	}
	if err := checkWasteFactor(wasteFactorPercent); err != nil {
		return err
	}
	return checkDensity(density)
}

func checkSectionInputs(s AreaSection) error {
	if s.AreaSqm.IsNegative() {
		return &InputError{Field: "area", Value: s.AreaSqm, Reason: "must not be negative"}
	}
	if s.DepthMm.IsNegative() {
		return &InputError{Field: "depth", Value: s.DepthMm, Reason: "must not be negative"}
	}
	if s.UnitPricePerTonne.IsNegative() {
		return &InputError{Field: "unit price per tonne", Value: s.UnitPricePerTonne, Reason: "must not be negative"}
	}
	return nil
}

func checkWasteFactor(w decimal.Decimal) error {
	if w.IsNegative() || w.GreaterThan(MaxCalcWasteFactor) {
		return &InputError{Field: "waste factor", Value: w, Reason: "must be between 0 and 100 percent"}
	}
	return nil
}

func checkDensity(d decimal.Decimal) error {
	if d.Sign() <= 0 {
		return &InputError{Field: "density", Value: d, Reason: "must be greater than zero"}
	}
	return nil
}
