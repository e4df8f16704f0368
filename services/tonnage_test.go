package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalcTonnageDefault(t *testing.T) {
	tests := []struct {
		name  string
		area  string
		depth string
		waste string
		want  string
	}{
		{"standard 5% waste", "100", "40", "5", "10.08"},
		{"zero waste", "50", "50", "0", "6"},
		{"zero area", "0", "40", "5", "0"},
		{"zero depth", "100", "0", "5", "0"},
		{"fractional area", "12.5", "30", "10", "0.99"},
		{"max waste", "10", "10", "100", "0.48"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalcTonnageDefault(dec(tt.area), dec(tt.depth), dec(tt.waste))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("CalcTonnageDefault(%s, %s, %s) = %s, want %s",
					tt.area, tt.depth, tt.waste, got, tt.want)
			}
		})
	}
}

func TestCalcTonnage_CustomDensity(t *testing.T) {
	got, err := CalcTonnage(dec("100"), dec("40"), dec("0"), dec("2.5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("10")) {
		t.Errorf("tonnage = %s, want 10", got)
	}

	if _, err := CalcTonnage(dec("100"), dec("40"), dec("0"), dec("0")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero density: expected ErrInvalidInput, got %v", err)
	}
}

func TestCalcTonnage_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		area      string
		depth     string
		waste     string
		wantField string
	}{
		{"negative area", "-1", "40", "5", "area"},
		{"negative depth", "100", "-1", "5", "depth"},
		{"negative waste", "100", "40", "-0.1", "waste factor"},
		{"waste over 100", "100", "40", "100.01", "waste factor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalcTonnageDefault(dec(tt.area), dec(tt.depth), dec(tt.waste))
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var inErr *InputError
			if !errors.As(err, &inErr) {
				t.Fatalf("expected *InputError, got %T", err)
			}
			if inErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", inErr.Field, tt.wantField)
			}
		})
	}
}

func TestCalcSectionPrice(t *testing.T) {
	tests := []struct {
		name      string
		tonnage   string
		unitPrice string
		want      string
	}{
		{"basic", "20.16", "120", "2419.2"},
		{"zero price", "20.16", "0", "0"},
		{"zero tonnage", "0", "120", "0"},
		{"cents", "18.9", "110.55", "2089.395"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcSectionPrice(dec(tt.tonnage), dec(tt.unitPrice))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("CalcSectionPrice(%s, %s) = %s, want %s", tt.tonnage, tt.unitPrice, got, tt.want)
			}
		})
	}
}

func twoSectionJob() []AreaSection {
	return []AreaSection{
		{
			Name: "Driveway", AreaSqm: dec("200"), DepthMm: dec("40"),
			MixType: MixAC14, Specification: SpecLocalCouncil, UnitPricePerTonne: dec("120"),
		},
		{
			Name: "Car park", AreaSqm: dec("150"), DepthMm: dec("50"),
			MixType: MixAC20, Specification: SpecLocalCouncil, UnitPricePerTonne: dec("110"),
		},
	}
}

func TestCalcJobTotals_EndToEnd(t *testing.T) {
	totals, err := CalcJobTotals(twoSectionJob(), dec("5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"section 1 tonnage", totals.Sections[0].Tonnage, "20.16"},
		{"section 1 price", totals.Sections[0].TotalPriceExGST, "2419.20"},
		{"section 2 tonnage", totals.Sections[1].Tonnage, "18.9"},
		{"section 2 price", totals.Sections[1].TotalPriceExGST, "2079.00"},
		{"site area", totals.SiteAreaSqm, "350"},
		{"total tonnage", totals.TotalTonnage, "39.06"},
		{"ex gst", totals.QuoteTotalExGST, "4498.20"},
		{"gst", totals.QuoteGSTAmount, "449.82"},
		{"inc gst", totals.QuoteTotalIncGST, "4948.02"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
}

func TestCalcJobTotals_Empty(t *testing.T) {
	for _, waste := range []string{"0", "5", "20", "100"} {
		totals, err := CalcJobTotals(nil, dec(waste))
		if err != nil {
			t.Fatalf("waste %s: unexpected error: %v", waste, err)
		}
		for name, v := range map[string]decimal.Decimal{
			"site area": totals.SiteAreaSqm,
			"tonnage":   totals.TotalTonnage,
			"ex gst":    totals.QuoteTotalExGST,
			"gst":       totals.QuoteGSTAmount,
			"inc gst":   totals.QuoteTotalIncGST,
		} {
			if !v.IsZero() {
				t.Errorf("waste %s: %s = %s, want 0", waste, name, v)
			}
		}
		if len(totals.Sections) != 0 {
			t.Errorf("waste %s: expected no section results, got %d", waste, len(totals.Sections))
		}
	}
}

func TestCalcJobTotals_Additive(t *testing.T) {
	sections := twoSectionJob()
	sections = append(sections, AreaSection{
		Name: "Footpath", AreaSqm: dec("33.3"), DepthMm: dec("25"),
		MixType: MixAC10, Specification: SpecRMSR116, UnitPricePerTonne: dec("0"),
	})
	waste := dec("7.5")

	totals, err := CalcJobTotals(sections, waste)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sumTonnage := decimal.Zero
	sumPrice := decimal.Zero
	for _, s := range sections {
		tonnage, err := CalcTonnageDefault(s.AreaSqm, s.DepthMm, waste)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sumTonnage = sumTonnage.Add(tonnage)
		sumPrice = sumPrice.Add(CalcSectionPrice(tonnage, s.UnitPricePerTonne))
	}

	if !totals.TotalTonnage.Equal(sumTonnage) {
		t.Errorf("TotalTonnage = %s, want %s", totals.TotalTonnage, sumTonnage)
	}
	if !totals.QuoteTotalExGST.Equal(sumPrice) {
		t.Errorf("QuoteTotalExGST = %s, want %s", totals.QuoteTotalExGST, sumPrice)
	}
	if !totals.QuoteTotalIncGST.Equal(AddGST(sumPrice)) {
		t.Errorf("QuoteTotalIncGST = %s, want %s", totals.QuoteTotalIncGST, AddGST(sumPrice))
	}
}

func TestCalcJobTotals_Reproducible(t *testing.T) {
	first, err := CalcJobTotals(twoSectionJob(), dec("5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := CalcJobTotals(twoSectionJob(), dec("5"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.QuoteTotalIncGST.String() != first.QuoteTotalIncGST.String() ||
			again.TotalTonnage.String() != first.TotalTonnage.String() {
			t.Fatalf("run %d differs: %s/%s vs %s/%s", i,
				again.TotalTonnage, again.QuoteTotalIncGST, first.TotalTonnage, first.QuoteTotalIncGST)
		}
	}
}

func TestCalcJobTotals_FailsFastWithoutPartialTotals(t *testing.T) {
	sections := twoSectionJob()
	sections[1].DepthMm = dec("-5")

	totals, err := CalcJobTotals(sections, dec("5"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(totals.Sections) != 0 || !totals.QuoteTotalExGST.IsZero() {
		t.Errorf("expected zero-value totals on error, got %+v", totals)
	}

	if _, err := CalcJobTotals(twoSectionJob(), dec("150")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("waste 150: expected ErrInvalidInput, got %v", err)
	}

	sections = twoSectionJob()
	sections[0].UnitPricePerTonne = dec("-1")
	if _, err := CalcJobTotals(sections, dec("5")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative price: expected ErrInvalidInput, got %v", err)
	}
}

func TestCalculator_Density(t *testing.T) {
	calc := NewCalculator(dec("2.2"))
	totals, err := calc.JobTotals(twoSectionJob()[:1], dec("0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 200 × 40 × 2.2 / 1000
	if !totals.TotalTonnage.Equal(dec("17.6")) {
		t.Errorf("TotalTonnage = %s, want 17.6", totals.TotalTonnage)
	}
}
