package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"asphaltscope/services"
	"asphaltscope/testhelpers"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func scenarioSections() []services.AreaSection {
	return []services.AreaSection{
		{
			Name: "Driveway", AreaSqm: d("200"), DepthMm: d("40"),
			MixType: services.MixAC14, Specification: services.SpecLocalCouncil, UnitPricePerTonne: d("120"),
		},
		{
			Name: "Car park", AreaSqm: d("150"), DepthMm: d("50"),
			MixType: services.MixAC20, UnitPricePerTonne: d("110"),
		},
	}
}

func TestReplaceJobSections_WritesItemsAndTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	tenant := testhelpers.CreateTestTenant(t, app, "Smith Asphalt", "51 824 753 556")
	job := testhelpers.CreateTestJob(t, app, tenant.Id, "J-20260302-001", "Depot resheet")

	totals, err := services.ReplaceJobSections(app, job.Id, scenarioSections(), services.Calculator{})
	if err != nil {
		t.Fatalf("ReplaceJobSections: %v", err)
	}
	if !totals.QuoteTotalIncGST.Equal(d("4948.02")) {
		t.Errorf("QuoteTotalIncGST = %s, want 4948.02", totals.QuoteTotalIncGST)
	}

	items, err := services.FindJobItems(app, job.Id)
	if err != nil {
		t.Fatalf("FindJobItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 job items, got %d", len(items))
	}
	if items[0].GetString("name") != "Driveway" || items[0].GetFloat("tonnage") != 20.16 {
		t.Errorf("item 1 = %q / %v", items[0].GetString("name"), items[0].GetFloat("tonnage"))
	}
	if items[1].GetString("specification") != string(services.SpecLocalCouncil) {
		t.Errorf("empty specification should default to local_council, got %q", items[1].GetString("specification"))
	}
	if items[1].GetFloat("total_price_ex_gst") != 2079 {
		t.Errorf("item 2 price = %v, want 2079", items[1].GetFloat("total_price_ex_gst"))
	}
	if items[0].GetString("tenant") != tenant.Id {
		t.Errorf("item tenant = %q, want %q", items[0].GetString("tenant"), tenant.Id)
	}

	saved, _ := app.FindRecordById("jobs", job.Id)
	want := map[string]float64{
		"site_area_sqm":       350,
		"total_tonnage":       39.06,
		"quote_total_ex_gst":  4498.2,
		"quote_gst_amount":    449.82,
		"quote_total_inc_gst": 4948.02,
	}
	for field, v := range want {
		if got := saved.GetFloat(field); got != v {
			t.Errorf("job %s = %v, want %v", field, got, v)
		}
	}
}

func TestReplaceJobSections_ReplacesPreviousSections(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	tenant := testhelpers.CreateTestTenant(t, app, "Smith Asphalt", "51 824 753 556")
	job := testhelpers.CreateTestJob(t, app, tenant.Id, "J-20260302-001", "Depot resheet")
	testhelpers.CreateTestJobItem(t, app, job.Id, tenant.Id, 1, "Old area", 10, 30, 100)
	testhelpers.CreateTestJobItem(t, app, job.Id, tenant.Id, 2, "Old area 2", 10, 30, 100)

	if _, err := services.ReplaceJobSections(app, job.Id, scenarioSections()[:1], services.Calculator{}); err != nil {
		t.Fatalf("ReplaceJobSections: %v", err)
	}

	sections, err := services.LoadJobSections(app, job.Id)
	if err != nil {
		t.Fatalf("LoadJobSections: %v", err)
	}
	if len(sections) != 1 || sections[0].Name != "Driveway" {
		t.Fatalf("expected only the new Driveway section, got %+v", sections)
	}

	// An empty replacement clears the job and zeroes its totals.
	if _, err := services.ReplaceJobSections(app, job.Id, nil, services.Calculator{}); err != nil {
		t.Fatalf("ReplaceJobSections(nil): %v", err)
	}
	items, _ := services.FindJobItems(app, job.Id)
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
	saved, _ := app.FindRecordById("jobs", job.Id)
	if saved.GetFloat("quote_total_inc_gst") != 0 || saved.GetFloat("total_tonnage") != 0 {
		t.Errorf("expected zero totals, got %v / %v", saved.GetFloat("quote_total_inc_gst"), saved.GetFloat("total_tonnage"))
	}
}

func TestReplaceJobSections_InvalidInputLeavesJobUntouched(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	tenant := testhelpers.CreateTestTenant(t, app, "Smith Asphalt", "51 824 753 556")
	job := testhelpers.CreateTestJob(t, app, tenant.Id, "J-20260302-001", "Depot resheet")
	testhelpers.CreateTestJobItem(t, app, job.Id, tenant.Id, 1, "Existing", 100, 40, 120)

	bad := scenarioSections()
	bad[1].AreaSqm = d("-10")

	_, err := services.ReplaceJobSections(app, job.Id, bad, services.Calculator{})
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	items, _ := services.FindJobItems(app, job.Id)
	if len(items) != 1 || items[0].GetString("name") != "Existing" {
		t.Errorf("expected original section to survive, got %d items", len(items))
	}
}

func TestReplaceJobSections_UnknownJob(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if _, err := services.ReplaceJobSections(app, "missing", scenarioSections(), services.Calculator{}); err == nil {
		t.Fatal("expected error for unknown job")
	}
}

func TestGenerateJobNumber_SequencePerTenantPerDay(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	tenant := testhelpers.CreateTestTenant(t, app, "Smith Asphalt", "51 824 753 556")
	other := testhelpers.CreateTestTenant(t, app, "Other Roads", "53 004 085 616")
	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

	first, err := services.GenerateJobNumber(app, tenant.Id, now)
	if err != nil {
		t.Fatalf("GenerateJobNumber: %v", err)
	}
	if first != "J-20260302-001" {
		t.Errorf("first = %q, want J-20260302-001", first)
	}

	testhelpers.CreateTestJob(t, app, tenant.Id, "J-20260302-001", "One")
	testhelpers.CreateTestJob(t, app, tenant.Id, "J-20260302-003", "Three")
	testhelpers.CreateTestJob(t, app, tenant.Id, "J-20260301-009", "Yesterday")

	next, _ := services.GenerateJobNumber(app, tenant.Id, now)
	if next != "J-20260302-004" {
		t.Errorf("next = %q, want J-20260302-004", next)
	}

	otherFirst, _ := services.GenerateJobNumber(app, other.Id, now)
	if otherFirst != "J-20260302-001" {
		t.Errorf("other tenant = %q, want J-20260302-001", otherFirst)
	}

	if _, err := services.GenerateJobNumber(app, "nope", now); err == nil {
		t.Error("expected error for unknown tenant")
	}
}
