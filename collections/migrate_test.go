package collections_test

import (
	"testing"

	"asphaltscope/collections"
	"asphaltscope/services"
	"asphaltscope/testhelpers"
)

func TestMigrateJobTotals_BackfillsMissingTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	tenant := testhelpers.CreateTestTenant(t, app, "Backfill", "51 824 753 556")
	job := testhelpers.CreateTestJob(t, app, tenant.Id, "J-20260302-001", "Legacy job")
	testhelpers.CreateTestJobItem(t, app, job.Id, tenant.Id, 1, "Driveway", 200, 40, 120)
	testhelpers.CreateTestJobItem(t, app, job.Id, tenant.Id, 2, "Car park", 150, 50, 110)

	if err := collections.MigrateJobTotals(app, services.Calculator{}); err != nil {
		t.Fatalf("MigrateJobTotals() error: %v", err)
	}

	saved, _ := app.FindRecordById("jobs", job.Id)
	if saved.GetFloat("total_tonnage") != 39.06 {
		t.Errorf("total tonnage = %v, want 39.06", saved.GetFloat("total_tonnage"))
	}
	if saved.GetFloat("quote_total_inc_gst") != 4948.02 {
		t.Errorf("total inc GST = %v, want 4948.02", saved.GetFloat("quote_total_inc_gst"))
	}

	items, _ := services.FindJobItems(app, job.Id)
	if len(items) != 2 || items[0].GetFloat("tonnage") != 20.16 {
		t.Errorf("expected section tonnage written back, got %d items", len(items))
	}
}

func TestMigrateJobTotals_SkipsJobsWithoutSections(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	tenant := testhelpers.CreateTestTenant(t, app, "Empty", "51 824 753 556")
	job := testhelpers.CreateTestJob(t, app, tenant.Id, "J-20260302-001", "Empty job")

	if err := collections.MigrateJobTotals(app, services.Calculator{}); err != nil {
		t.Fatalf("MigrateJobTotals() error: %v", err)
	}

	saved, _ := app.FindRecordById("jobs", job.Id)
	if saved.GetFloat("total_tonnage") != 0 {
		t.Errorf("expected untouched totals, got %v", saved.GetFloat("total_tonnage"))
	}
}

func TestMigrateJobTotals_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	tenant := testhelpers.CreateTestTenant(t, app, "Twice", "51 824 753 556")
	job := testhelpers.CreateTestJob(t, app, tenant.Id, "J-20260302-001", "Legacy job")
	testhelpers.CreateTestJobItem(t, app, job.Id, tenant.Id, 1, "Driveway", 200, 40, 120)

	for i := 0; i < 2; i++ {
		if err := collections.MigrateJobTotals(app, services.Calculator{}); err != nil {
			t.Fatalf("run %d error: %v", i+1, err)
		}
	}

	items, _ := services.FindJobItems(app, job.Id)
	if len(items) != 1 {
		t.Errorf("expected 1 item after two runs, got %d", len(items))
	}
}
