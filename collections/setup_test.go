package collections_test

import (
	"testing"

	"asphaltscope/collections"
	"asphaltscope/services"
	"asphaltscope/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"tenants",
	"customers",
	"crews",
	"jobs",
	"job_items",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_TenantsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("tenants")

	fields := []string{
		"name", "slug", "abn", "acn", "gst_registered", "address_line1", "address_line2",
		"suburb", "state", "postcode", "phone", "email", "website", "active",
		"subscription_tier", "subscription_status", "trial_ends_at", "created", "updated",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("tenants: missing field %q", f)
		}
	}

	stateField := col.Fields.GetByName("state")
	if sf, ok := stateField.(*core.SelectField); ok {
		if len(sf.Values) != 8 {
			t.Errorf("tenants.state: expected 8 values, got %d", len(sf.Values))
		}
	} else {
		t.Error("tenants.state is not a SelectField")
	}
}

func TestSetup_TenantABNUnique(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestTenant(t, app, "First", "51 824 753 556")

	col, _ := app.FindCollectionByNameOrId("tenants")
	dup := core.NewRecord(col)
	dup.Set("name", "Second")
	dup.Set("slug", "second")
	dup.Set("abn", "51 824 753 556")
	dup.Set("address_line1", "1 Road")
	dup.Set("suburb", "Ryde")
	dup.Set("state", "NSW")
	dup.Set("postcode", "2112")
	if err := app.Save(dup); err == nil {
		t.Error("expected unique ABN constraint to reject duplicate")
	}
}

func TestSetup_JobsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("jobs")

	fields := []string{
		"tenant", "job_number", "customer", "job_type", "job_status", "title", "description",
		"waste_factor", "site_area_sqm", "total_tonnage", "quote_total_ex_gst",
		"quote_gst_amount", "quote_total_inc_gst", "purchase_order_number", "quote_number",
		"quote_date", "quote_expiry_date", "is_night_shift", "truck_access",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("jobs: missing field %q", f)
		}
	}

	statusField := col.Fields.GetByName("job_status")
	if sf, ok := statusField.(*core.SelectField); ok {
		expected := make(map[string]bool)
		for _, v := range services.JobStatusValues() {
			expected[v] = true
		}
		for _, v := range sf.Values {
			if !expected[v] {
				t.Errorf("unexpected job_status value: %q", v)
			}
			delete(expected, v)
		}
		for v := range expected {
			t.Errorf("missing job_status value: %q", v)
		}
	} else {
		t.Error("job_status field is not a SelectField")
	}

	// Totals can be zero, so they must not be required.
	for _, f := range []string{"total_tonnage", "quote_total_inc_gst", "waste_factor"} {
		if nf, ok := col.Fields.GetByName(f).(*core.NumberField); ok && nf.Required {
			t.Errorf("jobs.%s should not be required", f)
		}
	}

	tenantField := col.Fields.GetByName("tenant")
	if rf, ok := tenantField.(*core.RelationField); ok {
		if !rf.CascadeDelete || rf.MaxSelect != 1 {
			t.Errorf("jobs.tenant: CascadeDelete=%v MaxSelect=%d", rf.CascadeDelete, rf.MaxSelect)
		}
	} else {
		t.Error("jobs.tenant is not a RelationField")
	}
}

func TestSetup_JobItemsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("job_items")

	fields := []string{
		"job", "tenant", "sort_order", "name", "area_sqm", "depth_mm", "asphalt_mix_type",
		"specification", "custom_specification", "tonnage", "unit_price_per_tonne",
		"total_price_ex_gst", "notes",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("job_items: missing field %q", f)
		}
	}

	mixField := col.Fields.GetByName("asphalt_mix_type")
	if sf, ok := mixField.(*core.SelectField); ok {
		if len(sf.Values) != len(services.MixTypes) {
			t.Errorf("job_items.asphalt_mix_type: expected %d values, got %d", len(services.MixTypes), len(sf.Values))
		}
	}

	jobField := col.Fields.GetByName("job")
	if rf, ok := jobField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("job_items.job: expected CascadeDelete=true")
		}
	}
}

func TestSetup_DeletingJobCascadesItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	tenant := testhelpers.CreateTestTenant(t, app, "Cascade", "51 824 753 556")
	job := testhelpers.CreateTestJob(t, app, tenant.Id, "J-20260302-001", "Cascade job")
	testhelpers.CreateTestJobItem(t, app, job.Id, tenant.Id, 1, "Area", 10, 30, 100)

	if err := app.Delete(job); err != nil {
		t.Fatalf("delete job: %v", err)
	}
	items, _ := app.FindAllRecords("job_items")
	if len(items) != 0 {
		t.Errorf("expected job items to cascade, %d left", len(items))
	}
}
