package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"asphaltscope/services"
)

// Setup programmatically creates/ensures the tenants, customers, crews,
// jobs and job_items collections exist.
func Setup(app *pocketbase.PocketBase) {
	tenants := ensureCollection(app, "tenants", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "slug", Required: true})
		c.Fields.Add(&core.TextField{Name: "abn", Required: true})
		c.Fields.Add(&core.TextField{Name: "acn", Required: false})
		c.Fields.Add(&core.BoolField{Name: "gst_registered"})
		c.Fields.Add(&core.TextField{Name: "address_line1", Required: true})
		c.Fields.Add(&core.TextField{Name: "address_line2", Required: false})
		c.Fields.Add(&core.TextField{Name: "suburb", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "state",
			Required:  true,
			Values:    services.AustralianStates,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "postcode", Required: true})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "website", Required: false})
		c.Fields.Add(&core.BoolField{Name: "active"})
		c.Fields.Add(&core.TextField{Name: "subscription_tier", Required: false})
		c.Fields.Add(&core.TextField{Name: "subscription_status", Required: false})
		c.Fields.Add(&core.DateField{Name: "trial_ends_at"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_tenants_slug", true, "slug", "")
		c.AddIndex("idx_tenants_abn", true, "abn", "")
	})

	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "tenant",
			Required:      true,
			CollectionId:  tenants.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "business_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "trading_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "abn", Required: false})
		c.Fields.Add(&core.TextField{Name: "address_line1", Required: false})
		c.Fields.Add(&core.TextField{Name: "suburb", Required: false})
		c.Fields.Add(&core.TextField{Name: "state", Required: false})
		c.Fields.Add(&core.TextField{Name: "postcode", Required: false})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "crews", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "tenant",
			Required:      true,
			CollectionId:  tenants.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "color", Required: false})
		c.Fields.Add(&core.NumberField{Name: "max_daily_tonnage", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	jobs := ensureCollection(app, "jobs", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "tenant",
			Required:      true,
			CollectionId:  tenants.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "job_number", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			Required:     false,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "job_type",
			Required:  true,
			Values:    services.JobTypeValues(),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "job_status",
			Required:  true,
			Values:    services.JobStatusValues(),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		// Totals may legitimately be zero, so none of the number fields are required.
		c.Fields.Add(&core.NumberField{Name: "waste_factor", Required: false})
		c.Fields.Add(&core.NumberField{Name: "site_area_sqm", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_tonnage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quote_total_ex_gst", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quote_gst_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quote_total_inc_gst", Required: false})
		c.Fields.Add(&core.TextField{Name: "purchase_order_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "quote_number", Required: false})
		c.Fields.Add(&core.DateField{Name: "quote_date"})
		c.Fields.Add(&core.DateField{Name: "quote_expiry_date"})
		c.Fields.Add(&core.BoolField{Name: "is_night_shift"})
		c.Fields.Add(&core.SelectField{
			Name:      "truck_access",
			Required:  false,
			Values:    services.TruckTypeValues(),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_jobs_tenant_number", true, "tenant, job_number", "")
	})

	ensureCollection(app, "job_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "job",
			Required:      true,
			CollectionId:  jobs.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:          "tenant",
			Required:      true,
			CollectionId:  tenants.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "area_sqm", Required: true})
		c.Fields.Add(&core.NumberField{Name: "depth_mm", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "asphalt_mix_type",
			Required:  true,
			Values:    services.MixTypeValues(),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "specification",
			Required:  false,
			Values:    services.SpecificationValues(),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "custom_specification", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tonnage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "unit_price_per_tonne", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_price_ex_gst", Required: false})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
