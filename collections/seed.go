package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"asphaltscope/services"
)

// DemoABN is the ATO's published example ABN, used for the demo tenant.
const DemoABN = "51 824 753 556"

type sectionDef struct {
	name      string
	areaSqm   string
	depthMm   string
	mix       services.MixType
	unitPrice string
	notes     string
}

var demoSections = []sectionDef{
	{name: "Driveway", areaSqm: "200", depthMm: "40", mix: services.MixAC14, unitPrice: "120"},
	{name: "Car park", areaSqm: "150", depthMm: "50", mix: services.MixAC20, unitPrice: "110", notes: "Line marking by others"},
}

// Seed inserts a demo tenant, customer and a priced draft job when the
// tenants collection is empty. It is a no-op otherwise.
func Seed(app core.App, calc services.Calculator, rules services.JobRules) error {
	// ── idempotency: skip if tenants already exist ───────────────────
	tenantsCol, err := app.FindCollectionByNameOrId("tenants")
	if err != nil {
		return fmt.Errorf("seed: could not find tenants collection: %w", err)
	}
	existing, err := app.FindAllRecords(tenantsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query tenants: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: tenants collection is empty – inserting demo data …")

	now := time.Now()

	tenant, err := services.RegisterTenant(app, services.Registration{
		BusinessName:  "Demo Asphalt Pty Ltd",
		ABN:           DemoABN,
		GSTRegistered: true,
		AddressLine1:  "12 Bitumen Way",
		Suburb:        "Penrith",
		State:         "NSW",
		Postcode:      "2750",
		Phone:         "02 4700 0000",
		Email:         "quotes@demoasphalt.com.au",
	}, 14, now)
	if err != nil {
		return fmt.Errorf("seed: tenant: %w", err)
	}

	customer, err := services.CreateCustomer(app, tenant.Id, services.CustomerInput{
		BusinessName: "Blacktown Logistics",
		AddressLine1: "40 Freight Rd",
		Suburb:       "Blacktown",
		State:        "NSW",
		Postcode:     "2148",
	})
	if err != nil {
		return fmt.Errorf("seed: customer: %w", err)
	}

	job, err := services.CreateJob(app, tenant.Id, services.JobInput{
		Title:       "Depot driveway and car park resheet",
		JobType:     services.JobResheet,
		CustomerID:  customer.Id,
		WasteFactor: services.DefaultWasteFactor,
		TruckAccess: services.TruckSemi,
	}, rules, now)
	if err != nil {
		return fmt.Errorf("seed: job: %w", err)
	}

	sections := make([]services.AreaSection, 0, len(demoSections))
	for _, def := range demoSections {
		sections = append(sections, services.AreaSection{
			Name:              def.name,
			AreaSqm:           decimal.RequireFromString(def.areaSqm),
			DepthMm:           decimal.RequireFromString(def.depthMm),
			MixType:           def.mix,
			Specification:     services.SpecLocalCouncil,
			UnitPricePerTonne: decimal.RequireFromString(def.unitPrice),
			Notes:             def.notes,
		})
	}

	totals, err := services.ReplaceJobSections(app, job.Id, sections, calc)
	if err != nil {
		return fmt.Errorf("seed: job sections: %w", err)
	}

	log.Printf("seed: created tenant %q, job %s (%s inc GST)\n",
		tenant.GetString("name"), job.GetString("job_number"), services.FormatAUD(totals.QuoteTotalIncGST))
	return nil
}
