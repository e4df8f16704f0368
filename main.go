package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"asphaltscope/collections"
	"asphaltscope/config"
	"asphaltscope/handlers"
)

func main() {
	app := pocketbase.New()

	v := config.New()
	if err := config.BindFlags(app.RootCmd, v); err != nil {
		log.Fatal(err)
	}

	// Settings are read once flags are parsed, then schema, seed data and
	// startup migrations run before the routes are registered.
	var cfg config.Config
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		config.LoadEnvFiles()
		loaded, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = loaded

		collections.Setup(app)
		if cfg.Seed {
			if err := collections.Seed(app, cfg.Calculator(), cfg.JobRules()); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		if err := collections.MigrateJobTotals(app, cfg.Calculator()); err != nil {
			log.Printf("Warning: job totals migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		calc := cfg.Calculator()
		rules := cfg.JobRules()

		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Apply active tenant middleware globally
		se.Router.BindFunc(handlers.ActiveTenantMiddleware(app))

		// ── Tenants ──────────────────────────────────────────────
		se.Router.GET("/register", handlers.HandleRegisterPage(app))
		se.Router.POST("/register", handlers.HandleRegister(app, cfg.TrialDays))
		se.Router.POST("/tenants/{id}/activate", handlers.HandleTenantActivate(app))

		// ── Customers ────────────────────────────────────────────
		se.Router.GET("/customers", handlers.HandleCustomerList(app))
		se.Router.POST("/customers", handlers.HandleCustomerSave(app))

		// ── Jobs ─────────────────────────────────────────────────
		se.Router.GET("/jobs", handlers.HandleJobList(app))
		se.Router.GET("/jobs/create", handlers.HandleJobCreate(app, rules, cfg.DefaultWasteFactor))
		se.Router.POST("/jobs/create", handlers.HandleJobSave(app, rules, cfg.DefaultWasteFactor))
		se.Router.GET("/jobs/{id}/areas", handlers.HandleJobAreas(app))
		se.Router.POST("/jobs/{id}/areas", handlers.HandleJobAreasSave(app, calc))
		se.Router.POST("/jobs/{id}/status", handlers.HandleJobStatus(app))

		// ── Area section import ──────────────────────────────────
		se.Router.GET("/jobs/areas/template", handlers.HandleSectionTemplateDownload())
		se.Router.POST("/jobs/areas/import/errors", handlers.HandleSectionImportErrors())
		se.Router.POST("/jobs/{id}/areas/import", handlers.HandleSectionImport(app, calc))

		// ── Quote export ─────────────────────────────────────────
		se.Router.GET("/jobs/{id}/quote/pdf", handlers.HandleQuotePDF(app, cfg.QuoteValidityDays))
		se.Router.GET("/jobs/{id}/quote/excel", handlers.HandleQuoteExcel(app, cfg.QuoteValidityDays))

		// Job view (after the specific /jobs/{id}/* routes)
		se.Router.GET("/jobs/{id}", handlers.HandleJobView(app))

		// ── Live calculation ─────────────────────────────────────
		se.Router.POST("/api/jobs/calculate", handlers.HandleCalculate(calc))

		// Redirect home to the job list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/jobs")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
