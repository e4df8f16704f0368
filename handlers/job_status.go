package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"asphaltscope/services"
)

// HandleJobStatus moves a job to the submitted status.
func HandleJobStatus(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tenant, err := requireTenant(e)
		if tenant == nil {
			return err
		}
		job, err := findTenantJob(app, tenant.ID, e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Job not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		status := e.Request.FormValue("status")
		if _, err := services.ParseJobStatus(status); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Unknown job status")
		}
		if _, err := services.UpdateJobStatus(app, job.Id, status); err != nil {
			log.Printf("job_status: could not update %s: %v", job.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Status updated to "+services.JobStatus(status).Label())
		return redirect(e, "/jobs/"+job.Id)
	}
}
