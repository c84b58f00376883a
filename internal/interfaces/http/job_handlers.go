package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

// ListActiveJobs handles GET /api/jobs
func (h *Handlers) ListActiveJobs(c *gin.Context) {
	var filter entity.JobFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "", "invalid query parameters")
		return
	}

	page, err := h.orchestrator.ListActiveJobs(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "list_active_jobs", err)
		return
	}
	success(c, page)
}

// GetJob handles GET /api/jobs/:id
func (h *Handlers) GetJob(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	job, err := h.orchestrator.GetJob(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, "get_job", err)
		return
	}
	success(c, job)
}

// ListCompanyJobs handles GET /api/companies/:id/jobs
func (h *Handlers) ListCompanyJobs(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	jobs, err := h.orchestrator.ListCompanyJobs(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, "list_company_jobs", err)
		return
	}
	success(c, jobs)
}

// CreateJob handles POST /api/jobs
func (h *Handlers) CreateJob(c *gin.Context) {
	var req entity.JobData
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "invalid request body")
		return
	}

	job, err := h.orchestrator.CreateJob(c.Request.Context(), principal(c), req)
	if err != nil {
		h.fail(c, "create_job", err)
		return
	}
	created(c, job)
}

// UpdateJob handles PUT /api/jobs/:id
func (h *Handlers) UpdateJob(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	var req entity.JobData
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "invalid request body")
		return
	}

	job, err := h.orchestrator.UpdateJob(c.Request.Context(), principal(c), id, req)
	if err != nil {
		h.fail(c, "update_job", err)
		return
	}
	success(c, job)
}

// CloseJob handles POST /api/jobs/:id/close
func (h *Handlers) CloseJob(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	job, err := h.orchestrator.CloseJob(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, "close_job", err)
		return
	}
	success(c, job)
}

// Apply handles POST /api/jobs/:id/applications as multipart with resume
// and an optional cover_letter
func (h *Handlers) Apply(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	resume, done, valid := h.upload(c, "resume")
	if !valid {
		return
	}
	defer done()

	app, err := h.orchestrator.Apply(c.Request.Context(), principal(c), id, resume, c.PostForm("cover_letter"))
	if err != nil {
		h.fail(c, "apply", err)
		return
	}
	created(c, app)
}

// ListJobApplications handles GET /api/jobs/:id/applications
func (h *Handlers) ListJobApplications(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	apps, err := h.orchestrator.ListJobApplications(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, "list_job_applications", err)
		return
	}
	success(c, apps)
}

// ListMyApplications handles GET /api/applications
func (h *Handlers) ListMyApplications(c *gin.Context) {
	apps, err := h.orchestrator.ListMyApplications(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, "list_my_applications", err)
		return
	}
	success(c, apps)
}

// GetApplication handles GET /api/applications/:id
func (h *Handlers) GetApplication(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	app, err := h.orchestrator.GetApplication(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, "get_application", err)
		return
	}
	success(c, app)
}

// ResumeFile handles GET /api/applications/:id/resume
func (h *Handlers) ResumeFile(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	path, err := h.orchestrator.ResumeFile(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, "resume_file", err)
		return
	}
	sendFile(c, path)
}

// StatusRequest carries a target status and the decision note
type StatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateApplicationStatus handles PUT /api/applications/:id/status
func (h *Handlers) UpdateApplicationStatus(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "invalid request body")
		return
	}

	target := workflow.State(strings.ToUpper(strings.TrimSpace(req.Status)))
	app, err := h.orchestrator.UpdateApplicationStatus(c.Request.Context(), principal(c), id, target, req.Notes)
	if err != nil {
		h.fail(c, "update_application_status", err)
		return
	}
	success(c, app)
}
