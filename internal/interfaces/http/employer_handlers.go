package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/jobsphere/internal/domain/entity"
)

// CreateCompany handles POST /api/employer/company
func (h *Handlers) CreateCompany(c *gin.Context) {
	var req entity.CompanyProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "invalid request body")
		return
	}

	company, err := h.orchestrator.CreateCompany(c.Request.Context(), principal(c), req)
	if err != nil {
		h.fail(c, "create_company", err)
		return
	}
	created(c, company)
}

// UpdateCompany handles PUT /api/employer/company
func (h *Handlers) UpdateCompany(c *gin.Context) {
	var req entity.CompanyProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "invalid request body")
		return
	}

	company, err := h.orchestrator.UpdateCompany(c.Request.Context(), principal(c), req)
	if err != nil {
		h.fail(c, "update_company", err)
		return
	}
	success(c, company)
}

// MyCompany handles GET /api/employer/company
func (h *Handlers) MyCompany(c *gin.Context) {
	company, err := h.orchestrator.MyCompany(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, "my_company", err)
		return
	}
	success(c, company)
}

// GetCompany handles GET /api/companies/:id
func (h *Handlers) GetCompany(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	company, err := h.orchestrator.GetCompany(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get_company", err)
		return
	}
	success(c, company)
}

// SubmitPayment handles POST /api/employer/payments as multipart with
// reference_number and file
func (h *Handlers) SubmitPayment(c *gin.Context) {
	file, done, valid := h.upload(c, "file")
	if !valid {
		return
	}
	defer done()

	proof, err := h.orchestrator.SubmitPayment(c.Request.Context(), principal(c), c.PostForm("reference_number"), file)
	if err != nil {
		h.fail(c, "submit_payment", err)
		return
	}
	created(c, proof)
}

// MyPaymentStatus handles GET /api/employer/payments/status
func (h *Handlers) MyPaymentStatus(c *gin.Context) {
	status, err := h.orchestrator.MyPaymentStatus(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, "my_payment_status", err)
		return
	}
	success(c, status)
}

// ListMyPayments handles GET /api/employer/payments
func (h *Handlers) ListMyPayments(c *gin.Context) {
	proofs, err := h.orchestrator.ListMyPayments(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, "list_my_payments", err)
		return
	}
	success(c, proofs)
}

// PaymentStatus handles GET /api/companies/:id/payment-status
func (h *Handlers) PaymentStatus(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	status, err := h.orchestrator.PaymentStatus(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, "payment_status", err)
		return
	}
	success(c, status)
}

// GetPaymentProof handles GET /api/payments/:id
func (h *Handlers) GetPaymentProof(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	proof, err := h.orchestrator.GetPaymentProof(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, "get_payment_proof", err)
		return
	}
	success(c, proof)
}

// PaymentProofFile handles GET /api/payments/:id/file
func (h *Handlers) PaymentProofFile(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	path, err := h.orchestrator.PaymentProofFile(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, "payment_proof_file", err)
		return
	}
	sendFile(c, path)
}

// ListMyJobs handles GET /api/employer/jobs
func (h *Handlers) ListMyJobs(c *gin.Context) {
	jobs, err := h.orchestrator.ListMyJobs(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, "list_my_jobs", err)
		return
	}
	success(c, jobs)
}

// EmployerPipeline handles GET /api/employer/pipeline
func (h *Handlers) EmployerPipeline(c *gin.Context) {
	entries, err := h.orchestrator.EmployerPipeline(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, "employer_pipeline", err)
		return
	}
	success(c, entries)
}

// ExportPipeline handles GET /api/employer/pipeline/export. The document is
// built in memory so failures can still be reported as JSON.
func (h *Handlers) ExportPipeline(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.orchestrator.ExportPipeline(c.Request.Context(), principal(c), &buf); err != nil {
		h.fail(c, "export_pipeline", err)
		return
	}

	contentType, ext := h.orchestrator.ExportFormat()
	filename := fmt.Sprintf("pipeline-%s%s", time.Now().UTC().Format("20060102"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
