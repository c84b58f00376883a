package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/internal/domain/workflow"
)

// DecisionRequest is the body of admin reject endpoints
type DecisionRequest struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

// ListPendingPayments handles GET /api/admin/payments/pending
func (h *Handlers) ListPendingPayments(c *gin.Context) {
	proofs, err := h.orchestrator.ListPendingPayments(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, "list_pending_payments", err)
		return
	}
	success(c, proofs)
}

// VerifyPayment handles POST /api/admin/payments/:id/verify
func (h *Handlers) VerifyPayment(c *gin.Context) {
	h.decidePayment(c, entity.PaymentVerified)
}

// RejectPayment handles POST /api/admin/payments/:id/reject
func (h *Handlers) RejectPayment(c *gin.Context) {
	h.decidePayment(c, entity.PaymentRejected)
}

func (h *Handlers) decidePayment(c *gin.Context, target workflow.State) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	var req DecisionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "", "invalid request body")
			return
		}
	}

	proof, err := h.orchestrator.DecidePayment(c.Request.Context(), principal(c), id, target, req.Notes)
	if err != nil {
		h.fail(c, "decide_payment", err)
		return
	}
	success(c, proof)
}

// ListPendingJobs handles GET /api/admin/jobs/pending
func (h *Handlers) ListPendingJobs(c *gin.Context) {
	jobs, err := h.orchestrator.ListPendingJobs(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, "list_pending_jobs", err)
		return
	}
	success(c, jobs)
}

// ApproveJob handles POST /api/admin/jobs/:id/approve
func (h *Handlers) ApproveJob(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	job, err := h.orchestrator.ApproveJob(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, "approve_job", err)
		return
	}
	success(c, job)
}

// RejectJob handles POST /api/admin/jobs/:id/reject
func (h *Handlers) RejectJob(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "reason", "rejection reason is required")
		return
	}

	job, err := h.orchestrator.RejectJob(c.Request.Context(), principal(c), id, req.Reason)
	if err != nil {
		h.fail(c, "reject_job", err)
		return
	}
	success(c, job)
}

// ListUsers handles GET /api/admin/users?role=
func (h *Handlers) ListUsers(c *gin.Context) {
	role := access.Role(strings.ToUpper(strings.TrimSpace(c.Query("role"))))
	if role != "" && !role.Valid() {
		badRequest(c, "role", "unknown role")
		return
	}
	users, err := h.orchestrator.ListUsers(c.Request.Context(), principal(c), role)
	if err != nil {
		h.fail(c, "list_users", err)
		return
	}
	success(c, users)
}

// EnabledRequest is the body of PUT /api/admin/users/:id/enabled
type EnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// SetUserEnabled handles PUT /api/admin/users/:id/enabled
func (h *Handlers) SetUserEnabled(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	var req EnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		badRequest(c, "enabled", "enabled flag is required")
		return
	}

	user, err := h.orchestrator.SetUserEnabled(c.Request.Context(), principal(c), id, *req.Enabled)
	if err != nil {
		h.fail(c, "set_user_enabled", err)
		return
	}
	success(c, user)
}

// Stats handles GET /api/admin/stats
func (h *Handlers) Stats(c *gin.Context) {
	stats, err := h.orchestrator.Stats(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, "stats", err)
		return
	}
	success(c, stats)
}

// History handles GET /api/history/:type/:id where type is payment, job or application
func (h *Handlers) History(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	entityType, known := historyTypes[strings.ToLower(c.Param("type"))]
	if !known {
		badRequest(c, "type", "unknown entity type")
		return
	}

	trail, err := h.orchestrator.History(c.Request.Context(), principal(c), entityType, id)
	if err != nil {
		h.fail(c, "history", err)
		return
	}
	success(c, trail)
}

var historyTypes = map[string]entity.EntityType{
	"payment":     entity.EntityPaymentProof,
	"job":         entity.EntityJob,
	"application": entity.EntityApplication,
}

// ListNotifications handles GET /api/notifications?page=&size=
func (h *Handlers) ListNotifications(c *gin.Context) {
	page, err := h.orchestrator.ListNotifications(c.Request.Context(), principal(c), queryInt(c, "page", 0), queryInt(c, "size", entity.DefaultPageSize))
	if err != nil {
		h.fail(c, "list_notifications", err)
		return
	}
	success(c, page)
}

// UnreadNotifications handles GET /api/notifications/unread
func (h *Handlers) UnreadNotifications(c *gin.Context) {
	count, err := h.orchestrator.UnreadNotifications(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, "unread_notifications", err)
		return
	}
	success(c, gin.H{"unread": count})
}

// MarkNotificationRead handles POST /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	if err := h.orchestrator.MarkNotificationRead(c.Request.Context(), principal(c), id); err != nil {
		h.fail(c, "mark_notification_read", err)
		return
	}
	success(c, gin.H{"id": id, "read": true})
}
