package http

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/jobsphere/internal/application/orchestrator"
	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/domain/access"
)

// multipartOverhead leaves room for form fields and boundaries on top of the file limit
const multipartOverhead = 1 << 20

// Handlers contains all HTTP request handlers
type Handlers struct {
	orchestrator   *orchestrator.Orchestrator
	maxUploadBytes int64
	health         HealthCheck
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(orch *orchestrator.Orchestrator, maxUploadBytes int64, health HealthCheck, logger Logger) *Handlers {
	return &Handlers{
		orchestrator:   orch,
		maxUploadBytes: maxUploadBytes,
		health:         health,
		logger:         logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.health(ctx); err != nil {
			h.logger.Error("Health check failed", "error", err)
			response.Status = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, Response{Success: false, Data: response, Error: "dependency unavailable"})
			return
		}
	}

	success(c, response)
}

// RegisterUserRequest is the body of POST /api/users
type RegisterUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// RegisterUser handles POST /api/users
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "invalid request body")
		return
	}

	role := access.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	user, err := h.orchestrator.RegisterUser(c.Request.Context(), principal(c), req.Email, req.FirstName, req.LastName, role)
	if err != nil {
		h.fail(c, "register_user", err)
		return
	}
	created(c, user)
}

// Me handles GET /api/me
func (h *Handlers) Me(c *gin.Context) {
	user, err := h.orchestrator.Me(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, "me", err)
		return
	}
	success(c, user)
}

// idParam parses a positive path id, writing a 400 on failure
func idParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, name, "invalid "+name)
		return 0, false
	}
	return id, true
}

// upload opens the multipart file of field, enforcing the size limit. The
// returned closer must be called once the upload has been stored.
func (h *Handlers) upload(c *gin.Context, field string) (port.Upload, func(), bool) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	header, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			badRequest(c, field, "file exceeds the upload limit")
		case errors.Is(err, http.ErrMissingFile):
			badRequest(c, field, field+" is required")
		default:
			badRequest(c, field, "invalid multipart upload")
		}
		return port.Upload{}, nil, false
	}

	return h.openUpload(c, field, header)
}

func (h *Handlers) openUpload(c *gin.Context, field string, header *multipart.FileHeader) (port.Upload, func(), bool) {
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		badRequest(c, field, "file exceeds the upload limit")
		return port.Upload{}, nil, false
	}
	f, err := header.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", "field", field, "error", err)
		badRequest(c, field, "unreadable upload")
		return port.Upload{}, nil, false
	}
	return port.Upload{Filename: filepath.Base(header.Filename), Content: f}, func() { _ = f.Close() }, true
}

// sendFile streams a stored document as an attachment
func sendFile(c *gin.Context, path string) {
	c.FileAttachment(path, filepath.Base(path))
}

func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
