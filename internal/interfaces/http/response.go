package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/jobsphere/internal/apperr"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Field   string      `json:"field,omitempty"`
}

var codeStatus = map[apperr.Code]int{
	apperr.CodeValidation:         http.StatusBadRequest,
	apperr.CodeUnauthorized:       http.StatusForbidden,
	apperr.CodeAccountDisabled:    http.StatusForbidden,
	apperr.CodeNotFound:           http.StatusNotFound,
	apperr.CodeAlreadyExists:      http.StatusConflict,
	apperr.CodeInvalidTransition:  http.StatusConflict,
	apperr.CodePaymentNotVerified: http.StatusPreconditionFailed,
	apperr.CodeJobNotAvailable:    http.StatusConflict,
	apperr.CodeInternal:           http.StatusInternalServerError,
}

func statusOf(err error) int {
	if status, found := codeStatus[apperr.CodeOf(err)]; found {
		return status
	}
	return http.StatusInternalServerError
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func badRequest(c *gin.Context, field, msg string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   msg,
		Code:    string(apperr.CodeValidation),
		Field:   field,
	})
}

// fail writes err as an error envelope. Internal causes are logged and never
// shown to the client.
func (h *Handlers) fail(c *gin.Context, op string, err error) {
	status := statusOf(err)
	resp := Response{Success: false, Code: string(apperr.CodeOf(err))}
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "op", op, "request_id", c.GetString(ctxRequestID), "error", err)
		resp.Error = "internal error"
	} else {
		resp.Error = err.Error()
		var appErr *apperr.AppError
		if errors.As(err, &appErr) {
			resp.Error = appErr.Message
			resp.Field = appErr.Field
		}
	}
	c.JSON(status, resp)
}
