package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/garyjia/jobsphere/internal/application/orchestrator"
	"github.com/garyjia/jobsphere/internal/domain/access"
)

const (
	headerUserID    = "X-User-ID"
	headerRequestID = "X-Request-ID"

	ctxPrincipal = "principal"
	ctxRequestID = "request_id"
)

// requestIDMiddleware tags the request and its domain events with one id
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Request = c.Request.WithContext(orchestrator.WithCorrelationID(c.Request.Context(), id))
		c.Next()
	}
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		kv := []interface{}{
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(ctxRequestID),
		}
		if p, ok := principalFrom(c); ok {
			kv = append(kv, "user_id", p.UserID)
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("HTTP request", kv...)
			return
		}
		s.logger.Info("HTTP request", kv...)
	}
}

// corsMiddleware returns nil when no origins are configured
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", headerUserID, headerRequestID},
		ExposeHeaders: []string{"Content-Disposition", headerRequestID},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}

// authenticate resolves the X-User-ID header forwarded by the identity
// provider into a principal. With required unset, anonymous requests pass
// through without one.
func (s *Server) authenticate(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(headerUserID))
		if raw == "" && !required {
			c.Next()
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			abortUnauthenticated(c, "missing or invalid "+headerUserID+" header")
			return
		}

		p, err := s.orchestrator.CurrentPrincipal(c.Request.Context(), id)
		if err != nil {
			if code := statusOf(err); code == http.StatusForbidden || code == http.StatusNotFound {
				abortUnauthenticated(c, "unknown user")
				return
			}
			s.logger.Error("Failed to resolve principal", "user_id", id, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error", Code: "internal"})
			return
		}

		c.Set(ctxPrincipal, p)
		c.Next()
	}
}

// rateLimit counts mutating requests per principal
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}
		p, ok := principalFrom(c)
		if !ok {
			c.Next()
			return
		}
		if !s.limiter.Allow(c.Request.Context(), "user:"+strconv.FormatInt(p.UserID, 10)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{
				Success: false,
				Error:   "too many requests, slow down",
				Code:    "rate_limited",
			})
			return
		}
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: msg, Code: "unauthenticated"})
}

func principalFrom(c *gin.Context) (access.Principal, bool) {
	v, ok := c.Get(ctxPrincipal)
	if !ok {
		return access.Principal{}, false
	}
	p, ok := v.(access.Principal)
	return p, ok
}

// principal returns the request principal, or the anonymous zero value
func principal(c *gin.Context) access.Principal {
	p, _ := principalFrom(c)
	return p
}
