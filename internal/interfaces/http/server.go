// Package http binds the marketplace orchestrator to a JSON REST API.
// This is a thin adapter layer that translates HTTP requests to orchestrator calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/jobsphere/internal/application/orchestrator"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RateLimiter throttles state-changing requests per key
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// HealthCheck reports whether the backing stores are reachable
type HealthCheck func(ctx context.Context) error

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	CORSOrigins    []string
	MaxUploadBytes int64
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxUploadBytes: 10 << 20,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config       ServerConfig
	httpServer   *http.Server
	router       *gin.Engine
	orchestrator *orchestrator.Orchestrator
	limiter      RateLimiter
	health       HealthCheck
	logger       Logger
}

// Option configures the server
type Option func(*Server)

// WithRateLimiter throttles mutating routes per user
func WithRateLimiter(l RateLimiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}

// WithHealthCheck makes /health probe the given dependency check
func WithHealthCheck(h HealthCheck) Option {
	return func(s *Server) {
		s.health = h
	}
}

// NewServer creates a new HTTP server over the orchestrator
func NewServer(config ServerConfig, orch *orchestrator.Orchestrator, logger Logger, opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:       config,
		router:       router,
		orchestrator: orch,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(server)
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
	if mw := corsMiddleware(s.config.CORSOrigins); mw != nil {
		s.router.Use(mw)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.orchestrator, s.config.MaxUploadBytes, s.health, s.logger)

	auth := s.authenticate(true)
	optional := s.authenticate(false)
	write := s.rateLimit()

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	{
		api.POST("/users", optional, h.RegisterUser)
		api.GET("/me", auth, h.Me)

		// Public catalogue
		api.GET("/jobs", h.ListActiveJobs)
		api.GET("/jobs/:id", optional, h.GetJob)
		api.GET("/companies/:id", h.GetCompany)
		api.GET("/companies/:id/jobs", optional, h.ListCompanyJobs)
		api.GET("/companies/:id/payment-status", auth, h.PaymentStatus)

		// Employer
		employer := api.Group("/employer", auth)
		{
			employer.GET("/company", h.MyCompany)
			employer.POST("/company", write, h.CreateCompany)
			employer.PUT("/company", write, h.UpdateCompany)
			employer.GET("/payments", h.ListMyPayments)
			employer.POST("/payments", write, h.SubmitPayment)
			employer.GET("/payments/status", h.MyPaymentStatus)
			employer.GET("/jobs", h.ListMyJobs)
			employer.GET("/pipeline", h.EmployerPipeline)
			employer.GET("/pipeline/export", h.ExportPipeline)
		}

		api.POST("/jobs", auth, write, h.CreateJob)
		api.PUT("/jobs/:id", auth, write, h.UpdateJob)
		api.POST("/jobs/:id/close", auth, write, h.CloseJob)
		api.GET("/jobs/:id/applications", auth, h.ListJobApplications)
		api.POST("/jobs/:id/applications", auth, write, h.Apply)

		api.GET("/payments/:id", auth, h.GetPaymentProof)
		api.GET("/payments/:id/file", auth, h.PaymentProofFile)

		// Applications
		api.GET("/applications", auth, h.ListMyApplications)
		api.GET("/applications/:id", auth, h.GetApplication)
		api.GET("/applications/:id/resume", auth, h.ResumeFile)
		api.PUT("/applications/:id/status", auth, write, h.UpdateApplicationStatus)

		api.GET("/history/:type/:id", auth, h.History)

		notifications := api.Group("/notifications", auth)
		{
			notifications.GET("", h.ListNotifications)
			notifications.GET("/unread", h.UnreadNotifications)
			notifications.POST("/:id/read", write, h.MarkNotificationRead)
		}

		admin := api.Group("/admin", auth)
		{
			admin.GET("/payments/pending", h.ListPendingPayments)
			admin.POST("/payments/:id/verify", write, h.VerifyPayment)
			admin.POST("/payments/:id/reject", write, h.RejectPayment)
			admin.GET("/jobs/pending", h.ListPendingJobs)
			admin.POST("/jobs/:id/approve", write, h.ApproveJob)
			admin.POST("/jobs/:id/reject", write, h.RejectJob)
			admin.GET("/users", h.ListUsers)
			admin.PUT("/users/:id/enabled", write, h.SetUserEnabled)
			admin.GET("/stats", h.Stats)
		}
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
