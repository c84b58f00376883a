// Package container provides dependency injection and lifecycle management
// for the marketplace backend.
package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/jobsphere/internal/application/dispatcher"
	"github.com/garyjia/jobsphere/internal/application/orchestrator"
	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/config"
	"github.com/garyjia/jobsphere/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/jobsphere/internal/infrastructure/ratelimit"
	"github.com/garyjia/jobsphere/pkg/database"
)

// Container manages all application dependencies and lifecycle. Components
// are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	db           *database.DB
	txManager    *sqlite.TxManager
	repositories *RepositoryBundle
	files        port.FileStore
	limiter      *ratelimit.RedisLimiter

	// Application
	services     *orchestrator.Services
	dispatcher   dispatcher.Dispatcher
	orchestrator *orchestrator.Orchestrator

	mu     sync.Mutex
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	User         port.UserRepository
	Company      port.CompanyRepository
	Payment      port.PaymentRepository
	Job          port.JobRepository
	Application  port.ApplicationRepository
	Notification port.NotificationRepository
	History      port.HistoryRepository
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components in dependency order:
// 1. Database, migrations and repositories
// 2. File storage and rate limiter
// 3. Application services
// 4. Event dispatcher and notification handler
// 5. Orchestrator
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized", zap.String("path", c.config.Database.Path))

	if err := c.initInfrastructure(ctx); err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize infrastructure: %w", err)
	}
	c.logger.Info("Storage initialized", zap.String("upload_dir", c.config.Storage.UploadDir))

	if err := c.initApplication(); err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	c.logger.Info("Application services initialized")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")
	err := c.teardown()

	c.closed.Store(true)
	c.ready.Store(false)

	if err != nil {
		c.logger.Error("Container closed with errors", zap.Error(err))
		return err
	}
	c.logger.Info("Container closed successfully")
	return nil
}

// teardown releases whatever has been initialized. The dispatcher drains
// in-flight notification handlers before the database goes away.
func (c *Container) teardown() error {
	var errs []error

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		} else {
			c.logger.Info("Dispatcher closed")
		}
		c.dispatcher = nil
	}

	if c.limiter != nil {
		if err := c.limiter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rate limiter: %w", err))
		}
		c.limiter = nil
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
		c.db = nil
	}

	return errors.Join(errs...)
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	check := func(name string, err error) {
		if err != nil {
			status.Components[name] = ComponentHealth{Healthy: false, Message: err.Error()}
			status.Overall = false
			return
		}
		status.Components[name] = ComponentHealth{Healthy: true}
	}

	if c.db == nil {
		check("database", fmt.Errorf("not initialized"))
	} else {
		check("database", c.db.PingContext(ctx))
	}

	if c.limiter != nil {
		check("redis", c.limiter.Ping(ctx))
	}

	if c.dispatcher == nil {
		check("dispatcher", fmt.Errorf("not initialized"))
	} else {
		check("dispatcher", nil)
	}

	return status
}

// HealthCheck reports the first unhealthy component as an error.
func (c *Container) HealthCheck(ctx context.Context) error {
	status := c.Health(ctx)
	if status.Overall {
		return nil
	}
	for name, h := range status.Components {
		if !h.Healthy {
			return fmt.Errorf("%s: %s", name, h.Message)
		}
	}
	return nil
}

func (c *Container) initDatabase() error {
	bundle, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return err
	}
	c.db = bundle.DB
	c.txManager = bundle.TxManager

	repos, err := ProvideRepositories(c.db.DB, c.logger)
	if err != nil {
		c.db.Close()
		c.db = nil
		return err
	}
	c.repositories = repos
	return nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	files, err := ProvideStorage(&c.config.Storage, c.logger)
	if err != nil {
		return err
	}
	c.files = files

	c.limiter = ProvideRateLimiter(&c.config.Redis, c.logger)
	if c.limiter != nil {
		if err := c.limiter.Ping(ctx); err != nil {
			c.logger.Warn("Redis unreachable, write rate limiting fails open", zap.String("addr", c.config.Redis.Addr), zap.Error(err))
		}
	}
	return nil
}

func (c *Container) initApplication() error {
	services, err := ProvideServices(&ServiceDeps{
		Repos:     c.repositories,
		TxManager: c.txManager,
		Logger:    c.logger,
	})
	if err != nil {
		return err
	}
	c.services = services

	disp, err := ProvideDispatcher(services, c.logger)
	if err != nil {
		return err
	}
	c.dispatcher = disp

	orch, err := ProvideOrchestrator(&OrchestratorDeps{
		Services:   services,
		TxManager:  c.txManager,
		Dispatcher: disp,
		Files:      c.files,
		Logger:     c.logger,
	})
	if err != nil {
		return err
	}
	c.orchestrator = orch
	return nil
}

// Orchestrator returns the workflow entry point.
func (c *Container) Orchestrator() *orchestrator.Orchestrator {
	return c.orchestrator
}

// RateLimiter returns the write limiter, or nil when Redis is not configured.
func (c *Container) RateLimiter() *ratelimit.RedisLimiter {
	return c.limiter
}

// Repositories returns all repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *config.Config {
	return c.config
}
