package container

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/jobsphere/internal/application/dispatcher"
	"github.com/garyjia/jobsphere/internal/application/orchestrator"
	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/application/service"
	"github.com/garyjia/jobsphere/internal/config"
	"github.com/garyjia/jobsphere/internal/infrastructure/export"
	"github.com/garyjia/jobsphere/internal/infrastructure/persistence/repository"
	"github.com/garyjia/jobsphere/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/jobsphere/internal/infrastructure/ratelimit"
	"github.com/garyjia/jobsphere/internal/infrastructure/storage"
	"github.com/garyjia/jobsphere/pkg/database"
	"github.com/garyjia/jobsphere/pkg/utils"
)

// notificationTimeout bounds a single in-app notification write
const notificationTimeout = 5 * time.Second

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	DB        *database.DB
	TxManager *sqlite.TxManager
}

// ProvideDatabase opens the SQLite database, applies pending migrations and
// builds the transaction manager.
func ProvideDatabase(cfg *config.DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:        db,
		TxManager: sqlite.NewTxManager(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		User:         repository.NewUserRepository(sqlDB, logger),
		Company:      repository.NewCompanyRepository(sqlDB, logger),
		Payment:      repository.NewPaymentRepository(sqlDB, logger),
		Job:          repository.NewJobRepository(sqlDB, logger),
		Application:  repository.NewApplicationRepository(sqlDB, logger),
		Notification: repository.NewNotificationRepository(sqlDB, logger),
		History:      repository.NewHistoryRepository(sqlDB, logger),
	}, nil
}

// ProvideStorage creates the local upload store.
func ProvideStorage(cfg *config.StorageConfig, logger *zap.Logger) (port.FileStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}
	fs, err := storage.NewLocalFileStorage(cfg.UploadDir, cfg.MaxUploadBytes, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file storage: %w", err)
	}
	return fs, nil
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Repos     *RepositoryBundle
	TxManager port.TransactionManager
	Logger    *zap.Logger
}

// ProvideServices creates the per-entity state machine services.
func ProvideServices(deps *ServiceDeps) (*orchestrator.Services, error) {
	if deps == nil || deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}

	logger := utils.NewServiceLogger(deps.Logger)
	r := deps.Repos

	users := service.NewUserService(r.User, logger)
	companies := service.NewCompanyService(r.Company, logger)
	jobs := service.NewJobService(r.Job, r.History, deps.TxManager, logger)
	applications := service.NewApplicationService(r.Application, r.History, deps.TxManager, logger)

	return &orchestrator.Services{
		Users:         users,
		Companies:     companies,
		Payments:      service.NewPaymentService(r.Payment, r.Company, r.History, deps.TxManager, logger),
		Jobs:          jobs,
		Applications:  applications,
		Notifications: service.NewNotificationService(r.Notification, logger),
		Reports:       service.NewReportService(users, companies, jobs, applications, r.History),
	}, nil
}

// ProvideDispatcher creates the event dispatcher and subscribes the in-app
// notification handler to every workflow event it renders.
func ProvideDispatcher(services *orchestrator.Services, logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if services == nil {
		return nil, fmt.Errorf("services are required")
	}

	serviceLogger := utils.NewServiceLogger(logger)
	d := dispatcher.NewDispatcher(
		dispatcher.WithLogger(serviceLogger),
		dispatcher.WithHandlerTimeout(notificationTimeout),
	)

	handler := service.NewNotificationHandler(services.Notifications, services.Users, serviceLogger)
	d.SubscribeAll(handler.Types(), "notifications", handler.Handle)

	return d, nil
}

// ProvideRateLimiter returns nil when no Redis address is configured.
func ProvideRateLimiter(cfg *config.RedisConfig, logger *zap.Logger) *ratelimit.RedisLimiter {
	return ratelimit.NewRedisLimiter(ratelimit.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		Limit:    cfg.WriteLimit,
		Window:   cfg.WriteWindow,
	}, logger)
}

// OrchestratorDeps holds dependencies for the orchestrator.
type OrchestratorDeps struct {
	Services   *orchestrator.Services
	TxManager  port.TransactionManager
	Dispatcher dispatcher.Dispatcher
	Files      port.FileStore
	Logger     *zap.Logger
}

// ProvideOrchestrator wires the workflow entry point.
func ProvideOrchestrator(deps *OrchestratorDeps) (*orchestrator.Orchestrator, error) {
	if deps == nil || deps.Services == nil {
		return nil, fmt.Errorf("services are required")
	}

	return orchestrator.New(*deps.Services, deps.TxManager, utils.NewServiceLogger(deps.Logger),
		orchestrator.WithDispatcher(deps.Dispatcher),
		orchestrator.WithFileStore(deps.Files),
		orchestrator.WithExporter(export.NewPipelineExcelExporter(deps.Logger)),
	), nil
}
