package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/garyjia/jobsphere/internal/config"
	"github.com/garyjia/jobsphere/internal/container"
	httpapi "github.com/garyjia/jobsphere/internal/interfaces/http"
	"github.com/garyjia/jobsphere/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "jobsphere: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting JobSphere marketplace backend",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	if err := c.Start(ctx); err != nil {
		return err
	}

	opts := []httpapi.Option{httpapi.WithHealthCheck(c.HealthCheck)}
	if limiter := c.RateLimiter(); limiter != nil {
		opts = append(opts, httpapi.WithRateLimiter(limiter))
	}

	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	}, c.Orchestrator(), utils.NewServiceLogger(logger), opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		return nil
	})

	serveErr := g.Wait()
	closeErr := c.Close()
	if err := errors.Join(serveErr, closeErr); err != nil {
		logger.Error("Shutdown completed with errors", zap.Error(err))
		return err
	}

	logger.Info("Server exited")
	return nil
}
