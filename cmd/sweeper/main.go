package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/waycover/waycover/internal/adapter"
	"github.com/waycover/waycover/internal/config"
	"github.com/waycover/waycover/internal/logger"
	"github.com/waycover/waycover/internal/messaging"
	"github.com/waycover/waycover/internal/providers/jetstream"
	"github.com/waycover/waycover/internal/store"
	"github.com/waycover/waycover/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	config.ChdirRepoRoot()
	cfg, err := config.LoadSweeperConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Root context, canceled once shutdown begins
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Structured logging with Sentry forwarding
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "sweeper",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Sweeper")

	// Open the database and size its connection pool
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("dsn", cfg.Database.DSN()))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()

	// Connect to NATS JetStream when eventing is enabled. Repairs are still
	// applied without it, they just go unannounced.
	var publisher messaging.Publisher
	if cfg.NATS.Enabled {
		publisher, err = jetstream.NewPublisher(jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), adapter.NewJSON())
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		defer publisher.Close()
		logger.InfoCtx(ctx, "Connected to NATS", zap.String("url", cfg.NATS.URL))
	}

	// Initialize coverage audit sweeper
	auditSweeperConfig := &sweeper.CoverageAuditSweeperConfig{
		PageSize:       cfg.CoverageAudit.BatchSize,
		WorkerPoolSize: cfg.CoverageAudit.Worker.WorkerPoolSize,
	}
	auditSweeper := sweeper.NewCoverageAuditSweeper(auditSweeperConfig, dataStore, publisher, clock)

	logger.InfoCtx(ctx, "Initialized coverage audit sweeper (continuous mode)",
		zap.Int("page_size", cfg.CoverageAudit.BatchSize),
		zap.Int("worker_pool_size", cfg.CoverageAudit.Worker.WorkerPoolSize),
	)

	// Sweep until a signal arrives or the loop fails
	errChan := make(chan error, 1)
	go func() {
		if err := auditSweeper.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	cancel()

	// Bounded drain for the in-flight sweep
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := auditSweeper.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	logger.InfoCtx(shutdownCtx, "Sweeper stopped")
}
