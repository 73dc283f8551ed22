package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/waycover/waycover/internal/adapter"
	"github.com/waycover/waycover/internal/config"
	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/engine"
	"github.com/waycover/waycover/internal/logger"
	"github.com/waycover/waycover/internal/messaging"
	"github.com/waycover/waycover/internal/providers/jetstream"
	"github.com/waycover/waycover/internal/store"
	"github.com/waycover/waycover/internal/trace"
)

var (
	configFile     = flag.String("config", "", "Path to configuration file")
	envPath        = flag.String("env", "config/", "Path to environment files")
	networkSource  = flag.String("network", "", "Path or URL of the network GeoJSON to import")
	replaceNetwork = flag.Bool("replace", false, "Replace the existing network instead of merging into it")
	ridesDir       = flag.String("rides", "", "Directory of ride trace files to backfill")
	activitiesFile = flag.String("activities", "", "Strava export activities CSV with ride metadata")
)

func main() {
	flag.Parse()

	if *networkSource == "" && *ridesDir == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -network and/or -rides")
		flag.Usage()
		os.Exit(2)
	}

	// Resolve file arguments before ChdirRepoRoot moves the working directory
	resolvePathFlags()

	config.ChdirRepoRoot()
	cfg, err := config.LoadImporterConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Root context, canceled on the first interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Structured logging with Sentry forwarding
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "importer",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Importer")

	// Cancel the run on interrupt so in-flight engine operations stop cleanly
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	// Open the database and size its connection pool
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("dsn", cfg.Database.DSN()))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}

	dataStore := store.NewPGStore(db)
	fs := adapter.NewFileSystem()
	httpClient := adapter.NewHTTPClient(cfg.HTTPTimeout)

	// Connect to NATS JetStream when eventing is enabled
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

	// Initialize coverage engine and hydrate it from the store
	eng := engine.NewEngine(engine.Config{
		Matching: cfg.Matching.MatcherConfig(),
		Workers:  cfg.Worker.WorkerPoolSize,
	}, dataStore, publisher, adapter.NewClock(), adapter.NewJCS(), adapter.NewJSON())

	if err := eng.Reload(ctx); err != nil {
		logger.FatalCtx(ctx, "Failed to load engine state", zap.Error(err))
	}

	if *networkSource != "" {
		importNetwork(ctx, eng, fs, httpClient)
	}

	if *ridesDir != "" {
		backfillRides(ctx, eng, fs)
	}

	logger.Info("Importer finished")
}

// resolvePathFlags makes the file arguments absolute while the working
// directory still is the one the importer was invoked from
func resolvePathFlags() {
	for _, p := range []*string{ridesDir, activitiesFile} {
		if *p == "" {
			continue
		}
		if abs, err := filepath.Abs(*p); err == nil {
			*p = abs
		}
	}
	if *networkSource != "" && !isURL(*networkSource) {
		if abs, err := filepath.Abs(*networkSource); err == nil {
			*networkSource = abs
		}
	}
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// importNetwork loads the network GeoJSON from a file or URL and installs it
func importNetwork(ctx context.Context, eng engine.Engine, fs adapter.FileSystem, httpClient adapter.HTTPClient) {
	var data []byte
	var err error
	if isURL(*networkSource) {
		data, err = httpClient.Fetch(ctx, *networkSource)
	} else {
		data, err = fs.ReadFile(*networkSource)
	}
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load network data", zap.Error(err), zap.String("source", *networkSource))
	}

	paths, err := trace.DecodeNetwork(data)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to decode network", zap.Error(err), zap.String("source", *networkSource))
	}

	result, err := eng.ImportNetwork(ctx, paths, *replaceNetwork)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to import network", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Imported network",
		zap.Int("paths_imported", result.PathsImported),
		zap.Int("paths_skipped", result.PathsSkipped),
		zap.Int("rides_rematched", result.RidesRematched),
		zap.Int("changed_paths", len(result.ChangedPaths)),
	)
}

// backfillRides decodes every trace file in the rides directory and submits
// them as one batch, reporting the outcome per file
func backfillRides(ctx context.Context, eng engine.Engine, fs adapter.FileSystem) {
	var activities map[string]trace.Activity
	if *activitiesFile != "" {
		data, err := fs.ReadFile(*activitiesFile)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to read activities CSV", zap.Error(err), zap.String("path", *activitiesFile))
		}
		activities, err = trace.ParseActivities(bytes.NewReader(data))
		if err != nil {
			logger.FatalCtx(ctx, "Failed to parse activities CSV", zap.Error(err), zap.String("path", *activitiesFile))
		}
		logger.InfoCtx(ctx, "Loaded activities metadata", zap.Int("activities", len(activities)))
	}

	entries, err := fs.ReadDir(*ridesDir)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to read rides directory", zap.Error(err), zap.String("path", *ridesDir))
	}

	var subs []domain.RideSubmission
	var filenames []string
	skipped := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		data, err := fs.ReadFile(filepath.Join(*ridesDir, name))
		if err != nil {
			logger.WarnCtx(ctx, "Failed to read ride file", zap.Error(err), zap.String("file", name))
			skipped++
			continue
		}

		sub, err := trace.Decode(name, data)
		if err != nil {
			if errors.Is(err, trace.ErrUnknownFormat) {
				logger.DebugCtx(ctx, "Skipping file in unsupported format", zap.String("file", name))
			} else {
				logger.WarnCtx(ctx, "Failed to decode ride file", zap.Error(err), zap.String("file", name))
			}
			skipped++
			continue
		}
		if activity, ok := activities[name]; ok {
			activity.Apply(sub)
		}
		subs = append(subs, *sub)
		filenames = append(filenames, name)
	}

	if len(subs) == 0 {
		logger.InfoCtx(ctx, "No ride files to backfill", zap.Int("skipped", skipped))
		return
	}

	results, err := eng.AddRides(ctx, subs)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to backfill rides", zap.Error(err), zap.Int("processed", len(results)))
	}

	created, duplicates, rejected := 0, 0, 0
	for i, result := range results {
		switch result.Status {
		case domain.AddRideCreated:
			created++
			logger.InfoCtx(ctx, "Added ride",
				zap.String("file", filenames[i]),
				zap.Int("changed_paths", len(result.ChangedPaths)),
			)
		case domain.AddRideDuplicate:
			duplicates++
			logger.InfoCtx(ctx, "Skipped duplicate ride", zap.String("file", filenames[i]))
		default:
			rejected++
			logger.WarnCtx(ctx, "Rejected ride",
				zap.String("file", filenames[i]),
				zap.String("reason", result.Reason),
			)
		}
	}
	logger.InfoCtx(ctx, "Backfill finished",
		zap.Int("created", created),
		zap.Int("duplicates", duplicates),
		zap.Int("rejected", rejected),
		zap.Int("skipped", skipped),
	)
}
