// AMLGuard model service - trains and serves the scoring ensemble
package main

import (
	"context"
	"os"

	"github.com/abishek14/amlguard/internal/config"
	"github.com/abishek14/amlguard/internal/logging"
	"github.com/abishek14/amlguard/internal/mlservice"
	"github.com/abishek14/amlguard/internal/traces"
)

// Build info - set by ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	logger := logging.New("info", "text")

	logger.Info("starting amlguard model service",
		"version", Version,
		"commit", Commit,
		"build_time", BuildTime,
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	shutdownTraces, err := traces.Init(ctx, os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"), "amlguard-mlserver", logger)
	if err != nil {
		logger.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTraces(context.Background()) }()

	svc := mlservice.NewService(cfg.ModelDir, logger)

	// Prefer a saved snapshot; train fresh when none exists. A failed
	// training with no snapshot to serve is fatal.
	if err := svc.LoadFromDisk(); err != nil {
		logger.Info("no saved snapshot, training fresh model", "reason", err.Error())
		if err := svc.Train(ctx, cfg.TrainingSamples, cfg.TrainingSeed); err != nil {
			logger.Error("training failed", "error", err)
			os.Exit(1)
		}
	}

	srv := mlservice.NewServer(cfg, svc, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("model service error", "error", err)
		os.Exit(1)
	}
}
