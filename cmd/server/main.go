// AMLGuard gateway - transaction risk assessment API
package main

import (
	"context"
	"os"

	"github.com/abishek14/amlguard/internal/config"
	"github.com/abishek14/amlguard/internal/logging"
	"github.com/abishek14/amlguard/internal/server"
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

	logger.Info("starting amlguard gateway",
		"version", Version,
		"commit", Commit,
		"build_time", BuildTime,
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"env", cfg.Env,
		"ml_service", cfg.MLServiceURL,
		"network", cfg.Network,
	)

	ctx := context.Background()

	shutdownTraces, err := traces.Init(ctx, os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"), "amlguard-gateway", logger)
	if err != nil {
		logger.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTraces(context.Background()) }()

	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
