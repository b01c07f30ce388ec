// Package mlservice hosts the trained ensemble behind an HTTP API: training
// at startup (or loading a saved snapshot), atomic publication, and the
// /predict, /health, and /models/stats endpoints consumed by the gateway.
package mlservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/abishek14/amlguard/internal/dataset"
	"github.com/abishek14/amlguard/internal/ensemble"
	"github.com/abishek14/amlguard/internal/metrics"
)

// Service owns the published model snapshot. Snapshot swaps are atomic:
// in-flight predictions keep the snapshot they started with, and a reader
// never observes a partially trained model.
type Service struct {
	logger   *slog.Logger
	modelDir string
	snapshot atomic.Pointer[ensemble.Snapshot]
}

// NewService creates an empty service. Call Train or LoadFromDisk before
// serving predictions.
func NewService(modelDir string, logger *slog.Logger) *Service {
	return &Service{
		logger:   logger,
		modelDir: modelDir,
	}
}

// Snapshot returns the currently published snapshot, or nil before the first
// successful Train or LoadFromDisk.
func (s *Service) Snapshot() *ensemble.Snapshot {
	return s.snapshot.Load()
}

// Ready reports whether a snapshot is published.
func (s *Service) Ready() bool {
	return s.snapshot.Load() != nil
}

// Train generates a synthetic corpus, fits a fresh snapshot, persists it, and
// publishes it. A training failure leaves any previously published snapshot
// in place.
func (s *Service) Train(ctx context.Context, samples int, seed int64) error {
	start := time.Now()
	s.logger.Info("training started", "samples", samples, "seed", seed)

	table, err := dataset.Generate(samples, seed)
	if err != nil {
		return fmt.Errorf("mlservice: %w", err)
	}
	snap, err := ensemble.Train(table, seed)
	if err != nil {
		return fmt.Errorf("mlservice: training failed: %w", err)
	}

	if s.modelDir != "" {
		if err := snap.Save(s.modelDir); err != nil {
			s.logger.Warn("failed to persist model snapshot", "error", err, "dir", s.modelDir)
		}
	}

	s.snapshot.Store(snap)

	elapsed := time.Since(start)
	metrics.TrainingAccuracy.WithLabelValues("random_forest").Set(snap.Metrics.RFAccuracy)
	metrics.TrainingAccuracy.WithLabelValues("isolation_forest").Set(snap.Metrics.IsoAccuracy)
	metrics.TrainingSamples.Set(float64(snap.Metrics.TrainingSamples))
	metrics.TrainingDuration.Observe(elapsed.Seconds())

	s.logger.Info("training complete",
		"rf_accuracy", snap.Metrics.RFAccuracy,
		"iso_accuracy", snap.Metrics.IsoAccuracy,
		"training_samples", snap.Metrics.TrainingSamples,
		"test_samples", snap.Metrics.TestSamples,
		"duration_ms", elapsed.Milliseconds(),
	)
	return nil
}

// LoadFromDisk publishes a previously saved snapshot.
func (s *Service) LoadFromDisk() error {
	snap, err := ensemble.Load(s.modelDir)
	if err != nil {
		return fmt.Errorf("mlservice: load snapshot: %w", err)
	}
	s.snapshot.Store(snap)
	s.logger.Info("model snapshot loaded from disk",
		"dir", s.modelDir,
		"trained_at", snap.Metrics.Timestamp,
	)
	return nil
}
