package ensemble

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// On-disk artifact names. The gob blob carries scaler + both models; the
// metrics record is kept beside it as JSON so ops tooling can read it without
// decoding the blob. Both files are written and loaded together; a snapshot
// is only ever persisted or restored as one unit.
const (
	modelFile   = "ensemble.gob"
	metricsFile = "training_results.json"
)

// Save writes the snapshot under dir, creating it if needed. The blob is
// written to a temp file and renamed so a crash mid-write never leaves a
// loadable half-snapshot.
func (s *Snapshot) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensemble: create model dir: %w", err)
	}

	tmp := filepath.Join(dir, modelFile+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("ensemble: create model file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(s); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("ensemble: encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("ensemble: close model file: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, modelFile)); err != nil {
		return fmt.Errorf("ensemble: publish model file: %w", err)
	}

	metricsJSON, err := json.MarshalIndent(s.Metrics, "", "  ")
	if err != nil {
		return fmt.Errorf("ensemble: marshal metrics: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, metricsFile), metricsJSON, 0o644); err != nil {
		return fmt.Errorf("ensemble: write metrics: %w", err)
	}
	return nil
}

// Load restores a snapshot previously written by Save. Scaler and models come
// back together from the single blob, so a loaded snapshot is never a mix of
// artifacts from different training runs.
func Load(dir string) (*Snapshot, error) {
	f, err := os.Open(filepath.Join(dir, modelFile))
	if err != nil {
		return nil, fmt.Errorf("ensemble: open model file: %w", err)
	}
	defer f.Close()

	var s Snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("ensemble: decode snapshot: %w", err)
	}
	return &s, nil
}
