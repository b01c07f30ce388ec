package ensemble

import (
	"errors"
	"math"
	"testing"

	"github.com/abishek14/amlguard/internal/dataset"
	"github.com/abishek14/amlguard/internal/features"
)

func trainSnapshot(t *testing.T, samples int) *Snapshot {
	t.Helper()
	table, err := dataset.Generate(samples, 42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	snap, err := Train(table, 42)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	return snap
}

func TestTrainProducesUsableSnapshot(t *testing.T) {
	snap := trainSnapshot(t, 2000)

	if snap.Scaler == nil || snap.Forest == nil || snap.Isolation == nil {
		t.Fatalf("snapshot missing components: %+v", snap)
	}
	if len(snap.FeatureNames) != features.FeatureCount {
		t.Errorf("feature names: got %d, want %d", len(snap.FeatureNames), features.FeatureCount)
	}
	if snap.Metrics.TrainingSamples+snap.Metrics.TestSamples != 2000 {
		t.Errorf("split does not cover the table: train=%d test=%d",
			snap.Metrics.TrainingSamples, snap.Metrics.TestSamples)
	}
	if snap.Metrics.RFAccuracy < 0.7 {
		t.Errorf("classifier held-out accuracy too low: %f", snap.Metrics.RFAccuracy)
	}
	if snap.Metrics.IsoAccuracy < 0.5 {
		t.Errorf("anomaly detector held-out accuracy too low: %f", snap.Metrics.IsoAccuracy)
	}
}

func TestTrainEmptyTable(t *testing.T) {
	if _, err := Train(&dataset.Table{}, 42); err == nil {
		t.Errorf("expected error on empty table")
	}
}

func TestPredictSeparatesObviousCases(t *testing.T) {
	snap := trainSnapshot(t, 2000)

	// Routine business-hours transfer
	routine := features.Vector{
		Amount:               50,
		Frequency24h:         3,
		UniqueCounterparties: 2,
		HourOfDay:            14,
		GasPrice:             20,
		AccountAgeDays:       400,
		Balance:              5000,
	}
	// Structuring pattern at 3am with urgency gas
	shady := features.Vector{
		Amount:               9999.5,
		Frequency24h:         20,
		UniqueCounterparties: 1,
		HourOfDay:            3,
		GasPrice:             150,
		IsContract:           1,
		AccountAgeDays:       2,
		Balance:              50,
		TokenTypeNumeric:     1,
		HighGasFee:           1,
	}

	routineOut, err := snap.Predict(routine.Values())
	if err != nil {
		t.Fatalf("predict routine: %v", err)
	}
	shadyOut, err := snap.Predict(shady.Values())
	if err != nil {
		t.Fatalf("predict shady: %v", err)
	}

	if shadyOut.RiskScore <= routineOut.RiskScore {
		t.Errorf("shady risk %f should exceed routine risk %f",
			shadyOut.RiskScore, routineOut.RiskScore)
	}
	if shadyOut.Prediction != 1 {
		t.Errorf("structuring pattern not flagged: %+v", shadyOut)
	}
}

func TestPredictOutputInvariants(t *testing.T) {
	snap := trainSnapshot(t, 1000)

	vec := features.Vector{Amount: 100, Frequency24h: 5, UniqueCounterparties: 3,
		HourOfDay: 12, GasPrice: 30, AccountAgeDays: 365, Balance: 10000}
	out, err := snap.Predict(vec.Values())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	if math.Abs(out.RFProbNormal+out.RFProbIllicit-1) > 1e-9 {
		t.Errorf("class probabilities do not sum to 1: %f + %f", out.RFProbNormal, out.RFProbIllicit)
	}
	if out.Confidence < 0.5 || out.Confidence > 1 {
		t.Errorf("confidence out of range: %f", out.Confidence)
	}
	if out.RiskScore != out.RFProbIllicit {
		t.Errorf("risk score %f should equal illicit probability %f", out.RiskScore, out.RFProbIllicit)
	}
	wantPred := 0
	if out.RFPrediction+out.IsoPrediction >= 1 {
		wantPred = 1
	}
	if out.Prediction != wantPred {
		t.Errorf("vote combination broken: rf=%d iso=%d overall=%d",
			out.RFPrediction, out.IsoPrediction, out.Prediction)
	}
}

func TestPredictErrors(t *testing.T) {
	var nilSnap *Snapshot
	if _, err := nilSnap.Predict(make([]float64, features.FeatureCount)); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("nil snapshot: got %v, want ErrModelUnavailable", err)
	}

	snap := trainSnapshot(t, 500)
	if _, err := snap.Predict([]float64{1, 2, 3}); !errors.Is(err, ErrFeatureMismatch) {
		t.Errorf("short vector: got %v, want ErrFeatureMismatch", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	snap := trainSnapshot(t, 500)
	dir := t.TempDir()

	if err := snap.Save(dir); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	vec := features.Vector{Amount: 9999.5, Frequency24h: 20, UniqueCounterparties: 1,
		HourOfDay: 3, GasPrice: 150, IsContract: 1, AccountAgeDays: 2, Balance: 50,
		TokenTypeNumeric: 1, HighGasFee: 1}

	a, err := snap.Predict(vec.Values())
	if err != nil {
		t.Fatalf("predict original: %v", err)
	}
	b, err := loaded.Predict(vec.Values())
	if err != nil {
		t.Fatalf("predict loaded: %v", err)
	}

	if a.RiskScore != b.RiskScore || a.Prediction != b.Prediction {
		t.Errorf("loaded snapshot disagrees with original: %+v vs %+v", a, b)
	}
	if loaded.Metrics.TrainingSamples != snap.Metrics.TrainingSamples {
		t.Errorf("metrics not preserved")
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Errorf("expected error loading from empty dir")
	}
}
