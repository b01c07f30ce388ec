package predictor

import (
	"context"
	"math"
	"testing"

	"github.com/abishek14/amlguard/internal/features"
)

func TestFallbackFlagsHighRiskTransaction(t *testing.T) {
	p := NewFallback()

	// Four full factors plus the contract half-factor
	vec := features.Vector{
		Amount:       50000,
		Frequency24h: 25,
		HourOfDay:    4,
		GasPrice:     300,
		IsContract:   1,
	}

	result, err := p.Predict(context.Background(), vec)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	if result.Prediction != 1 {
		t.Errorf("expected illicit verdict, got %d", result.Prediction)
	}
	if result.Confidence != 0.95 {
		t.Errorf("confidence: got %f, want 0.95", result.Confidence)
	}
	if result.RiskScore != 1 {
		t.Errorf("risk score should clamp to 1, got %f", result.RiskScore)
	}
	if result.Source != SourceFallback {
		t.Errorf("source: got %q, want %q", result.Source, SourceFallback)
	}
	if len(result.RiskFactors) != 5 {
		t.Errorf("expected 5 risk factors, got %v", result.RiskFactors)
	}
	if result.Models.IsolationForest.Prediction != 1 {
		t.Errorf("synthesized anomaly vote should be 1 for 4.5 factors")
	}
}

func TestFallbackPassesRoutineTransaction(t *testing.T) {
	p := NewFallback()

	vec := features.Vector{
		Amount:       100,
		Frequency24h: 3,
		HourOfDay:    14,
		GasPrice:     20,
	}

	result, err := p.Predict(context.Background(), vec)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	if result.Prediction != 0 {
		t.Errorf("routine transaction flagged: %+v", result)
	}
	if result.RiskScore != 0 {
		t.Errorf("risk score: got %f, want 0", result.RiskScore)
	}
	if math.Abs(result.Confidence-0.7) > 1e-9 {
		t.Errorf("confidence: got %f, want 0.7", result.Confidence)
	}
	if len(result.RiskFactors) != 0 {
		t.Errorf("expected no risk factors, got %v", result.RiskFactors)
	}
}

func TestFallbackSingleFactorStaysNormal(t *testing.T) {
	p := NewFallback()

	vec := features.Vector{
		Amount:       20000, // one factor only
		Frequency24h: 3,
		HourOfDay:    14,
		GasPrice:     20,
	}

	result, err := p.Predict(context.Background(), vec)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	if result.Prediction != 0 {
		t.Errorf("one factor should not flag, got %+v", result)
	}
	if math.Abs(result.RiskScore-0.25) > 1e-9 {
		t.Errorf("risk score: got %f, want 0.25", result.RiskScore)
	}
	if math.Abs(result.Confidence-0.8) > 1e-9 {
		t.Errorf("confidence: got %f, want 0.8", result.Confidence)
	}
}

func TestFallbackBoundaryTwoFactors(t *testing.T) {
	p := NewFallback()

	vec := features.Vector{
		Amount:       20000,
		Frequency24h: 15,
		HourOfDay:    12,
		GasPrice:     20,
	}

	result, err := p.Predict(context.Background(), vec)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	if result.Prediction != 1 {
		t.Errorf("two factors should flag as illicit")
	}
	if result.Models.RandomForest.Probabilities.Normal+result.Models.RandomForest.Probabilities.Illicit != 1 {
		t.Errorf("synthesized probabilities should sum to 1")
	}
}

func TestRiskFactorsFromVector(t *testing.T) {
	vec := features.Vector{
		Amount:       15000,
		Frequency24h: 12,
		HourOfDay:    23,
		GasPrice:     60,
		IsContract:   1,
	}

	got := RiskFactors(vec)
	want := []string{
		"High transaction amount",
		"Unusual transaction time",
		"High transaction frequency",
		"Unusually high gas price",
		"Smart contract interaction",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d factors, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("factor %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
