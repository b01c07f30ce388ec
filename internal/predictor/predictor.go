// Package predictor defines the prediction capability used by the gateway:
// one result contract, two interchangeable implementations. The remote
// predictor calls the model service; the fallback predictor scores with
// rules. Both fill the identical result shape so the aggregation path never
// branches on which one answered.
package predictor

import (
	"context"

	"github.com/abishek14/amlguard/internal/features"
)

// Source tags identifying which predictor produced a result.
const (
	SourceMLService = "ml_service"
	SourceFallback  = "enhanced_fallback_model"
)

// Predictor scores a feature vector. Implementations must be safe for
// concurrent use.
type Predictor interface {
	Predict(ctx context.Context, vec features.Vector) (*PredictionResult, error)
}

// RFBreakdown is the classifier's contribution to a result.
type RFBreakdown struct {
	Prediction    int           `json:"prediction"`
	Confidence    float64       `json:"confidence"`
	Probabilities Probabilities `json:"probabilities"`
}

// Probabilities is the classifier's class probability mass.
type Probabilities struct {
	Normal  float64 `json:"normal"`
	Illicit float64 `json:"illicit"`
}

// IsoBreakdown is the anomaly detector's contribution to a result.
type IsoBreakdown struct {
	Prediction   int     `json:"prediction"`
	AnomalyScore float64 `json:"anomaly_score"`
}

// ModelBreakdown holds the per-sub-model outputs.
type ModelBreakdown struct {
	RandomForest    RFBreakdown  `json:"random_forest"`
	IsolationForest IsoBreakdown `json:"isolation_forest"`
}

// PredictionResult is the shared output contract of both predictors.
type PredictionResult struct {
	Prediction  int            `json:"prediction"` // 1 = illicit
	Confidence  float64        `json:"confidence"`
	RiskScore   float64        `json:"risk_score"`
	RiskFactors []string       `json:"risk_factors"`
	Models      ModelBreakdown `json:"models"`
	Timestamp   string         `json:"timestamp"`
	Source      string         `json:"source"`
}

// RiskFactors lists the triggered explainability labels for a vector. Purely
// input-driven; model outputs never influence the list.
func RiskFactors(vec features.Vector) []string {
	var factors []string
	if vec.Amount > 10000 {
		factors = append(factors, "High transaction amount")
	}
	if vec.HourOfDay < 6 || vec.HourOfDay > 22 {
		factors = append(factors, "Unusual transaction time")
	}
	if vec.Frequency24h > 10 {
		factors = append(factors, "High transaction frequency")
	}
	if vec.GasPrice > 50 {
		factors = append(factors, "Unusually high gas price")
	}
	if vec.IsContract != 0 {
		factors = append(factors, "Smart contract interaction")
	}
	return factors
}
