package predictor

import (
	"context"
	"time"

	"github.com/abishek14/amlguard/internal/features"
)

// FallbackPredictor scores transactions with weighted rules when the model
// service is unreachable or untrained. It never fails: a degraded result is
// always better than no result, and the source tag makes the degradation
// visible downstream.
type FallbackPredictor struct{}

// NewFallback creates the rule-based predictor.
func NewFallback() *FallbackPredictor {
	return &FallbackPredictor{}
}

// Predict counts weighted risk factors and converts the count into a verdict:
// illicit at 2+ factors, confidence 0.7 plus 0.1 per factor (capped at 0.95),
// risk score count/4 clamped to [0,1]. The sub-model breakdown is synthesized
// so consumers see the same shape the ensemble produces.
func (p *FallbackPredictor) Predict(_ context.Context, vec features.Vector) (*PredictionResult, error) {
	count := 0.0
	var reasons []string

	if vec.Amount > 10000 {
		count++
		reasons = append(reasons, "High transaction amount")
	}
	if vec.HourOfDay < 6 || vec.HourOfDay > 22 {
		count++
		reasons = append(reasons, "Unusual transaction time")
	}
	if vec.Frequency24h > 10 {
		count++
		reasons = append(reasons, "High transaction frequency")
	}
	if vec.GasPrice > 100 {
		count++
		reasons = append(reasons, "Unusually high gas price")
	}
	if vec.IsContract != 0 {
		count += 0.5
		reasons = append(reasons, "Interacting with smart contract")
	}

	illicit := 0
	if count >= 2 {
		illicit = 1
	}

	confidence := 0.7 + 0.1*min2(count, 3)
	if confidence > 0.95 {
		confidence = 0.95
	}

	riskScore := count / 4.0
	if riskScore > 1 {
		riskScore = 1
	}

	isoPred := 0
	if count > 1.5 {
		isoPred = 1
	}

	return &PredictionResult{
		Prediction:  illicit,
		Confidence:  confidence,
		RiskScore:   riskScore,
		RiskFactors: reasons,
		Models: ModelBreakdown{
			RandomForest: RFBreakdown{
				Prediction: illicit,
				Confidence: confidence,
				Probabilities: Probabilities{
					Normal:  1 - riskScore,
					Illicit: riskScore,
				},
			},
			IsolationForest: IsoBreakdown{
				Prediction:   isoPred,
				AnomalyScore: riskScore,
			},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Source:    SourceFallback,
	}, nil
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
