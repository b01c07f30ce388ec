package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abishek14/amlguard/internal/address"
	"github.com/abishek14/amlguard/internal/assessment"
	"github.com/abishek14/amlguard/internal/ensemble"
	"github.com/abishek14/amlguard/internal/features"
	"github.com/abishek14/amlguard/internal/logging"
	"github.com/abishek14/amlguard/internal/metrics"
	"github.com/abishek14/amlguard/internal/predictor"
	"github.com/abishek14/amlguard/internal/traces"
	"github.com/abishek14/amlguard/internal/validation"
)

// predictHandler handles POST /api/predict: validate, extract features, score
// with the model service (falling back to rules when it is unavailable), fuse
// the signals, and answer with the full assessment payload.
func (s *Server) predictHandler(c *gin.Context) {
	ctx := c.Request.Context()

	var req features.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	if verrs := validateRequest(&req); len(verrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": verrs.Error(),
			"details": verrs,
		})
		return
	}

	req.SenderAddress = validation.SanitizeAddress(req.SenderAddress)
	req.ReceiverAddress = validation.SanitizeAddress(req.ReceiverAddress)
	if req.TokenType == "" {
		req.TokenType = features.TokenETH
	}

	ctx, span := traces.StartSpan(ctx, "predict",
		traces.SenderAddr(req.SenderAddress),
		traces.ReceiverAddr(req.ReceiverAddress),
		traces.Amount(req.Amount),
	)
	defer span.End()

	addrs := address.Analyze(req.SenderAddress, req.ReceiverAddress)
	vec := features.Extract(&req, addrs.ReceiverIsContract)
	fee := features.ComputeGasFee(req.GasLimit, req.GasPriceGwei, s.cfg.ETHPriceUSD)

	result := s.score(ctx, vec)
	span.SetAttributes(traces.PredictionSource(result.Source))

	a := s.engine.Evaluate(ctx, result.RiskScore, addrs, fee.ETH)
	span.SetAttributes(
		traces.RiskLevel(string(a.RiskLevel)),
		traces.AssessmentID(a.ID),
	)
	metrics.AssessmentsTotal.WithLabelValues(string(a.RiskLevel)).Inc()

	recs := assessment.Recommendations(result.Prediction == 1, fee.ETH, req.Amount)

	details := features.NewDetails(&req, fee, s.blockNumber(ctx), s.cfg.Network)

	logging.L(ctx).Info("transaction assessed",
		"assessment_id", a.ID,
		"risk_level", a.RiskLevel,
		"overall_risk", a.OverallRiskScore,
		"source", result.Source,
		"flagged", result.Prediction == 1,
	)

	c.JSON(http.StatusOK, gin.H{
		"transaction_details": details,
		"address_analysis":    addrs,
		"ml_prediction":       result,
		"risk_assessment":     a,
		"recommendations":     recs,
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
	})
}

// score calls the model service, switching to the rule-based fallback when it
// is unavailable. Fallback output satisfies the same contract, so callers
// never branch on the source.
func (s *Server) score(ctx context.Context, vec features.Vector) *predictor.PredictionResult {
	result, err := s.remote.Predict(ctx, vec)
	if err != nil {
		if !errors.Is(err, ensemble.ErrModelUnavailable) {
			logging.L(ctx).Error("unexpected prediction error", "error", err)
		} else {
			logging.L(ctx).Warn("model service unavailable, using fallback", "error", err)
		}
		result, _ = s.fallback.Predict(ctx, vec)
	}

	metrics.PredictionsTotal.WithLabelValues(result.Source).Inc()
	if result.Prediction == 1 {
		metrics.PredictionsFlaggedTotal.Inc()
	}
	return result
}

// blockNumber returns the latest block as a string, or "N/A" when the chain
// client is absent or unreachable.
func (s *Server) blockNumber(ctx context.Context) string {
	if s.chainClient == nil {
		return "N/A"
	}
	n, err := s.chainClient.BlockNumber(ctx)
	if err != nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", n)
}

func validateRequest(req *features.TransactionRequest) validation.ValidationErrors {
	verrs := validation.Validate(
		validation.Required("sender_address", req.SenderAddress),
		validation.Required("receiver_address", req.ReceiverAddress),
		validation.Positive("amount", req.Amount),
		validation.Positive("gas_limit", float64(req.GasLimit)),
		validation.NonNegative("gas_price_gwei", req.GasPriceGwei),
		validation.HourInRange("hour_of_day", req.HourOfDay),
	)
	if req.TokenType != "" && req.TokenType != features.TokenETH && req.TokenType != features.TokenUSDC {
		verrs = append(verrs, validation.ValidationError{
			Field:   "token_type",
			Message: "must be ETH or USDC",
		})
	}
	return verrs
}
