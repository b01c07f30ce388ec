package mlservice

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abishek14/amlguard/internal/ensemble"
	"github.com/abishek14/amlguard/internal/features"
	"github.com/abishek14/amlguard/internal/logging"
	"github.com/abishek14/amlguard/internal/metrics"
	"github.com/abishek14/amlguard/internal/predictor"
)

// Handler exposes the model service HTTP API.
type Handler struct {
	svc *Service
}

// NewHandler creates the HTTP handler over a service.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the model service endpoints onto a router.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/predict", h.Predict)
	r.GET("/health", h.Health)
	r.GET("/models/stats", h.ModelStats)
	r.GET("/metrics", metrics.Handler())
}

// Predict scores one feature vector with the published snapshot.
func (h *Handler) Predict(c *gin.Context) {
	var vec features.Vector
	if err := c.ShouldBindJSON(&vec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Request body must be a valid feature payload",
		})
		return
	}

	snap := h.svc.Snapshot()
	out, err := snap.Predict(vec.Values())
	if err != nil {
		switch {
		case errors.Is(err, ensemble.ErrModelUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "model_unavailable",
				"message": "Model is not trained yet",
			})
		case errors.Is(err, ensemble.ErrFeatureMismatch):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "feature_mismatch",
				"message": err.Error(),
			})
		default:
			logging.L(c.Request.Context()).Error("prediction failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Prediction failed",
			})
		}
		return
	}

	metrics.PredictionsTotal.WithLabelValues(predictor.SourceMLService).Inc()
	if out.Prediction == 1 {
		metrics.PredictionsFlaggedTotal.Inc()
	}

	c.JSON(http.StatusOK, resultFromOutput(out, vec))
}

// resultFromOutput shapes raw ensemble output into the wire contract shared
// with the gateway. Risk factors come from the unscaled input vector.
func resultFromOutput(out *ensemble.Output, vec features.Vector) *predictor.PredictionResult {
	return &predictor.PredictionResult{
		Prediction:  out.Prediction,
		Confidence:  out.Confidence,
		RiskScore:   out.RiskScore,
		RiskFactors: predictor.RiskFactors(vec),
		Models: predictor.ModelBreakdown{
			RandomForest: predictor.RFBreakdown{
				Prediction: out.RFPrediction,
				Confidence: out.Confidence,
				Probabilities: predictor.Probabilities{
					Normal:  out.RFProbNormal,
					Illicit: out.RFProbIllicit,
				},
			},
			IsolationForest: predictor.IsoBreakdown{
				Prediction:   out.IsoPrediction,
				AnomalyScore: out.IsoAnomalyScore,
			},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Source:    predictor.SourceMLService,
	}
}

// Health reports readiness of the model and scaler.
func (h *Handler) Health(c *gin.Context) {
	ready := h.svc.Ready()

	status := "healthy"
	httpStatus := http.StatusOK
	if !ready {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status":        status,
		"model_loaded":  ready,
		"scaler_loaded": ready,
		"models":        []string{"random_forest", "isolation_forest"},
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

// ModelStats returns training metadata for the published snapshot.
func (h *Handler) ModelStats(c *gin.Context) {
	snap := h.svc.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "model_unavailable",
			"message": "Model is not trained yet",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"models": gin.H{
			"random_forest": gin.H{
				"type":     "classifier",
				"accuracy": snap.Metrics.RFAccuracy,
			},
			"isolation_forest": gin.H{
				"type":     "anomaly_detector",
				"accuracy": snap.Metrics.IsoAccuracy,
			},
		},
		"feature_names":    snap.FeatureNames,
		"training_samples": snap.Metrics.TrainingSamples,
		"test_samples":     snap.Metrics.TestSamples,
		"trained_at":       snap.Metrics.Timestamp.Format(time.RFC3339),
	})
}
