package mlservice

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abishek14/amlguard/internal/features"
	"github.com/abishek14/amlguard/internal/predictor"
)

func newTestRouter(t *testing.T, trained bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := NewService("", slog.Default())
	if trained {
		require.NoError(t, svc.Train(context.Background(), 500, 42))
	}

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func postPredict(t *testing.T, r *gin.Engine, vec features.Vector) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(vec)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPredictEndpoint(t *testing.T) {
	r := newTestRouter(t, true)

	w := postPredict(t, r, features.Vector{
		Amount:       9999.5,
		Frequency24h: 20,
		HourOfDay:    3,
		GasPrice:     150,
		IsContract:   1,
		Balance:      50,
		HighGasFee:   1,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var result predictor.PredictionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Equal(t, predictor.SourceMLService, result.Source)
	assert.GreaterOrEqual(t, result.RiskScore, 0.0)
	assert.LessOrEqual(t, result.RiskScore, 1.0)
	assert.InDelta(t, 1.0, result.Models.RandomForest.Probabilities.Normal+result.Models.RandomForest.Probabilities.Illicit, 1e-9)
	assert.NotEmpty(t, result.Timestamp)
	// 3am + high gas + contract should all surface as factors
	assert.Contains(t, result.RiskFactors, "Unusual transaction time")
	assert.Contains(t, result.RiskFactors, "Unusually high gas price")
	assert.Contains(t, result.RiskFactors, "Smart contract interaction")
}

func TestPredictEndpointUntrained(t *testing.T) {
	r := newTestRouter(t, false)

	w := postPredict(t, r, features.Vector{Amount: 100})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "model_unavailable")
}

func TestPredictEndpointBadBody(t *testing.T) {
	r := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	trained := newTestRouter(t, true)
	untrained := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	w := httptest.NewRecorder()
	trained.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"model_loaded":true`)

	w = httptest.NewRecorder()
	untrained.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"model_loaded":false`)
}

func TestModelStatsEndpoint(t *testing.T) {
	r := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/models/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		FeatureNames    []string `json:"feature_names"`
		TrainingSamples int      `json:"training_samples"`
		TestSamples     int      `json:"test_samples"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, features.FeatureNames, stats.FeatureNames)
	assert.Equal(t, 500, stats.TrainingSamples+stats.TestSamples)
}

func TestServicePersistRoundTrip(t *testing.T) {
	dir := t.TempDir()

	svc := NewService(dir, slog.Default())
	require.NoError(t, svc.Train(context.Background(), 500, 42))

	// Fresh service restores the snapshot from disk
	restored := NewService(dir, slog.Default())
	require.NoError(t, restored.LoadFromDisk())
	assert.True(t, restored.Ready())
	assert.Equal(t, svc.Snapshot().Metrics.TrainingSamples, restored.Snapshot().Metrics.TrainingSamples)
}
