package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abishek14/amlguard/internal/circuitbreaker"
	"github.com/abishek14/amlguard/internal/ensemble"
	"github.com/abishek14/amlguard/internal/features"
)

// RemotePredictor calls the model service over HTTP with a bounded timeout
// and a circuit breaker. Every failure mode (connection refused, timeout,
// 5xx, open circuit) collapses to ErrModelUnavailable so the caller's only
// recovery decision is whether to switch to the fallback. No retry: a retried
// classifier call just adds latency during an outage.
type RemotePredictor struct {
	baseURL string
	client  *http.Client
	breaker *circuitbreaker.Breaker
}

// NewRemote creates a predictor for the model service at baseURL.
func NewRemote(baseURL string, timeout time.Duration) *RemotePredictor {
	return &RemotePredictor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: circuitbreaker.New(5, 30*time.Second),
	}
}

// Predict posts the feature payload to /predict.
func (p *RemotePredictor) Predict(ctx context.Context, vec features.Vector) (*PredictionResult, error) {
	if !p.breaker.Allow() {
		return nil, fmt.Errorf("%w: circuit open", ensemble.ErrModelUnavailable)
	}

	body, err := json.Marshal(vec)
	if err != nil {
		return nil, fmt.Errorf("predictor: marshal features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("predictor: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.breaker.RecordFailure()
		return nil, fmt.Errorf("%w: %v", ensemble.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.breaker.RecordFailure()
		return nil, fmt.Errorf("%w: model service returned status %d", ensemble.ErrModelUnavailable, resp.StatusCode)
	}

	var result PredictionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		p.breaker.RecordFailure()
		return nil, fmt.Errorf("%w: decode response: %v", ensemble.ErrModelUnavailable, err)
	}

	p.breaker.RecordSuccess()
	return &result, nil
}

// Healthy reports whether the model service answers its liveness endpoint.
// Used by the gateway's health matrix, not by the scoring path.
func (p *RemotePredictor) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
