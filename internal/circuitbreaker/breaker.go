// Package circuitbreaker provides a closed → open → half-open breaker for
// the single upstream model service.
package circuitbreaker

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// State represents the circuit breaker state.
type State int

const (
	StateClosed   State = iota // Normal: requests flow through
	StateOpen                  // Tripped: requests are rejected
	StateHalfOpen              // Probing: one request allowed to test recovery
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

var cbState = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: "amlguard",
	Subsystem: "circuitbreaker",
	Name:      "state",
	Help:      "Model service circuit breaker state (0=closed, 1=open, 2=half_open).",
})

func init() {
	prometheus.MustRegister(cbState)
}

// Breaker trips open after threshold consecutive failures and stays open for
// openDuration before allowing a single probe request. While open, callers
// skip the upstream entirely and go straight to the fallback path.
type Breaker struct {
	mu           sync.Mutex
	state        State
	failures     int
	lastFailure  time.Time
	threshold    int
	openDuration time.Duration
}

// New creates a breaker that opens after threshold consecutive failures.
func New(threshold int, openDuration time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if openDuration <= 0 {
		openDuration = 30 * time.Second
	}
	return &Breaker{threshold: threshold, openDuration: openDuration}
}

// Allow reports whether a request should be attempted. An open circuit past
// its open duration transitions to half-open and admits one probe.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(b.lastFailure) >= b.openDuration {
			b.transition(StateHalfOpen)
			return true
		}
		return false
	case StateHalfOpen:
		return false // probe already in flight
	default:
		return true
	}
}

// RecordSuccess resets the failure count and closes the circuit.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	if b.state != StateClosed {
		b.transition(StateClosed)
	}
}

// RecordFailure counts a failure; the circuit opens at the threshold, and a
// failed half-open probe reopens it immediately.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	b.lastFailure = time.Now()
	if b.state == StateHalfOpen || b.failures >= b.threshold {
		b.transition(StateOpen)
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) transition(to State) {
	b.state = to
	cbState.Set(float64(to))
}
