// Package assessment fuses the model risk score with address and gas signals
// into one overall verdict.
//
// The weighting is a fixed design constant, not learned: the ML score
// dominates, address heuristics contribute a 30%-weighted secondary signal,
// and an oversized gas fee adds a small flat penalty. Scores range 0.0 (safe)
// to 1.0 (high risk) and bucket into LOW/MEDIUM/HIGH.
package assessment

import (
	"context"
	"math"
	"time"

	"github.com/abishek14/amlguard/internal/address"
	"github.com/abishek14/amlguard/internal/idgen"
)

// Level is the discrete risk bucket of an assessment.
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// Aggregation constants. Reproduced exactly for deterministic comparisons;
// boundaries are exclusive on the lower side (0.4 is LOW, 0.7 is MEDIUM).
const (
	addressWeight   = 0.3
	gasPenalty      = 0.1
	gasFeeThreshold = 0.01 // ETH
	highThreshold   = 0.7
	mediumThreshold = 0.4
)

// Assessment is the result of fusing all risk signals for one transaction.
type Assessment struct {
	ID               string    `json:"-"`
	OverallRiskScore float64   `json:"overall_risk_score"`
	RiskLevel        Level     `json:"risk_level"`
	MLRisk           float64   `json:"ml_risk"`
	AddressRisk      float64   `json:"address_risk"`
	GasRisk          float64   `json:"gas_risk"`
	EvaluatedAt      time.Time `json:"-"`
}

// Store persists assessments for audit trail.
type Store interface {
	Record(ctx context.Context, a *Assessment) error
	ListRecent(ctx context.Context, limit int) ([]*Assessment, error)
}

// Engine computes assessments and records them best-effort.
type Engine struct {
	store Store
}

// NewEngine creates an assessment engine backed by the given audit store.
// A nil store disables the audit trail.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Evaluate fuses the signals into an overall score and level. Persistence is
// asynchronous and best-effort: a failed audit write never fails the request.
func (e *Engine) Evaluate(ctx context.Context, mlRisk float64, addrs address.Analysis, gasFeeETH float64) *Assessment {
	a := Aggregate(mlRisk, addrs, gasFeeETH)
	a.ID = idgen.WithPrefix("asmt_")
	a.EvaluatedAt = time.Now().UTC()

	if e.store != nil {
		go func() {
			_ = e.store.Record(context.Background(), a)
		}()
	}
	return a
}

// Aggregate applies the fusion formula:
//
//	overall = clamp(ml + 0.3*mean(sender_risk, receiver_risk) + gas_penalty, 0, 1)
//
// rounded to 3 decimals, where gas_penalty is 0.1 when the fee exceeds
// 0.01 ETH and 0 otherwise.
func Aggregate(mlRisk float64, addrs address.Analysis, gasFeeETH float64) *Assessment {
	addressRisk := (addrs.SenderRiskScore + addrs.ReceiverRiskScore) / 2

	gasRisk := 0.0
	if gasFeeETH > gasFeeThreshold {
		gasRisk = gasPenalty
	}

	overall := mlRisk + addressWeight*addressRisk + gasRisk
	if overall > 1 {
		overall = 1
	}
	if overall < 0 {
		overall = 0
	}
	overall = math.Round(overall*1000) / 1000 // 3 decimal places

	return &Assessment{
		OverallRiskScore: overall,
		RiskLevel:        levelFor(overall),
		MLRisk:           mlRisk,
		AddressRisk:      addressRisk,
		GasRisk:          gasRisk,
	}
}

func levelFor(overall float64) Level {
	switch {
	case overall > highThreshold:
		return LevelHigh
	case overall > mediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}
