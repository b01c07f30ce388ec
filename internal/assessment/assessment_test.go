package assessment

import (
	"context"
	"math"
	"testing"

	"github.com/abishek14/amlguard/internal/address"
)

func TestAggregateFormula(t *testing.T) {
	addrs := address.Analysis{SenderRiskScore: 0.4, ReceiverRiskScore: 0.2}

	// 0.5 + 0.3*0.3 + 0.1 = 0.69
	a := Aggregate(0.5, addrs, 0.02)

	if math.Abs(a.OverallRiskScore-0.69) > 1e-9 {
		t.Errorf("overall: got %f, want 0.69", a.OverallRiskScore)
	}
	if a.RiskLevel != LevelMedium {
		t.Errorf("level: got %s, want MEDIUM", a.RiskLevel)
	}
	if a.MLRisk != 0.5 {
		t.Errorf("ml component: got %f", a.MLRisk)
	}
	if math.Abs(a.AddressRisk-0.3) > 1e-9 {
		t.Errorf("address component: got %f", a.AddressRisk)
	}
	if a.GasRisk != 0.1 {
		t.Errorf("gas component: got %f", a.GasRisk)
	}
}

func TestAggregateNoGasPenaltyAtThreshold(t *testing.T) {
	a := Aggregate(0.2, address.Analysis{}, 0.01)
	if a.GasRisk != 0 {
		t.Errorf("fee exactly at threshold should not add penalty, got %f", a.GasRisk)
	}
}

func TestAggregateClampsToOne(t *testing.T) {
	addrs := address.Analysis{SenderRiskScore: 1, ReceiverRiskScore: 1}
	a := Aggregate(0.95, addrs, 0.5)
	if a.OverallRiskScore != 1 {
		t.Errorf("overall should clamp to 1, got %f", a.OverallRiskScore)
	}
	if a.RiskLevel != LevelHigh {
		t.Errorf("level: got %s, want HIGH", a.RiskLevel)
	}
}

func TestAggregateRounding(t *testing.T) {
	addrs := address.Analysis{SenderRiskScore: 0.1111, ReceiverRiskScore: 0.2222}
	// 0.12345 + 0.3*0.16665 = 0.173445, rounds to 0.173
	a := Aggregate(0.12345, addrs, 0)
	if a.OverallRiskScore != 0.173 {
		t.Errorf("overall not rounded to 3 decimals: %f", a.OverallRiskScore)
	}
}

func TestLevelBoundariesExclusive(t *testing.T) {
	cases := []struct {
		score float64
		want  Level
	}{
		{0.0, LevelLow},
		{0.4, LevelLow},
		{0.401, LevelMedium},
		{0.7, LevelMedium},
		{0.701, LevelHigh},
		{1.0, LevelHigh},
	}
	for _, tc := range cases {
		a := Aggregate(tc.score, address.Analysis{}, 0)
		if a.RiskLevel != tc.want {
			t.Errorf("score %f: got %s, want %s", tc.score, a.RiskLevel, tc.want)
		}
	}
}

func TestEvaluateAssignsIDAndTimestamp(t *testing.T) {
	engine := NewEngine(NewMemoryStore())

	a := engine.Evaluate(context.Background(), 0.3, address.Analysis{}, 0)

	if a.ID == "" {
		t.Errorf("assessment should have an ID")
	}
	if a.EvaluatedAt.IsZero() {
		t.Errorf("assessment should have a timestamp")
	}
}

func TestEvaluateWithNilStore(t *testing.T) {
	engine := NewEngine(nil)
	a := engine.Evaluate(context.Background(), 0.9, address.Analysis{}, 0)
	if a == nil || a.RiskLevel != LevelHigh {
		t.Errorf("nil store should not affect evaluation: %+v", a)
	}
}

func TestMemoryStoreListRecent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		a := Aggregate(float64(i)/10, address.Analysis{}, 0)
		a.ID = "a"
		if err := store.Record(ctx, a); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, err := store.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("got %d assessments, want 3", len(recent))
	}
	// Most recent first
	if recent[0].OverallRiskScore != 0.4 {
		t.Errorf("expected newest assessment first, got %f", recent[0].OverallRiskScore)
	}
}

func TestRecommendationsOrdering(t *testing.T) {
	recs := Recommendations(true, 0.01, 50000)

	want := []string{
		"ALERT: Transaction flagged as potentially illicit",
		"Recommend manual review by compliance team",
		"Consider additional KYC verification",
		"High gas fee detected - verify transaction urgency",
		"Large transaction amount - enhanced monitoring recommended",
	}
	if len(recs) != len(want) {
		t.Fatalf("got %d recommendations, want %d: %v", len(recs), len(want), recs)
	}
	for i := range want {
		if recs[i] != want[i] {
			t.Errorf("recommendation %d: got %q, want %q", i, recs[i], want[i])
		}
	}
}

func TestRecommendationsRoutine(t *testing.T) {
	recs := Recommendations(false, 0.001, 100)
	if len(recs) != 1 || recs[0] != "Transaction appears normal - routine processing" {
		t.Errorf("routine case: got %v", recs)
	}
}
