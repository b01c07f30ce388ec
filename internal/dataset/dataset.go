// Package dataset generates labeled synthetic transaction corpora for model
// fitting.
//
// There is no public labeled AML corpus to train against, so the models are
// fitted on synthetic data with class-conditional distributions: routine
// transfer behavior for the normal class and known laundering patterns
// (structuring, tumbling, off-hours urgency) for the illicit class. The
// generator is seeded; a fixed seed reproduces an identical table.
package dataset

import (
	"fmt"

	"github.com/abishek14/amlguard/internal/features"
)

// Defaults for corpus generation.
const (
	DefaultSamples = 10000
	DefaultSeed    = 42

	normalFraction = 0.85
)

// Labels.
const (
	LabelNormal  = 0
	LabelIllicit = 1
)

// Table is a labeled feature matrix. Rows follow the feature order of
// features.FeatureNames.
type Table struct {
	Features [][]float64
	Labels   []int
}

// Len returns the number of samples.
func (t *Table) Len() int { return len(t.Labels) }

// IllicitCount returns the number of positive-labeled rows.
func (t *Table) IllicitCount() int {
	n := 0
	for _, l := range t.Labels {
		n += l
	}
	return n
}

// Generate produces n labeled samples with an 85/15 normal/illicit split.
// The same (n, seed) pair always yields a byte-identical table.
func Generate(n int, seed int64) (*Table, error) {
	if n <= 0 {
		return nil, fmt.Errorf("dataset: sample count must be positive, got %d", n)
	}
	s := newSampler(seed)

	normal := int(float64(n) * normalFraction)
	illicit := n - normal

	t := &Table{
		Features: make([][]float64, 0, n),
		Labels:   make([]int, 0, n),
	}

	for i := 0; i < normal; i++ {
		t.Features = append(t.Features, normalRow(s))
		t.Labels = append(t.Labels, LabelNormal)
	}
	for i := 0; i < illicit; i++ {
		t.Features = append(t.Features, illicitRow(s))
		t.Labels = append(t.Labels, LabelIllicit)
	}

	// Proportional noise on amount and balance so no two rows are exact
	// duplicates. Applied post-hoc like the label-independent columns.
	for _, row := range t.Features {
		row[0] += s.normal(0, row[0]*0.01)
		row[7] += s.normal(0, row[7]*0.01)
	}

	return t, nil
}

// normalRow samples routine transfer behavior: modest log-normal amounts,
// a few transfers a day, business-hours timing, market-rate gas.
func normalRow(s *sampler) []float64 {
	row := []float64{
		s.logNormal(3, 1.5),            // amount
		s.poisson(3),                   // frequency_24h
		s.poisson(2),                   // unique_counterparties
		mod24(s.normal(12, 4)),         // hour_of_day
		s.gamma(2, 10),                 // gas_price
		s.bernoulli(0.2),               // is_contract
		s.exponential(365),             // account_age_days
		s.logNormal(4, 2),              // balance
		s.bernoulli(0.3),               // token_type_numeric
		0,                              // high_gas_fee, derived below
	}
	row[9] = highGasFlag(row[4])
	return row
}

// illicitRow samples laundering patterns. Each feature mixes two sub-patterns:
// very large amounts or amounts parked just under the 10k reporting threshold,
// burst frequency or a single large transfer, single-counterparty tumbling or
// many-counterparty structuring, off-hours timing, urgency gas or patience
// gas, and bimodal account age/balance.
func illicitRow(s *sampler) []float64 {
	var amount float64
	if s.pick() {
		amount = s.logNormal(5, 2)
	} else {
		amount = s.uniform(9999, 10001)
	}

	var freq float64
	if s.pick() {
		freq = s.poisson(15)
	} else {
		freq = 1
	}

	var counterparties float64
	if s.pick() {
		counterparties = 1
	} else {
		counterparties = s.poisson(8)
	}

	var hour float64
	switch s.rng.Intn(3) {
	case 0:
		hour = s.uniform(0, 6)
	case 1:
		hour = s.uniform(22, 24)
	default:
		hour = mod24(s.normal(12, 2))
	}

	var gas float64
	if s.pick() {
		gas = s.gamma(5, 20)
	} else {
		gas = s.gamma(1, 5)
	}

	var age float64
	if s.pick() {
		age = s.exponential(30)
	} else {
		age = s.exponential(1000)
	}

	var balance float64
	if s.pick() {
		balance = s.logNormal(2, 1)
	} else {
		balance = s.logNormal(6, 2)
	}

	row := []float64{
		amount,
		freq,
		counterparties,
		hour,
		gas,
		s.bernoulli(0.7), // is_contract: mixers and tumblers
		age,
		balance,
		s.bernoulli(0.6), // token_type_numeric: stablecoin preference
		0,
	}
	row[9] = highGasFlag(row[4])
	return row
}

// highGasFlag derives the high_gas_fee field from the sampled gas price.
// Always computed, never sampled; both classes share the same rule.
func highGasFlag(gasPrice float64) float64 {
	if gasPrice > features.HighGasFeeGwei {
		return 1
	}
	return 0
}

func mod24(h float64) float64 {
	for h < 0 {
		h += 24
	}
	for h >= 24 {
		h -= 24
	}
	return h
}
