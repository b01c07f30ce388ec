package ensemble

import (
	"math"
	"math/rand"
)

// RandomForest is a bagged ensemble of weighted-Gini classification trees
// with balanced class weights, mirroring a class_weight="balanced"
// tree ensemble: each class contributes equal total weight regardless of the
// 85/15 prior.
type RandomForest struct {
	Trees []*classificationTree
}

// Forest hyperparameters. Fixed rather than tuned: the training corpus is
// synthetic, so there is nothing to grid-search against.
const (
	forestTrees = 100
	forestDepth = 10
)

// fitRandomForest trains the forest on scaled rows. Each tree sees a
// bootstrap resample and sqrt(d) candidate features per split.
func fitRandomForest(rows [][]float64, labels []int, rng *rand.Rand) *RandomForest {
	n := len(rows)
	mtry := int(math.Ceil(math.Sqrt(float64(len(rows[0])))))

	// Balanced class weights: w_c = n / (2 * count_c).
	var count [2]int
	for _, l := range labels {
		count[l]++
	}
	var classWeight [2]float64
	for c := 0; c < 2; c++ {
		if count[c] > 0 {
			classWeight[c] = float64(n) / (2 * float64(count[c]))
		}
	}

	f := &RandomForest{Trees: make([]*classificationTree, forestTrees)}
	sampleRows := make([][]float64, n)
	sampleLabels := make([]int, n)
	for t := 0; t < forestTrees; t++ {
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			sampleRows[i] = rows[j]
			sampleLabels[i] = labels[j]
		}
		f.Trees[t] = buildTree(sampleRows, sampleLabels, classWeight, forestDepth, mtry, rng)
	}
	return f
}

// Proba returns [P(normal), P(illicit)] for a scaled row, averaged over the
// per-tree leaf probabilities.
func (f *RandomForest) Proba(row []float64) [2]float64 {
	var p1 float64
	for _, t := range f.Trees {
		p1 += t.predictProb(row)
	}
	p1 /= float64(len(f.Trees))
	return [2]float64{1 - p1, p1}
}

// Predict returns the binary class for a scaled row.
func (f *RandomForest) Predict(row []float64) int {
	if f.Proba(row)[1] >= 0.5 {
		return 1
	}
	return 0
}
