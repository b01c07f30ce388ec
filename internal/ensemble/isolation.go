package ensemble

import (
	"math"
	"math/rand"
	"sort"
)

// IsolationForest is an unsupervised outlier detector. It is fitted on
// normal-labeled rows only; the decision threshold is set so that the
// configured contamination fraction of the training rows scores as outliers.
type IsolationForest struct {
	Trees     []*isoNode
	SubSample int
	Threshold float64 // anomaly scores >= Threshold are outliers
}

type isoNode struct {
	Feature   int
	Threshold float64
	Left      *isoNode
	Right     *isoNode
	Leaf      bool
	Size      int // samples that ended in this external node
}

const (
	isoTrees     = 100
	isoSubSample = 256
)

// fitIsolationForest builds the forest and calibrates the outlier threshold
// at the (1 - contamination) quantile of training anomaly scores.
func fitIsolationForest(rows [][]float64, contamination float64, rng *rand.Rand) *IsolationForest {
	sub := isoSubSample
	if sub > len(rows) {
		sub = len(rows)
	}
	heightLimit := int(math.Ceil(math.Log2(float64(sub))))

	f := &IsolationForest{
		Trees:     make([]*isoNode, isoTrees),
		SubSample: sub,
	}
	sample := make([][]float64, sub)
	for t := 0; t < isoTrees; t++ {
		for i := 0; i < sub; i++ {
			sample[i] = rows[rng.Intn(len(rows))]
		}
		f.Trees[t] = growIsoTree(sample, 0, heightLimit, rng)
	}

	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = f.Score(row)
	}
	sort.Float64s(scores)
	cut := int(float64(len(scores)) * (1 - contamination))
	if cut >= len(scores) {
		cut = len(scores) - 1
	}
	f.Threshold = scores[cut]

	return f
}

func growIsoTree(rows [][]float64, depth, heightLimit int, rng *rand.Rand) *isoNode {
	if depth >= heightLimit || len(rows) <= 1 {
		return &isoNode{Leaf: true, Size: len(rows)}
	}

	feat := rng.Intn(len(rows[0]))
	lo, hi := rows[0][feat], rows[0][feat]
	for _, row := range rows {
		if row[feat] < lo {
			lo = row[feat]
		}
		if row[feat] > hi {
			hi = row[feat]
		}
	}
	if lo == hi {
		return &isoNode{Leaf: true, Size: len(rows)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right [][]float64
	for _, row := range rows {
		if row[feat] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	return &isoNode{
		Feature:   feat,
		Threshold: split,
		Left:      growIsoTree(left, depth+1, heightLimit, rng),
		Right:     growIsoTree(right, depth+1, heightLimit, rng),
	}
}

// pathLength follows a row down one tree, adding the average-path adjustment
// c(size) when an external node holds more than one sample.
func pathLength(n *isoNode, row []float64, depth float64) float64 {
	if n.Leaf {
		return depth + avgPathLength(n.Size)
	}
	if row[n.Feature] < n.Threshold {
		return pathLength(n.Left, row, depth+1)
	}
	return pathLength(n.Right, row, depth+1)
}

// avgPathLength is c(n), the expected path length of an unsuccessful BST
// search over n points.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+0.5772156649) - 2*(fn-1)/fn
}

// Score returns the anomaly score in (0,1): ~0.5 for inliers, approaching 1
// for points isolated in very few splits.
func (f *IsolationForest) Score(row []float64) float64 {
	var total float64
	for _, t := range f.Trees {
		total += pathLength(t, row, 0)
	}
	mean := total / float64(len(f.Trees))
	return math.Pow(2, -mean/avgPathLength(f.SubSample))
}

// Predict returns 1 (outlier) or 0 (inlier) for a scaled row.
func (f *IsolationForest) Predict(row []float64) int {
	if f.Score(row) >= f.Threshold {
		return 1
	}
	return 0
}
