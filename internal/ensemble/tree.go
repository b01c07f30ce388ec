package ensemble

import (
	"math/rand"
	"sort"
)

// treeNode is one node of a classification tree. Leaves carry the weighted
// illicit probability of the training samples that reached them.
type treeNode struct {
	Feature   int
	Threshold float64
	Left      *treeNode
	Right     *treeNode
	Leaf      bool
	Prob      float64 // P(illicit) at a leaf
}

// classificationTree is a single weighted-Gini decision tree.
type classificationTree struct {
	Root *treeNode
}

// buildTree grows a tree on the given rows. classWeight maps label → sample
// weight (the class-imbalance correction). mtry features are considered per
// split.
func buildTree(rows [][]float64, labels []int, classWeight [2]float64, maxDepth, mtry int, rng *rand.Rand) *classificationTree {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	b := &treeBuilder{
		rows:        rows,
		labels:      labels,
		classWeight: classWeight,
		maxDepth:    maxDepth,
		mtry:        mtry,
		rng:         rng,
	}
	return &classificationTree{Root: b.grow(idx, 0)}
}

type treeBuilder struct {
	rows        [][]float64
	labels      []int
	classWeight [2]float64
	maxDepth    int
	mtry        int
	rng         *rand.Rand
}

const minSplitSamples = 2

func (b *treeBuilder) grow(idx []int, depth int) *treeNode {
	w0, w1 := b.classWeights(idx)
	prob := 0.0
	if w0+w1 > 0 {
		prob = w1 / (w0 + w1)
	}

	if depth >= b.maxDepth || len(idx) < minSplitSamples || w0 == 0 || w1 == 0 {
		return &treeNode{Leaf: true, Prob: prob}
	}

	feat, threshold, ok := b.bestSplit(idx, w0+w1)
	if !ok {
		return &treeNode{Leaf: true, Prob: prob}
	}

	var left, right []int
	for _, i := range idx {
		if b.rows[i][feat] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{Leaf: true, Prob: prob}
	}

	return &treeNode{
		Feature:   feat,
		Threshold: threshold,
		Left:      b.grow(left, depth+1),
		Right:     b.grow(right, depth+1),
	}
}

func (b *treeBuilder) classWeights(idx []int) (w0, w1 float64) {
	for _, i := range idx {
		if b.labels[i] == 1 {
			w1 += b.classWeight[1]
		} else {
			w0 += b.classWeight[0]
		}
	}
	return
}

// bestSplit scans a random feature subset for the threshold minimizing
// weighted Gini impurity. Thresholds are midpoints between consecutive
// distinct sorted values.
func (b *treeBuilder) bestSplit(idx []int, totalWeight float64) (feat int, threshold float64, ok bool) {
	features := b.rng.Perm(len(b.rows[0]))[:b.mtry]

	bestGini := giniFromWeights(b.classWeights(idx))
	found := false

	vals := make([]int, len(idx))
	for _, f := range features {
		copy(vals, idx)
		sort.Slice(vals, func(a, c int) bool { return b.rows[vals[a]][f] < b.rows[vals[c]][f] })

		var lw0, lw1 float64
		rw0, rw1 := b.classWeights(idx)

		for k := 0; k < len(vals)-1; k++ {
			i := vals[k]
			if b.labels[i] == 1 {
				lw1 += b.classWeight[1]
				rw1 -= b.classWeight[1]
			} else {
				lw0 += b.classWeight[0]
				rw0 -= b.classWeight[0]
			}

			v, next := b.rows[i][f], b.rows[vals[k+1]][f]
			if v == next {
				continue
			}

			lw := lw0 + lw1
			rw := rw0 + rw1
			gini := (lw*giniFromWeights(lw0, lw1) + rw*giniFromWeights(rw0, rw1)) / totalWeight
			if gini < bestGini {
				bestGini = gini
				feat = f
				threshold = (v + next) / 2
				found = true
			}
		}
	}
	return feat, threshold, found
}

// giniFromWeights computes Gini impurity for a two-class weighted count.
func giniFromWeights(w0, w1 float64) float64 {
	total := w0 + w1
	if total == 0 {
		return 0
	}
	p0 := w0 / total
	p1 := w1 / total
	return 1 - p0*p0 - p1*p1
}

// predictProb walks a row down to its leaf probability.
func (t *classificationTree) predictProb(row []float64) float64 {
	n := t.Root
	for !n.Leaf {
		if row[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Prob
}
