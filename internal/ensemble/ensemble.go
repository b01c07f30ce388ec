// Package ensemble implements the two-model scoring ensemble: a supervised
// random-forest classifier paired with an unsupervised isolation forest, plus
// the feature scaler and training metrics, bundled into an immutable Snapshot.
//
// A Snapshot is published atomically and read by any number of concurrent
// inference calls; retraining builds a complete replacement and swaps it
// wholesale. Inference never touches a partially-trained snapshot.
package ensemble

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/abishek14/amlguard/internal/dataset"
	"github.com/abishek14/amlguard/internal/features"
)

// Training constants.
const (
	testFraction  = 0.2
	contamination = 0.15 // known illicit prior of the synthetic corpus
)

// Metrics records how a snapshot was trained and how it performed held-out.
type Metrics struct {
	Timestamp       time.Time `json:"timestamp"`
	RFAccuracy      float64   `json:"rf_accuracy"`
	IsoAccuracy     float64   `json:"iso_accuracy"`
	FeatureNames    []string  `json:"feature_names"`
	TrainingSamples int       `json:"training_samples"`
	TestSamples     int       `json:"test_samples"`
}

// Snapshot is one fitted scaler + both fitted models + metrics. Immutable
// after Train returns.
type Snapshot struct {
	Scaler       *StandardScaler
	Forest       *RandomForest
	Isolation    *IsolationForest
	FeatureNames []string
	Metrics      Metrics
}

// Output is the raw ensemble inference result before it is shaped into the
// wire-level prediction payload.
type Output struct {
	Prediction int     // OR of the two binary votes
	Confidence float64 // max RF class probability
	RiskScore  float64 // RF illicit-class probability

	RFPrediction    int
	RFProbNormal    float64
	RFProbIllicit   float64
	IsoPrediction   int
	IsoAnomalyScore float64
}

// Train fits a complete snapshot against the given labeled table:
// stratified 80/20 split, scaler fitted on training rows only, the forest on
// all scaled training rows, and the isolation forest on the scaled
// normal-labeled subset.
func Train(table *dataset.Table, seed int64) (*Snapshot, error) {
	if table.Len() == 0 {
		return nil, fmt.Errorf("ensemble: empty training table")
	}
	rng := rand.New(rand.NewSource(seed))

	trainIdx, testIdx := stratifiedSplit(table.Labels, testFraction, rng)

	trainRows := pick(table.Features, trainIdx)
	trainLabels := pickLabels(table.Labels, trainIdx)
	testRows := pick(table.Features, testIdx)
	testLabels := pickLabels(table.Labels, testIdx)

	scaler := &StandardScaler{}
	if err := scaler.Fit(trainRows); err != nil {
		return nil, fmt.Errorf("ensemble: %w", err)
	}
	scaledTrain, err := scaler.TransformAll(trainRows)
	if err != nil {
		return nil, err
	}
	scaledTest, err := scaler.TransformAll(testRows)
	if err != nil {
		return nil, err
	}

	forest := fitRandomForest(scaledTrain, trainLabels, rng)

	var normalRows [][]float64
	for i, row := range scaledTrain {
		if trainLabels[i] == dataset.LabelNormal {
			normalRows = append(normalRows, row)
		}
	}
	iso := fitIsolationForest(normalRows, contamination, rng)

	rfCorrect, isoCorrect := 0, 0
	for i, row := range scaledTest {
		if forest.Predict(row) == testLabels[i] {
			rfCorrect++
		}
		if iso.Predict(row) == testLabels[i] {
			isoCorrect++
		}
	}

	return &Snapshot{
		Scaler:       scaler,
		Forest:       forest,
		Isolation:    iso,
		FeatureNames: features.FeatureNames,
		Metrics: Metrics{
			Timestamp:       time.Now().UTC(),
			RFAccuracy:      float64(rfCorrect) / float64(len(testRows)),
			IsoAccuracy:     float64(isoCorrect) / float64(len(testRows)),
			FeatureNames:    features.FeatureNames,
			TrainingSamples: len(trainRows),
			TestSamples:     len(testRows),
		},
	}, nil
}

// Predict scores one feature vector against the snapshot.
//
// The combination rule is an OR over the two binary votes: the transaction is
// flagged when either the classifier says illicit or the detector says
// outlier. The anomaly vote alone can flip the verdict even when the
// classifier disagrees.
func (s *Snapshot) Predict(vec []float64) (*Output, error) {
	if s == nil {
		return nil, ErrModelUnavailable
	}
	if len(vec) != len(s.FeatureNames) {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrFeatureMismatch, len(vec), len(s.FeatureNames))
	}

	scaled, err := s.Scaler.Transform(vec)
	if err != nil {
		return nil, err
	}

	proba := s.Forest.Proba(scaled)
	rfPred := 0
	if proba[1] >= 0.5 {
		rfPred = 1
	}
	isoPred := s.Isolation.Predict(scaled)

	out := &Output{
		Prediction:      0,
		Confidence:      max2(proba[0], proba[1]),
		RiskScore:       proba[1],
		RFPrediction:    rfPred,
		RFProbNormal:    proba[0],
		RFProbIllicit:   proba[1],
		IsoPrediction:   isoPred,
		IsoAnomalyScore: s.Isolation.Score(scaled),
	}
	if rfPred+isoPred >= 1 {
		out.Prediction = 1
	}
	return out, nil
}

// stratifiedSplit partitions indices into train/test keeping the label ratio
// in both partitions. Shuffling is driven by the caller's seeded rng.
func stratifiedSplit(labels []int, testFrac float64, rng *rand.Rand) (train, test []int) {
	var byClass [2][]int
	for i, l := range labels {
		byClass[l] = append(byClass[l], i)
	}
	for _, idx := range byClass {
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		nTest := int(float64(len(idx)) * testFrac)
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}
	return train, test
}

func pick(rows [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out
}

func pickLabels(labels []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = labels[j]
	}
	return out
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
