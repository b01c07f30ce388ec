package ensemble

import (
	"fmt"
	"math"
)

// StandardScaler centers features to zero mean and unit variance. It must be
// fitted on training rows only; test rows and live traffic are transformed
// with the training statistics.
type StandardScaler struct {
	Mean   []float64
	Stddev []float64
}

// Fit computes per-column mean and standard deviation.
func (s *StandardScaler) Fit(rows [][]float64) error {
	if len(rows) == 0 {
		return fmt.Errorf("scaler: cannot fit on empty data")
	}
	cols := len(rows[0])
	s.Mean = make([]float64, cols)
	s.Stddev = make([]float64, cols)

	for _, row := range rows {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range s.Mean {
		s.Mean[j] /= n
	}
	for _, row := range rows {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Stddev[j] += d * d
		}
	}
	for j := range s.Stddev {
		s.Stddev[j] = math.Sqrt(s.Stddev[j] / n)
		if s.Stddev[j] == 0 {
			s.Stddev[j] = 1 // constant column, avoid div by zero
		}
	}
	return nil
}

// Transform scales a single row using the fitted statistics.
func (s *StandardScaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("%w: got %d features, fitted on %d", ErrFeatureMismatch, len(row), len(s.Mean))
	}
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Stddev[j]
	}
	return out, nil
}

// TransformAll scales a matrix of rows.
func (s *StandardScaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}
