package features

import (
	"errors"
	"fmt"
	"math"
)

// StandardScaler standardizes each feature column to zero mean and unit
// variance. It is a fit-once value object: construct one per batch, fit it on
// the whole batch, then transform. Fit parameters are never shared across
// unrelated batches unless a caller persists them explicitly.
type StandardScaler struct {
	mean   []float64
	std    []float64
	fitted bool
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes per-column mean and sample standard deviation over all rows.
// Every value must be present before any value can be scaled, so Fit requires
// the complete batch.
func (s *StandardScaler) Fit(data [][]float64) error {
	if len(data) == 0 {
		return errors.New("empty training data")
	}

	width := len(data[0])
	for i, row := range data {
		if len(row) != width {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
	}

	n := float64(len(data))

	s.mean = make([]float64, width)
	for _, row := range data {
		for j, v := range row {
			s.mean[j] += v
		}
	}
	for j := range s.mean {
		s.mean[j] /= n
	}

	s.std = make([]float64, width)
	if len(data) > 1 {
		for _, row := range data {
			for j, v := range row {
				diff := v - s.mean[j]
				s.std[j] += diff * diff
			}
		}
		for j := range s.std {
			s.std[j] = math.Sqrt(s.std[j] / (n - 1))
		}
	}

	s.fitted = true
	return nil
}

// Transform standardizes each value as (x - mean) / std. Columns with zero
// standard deviation map to all zeros rather than dividing by zero. The input
// is not modified.
func (s *StandardScaler) Transform(data [][]float64) ([][]float64, error) {
	if !s.fitted {
		return nil, errors.New("scaler not fitted")
	}

	out := make([][]float64, len(data))
	for i, row := range data {
		if len(row) != len(s.mean) {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), len(s.mean))
		}

		scaled := make([]float64, len(row))
		for j, v := range row {
			if s.std[j] == 0 {
				scaled[j] = 0
				continue
			}
			scaled[j] = (v - s.mean[j]) / s.std[j]
		}
		out[i] = scaled
	}

	return out, nil
}

// FitTransform fits the scaler on data and returns the standardized matrix.
func (s *StandardScaler) FitTransform(data [][]float64) ([][]float64, error) {
	if err := s.Fit(data); err != nil {
		return nil, err
	}
	return s.Transform(data)
}

// Mean returns a copy of the fitted per-column means.
func (s *StandardScaler) Mean() []float64 {
	out := make([]float64, len(s.mean))
	copy(out, s.mean)
	return out
}

// Std returns a copy of the fitted per-column standard deviations.
func (s *StandardScaler) Std() []float64 {
	out := make([]float64, len(s.std))
	copy(out, s.std)
	return out
}
