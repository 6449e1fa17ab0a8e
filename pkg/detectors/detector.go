// Package detectors provides unsupervised anomaly detection via clustering.
package detectors

import "strconv"

// Clusterer is the common interface for density-based clustering algorithms.
type Clusterer interface {
	// Cluster partitions the samples into clusters plus a noise set.
	// data is a 2D slice where each row is a sample and each column is a
	// feature; the returned slice has one Assignment per row.
	Cluster(data [][]float64) ([]Assignment, error)
}

// Assignment is the cluster assignment for a single sample: either membership
// in a cluster with a non-negative id, or noise. Noise membership is the
// anomaly signal. The zero value is membership in cluster 0; use Noise() for
// the noise assignment.
type Assignment struct {
	id int
}

// Noise returns the assignment marking a sample as noise.
func Noise() Assignment {
	return Assignment{id: -1}
}

// InCluster returns the assignment for membership in the given cluster.
// Negative ids are clamped to noise.
func InCluster(id int) Assignment {
	if id < 0 {
		return Noise()
	}
	return Assignment{id: id}
}

// IsNoise reports whether the sample was assigned to no cluster.
func (a Assignment) IsNoise() bool {
	return a.id < 0
}

// Cluster returns the cluster id and true, or 0 and false for noise.
func (a Assignment) Cluster() (int, bool) {
	if a.id < 0 {
		return 0, false
	}
	return a.id, true
}

// String returns "noise" or the decimal cluster id.
func (a Assignment) String() string {
	if a.id < 0 {
		return "noise"
	}
	return strconv.Itoa(a.id)
}

// Config holds common configuration for clusterers.
type Config struct {
	// Eps is the neighborhood radius in scaled feature space.
	Eps float64
	// MinSamples is the minimum neighborhood size for core-point status.
	MinSamples int
}

// DefaultConfig returns sensible defaults for clusterer configuration.
func DefaultConfig() Config {
	return Config{
		Eps:        0.9,
		MinSamples: 8,
	}
}
