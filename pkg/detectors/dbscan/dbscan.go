// Package dbscan implements the DBSCAN algorithm for density-based anomaly
// detection. Rows that belong to no dense cluster are labeled noise, and
// noise is the anomaly signal.
package dbscan

import (
	"fmt"
	"math"

	"github.com/hed1ad/transferguard/pkg/detectors"
)

// DBSCAN partitions samples into density-based clusters plus a noise set.
//
// A row is a core point if at least minSamples rows (itself included) lie
// within eps of it. Clusters are the maximal sets of rows connected through
// core points; rows reachable from no core point are noise. Rows are
// processed in ascending index order with a FIFO seed queue, so labels are
// reproducible across runs on identical input.
type DBSCAN struct {
	eps        float64
	minSamples int
}

// Option configures a DBSCAN clusterer.
type Option func(*DBSCAN)

// WithEps sets the neighborhood radius. Non-positive values are permitted:
// every neighborhood then degenerates to the point itself, which makes every
// row noise unless minSamples is 1.
func WithEps(eps float64) Option {
	return func(d *DBSCAN) {
		d.eps = eps
	}
}

// WithMinSamples sets the minimum neighborhood size for core-point status.
func WithMinSamples(n int) Option {
	return func(d *DBSCAN) {
		d.minSamples = n
	}
}

// New creates a new DBSCAN clusterer with the given options.
func New(opts ...Option) *DBSCAN {
	cfg := detectors.DefaultConfig()

	d := &DBSCAN{
		eps:        cfg.Eps,
		minSamples: cfg.MinSamples,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Internal label states during traversal. Cluster ids start at 0, so the
// sentinels sit below -1.
const (
	labelUndefined = -3
	labelNoise     = -2
)

// Cluster assigns every row of data to a cluster or to noise.
//
// The eps boundary is inclusive: rows at distance exactly eps are neighbors.
// Cluster ids are assigned from 0 in the order clusters are discovered. An
// empty matrix yields an empty assignment slice.
func (d *DBSCAN) Cluster(data [][]float64) ([]detectors.Assignment, error) {
	if d.minSamples < 1 {
		return nil, fmt.Errorf("min samples must be at least 1, got %d", d.minSamples)
	}

	n := len(data)
	if n == 0 {
		return []detectors.Assignment{}, nil
	}

	width := len(data[0])
	for i, row := range data {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = labelUndefined
	}

	clusterID := 0

	for i := 0; i < n; i++ {
		if labels[i] != labelUndefined {
			continue
		}

		neighbors := d.regionQuery(data, i)
		if len(neighbors) < d.minSamples {
			labels[i] = labelNoise
			continue
		}

		// i is a core point: start a new cluster and expand it.
		labels[i] = clusterID

		seeds := make([]int, 0, len(neighbors))
		for _, j := range neighbors {
			if j != i {
				seeds = append(seeds, j)
			}
		}

		for len(seeds) > 0 {
			q := seeds[0]
			seeds = seeds[1:]

			if labels[q] == labelNoise {
				// Border point: reachable from a core point after all.
				labels[q] = clusterID
				continue
			}
			if labels[q] != labelUndefined {
				continue
			}
			labels[q] = clusterID

			qNeighbors := d.regionQuery(data, q)
			if len(qNeighbors) >= d.minSamples {
				seeds = append(seeds, qNeighbors...)
			}
		}

		clusterID++
	}

	assignments := make([]detectors.Assignment, n)
	for i, label := range labels {
		if label == labelNoise {
			assignments[i] = detectors.Noise()
		} else {
			assignments[i] = detectors.InCluster(label)
		}
	}

	return assignments, nil
}

// regionQuery returns the indices of all rows within eps of row i, in
// ascending order and including i itself.
func (d *DBSCAN) regionQuery(data [][]float64, i int) []int {
	var neighbors []int
	for j, row := range data {
		if euclideanDistance(data[i], row) <= d.eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

// euclideanDistance computes the L2 distance between two equal-length rows.
func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for k := range a {
		diff := a[k] - b[k]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// Eps returns the configured neighborhood radius.
func (d *DBSCAN) Eps() float64 {
	return d.eps
}

// MinSamples returns the configured core-point threshold.
func (d *DBSCAN) MinSamples() int {
	return d.minSamples
}
