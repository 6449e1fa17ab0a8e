package dbscan

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hed1ad/transferguard/pkg/detectors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		opts           []Option
		wantEps        float64
		wantMinSamples int
	}{
		{
			name:           "default configuration",
			opts:           nil,
			wantEps:        0.9,
			wantMinSamples: 8,
		},
		{
			name:           "custom eps",
			opts:           []Option{WithEps(0.5)},
			wantEps:        0.5,
			wantMinSamples: 8,
		},
		{
			name:           "multiple options",
			opts:           []Option{WithEps(1.5), WithMinSamples(3)},
			wantEps:        1.5,
			wantMinSamples: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(tt.opts...)
			assert.Equal(t, tt.wantEps, d.Eps())
			assert.Equal(t, tt.wantMinSamples, d.MinSamples())
		})
	}
}

func TestClusterInvalidMinSamples(t *testing.T) {
	d := New(WithMinSamples(0))
	_, err := d.Cluster([][]float64{{1}, {2}})
	assert.Error(t, err)
}

func TestClusterEmptyInput(t *testing.T) {
	d := New()
	assignments, err := d.Cluster(nil)
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestClusterRaggedInput(t *testing.T) {
	d := New()
	_, err := d.Cluster([][]float64{{1, 2}, {1}})
	assert.Error(t, err)
}

func TestClusterTwoBlobsAndOutlier(t *testing.T) {
	// Two tight groups far apart, plus one isolated point.
	data := [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1}, {0.1, 0.1},
		{10, 10}, {10.1, 10}, {10, 10.1}, {10.1, 10.1},
		{50, 50},
	}

	d := New(WithEps(0.5), WithMinSamples(3))
	assignments, err := d.Cluster(data)
	require.NoError(t, err)
	require.Len(t, assignments, len(data))

	first, ok := assignments[0].Cluster()
	require.True(t, ok)
	assert.Equal(t, 0, first, "first discovered cluster takes id 0")
	for i := 1; i < 4; i++ {
		id, member := assignments[i].Cluster()
		require.True(t, member, "row %d should be clustered", i)
		assert.Equal(t, first, id)
	}

	second, ok := assignments[4].Cluster()
	require.True(t, ok)
	assert.Equal(t, 1, second)
	for i := 5; i < 8; i++ {
		id, member := assignments[i].Cluster()
		require.True(t, member, "row %d should be clustered", i)
		assert.Equal(t, second, id)
	}

	assert.True(t, assignments[8].IsNoise(), "isolated point should be noise")
}

func TestClusterBoundaryInclusive(t *testing.T) {
	// Two points at distance exactly eps are neighbors (<=, not <).
	data := [][]float64{{0}, {1}}

	d := New(WithEps(1), WithMinSamples(2))
	assignments, err := d.Cluster(data)
	require.NoError(t, err)

	a, okA := assignments[0].Cluster()
	b, okB := assignments[1].Cluster()
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, a, b)
}

func TestClusterBorderPointTieBreak(t *testing.T) {
	// The middle point is within eps of core points in both groups but is not
	// core itself (its neighborhood holds only 3 rows); it joins the cluster
	// discovered first under ascending-index traversal.
	data := [][]float64{
		{0}, {0.2}, {0.4}, {0.6},
		{1.6}, // border: within 1.0 of {0.6} and {2.6} only
		{2.6}, {2.8}, {3.0}, {3.2},
	}

	d := New(WithEps(1), WithMinSamples(4))
	assignments, err := d.Cluster(data)
	require.NoError(t, err)

	left, ok := assignments[0].Cluster()
	require.True(t, ok)
	right, ok := assignments[5].Cluster()
	require.True(t, ok)
	require.NotEqual(t, left, right, "groups must stay separate clusters")

	border, ok := assignments[4].Cluster()
	require.True(t, ok, "border point should be attached to a cluster")
	assert.Equal(t, left, border)
}

func TestClusterDegenerateEps(t *testing.T) {
	data := [][]float64{{0}, {1}, {2}}

	t.Run("min samples 1 makes every point its own cluster", func(t *testing.T) {
		d := New(WithEps(0), WithMinSamples(1))
		assignments, err := d.Cluster(data)
		require.NoError(t, err)

		seen := make(map[int]bool)
		for i, a := range assignments {
			id, ok := a.Cluster()
			require.True(t, ok, "row %d should be its own cluster", i)
			assert.False(t, seen[id], "cluster id %d reused", id)
			seen[id] = true
		}
	})

	t.Run("min samples above 1 makes every point noise", func(t *testing.T) {
		d := New(WithEps(0), WithMinSamples(2))
		assignments, err := d.Cluster(data)
		require.NoError(t, err)

		for i, a := range assignments {
			assert.True(t, a.IsNoise(), "row %d should be noise", i)
		}
	})
}

func TestClusterIdenticalPoints(t *testing.T) {
	row := []float64{1.5, -2, 0.25}
	data := make([][]float64, 10)
	for i := range data {
		data[i] = row
	}

	t.Run("min samples within batch size gives one cluster", func(t *testing.T) {
		d := New(WithEps(0.1), WithMinSamples(10))
		assignments, err := d.Cluster(data)
		require.NoError(t, err)

		for i, a := range assignments {
			id, ok := a.Cluster()
			require.True(t, ok, "row %d should be clustered", i)
			assert.Equal(t, 0, id)
		}
	})

	t.Run("min samples above batch size gives all noise", func(t *testing.T) {
		d := New(WithEps(0.1), WithMinSamples(11))
		assignments, err := d.Cluster(data)
		require.NoError(t, err)

		for i, a := range assignments {
			assert.True(t, a.IsNoise(), "row %d should be noise", i)
		}
	})
}

func TestClusterDeterminism(t *testing.T) {
	data := generateTestData(300, 5, 7)

	d := New(WithEps(1.2), WithMinSamples(4))
	first, err := d.Cluster(data)
	require.NoError(t, err)
	second, err := d.Cluster(data)
	require.NoError(t, err)

	// Fixed traversal order: labels match exactly, not just the partition.
	assert.Equal(t, first, second)
}

func TestNoiseMonotonicity(t *testing.T) {
	data := generateTestData(400, 4, 11)

	t.Run("shrinking eps never shrinks the noise set", func(t *testing.T) {
		prev := -1
		for _, eps := range []float64{2.0, 1.5, 1.0, 0.5, 0.25} {
			d := New(WithEps(eps), WithMinSamples(5))
			assignments, err := d.Cluster(data)
			require.NoError(t, err)

			noise := countNoise(assignments)
			assert.GreaterOrEqual(t, noise, prev, "eps=%v", eps)
			prev = noise
		}
	})

	t.Run("raising min samples never shrinks the noise set", func(t *testing.T) {
		prev := -1
		for _, minSamples := range []int{2, 4, 8, 16, 32} {
			d := New(WithEps(1.0), WithMinSamples(minSamples))
			assignments, err := d.Cluster(data)
			require.NoError(t, err)

			noise := countNoise(assignments)
			assert.GreaterOrEqual(t, noise, prev, "minSamples=%d", minSamples)
			prev = noise
		}
	})
}

func countNoise(assignments []detectors.Assignment) int {
	var n int
	for _, a := range assignments {
		if a.IsNoise() {
			n++
		}
	}
	return n
}

func BenchmarkCluster(b *testing.B) {
	data := generateTestData(1000, 5, 42)
	d := New(WithEps(0.9), WithMinSamples(8))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Cluster(data)
	}
}

func generateTestData(n, features int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	data := make([][]float64, n)
	for i := 0; i < n; i++ {
		data[i] = make([]float64, features)
		for j := 0; j < features; j++ {
			data[i][j] = rng.NormFloat64()
		}
	}
	return data
}
