package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignment(t *testing.T) {
	tests := []struct {
		name       string
		assignment Assignment
		wantNoise  bool
		wantID     int
		wantString string
	}{
		{
			name:       "noise",
			assignment: Noise(),
			wantNoise:  true,
			wantString: "noise",
		},
		{
			name:       "cluster zero",
			assignment: InCluster(0),
			wantID:     0,
			wantString: "0",
		},
		{
			name:       "cluster three",
			assignment: InCluster(3),
			wantID:     3,
			wantString: "3",
		},
		{
			name:       "negative id clamps to noise",
			assignment: InCluster(-5),
			wantNoise:  true,
			wantString: "noise",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantNoise, tt.assignment.IsNoise())
			assert.Equal(t, tt.wantString, tt.assignment.String())

			id, ok := tt.assignment.Cluster()
			assert.Equal(t, !tt.wantNoise, ok)
			if ok {
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}

func TestZeroValueIsClusterZero(t *testing.T) {
	var a Assignment
	assert.False(t, a.IsNoise())

	id, ok := a.Cluster()
	assert.True(t, ok)
	assert.Equal(t, 0, id)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 0.9, cfg.Eps)
	assert.Equal(t, 8, cfg.MinSamples)
}
