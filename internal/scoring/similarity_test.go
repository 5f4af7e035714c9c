package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		v1, v2  []float64
		want    float64
		wantErr bool
	}{
		{"identical direction", []float64{1, 2, 3}, []float64{2, 4, 6}, 1.0, false},
		{"opposite direction", []float64{1, 0}, []float64{-1, 0}, -1.0, false},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0, false},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0.0, false},
		{"dimension mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.v1, tt.v2)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestMatchScore(t *testing.T) {
	// Parallel vectors map to 100, antiparallel to 0, orthogonal to 50.
	got, err := MatchScore([]float64{1, 2}, []float64{2, 4})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 1e-9)

	got, err = MatchScore([]float64{1, 0}, []float64{-1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-9)

	got, err = MatchScore([]float64{1, 0}, []float64{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got, 1e-9)
}

func TestMatchScoreDegenerateVectors(t *testing.T) {
	// Empty or zero vectors are undefined input: score 0, not neutral 50.
	got, err := MatchScore(nil, []float64{1, 2})
	require.NoError(t, err)
	assert.Zero(t, got)

	got, err = MatchScore([]float64{0, 0}, []float64{1, 2})
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = MatchScore([]float64{1}, []float64{1, 2})
	assert.Error(t, err)
}
