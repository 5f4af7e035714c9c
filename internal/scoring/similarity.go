package scoring

import (
	"fmt"
	"math"
)

// CosineSimilarity computes the cosine similarity between two embedding
// vectors. Returns 0.0 when either vector has zero norm, and an error when
// the dimensions differ.
func CosineSimilarity(v1, v2 []float64) (float64, error) {
	if len(v1) != len(v2) {
		return 0, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(v1), len(v2))
	}

	var dot, norm1, norm2 float64
	for i := range v1 {
		dot += v1[i] * v2[i]
		norm1 += v1[i] * v1[i]
		norm2 += v2[i] * v2[i]
	}

	if norm1 == 0 || norm2 == 0 {
		return 0.0, nil
	}

	return dot / (math.Sqrt(norm1) * math.Sqrt(norm2)), nil
}

// MatchScore maps the cosine similarity of two embeddings from [-1,1] onto
// [0,100]. Empty or zero vectors produce 0 (no semantic signal), and a
// dimension mismatch is reported as an error.
func MatchScore(v1, v2 []float64) (float64, error) {
	if len(v1) == 0 || len(v2) == 0 || isZeroVector(v1) || isZeroVector(v2) {
		return 0.0, nil
	}

	sim, err := CosineSimilarity(v1, v2)
	if err != nil {
		return 0, err
	}
	return (sim + 1) * 50, nil
}

func isZeroVector(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
