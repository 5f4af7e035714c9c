package scoring

import (
	"fmt"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// Combine fuses a semantic score with a judgment score using a weighted
// average, rounded to two decimals. semanticWeight must be in [0,1]:
// 1 reduces to pure semantic, 0 to pure judgment.
func Combine(semantic, judgment, semanticWeight float64) (float64, error) {
	if semanticWeight < 0 || semanticWeight > 1 {
		return 0, fmt.Errorf("semantic weight %v out of range [0,1]", semanticWeight)
	}
	combined := semanticWeight*semantic + (1-semanticWeight)*judgment
	return types.Round2(combined), nil
}

// Breakdown reports the combined value plus each side's raw contribution.
// This is a pure reporting helper for transparency; it does not participate
// in the weighted-overall calculation.
func Breakdown(semantic, judgment, semanticWeight float64) (types.DimensionBreakdown, error) {
	combined, err := Combine(semantic, judgment, semanticWeight)
	if err != nil {
		return types.DimensionBreakdown{}, err
	}
	return types.DimensionBreakdown{
		Semantic:             semantic,
		Judgment:             judgment,
		SemanticContribution: types.Round2(semantic * semanticWeight),
		JudgmentContribution: types.Round2(judgment * (1 - semanticWeight)),
		Hybrid:               combined,
	}, nil
}
