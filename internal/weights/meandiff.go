package weights

import (
	"errors"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// Per-dimension clamp bands keep the heuristic from collapsing any weight to
// zero or letting one dimension dominate on a small feedback set.
var meanDiffBands = map[string][2]float64{
	"skill":      {0.10, 0.60},
	"experience": {0.10, 0.60},
	"education":  {0.05, 0.30},
	"semantic":   {0.10, 0.50},
}

// meanDiffStrategy is the arithmetic fallback fitter: each current weight is
// nudged by the signed mean-score gap between hired and rejected candidates
// on that dimension, scaled by the learning rate, then clamped to its band.
// It needs at least one sample on each side of the hire decision.
type meanDiffStrategy struct{}

func (meanDiffStrategy) Name() string { return "meandiff" }

func (meanDiffStrategy) Fit(current types.WeightVector, rate float64, samples []types.FeedbackSample) (types.WeightVector, error) {
	var hired, rejected []types.FeedbackSample
	for _, s := range samples {
		if s.Hired {
			hired = append(hired, s)
		} else {
			rejected = append(rejected, s)
		}
	}
	if len(hired) == 0 || len(rejected) == 0 {
		return types.WeightVector{}, errors.New("meandiff needs both hired and rejected samples")
	}

	adjust := func(band string, w float64, dim dimFn) float64 {
		diff := mean(hired, dim) - mean(rejected, dim)
		return clampBand(band, w+diff*rate/100)
	}

	return types.WeightVector{
		Skill:      adjust("skill", current.Skill, dimSkill),
		Experience: adjust("experience", current.Experience, dimExperience),
		Education:  adjust("education", current.Education, dimEducation),
		Semantic:   adjust("semantic", current.Semantic, dimSemantic),
	}.Normalized(), nil
}

type dimFn func(types.FeedbackSample) float64

func dimSkill(s types.FeedbackSample) float64      { return s.Skill }
func dimExperience(s types.FeedbackSample) float64 { return s.Experience }
func dimEducation(s types.FeedbackSample) float64  { return s.Education }
func dimSemantic(s types.FeedbackSample) float64   { return s.Semantic }

func mean(samples []types.FeedbackSample, dim dimFn) float64 {
	var sum float64
	for _, s := range samples {
		sum += dim(s)
	}
	return sum / float64(len(samples))
}

func clampBand(name string, v float64) float64 {
	band := meanDiffBands[name]
	if v < band[0] {
		return band[0]
	}
	if v > band[1] {
		return band[1]
	}
	return v
}
