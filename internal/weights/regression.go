package weights

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// regressionStrategy fits a least-squares regression of the hire outcome on
// the four per-dimension scores and reads relative dimension importance from
// the coefficient magnitudes. Coefficient signs are discarded: a dimension
// that strongly predicts rejection is still an informative dimension. The
// learned vector is blended into the current one with an exponential moving
// average at the learning rate.
type regressionStrategy struct{}

func (regressionStrategy) Name() string { return "regression" }

func (regressionStrategy) Fit(current types.WeightVector, rate float64, samples []types.FeedbackSample) (types.WeightVector, error) {
	n := len(samples)
	if n < minSamples {
		return types.WeightVector{}, errors.New("regression needs at least two samples")
	}

	// Design matrix: intercept plus the four dimension scores.
	x := mat.NewDense(n, 5, nil)
	y := mat.NewVecDense(n, nil)
	for i, s := range samples {
		x.SetRow(i, []float64{1, s.Skill, s.Experience, s.Education, s.Semantic})
		if s.Hired {
			y.SetVec(i, 1)
		}
	}

	var coef mat.VecDense
	if err := coef.SolveVec(x, y); err != nil {
		return types.WeightVector{}, errors.New("degenerate sample matrix, regression unsolvable")
	}

	learned := types.WeightVector{
		Skill:      math.Abs(coef.AtVec(1)),
		Experience: math.Abs(coef.AtVec(2)),
		Education:  math.Abs(coef.AtVec(3)),
		Semantic:   math.Abs(coef.AtVec(4)),
	}
	if learned.Sum() <= 0 || !isFinite(learned) {
		return types.WeightVector{}, errors.New("regression produced no usable coefficients")
	}
	learned = learned.Normalized()

	return types.WeightVector{
		Skill:      (1-rate)*current.Skill + rate*learned.Skill,
		Experience: (1-rate)*current.Experience + rate*learned.Experience,
		Education:  (1-rate)*current.Education + rate*learned.Education,
		Semantic:   (1-rate)*current.Semantic + rate*learned.Semantic,
	}.Normalized(), nil
}

func isFinite(w types.WeightVector) bool {
	for _, v := range []float64{w.Skill, w.Experience, w.Education, w.Semantic} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
