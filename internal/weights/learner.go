package weights

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// DefaultLearningRate controls how far one recalibration moves the stored
// weights toward the freshly learned signal.
const DefaultLearningRate = 0.1

// minSamples is the smallest feedback set a recalibration will act on.
// Below this the historical signal is pure noise and Learn is a no-op.
const minSamples = 2

// Strategy computes a recalibrated weight vector from the current one and a
// batch of historical feedback. Implementations return an error when the
// sample set carries no usable signal, in which case the learner falls back
// to the next strategy.
type Strategy interface {
	Name() string
	Fit(current types.WeightVector, rate float64, samples []types.FeedbackSample) (types.WeightVector, error)
}

// Learner recalibrates scoped weight vectors from hiring decisions. It tries
// regression first and degrades to the mean-difference heuristic when the
// regression is unsolvable (degenerate design matrix, uniform outcomes).
// When no strategy can use the samples the stored weights stay unchanged;
// Learn never fails the caller over malformed signal.
type Learner struct {
	store      Store
	rate       float64
	strategies []Strategy
	logger     *zap.Logger
}

// NewLearner creates a learner over the given store. rate must be in (0,1];
// zero selects the default.
func NewLearner(store Store, rate float64, logger *zap.Logger) (*Learner, error) {
	if rate == 0 {
		rate = DefaultLearningRate
	}
	if rate <= 0 || rate > 1 {
		return nil, fmt.Errorf("learning rate %v outside (0,1]", rate)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Learner{
		store:      store,
		rate:       rate,
		strategies: []Strategy{regressionStrategy{}, meanDiffStrategy{}},
		logger:     logger,
	}, nil
}

// Learn recalibrates the stored vector for the scope from the samples and
// persists the result. Fewer than two samples, or samples no strategy can fit,
// leave the stored weights untouched and return the currently resolved vector.
func (l *Learner) Learn(ctx context.Context, scope types.WeightScope, samples []types.FeedbackSample) (types.WeightVector, error) {
	if len(samples) < minSamples {
		l.logger.Debug("insufficient feedback for recalibration",
			zap.Int("samples", len(samples)),
			zap.String("scope", scope.Key()))
		return l.store.Resolve(ctx, scope)
	}

	var strategy string
	updated, err := l.store.Update(ctx, scope, func(current types.WeightVector) (types.WeightVector, error) {
		next, name, err := l.fit(current, samples)
		if err != nil {
			return types.WeightVector{}, err
		}
		strategy = name
		next.IterationCount = current.IterationCount
		return next, nil
	})
	if err != nil {
		l.logger.Warn("feedback batch carried no usable signal, weights unchanged",
			zap.String("scope", scope.Key()),
			zap.Int("samples", len(samples)),
			zap.Error(err))
		return l.store.Resolve(ctx, scope)
	}

	l.logger.Info("weights recalibrated",
		zap.String("scope", scope.Key()),
		zap.String("strategy", strategy),
		zap.Int("samples", len(samples)),
		zap.Int("iteration", updated.IterationCount))
	return updated, nil
}

func (l *Learner) fit(current types.WeightVector, samples []types.FeedbackSample) (types.WeightVector, string, error) {
	var lastErr error
	for _, s := range l.strategies {
		next, err := s.Fit(current, l.rate, samples)
		if err == nil {
			return next, s.Name(), nil
		}
		lastErr = err
		l.logger.Debug("fit strategy failed, trying next",
			zap.String("strategy", s.Name()), zap.Error(err))
	}
	return types.WeightVector{}, "", lastErr
}

// ScopedSamples partitions samples by their scope key, preserving order. Used
// by the batch recalibration command to learn each scope independently.
func ScopedSamples(samples []types.FeedbackSample) map[string][]types.FeedbackSample {
	out := make(map[string][]types.FeedbackSample)
	for _, s := range samples {
		k := s.Scope.Key()
		out[k] = append(out[k], s)
	}
	return out
}
