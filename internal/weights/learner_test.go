package weights

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvinca/smartRecruiter/internal/types"
)

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

// sample builds a feedback sample with the four dimension scores and outcome.
func sample(skill, exp, edu, sem float64, hired bool) types.FeedbackSample {
	return types.FeedbackSample{
		Skill:      skill,
		Experience: exp,
		Education:  edu,
		Semantic:   sem,
		Hired:      hired,
	}
}

func TestNewLearnerValidatesRate(t *testing.T) {
	store := NewMemoryStore()

	tests := []struct {
		name    string
		rate    float64
		wantErr bool
	}{
		{"zero selects default", 0, false},
		{"valid rate", 0.5, false},
		{"upper bound inclusive", 1.0, false},
		{"negative", -0.1, true},
		{"above one", 1.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLearner(store, tt.rate, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}

func TestLearnInsufficientSamplesIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l, err := NewLearner(store, 0.5, nil)
	require.NoError(t, err)

	before, err := store.Resolve(ctx, types.GlobalScope())
	require.NoError(t, err)

	got, err := l.Learn(ctx, types.GlobalScope(), []types.FeedbackSample{
		sample(90, 50, 50, 50, true),
	})
	require.NoError(t, err)
	assert.Equal(t, before, got, "single sample must not move weights")
	assert.Equal(t, 0, got.IterationCount)
}

func TestRegressionDiscardsCoefficientSign(t *testing.T) {
	// Exactly determined system: only the skill dimension carries signal, and
	// it predicts rejection. Its fitted coefficient is negative, yet the
	// magnitude must still claim all the learned weight.
	samples := []types.FeedbackSample{
		sample(100, 0, 0, 0, false),
		sample(0, 100, 0, 0, true),
		sample(0, 0, 100, 0, true),
		sample(0, 0, 0, 100, true),
		sample(0, 0, 0, 0, true),
	}

	// Rate 1.0 makes the result the learned vector itself.
	got, err := regressionStrategy{}.Fit(types.DefaultWeights(), 1.0, samples)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.Skill, 1e-9)
	assert.InDelta(t, 0.0, got.Experience, 1e-9)
	assert.InDelta(t, 0.0, got.Education, 1e-9)
	assert.InDelta(t, 0.0, got.Semantic, 1e-9)
	assert.NoError(t, got.Validate())
}

func TestRegressionRejectsTinySets(t *testing.T) {
	_, err := regressionStrategy{}.Fit(types.DefaultWeights(), 0.5, []types.FeedbackSample{
		sample(90, 50, 50, 50, true),
	})
	assert.Error(t, err)
}

func TestMeanDiffNudgesSeparatingDimension(t *testing.T) {
	// Only skill separates hired (mean 87.5) from rejected (mean 22.5). At
	// rate 1.0 the skill weight moves 0.4 -> 1.05 and hits the 0.60 cap; the
	// flat dimensions keep their current weights. Normalizing the clamped
	// vector {0.6, 0.3, 0.1, 0.2} divides by 1.2.
	samples := []types.FeedbackSample{
		sample(90, 50, 50, 50, true),
		sample(85, 50, 50, 50, true),
		sample(20, 50, 50, 50, false),
		sample(25, 50, 50, 50, false),
	}

	got, err := meanDiffStrategy{}.Fit(types.DefaultWeights(), 1.0, samples)
	require.NoError(t, err)
	assert.InDelta(t, 0.60/1.2, got.Skill, 1e-9)
	assert.InDelta(t, 0.30/1.2, got.Experience, 1e-9)
	assert.InDelta(t, 0.10/1.2, got.Education, 1e-9)
	assert.InDelta(t, 0.20/1.2, got.Semantic, 1e-9)
	assert.NoError(t, got.Validate())
}

func TestMeanDiffNegativeGapClampsAtFloor(t *testing.T) {
	// Rejected candidates out-skill the hired ones: the skill weight is pushed
	// down 0.4 -> -0.25 and lands on the 0.10 floor.
	samples := []types.FeedbackSample{
		sample(20, 50, 50, 50, true),
		sample(25, 50, 50, 50, true),
		sample(90, 50, 50, 50, false),
		sample(85, 50, 50, 50, false),
	}

	got, err := meanDiffStrategy{}.Fit(types.DefaultWeights(), 1.0, samples)
	require.NoError(t, err)
	assert.InDelta(t, 0.10/0.7, got.Skill, 1e-9)
	assert.NoError(t, got.Validate())
}

func TestMeanDiffNeedsBothOutcomes(t *testing.T) {
	samples := []types.FeedbackSample{
		sample(90, 50, 50, 50, true),
		sample(85, 50, 50, 50, true),
	}
	_, err := meanDiffStrategy{}.Fit(types.DefaultWeights(), 0.5, samples)
	assert.Error(t, err)
}

func TestLearnBlendsTowardLearnedVector(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l, err := NewLearner(store, 0.5, nil)
	require.NoError(t, err)

	// Regression learns {1,0,0,0} from this set; blended with the defaults
	// {0.4,0.3,0.1,0.2} at rate 0.5 the result is {0.7,0.15,0.05,0.1}.
	samples := []types.FeedbackSample{
		sample(100, 0, 0, 0, false),
		sample(0, 100, 0, 0, true),
		sample(0, 0, 100, 0, true),
		sample(0, 0, 0, 100, true),
		sample(0, 0, 0, 0, true),
	}

	got, err := l.Learn(ctx, types.GlobalScope(), samples)
	require.NoError(t, err)
	assert.InDelta(t, 0.70, got.Skill, 1e-9)
	assert.InDelta(t, 0.15, got.Experience, 1e-9)
	assert.InDelta(t, 0.05, got.Education, 1e-9)
	assert.InDelta(t, 0.10, got.Semantic, 1e-9)
	assert.Equal(t, 1, got.IterationCount)
	assert.NoError(t, got.Validate())

	// A second pass keeps pulling toward the learned vector and bumps the
	// iteration count.
	got, err = l.Learn(ctx, types.GlobalScope(), samples)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, got.Skill, 1e-9)
	assert.Equal(t, 2, got.IterationCount)
}

func TestLearnFallsBackToMeanDiff(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l, err := NewLearner(store, 1.0, nil)
	require.NoError(t, err)

	// Constant non-skill columns are collinear with the intercept, so the
	// regression cannot be solved and the mean-difference heuristic takes over.
	samples := []types.FeedbackSample{
		sample(90, 50, 50, 50, true),
		sample(85, 50, 50, 50, true),
		sample(20, 50, 50, 50, false),
		sample(25, 50, 50, 50, false),
	}

	got, err := l.Learn(ctx, types.GlobalScope(), samples)
	require.NoError(t, err)
	assert.NoError(t, got.Validate())
	assert.InDelta(t, 0.60/1.2, got.Skill, 1e-9)
	assert.Equal(t, 1, got.IterationCount)
}

func TestLearnUnusableSamplesLeavesWeights(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l, err := NewLearner(store, 0.5, nil)
	require.NoError(t, err)

	// Every candidate hired: the regression learns nothing and the
	// mean-difference heuristic has no rejected side. Weights stay put.
	samples := []types.FeedbackSample{
		sample(100, 0, 0, 0, true),
		sample(0, 100, 0, 0, true),
		sample(0, 0, 100, 0, true),
		sample(0, 0, 0, 100, true),
		sample(0, 0, 0, 0, true),
	}

	got, err := l.Learn(ctx, types.GlobalScope(), samples)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultWeights(), got)
	assert.Equal(t, 0, got.IterationCount)
}

func TestMemoryStoreScopeResolution(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	rid := mustUUID(t, "5a8f0f1e-30bf-4f5b-9d3f-111111111111")
	jid := mustUUID(t, "5a8f0f1e-30bf-4f5b-9d3f-222222222222")
	exact := types.WeightScope{RecruiterID: &rid, JobID: &jid}
	recruiterOnly := types.WeightScope{RecruiterID: &rid}

	// Nothing stored: defaults all the way down.
	got, err := store.Resolve(ctx, exact)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultWeights(), got)

	// A recruiter-level vector is found by the exact scope via fallback.
	_, err = store.Upsert(ctx, recruiterOnly, types.WeightVector{Skill: 1, Experience: 1, Education: 1, Semantic: 1})
	require.NoError(t, err)

	got, err = store.Resolve(ctx, exact)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got.Skill, 1e-9)
	assert.Equal(t, 1, got.IterationCount)
	assert.False(t, got.LastUpdated.IsZero())

	// An exact-scope vector shadows the recruiter-level one.
	_, err = store.Upsert(ctx, exact, types.WeightVector{Skill: 0.7, Experience: 0.1, Education: 0.1, Semantic: 0.1})
	require.NoError(t, err)

	got, err = store.Resolve(ctx, exact)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, got.Skill, 1e-9)

	// The sibling job-only scope is untouched.
	got, err = store.Resolve(ctx, types.WeightScope{JobID: &jid})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultWeights(), got)
}

func TestMemoryStoreUpsertRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	stored, err := store.Upsert(ctx, types.GlobalScope(), types.WeightVector{Skill: 0.5, Experience: 0.3, Education: 0.1, Semantic: 0.1})
	require.NoError(t, err)
	assert.NoError(t, stored.Validate())

	read, err := store.Resolve(ctx, types.GlobalScope())
	require.NoError(t, err)
	assert.Equal(t, stored, read)
}

func TestScopedSamples(t *testing.T) {
	rid := mustUUID(t, "5a8f0f1e-30bf-4f5b-9d3f-333333333333")
	s1 := sample(90, 50, 50, 50, true)
	s1.Scope = types.WeightScope{RecruiterID: &rid}
	s2 := sample(20, 50, 50, 50, false)
	s3 := sample(30, 50, 50, 50, false)
	s3.Scope = types.WeightScope{RecruiterID: &rid}

	groups := ScopedSamples([]types.FeedbackSample{s1, s2, s3})
	require.Len(t, groups, 2)
	assert.Len(t, groups[s1.Scope.Key()], 2)
	assert.Len(t, groups[types.GlobalScope().Key()], 1)
}
