package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights_SumToOne(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)
	require.NoError(t, w.Validate())
}

func TestNormalized_RescalesToOne(t *testing.T) {
	w := WeightVector{Skill: 2, Experience: 1, Education: 0.5, Semantic: 0.5}
	n := w.Normalized()

	require.NoError(t, n.Validate())
	assert.InDelta(t, 0.5, n.Skill, 1e-9)
	assert.InDelta(t, 0.25, n.Experience, 1e-9)
	assert.InDelta(t, 0.125, n.Education, 1e-9)
	assert.InDelta(t, 0.125, n.Semantic, 1e-9)
}

func TestNormalized_FloorsNegativeComponents(t *testing.T) {
	w := WeightVector{Skill: 0.5, Experience: -0.2, Education: 0.25, Semantic: 0.25}
	n := w.Normalized()

	require.NoError(t, n.Validate())
	assert.Equal(t, 0.0, n.Experience)
}

func TestNormalized_ZeroVectorFallsBackToDefaults(t *testing.T) {
	w := WeightVector{IterationCount: 3}
	n := w.Normalized()

	assert.Equal(t, DefaultWeights().Skill, n.Skill)
	assert.Equal(t, DefaultWeights().Semantic, n.Semantic)
	assert.Equal(t, 3, n.IterationCount)
}

func TestValidate_RejectsBadSum(t *testing.T) {
	w := WeightVector{Skill: 0.4, Experience: 0.4, Education: 0.4, Semantic: 0.4}
	assert.Error(t, w.Validate())
}

func TestWeightScope_Fallbacks(t *testing.T) {
	recruiter := uuid.New()
	job := uuid.New()

	full := WeightScope{RecruiterID: &recruiter, JobID: &job}
	chain := full.Fallbacks()
	require.Len(t, chain, 4)
	assert.Equal(t, full.Key(), chain[0].Key())
	assert.Equal(t, recruiter.String()+"|*", chain[1].Key())
	assert.Equal(t, "*|"+job.String(), chain[2].Key())
	assert.Equal(t, "*|*", chain[3].Key())

	jobOnly := WeightScope{JobID: &job}
	chain = jobOnly.Fallbacks()
	require.Len(t, chain, 2)
	assert.Equal(t, "*|"+job.String(), chain[0].Key())
	assert.Equal(t, "*|*", chain[1].Key())

	assert.Len(t, GlobalScope().Fallbacks(), 1)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, ClampScore(-5))
	assert.Equal(t, 100.0, ClampScore(140))
	assert.Equal(t, 62.5, ClampScore(62.5))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 70.0, Round2(69.999999))
	assert.Equal(t, 33.33, Round2(33.333333))
}

func TestNeutralJudgment(t *testing.T) {
	j := NeutralJudgment("provider unavailable")
	assert.False(t, j.Available)
	assert.Equal(t, 50, j.Overall)
	assert.Equal(t, 50, j.Skill)
	assert.Equal(t, 50, j.Experience)
	assert.Equal(t, "provider unavailable", j.Explanation)
}
