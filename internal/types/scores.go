// Package types provides type definitions for structured data used throughout the candidate scoring engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// FeatureScores holds the three heuristic scores derived purely from structured
// candidate/job data. Each value is in [0,100]. Immutable once computed.
type FeatureScores struct {
	Skill      float64 `json:"skill_score"`
	Experience float64 `json:"experience_score"`
	Education  float64 `json:"education_score"`
}

// JudgmentVector is the normalized output of the external reasoning model.
// When Available is false no external reasoning was obtained and all numeric
// fields are the neutral default of 50.
type JudgmentVector struct {
	Overall     int    `json:"overall_score"`
	Skill       int    `json:"skill_score"`
	Experience  int    `json:"experience_score"`
	Explanation string `json:"explanation"`
	Available   bool   `json:"llm_available"`
}

// NeutralJudgment returns the fallback judgment used when the reasoning
// provider is unavailable or its response could not be parsed.
func NeutralJudgment(explanation string) JudgmentVector {
	return JudgmentVector{
		Overall:     50,
		Skill:       50,
		Experience:  50,
		Explanation: explanation,
		Available:   false,
	}
}

// DimensionBreakdown records how one hybrid dimension was composed from its
// semantic and judgment sides, for auditability.
type DimensionBreakdown struct {
	Semantic             float64 `json:"semantic_score"`
	Judgment             float64 `json:"judgment_score"`
	SemanticContribution float64 `json:"semantic_contribution"`
	JudgmentContribution float64 `json:"judgment_contribution"`
	Hybrid               float64 `json:"combined_score"`
}

// ScoreBreakdown is the full per-dimension composition of a score record.
type ScoreBreakdown struct {
	SemanticWeight float64            `json:"semantic_weight"`
	Match          DimensionBreakdown `json:"match"`
	Skill          DimensionBreakdown `json:"skill"`
	Experience     DimensionBreakdown `json:"experience"`
}

// ScoreRecord is the scoring result for one candidate-job pair. It is created
// at scoring time and never mutated afterward; hire/reject decisions are
// recorded separately as FeedbackSamples.
type ScoreRecord struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	JobID       uuid.UUID `json:"job_id"`

	// Hybrid scores (semantic blended with judgment). Education carries no
	// judgment signal and stays semantic-only.
	MatchScore      float64 `json:"match_score"`
	SkillScore      float64 `json:"skill_score"`
	ExperienceScore float64 `json:"experience_score"`
	EducationScore  float64 `json:"education_score"`
	OverallScore    float64 `json:"overall_score"`

	Breakdown         ScoreBreakdown `json:"score_breakdown"`
	JudgmentAvailable bool           `json:"llm_available"`
	Explanation       string         `json:"explanation,omitempty"`

	// Group is the proxy demographic label attached at scoring time so that
	// fairness audits can run from stored records alone.
	Group string `json:"group,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// FeedbackSample is one historical (score, hire-decision) pair produced when a
// recruiter finalizes a decision. Scores are snapshots taken at decision time.
type FeedbackSample struct {
	Skill      float64     `json:"skill_score"`
	Experience float64     `json:"experience_score"`
	Education  float64     `json:"education_score"`
	Semantic   float64     `json:"semantic_score"`
	Overall    float64     `json:"ai_score_at_decision"`
	Hired      bool        `json:"hired"`
	Scope      WeightScope `json:"scope"`
	DecidedAt  time.Time   `json:"decided_at,omitempty"`
}

// ClampScore clamps a score value to the [0,100] range exposed to callers.
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Round2 rounds to two decimal places, the precision used for all reported scores.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
