// Package types provides type definitions for structured data used throughout the candidate scoring engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WeightScope identifies which weight vector applies: a specific
// (recruiter, job) pair, a recruiter across all jobs, a job across all
// recruiters, or the global default when both are nil.
type WeightScope struct {
	RecruiterID *uuid.UUID `json:"recruiter_id,omitempty"`
	JobID       *uuid.UUID `json:"job_id,omitempty"`
}

// GlobalScope is the scope with neither recruiter nor job set.
func GlobalScope() WeightScope {
	return WeightScope{}
}

// Key returns a stable string form of the scope, usable as a map key.
// Unset components are rendered as "*".
func (s WeightScope) Key() string {
	r, j := "*", "*"
	if s.RecruiterID != nil {
		r = s.RecruiterID.String()
	}
	if s.JobID != nil {
		j = s.JobID.String()
	}
	return r + "|" + j
}

// Fallbacks returns the scopes to try when resolving weights, narrowest first:
// exact, recruiter-only, job-only, global. Scopes identical to an earlier
// entry are skipped.
func (s WeightScope) Fallbacks() []WeightScope {
	out := []WeightScope{s}
	if s.RecruiterID != nil && s.JobID != nil {
		out = append(out, WeightScope{RecruiterID: s.RecruiterID}, WeightScope{JobID: s.JobID})
	}
	if s.RecruiterID != nil || s.JobID != nil {
		out = append(out, GlobalScope())
	}
	return out
}

// WeightVector holds the four adaptive coefficients used to combine
// per-dimension hybrid scores into one overall score. The components are
// non-negative and sum to 1.0 after every write.
type WeightVector struct {
	Skill      float64 `json:"skill_weight"`
	Experience float64 `json:"experience_weight"`
	Education  float64 `json:"education_weight"`
	Semantic   float64 `json:"semantic_weight"`

	IterationCount int       `json:"iteration_count"`
	LastUpdated    time.Time `json:"last_updated,omitempty"`
}

// Compiled-in default weights, used when no vector is stored for any scope in
// the fallback chain or when the store is unavailable.
const (
	DefaultSkillWeight      = 0.4
	DefaultExperienceWeight = 0.3
	DefaultEducationWeight  = 0.1
	DefaultSemanticWeight   = 0.2
)

// DefaultWeights returns the compiled-in default weight vector.
func DefaultWeights() WeightVector {
	return WeightVector{
		Skill:      DefaultSkillWeight,
		Experience: DefaultExperienceWeight,
		Education:  DefaultEducationWeight,
		Semantic:   DefaultSemanticWeight,
	}
}

// Sum returns the sum of the four components.
func (w WeightVector) Sum() float64 {
	return w.Skill + w.Experience + w.Education + w.Semantic
}

// Normalized returns a copy with negative components floored at zero and the
// remainder rescaled to sum to 1.0. A vector with no positive component
// normalizes to the defaults.
func (w WeightVector) Normalized() WeightVector {
	out := w
	if out.Skill < 0 {
		out.Skill = 0
	}
	if out.Experience < 0 {
		out.Experience = 0
	}
	if out.Education < 0 {
		out.Education = 0
	}
	if out.Semantic < 0 {
		out.Semantic = 0
	}

	total := out.Sum()
	if total <= 0 {
		d := DefaultWeights()
		d.IterationCount = w.IterationCount
		d.LastUpdated = w.LastUpdated
		return d
	}

	out.Skill /= total
	out.Experience /= total
	out.Education /= total
	out.Semantic /= total
	return out
}

// Validate reports whether the vector satisfies the storage invariant:
// all components non-negative and summing to 1.0 within epsilon.
func (w WeightVector) Validate() error {
	if w.Skill < 0 || w.Experience < 0 || w.Education < 0 || w.Semantic < 0 {
		return fmt.Errorf("weight vector has negative component: %+v", w)
	}
	const epsilon = 1e-6
	if diff := w.Sum() - 1.0; diff > epsilon || diff < -epsilon {
		return fmt.Errorf("weight vector components sum to %v, want 1.0", w.Sum())
	}
	return nil
}
