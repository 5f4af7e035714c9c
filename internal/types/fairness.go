// Package types provides type definitions for structured data used throughout the candidate scoring engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// GroupStats holds per-group score statistics from a fairness audit.
type GroupStats struct {
	Mean   float64 `json:"mean_score"`
	StdDev float64 `json:"std_dev"`
	Count  int     `json:"count"`
}

// FairnessAuditResult is the outcome of one fairness audit over a batch of
// scored candidates. Computed fresh on each call; the auditor holds no state.
type FairnessAuditResult struct {
	BiasDetected  bool    `json:"bias_detected"`
	BiasMagnitude float64 `json:"bias_magnitude"`

	// MeanScoreDifference (MSD) equals BiasMagnitude; reported under its
	// metric name by the comprehensive audit.
	MeanScoreDifference float64 `json:"mean_score_difference,omitempty"`

	// DisparateImpactRatio (DIR) is the pass rate of the lowest-mean group
	// over the pass rate of the highest-mean group at PassThreshold.
	// Only set by the comprehensive audit.
	DisparateImpactRatio float64 `json:"disparate_impact_ratio,omitempty"`
	PassThreshold        float64 `json:"pass_threshold,omitempty"`
	AdverseImpact        bool    `json:"adverse_impact,omitempty"`

	StatisticalSignificance float64               `json:"statistical_significance"`
	GroupAnalysis           map[string]GroupStats `json:"group_analysis"`
	Recommendations         []string              `json:"recommendations"`
	ThresholdUsed           float64               `json:"threshold_used"`
	Message                 string                `json:"message"`
}

// AuditTrendPoint is one historical fairness measurement, persisted so bias
// can be tracked over time.
type AuditTrendPoint struct {
	CreatedAt            time.Time `json:"created_at"`
	MeanScoreDifference  float64   `json:"mean_score_difference"`
	DisparateImpactRatio float64   `json:"disparate_impact_ratio"`
	BiasMagnitude        float64   `json:"bias_magnitude"`
	BiasDetected         bool      `json:"bias_detected"`
}
