// Package types provides type definitions for structured data used throughout the candidate scoring engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ParsedResume represents the structured output of the upstream resume extraction
// service. The scoring engine consumes it as-is and never re-parses raw text.
type ParsedResume struct {
	Skills          []string         `json:"skills"`
	ExperienceYears float64          `json:"experience_years"`
	Education       []Education      `json:"education"`
	WorkExperience  []WorkExperience `json:"work_experience"`
	RawText         string           `json:"raw_text"`
}

// Education represents a single education entry on a resume
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year,omitempty"`
}

// WorkExperience represents a single work history entry on a resume
type WorkExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

// JobPosting represents the job the candidate is scored against
type JobPosting struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
}

// Text returns the combined description and requirements text used by the
// heuristic scorers.
func (j JobPosting) Text() string {
	if j.Requirements == "" {
		return j.Description
	}
	return j.Description + " " + j.Requirements
}
