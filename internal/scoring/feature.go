// Package scoring computes candidate-job match scores by fusing heuristic
// feature scores, embedding similarity, and external reasoning judgments.
package scoring

import (
	"strings"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// skillVocabulary is the fixed set of technical skills recognized in job text.
// A skill is "required" by a job when its keyword appears in the combined
// description+requirements text.
var skillVocabulary = []string{
	"python", "java", "javascript", "react", "node", "sql", "postgresql",
	"mongodb", "docker", "kubernetes", "aws", "azure", "gcp", "git",
	"machine learning", "deep learning", "nlp", "tensorflow", "pytorch",
	"fastapi", "django", "flask", "express", "vue", "angular", "typescript",
	"html", "css", "sass", "less", "redux", "graphql", "rest api",
	"microservices", "ci/cd", "jenkins", "github actions", "terraform",
	"linux", "bash", "shell scripting", "agile", "scrum", "devops",
}

// relevanceKeywords mark a work-history entry as relevant to a technical role.
var relevanceKeywords = []string{"developer", "engineer", "software", "programming", "coding"}

// degreeKeywords indicate that a job posting asks for a formal degree.
var degreeKeywords = []string{"bachelor", "master", "phd", "degree", "university", "college"}

// stemKeywords mark a degree as technically relevant.
var stemKeywords = []string{
	"computer", "software", "engineering", "science", "technology",
	"information", "data", "math", "statistics",
}

// Neutral score returned when a requirement cannot be determined from the job text.
const neutralScore = 50.0

// SkillScore scores how well candidate skills cover the skills the job text
// asks for. A candidate with no skills scores 0. A job text naming no
// recognized skill scores neutral (50), since the requirement is
// undeterminable. Otherwise the score is the matched fraction of required
// skills scaled to 100; a candidate skill matches a required skill when either
// string contains the other, case-insensitively.
func SkillScore(candidateSkills []string, jobText string) float64 {
	if len(candidateSkills) == 0 {
		return 0.0
	}

	jobTextLower := strings.ToLower(jobText)
	var required []string
	for _, skill := range skillVocabulary {
		if strings.Contains(jobTextLower, skill) {
			required = append(required, skill)
		}
	}
	if len(required) == 0 {
		return neutralScore
	}

	candidateLower := make([]string, 0, len(candidateSkills))
	for _, s := range candidateSkills {
		candidateLower = append(candidateLower, strings.ToLower(s))
	}

	matched := 0
	for _, req := range required {
		for _, cand := range candidateLower {
			if strings.Contains(req, cand) || strings.Contains(cand, req) {
				matched++
				break
			}
		}
	}

	score := float64(matched) / float64(len(required)) * 100.0
	return types.ClampScore(score)
}

// ExperienceScore scores experience from a years-of-experience ladder (max 40)
// plus the fraction of work-history entries relevant to a technical role
// (max 60). Clamped to 100.
func ExperienceScore(years float64, workHistory []types.WorkExperience, jobText string) float64 {
	var score float64
	switch {
	case years >= 5:
		score = 40
	case years >= 3:
		score = 30
	case years >= 1:
		score = 20
	default:
		score = 10
	}

	if len(workHistory) > 0 {
		relevant := 0
		for _, exp := range workHistory {
			combined := strings.ToLower(exp.Title + " " + exp.Description)
			for _, keyword := range relevanceKeywords {
				if strings.Contains(combined, keyword) {
					relevant++
					break
				}
			}
		}
		score += float64(relevant) / float64(len(workHistory)) * 60.0
	}

	return types.ClampScore(score)
}

// EducationScore scores education relevance. No entries scores 0. A job text
// with no degree requirement scores neutral (50). A STEM/technical degree
// scores 100; any other degree scores 60.
func EducationScore(education []types.Education, jobText string) float64 {
	if len(education) == 0 {
		return 0.0
	}

	jobTextLower := strings.ToLower(jobText)
	requiresDegree := false
	for _, keyword := range degreeKeywords {
		if strings.Contains(jobTextLower, keyword) {
			requiresDegree = true
			break
		}
	}
	if !requiresDegree {
		return neutralScore
	}

	for _, edu := range education {
		degree := strings.ToLower(edu.Degree)
		for _, keyword := range stemKeywords {
			if strings.Contains(degree, keyword) {
				return 100.0
			}
		}
	}

	return 60.0
}

// Features computes all three heuristic scores for a candidate-job pair.
// Pure function: identical inputs always produce identical outputs.
func Features(resume types.ParsedResume, job types.JobPosting) types.FeatureScores {
	jobText := job.Text()
	return types.FeatureScores{
		Skill:      SkillScore(resume.Skills, jobText),
		Experience: ExperienceScore(resume.ExperienceYears, resume.WorkExperience, jobText),
		Education:  EducationScore(resume.Education, jobText),
	}
}
