package llm

import (
	"fmt"
	"strings"
)

// Truncation limits keep evaluation prompts inside model token budgets.
const (
	maxCVChars           = 2000
	maxJobChars          = 1500
	maxRequirementsChars = 800
	maxPromptSkills      = 20
)

// buildEvaluationPrompt constructs the candidate-evaluation prompt. The model
// is instructed to answer with a fixed JSON shape that the judgment adapter
// knows how to parse.
func buildEvaluationPrompt(req EvaluateRequest) string {
	var sb strings.Builder

	sb.WriteString("You are an AI recruiter. Evaluate how well this candidate fits the job.\n\n")
	sb.WriteString("Job Description:\n")
	sb.WriteString(truncate(req.JobText, maxJobChars))
	sb.WriteString("\n")

	if req.JobRequirements != "" {
		sb.WriteString("\nJob Requirements:\n")
		sb.WriteString(truncate(req.JobRequirements, maxRequirementsChars))
		sb.WriteString("\n")
	}

	sb.WriteString("\nCandidate CV:\n")
	sb.WriteString(truncate(req.CVText, maxCVChars))
	sb.WriteString("\n")

	if len(req.Skills) > 0 {
		skills := req.Skills
		if len(skills) > maxPromptSkills {
			skills = skills[:maxPromptSkills]
		}
		sb.WriteString("\nCandidate Skills: ")
		sb.WriteString(strings.Join(skills, ", "))
		sb.WriteString("\n")
	}

	if req.ExperienceYears > 0 {
		sb.WriteString(fmt.Sprintf("\nCandidate Experience: %.1f years\n", req.ExperienceYears))
	}

	sb.WriteString(`
Evaluate the candidate's suitability for this role. Consider:
1. Technical skills alignment
2. Relevant work experience
3. Education and qualifications
4. Overall fit for the role

Rate suitability on a scale 0-100 for each dimension.

Return your evaluation as JSON in this exact format:
{
  "overall_score": <integer 0-100>,
  "experience_score": <integer 0-100>,
  "skill_score": <integer 0-100>,
  "explanation": "<2-3 sentence explanation of your evaluation>"
}

Important:
- Be objective and fair
- Consider both strengths and weaknesses
- Provide specific reasoning in the explanation
- Return ONLY valid JSON, no additional text
`)

	return sb.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
