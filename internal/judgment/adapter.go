// Package judgment normalizes external reasoning-model output into typed
// judgment vectors, with neutral fallbacks when no judgment is available.
package judgment

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/xeipuuv/gojsonschema"

	"github.com/bvinca/smartRecruiter/internal/llm"
	"github.com/bvinca/smartRecruiter/internal/types"
)

// responseSchema is the shape the reasoning model is prompted to return.
// Range violations are tolerated here and clamped during coercion; the schema
// only rejects payloads whose fields have the wrong type entirely.
const responseSchema = `{
	"type": "object",
	"required": ["overall_score"],
	"properties": {
		"overall_score":    {"type": "number"},
		"experience_score": {"type": "number"},
		"skill_score":      {"type": "number"},
		"explanation":      {"type": "string"}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(responseSchema)

// rawResponse mirrors the JSON shape of the reasoning model's answer. Fields
// are json.Number so "85", 85 and 85.0 all coerce the same way.
type rawResponse struct {
	OverallScore    json.Number `json:"overall_score"`
	ExperienceScore json.Number `json:"experience_score"`
	SkillScore      json.Number `json:"skill_score"`
	Explanation     string      `json:"explanation"`
}

// Regex salvage patterns for responses that are not valid JSON but still
// contain recognizable "field": number fragments.
var (
	overallPattern     = regexp.MustCompile(`"overall_score"\s*:\s*(\d+)`)
	experiencePattern  = regexp.MustCompile(`"experience_score"\s*:\s*(\d+)`)
	skillPattern       = regexp.MustCompile(`"skill_score"\s*:\s*(\d+)`)
	explanationPattern = regexp.MustCompile(`"explanation"\s*:\s*"([^"]+)"`)
)

// Parse converts a raw reasoning response into a JudgmentVector. Parsing is
// attempted in order: markdown fence cleanup + schema-checked JSON decode,
// then lenient regex salvage, then full neutral fallback with Available=false.
// Numeric fields are coerced to integers and clamped to [0,100], defaulting
// to 50 on any coercion failure.
func Parse(raw string) types.JudgmentVector {
	if raw == "" {
		return types.NeutralJudgment("No reasoning response available. Using fallback scores.")
	}

	cleaned := llm.CleanJSONBlock(raw)

	if v, ok := parseJSON(cleaned); ok {
		return v
	}
	if v, ok := salvage(raw); ok {
		return v
	}

	return types.NeutralJudgment("Reasoning response could not be parsed. Using fallback scores.")
}

// parseJSON attempts a schema-checked structured decode.
func parseJSON(cleaned string) (types.JudgmentVector, bool) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(cleaned))
	if err != nil || !result.Valid() {
		return types.JudgmentVector{}, false
	}

	var resp rawResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return types.JudgmentVector{}, false
	}

	explanation := resp.Explanation
	if explanation == "" {
		explanation = "Evaluation completed"
	}

	return types.JudgmentVector{
		Overall:     coerceScore(resp.OverallScore),
		Experience:  coerceScore(resp.ExperienceScore),
		Skill:       coerceScore(resp.SkillScore),
		Explanation: explanation,
		Available:   true,
	}, true
}

// salvage extracts "field": number fragments from a malformed response.
// At least one score pattern must match for the salvage to count.
func salvage(raw string) (types.JudgmentVector, bool) {
	v := types.JudgmentVector{Overall: 50, Skill: 50, Experience: 50, Available: true}
	found := false

	if m := overallPattern.FindStringSubmatch(raw); m != nil {
		v.Overall = clampInt(atoiOr(m[1], 50))
		found = true
	}
	if m := experiencePattern.FindStringSubmatch(raw); m != nil {
		v.Experience = clampInt(atoiOr(m[1], 50))
		found = true
	}
	if m := skillPattern.FindStringSubmatch(raw); m != nil {
		v.Skill = clampInt(atoiOr(m[1], 50))
		found = true
	}
	if !found {
		return types.JudgmentVector{}, false
	}

	if m := explanationPattern.FindStringSubmatch(raw); m != nil {
		v.Explanation = m[1]
	} else {
		v.Explanation = "Evaluation completed (parsed with fallback)"
	}
	return v, true
}

// coerceScore converts a JSON number to an integer score, clamped to [0,100],
// defaulting to the neutral 50 on any coercion failure.
func coerceScore(n json.Number) int {
	if n == "" {
		return 50
	}
	f, err := n.Float64()
	if err != nil {
		return 50
	}
	return clampInt(int(f))
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func clampInt(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
