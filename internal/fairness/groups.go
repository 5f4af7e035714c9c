package fairness

import (
	"strings"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// Proxy group labels derived from education data. Education is the only
// demographic-adjacent signal the parsed resume carries; it stands in for a
// real protected attribute, which the system never collects.
const (
	GroupSTEM        = "stem"
	GroupNonSTEM     = "non_stem"
	GroupNoEducation = "no_education"
	GroupUnknown     = "unknown"
)

var stemGroupKeywords = []string{"computer", "engineering", "science", "technology", "math", "statistics"}

// GroupByEducation labels a candidate by the STEM-ness of their degrees.
func GroupByEducation(resume types.ParsedResume) string {
	if len(resume.Education) == 0 {
		return GroupNoEducation
	}

	var sb strings.Builder
	for _, e := range resume.Education {
		sb.WriteString(strings.ToLower(e.Degree))
		sb.WriteString(" ")
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return GroupUnknown
	}

	for _, kw := range stemGroupKeywords {
		if strings.Contains(text, kw) {
			return GroupSTEM
		}
	}
	return GroupNonSTEM
}
