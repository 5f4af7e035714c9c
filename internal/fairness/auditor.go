// Package fairness audits batches of scored candidates for cross-group bias.
// The auditor is stateless and fully deterministic: every number and every
// recommendation derives from the input scores alone.
package fairness

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// Defaults mirroring the audit API surface: bias threshold in score points,
// pass threshold for disparate-impact analysis, and the score dimension
// audited when the caller does not pick one.
const (
	DefaultThreshold     = 10.0
	DefaultPassThreshold = 70.0
	DefaultScoreKey      = "overall_score"
)

// DIR inside [0.8, 1.2] is treated as acceptable (four-fifths-rule analog).
const (
	dirAcceptableLow  = 0.8
	dirAcceptableHigh = 1.2
)

// Candidate is one audited record: a group label plus the named scores
// captured for it. Built from stored score records via FromRecords.
type Candidate struct {
	Group  string             `json:"group"`
	Scores map[string]float64 `json:"scores"`
}

// FromRecords converts stored score records into auditable candidates,
// exposing each score dimension under its wire name.
func FromRecords(records []types.ScoreRecord) []Candidate {
	out := make([]Candidate, 0, len(records))
	for _, r := range records {
		out = append(out, Candidate{
			Group: r.Group,
			Scores: map[string]float64{
				"overall_score":    r.OverallScore,
				"match_score":      r.MatchScore,
				"skill_score":      r.SkillScore,
				"experience_score": r.ExperienceScore,
				"education_score":  r.EducationScore,
			},
		})
	}
	return out
}

// Auditor detects scoring bias across candidate groups.
type Auditor struct {
	logger *zap.Logger
}

func NewAuditor(logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{logger: logger}
}

// Audit compares mean scores across groups. Bias is flagged when the gap
// between the highest- and lowest-mean groups exceeds the threshold.
// Insufficient or malformed input yields an explicit well-formed result,
// never an error.
func (a *Auditor) Audit(candidates []Candidate, scoreKey string, threshold float64) types.FairnessAuditResult {
	if scoreKey == "" {
		scoreKey = DefaultScoreKey
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	if len(candidates) < 2 {
		return insufficiencyResult(threshold,
			"Need at least 2 candidates to perform fairness audit",
			"Insufficient data for fairness analysis")
	}

	groups, ok := collectGroups(candidates, scoreKey)
	if !ok {
		return insufficiencyResult(threshold,
			fmt.Sprintf("Missing group label or %q score on one or more candidates", scoreKey),
			"Missing required data fields")
	}

	analysis := make(map[string]types.GroupStats, len(groups))
	names := make([]string, 0, len(groups))
	for name, scores := range groups {
		names = append(names, name)
		analysis[name] = types.GroupStats{
			Mean:   stat.Mean(scores, nil),
			StdDev: sampleStdDev(scores),
			Count:  len(scores),
		}
	}
	sort.Strings(names)

	if len(names) == 1 {
		only := names[0]
		return types.FairnessAuditResult{
			BiasDetected:            false,
			BiasMagnitude:           0,
			StatisticalSignificance: 0.5,
			GroupAnalysis:           analysis,
			Recommendations: []string{
				"All candidates belong to a single group; cross-group comparison is not possible",
				fmt.Sprintf("Group %s: avg %.1f over %d candidates", only, analysis[only].Mean, analysis[only].Count),
			},
			ThresholdUsed: threshold,
			Message:       "Only one candidate group present; no bias comparison performed",
		}
	}

	maxGroup, minGroup := extremeGroups(names, analysis)
	biasMagnitude := types.Round2(analysis[maxGroup].Mean - analysis[minGroup].Mean)
	biasDetected := biasMagnitude > threshold
	significance := significance(groups[maxGroup], groups[minGroup])

	result := types.FairnessAuditResult{
		BiasDetected:            biasDetected,
		BiasMagnitude:           biasMagnitude,
		StatisticalSignificance: significance,
		GroupAnalysis:           analysis,
		Recommendations:         recommendations(biasDetected, biasMagnitude, threshold, maxGroup, minGroup, analysis),
		ThresholdUsed:           threshold,
		Message:                 message(biasDetected, biasMagnitude, threshold),
	}

	a.logger.Debug("fairness audit computed",
		zap.Float64("bias_magnitude", biasMagnitude),
		zap.Bool("bias_detected", biasDetected),
		zap.Int("groups", len(names)))
	return result
}

// ComprehensiveAudit extends Audit with the disparate impact ratio: the pass
// rate of the lowest-mean group over the pass rate of the highest-mean group
// at passThreshold. A ratio outside [0.8, 1.2] flags adverse impact.
func (a *Auditor) ComprehensiveAudit(candidates []Candidate, scoreKey string, threshold, passThreshold float64) types.FairnessAuditResult {
	if passThreshold <= 0 {
		passThreshold = DefaultPassThreshold
	}

	result := a.Audit(candidates, scoreKey, threshold)
	result.MeanScoreDifference = result.BiasMagnitude
	result.PassThreshold = passThreshold
	result.DisparateImpactRatio = 1.0
	if len(result.GroupAnalysis) < 2 {
		return result
	}

	if scoreKey == "" {
		scoreKey = DefaultScoreKey
	}
	groups, ok := collectGroups(candidates, scoreKey)
	if !ok {
		return result
	}

	names := make([]string, 0, len(result.GroupAnalysis))
	for name := range result.GroupAnalysis {
		names = append(names, name)
	}
	sort.Strings(names)
	maxGroup, minGroup := extremeGroups(names, result.GroupAnalysis)

	dir := disparateImpactRatio(
		passRate(groups[minGroup], passThreshold),
		passRate(groups[maxGroup], passThreshold),
	)
	result.DisparateImpactRatio = dir
	result.AdverseImpact = dir < dirAcceptableLow || dir > dirAcceptableHigh
	if result.AdverseImpact {
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Disparate impact ratio %.2f falls outside the acceptable range [%.1f, %.1f] at pass threshold %.0f",
				dir, dirAcceptableLow, dirAcceptableHigh, passThreshold),
			"Review the pass threshold and per-dimension weights for adverse impact on the lowest-scoring group")
	}
	return result
}

// TrendPoint condenses an audit result into the shape persisted for
// historical bias tracking.
func TrendPoint(result types.FairnessAuditResult) types.AuditTrendPoint {
	return types.AuditTrendPoint{
		MeanScoreDifference:  result.MeanScoreDifference,
		DisparateImpactRatio: result.DisparateImpactRatio,
		BiasMagnitude:        result.BiasMagnitude,
		BiasDetected:         result.BiasDetected,
	}
}

func collectGroups(candidates []Candidate, scoreKey string) (map[string][]float64, bool) {
	groups := make(map[string][]float64)
	for _, c := range candidates {
		score, ok := c.Scores[scoreKey]
		if c.Group == "" || !ok {
			return nil, false
		}
		groups[c.Group] = append(groups[c.Group], score)
	}
	return groups, true
}

// extremeGroups returns the highest- and lowest-mean group names. Ties break
// toward the lexicographically first name so audits stay deterministic.
func extremeGroups(sortedNames []string, analysis map[string]types.GroupStats) (maxGroup, minGroup string) {
	maxGroup, minGroup = sortedNames[0], sortedNames[0]
	for _, name := range sortedNames[1:] {
		if analysis[name].Mean > analysis[maxGroup].Mean {
			maxGroup = name
		}
		if analysis[name].Mean < analysis[minGroup].Mean {
			minGroup = name
		}
	}
	return maxGroup, minGroup
}

// significance runs Welch's two-sample t-test between the extreme groups and
// reports 1-p as a confidence-like value in [0,1]. When either group is too
// small or the test degenerates (zero variance on both sides), a bounded
// mean-difference proxy stands in rather than failing.
func significance(maxScores, minScores []float64) float64 {
	diff := stat.Mean(maxScores, nil) - stat.Mean(minScores, nil)
	proxy := math.Min(0.95, math.Abs(diff)/100)

	if len(maxScores) < 2 || len(minScores) < 2 {
		return round3(proxy)
	}

	v1 := stat.Variance(maxScores, nil)
	v2 := stat.Variance(minScores, nil)
	n1 := float64(len(maxScores))
	n2 := float64(len(minScores))

	se2 := v1/n1 + v2/n2
	if se2 <= 0 {
		if diff == 0 {
			return round3(proxy)
		}
		// Identical within-group scores but different means: the gap is as
		// significant as the test can express.
		return 0.95
	}

	t := math.Abs(diff) / math.Sqrt(se2)

	// Welch-Satterthwaite degrees of freedom.
	df := se2 * se2 / ((v1*v1)/(n1*n1*(n1-1)) + (v2*v2)/(n2*n2*(n2-1)))
	if math.IsNaN(df) || df <= 0 {
		return round3(proxy)
	}

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(t)
	conf := 1 - p
	if math.IsNaN(conf) {
		return round3(proxy)
	}
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return round3(conf)
}

func passRate(scores []float64, passThreshold float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	passed := 0
	for _, s := range scores {
		if s >= passThreshold {
			passed++
		}
	}
	return float64(passed) / float64(len(scores))
}

// disparateImpactRatio guards the zero-denominator cases: no group passing at
// all is treated as parity, only the reference group failing as maximal
// disparity. The ratio is capped to [0, 2].
func disparateImpactRatio(lowRate, highRate float64) float64 {
	if highRate == 0 {
		if lowRate == 0 {
			return 1.0
		}
		return 2.0
	}
	dir := lowRate / highRate
	if dir > 2.0 {
		dir = 2.0
	}
	return types.Round2(dir)
}

func recommendations(biasDetected bool, biasMagnitude, threshold float64, maxGroup, minGroup string, analysis map[string]types.GroupStats) []string {
	var recs []string
	if biasDetected {
		recs = append(recs,
			fmt.Sprintf("Potential bias detected: %.2f point difference between groups (threshold: %.0f)", biasMagnitude, threshold),
			"Review scoring criteria for potential bias in skill weightings or evaluation methods",
			"Consider anonymizing candidate data during initial screening",
			"Review job description for biased language that may attract certain groups")
	} else {
		recs = append(recs,
			fmt.Sprintf("No significant bias detected. Score difference (%.2f) is within acceptable threshold (%.0f)", biasMagnitude, threshold))
	}
	recs = append(recs,
		fmt.Sprintf("Highest scoring group: %s (avg: %.1f)", maxGroup, analysis[maxGroup].Mean),
		fmt.Sprintf("Lowest scoring group: %s (avg: %.1f)", minGroup, analysis[minGroup].Mean))
	return recs
}

func message(biasDetected bool, biasMagnitude, threshold float64) string {
	if biasDetected {
		return fmt.Sprintf("Potential bias detected: %.2f point difference across groups exceeds the threshold of %.0f. Review scoring criteria and job requirements.", biasMagnitude, threshold)
	}
	return fmt.Sprintf("No significant bias detected. Score difference (%.2f) is within acceptable threshold (%.0f).", biasMagnitude, threshold)
}

func insufficiencyResult(threshold float64, msg, recommendation string) types.FairnessAuditResult {
	return types.FairnessAuditResult{
		BiasDetected:            false,
		BiasMagnitude:           0,
		StatisticalSignificance: 0,
		GroupAnalysis:           map[string]types.GroupStats{},
		Recommendations:         []string{recommendation},
		ThresholdUsed:           threshold,
		Message:                 msg,
	}
}

// sampleStdDev is the n-1 standard deviation; a single-element group reports 0.
func sampleStdDev(scores []float64) float64 {
	if len(scores) < 2 {
		return 0
	}
	return math.Sqrt(stat.Variance(scores, nil))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
