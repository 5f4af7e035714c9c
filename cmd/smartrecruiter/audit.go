package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bvinca/smartRecruiter/internal/config"
	"github.com/bvinca/smartRecruiter/internal/fairness"
	"github.com/bvinca/smartRecruiter/internal/logger"
)

var (
	auditCandidatesPath string
	auditScoreKey       string
	auditThreshold      float64
	auditPassThreshold  float64
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run a fairness audit over scored candidates",
	Long:  `Run a comprehensive bias audit over a JSON file of scored candidates and print the result.`,
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditCandidatesPath, "candidates", "", "Path to JSON file with an array of {group, scores} entries (required)")
	auditCmd.Flags().StringVar(&auditScoreKey, "score-key", "", "Score key to audit (default overall_score)")
	auditCmd.Flags().Float64Var(&auditThreshold, "threshold", 0, "Bias magnitude threshold (overrides config)")
	auditCmd.Flags().Float64Var(&auditPassThreshold, "pass-threshold", 0, "Pass threshold for disparate impact (overrides config)")
	_ = auditCmd.MarkFlagRequired("candidates")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	var candidates []fairness.Candidate
	if err := readJSONFile(auditCandidatesPath, &candidates); err != nil {
		return err
	}

	threshold := auditThreshold
	if threshold == 0 {
		threshold = cfg.BiasThreshold
	}
	passThreshold := auditPassThreshold
	if passThreshold == 0 {
		passThreshold = cfg.PassThreshold
	}

	result := fairness.NewAuditor(log).ComprehensiveAudit(candidates, auditScoreKey, threshold, passThreshold)
	return printJSON(result)
}
