package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bvinca/smartRecruiter/internal/config"
	"github.com/bvinca/smartRecruiter/internal/judgment"
	"github.com/bvinca/smartRecruiter/internal/llm"
	"github.com/bvinca/smartRecruiter/internal/logger"
	"github.com/bvinca/smartRecruiter/internal/scoring"
	"github.com/bvinca/smartRecruiter/internal/types"
	"github.com/bvinca/smartRecruiter/internal/weights"
)

var (
	scoreCandidatesPath string
	scoreJobPath        string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score candidates from files",
	Long:  `Score a batch of candidates against one job posting, both read from JSON files, and print the score records.`,
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreCandidatesPath, "candidates", "", "Path to JSON file with an array of parsed resumes (required)")
	scoreCmd.Flags().StringVar(&scoreJobPath, "job", "", "Path to JSON file with the job posting (required)")
	_ = scoreCmd.MarkFlagRequired("candidates")
	_ = scoreCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	var resumes []types.ParsedResume
	if err := readJSONFile(scoreCandidatesPath, &resumes); err != nil {
		return err
	}
	var job types.JobPosting
	if err := readJSONFile(scoreJobPath, &job); err != nil {
		return err
	}

	ctx := cmd.Context()

	var (
		embedder llm.EmbeddingProvider
		judge    scoring.Judge
	)
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create provider client: %w", err)
		}
		defer client.Close() //nolint:errcheck
		embedder = client
		judge = judgment.NewEvaluator(client, log)
	}

	engine, err := scoring.NewEngine(embedder, judge, weights.NewMemoryStore(), scoring.EngineConfig{
		SemanticWeight: cfg.SemanticWeight,
		Logger:         log,
	})
	if err != nil {
		return err
	}

	jobID := uuid.New()
	inputs := make([]scoring.ScoreInput, len(resumes))
	for i, resume := range resumes {
		inputs[i] = scoring.ScoreInput{
			CandidateID: uuid.New(),
			JobID:       jobID,
			Resume:      resume,
			Job:         job,
		}
	}

	records, err := engine.ScoreBatch(ctx, inputs)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	return printJSON(records)
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
