package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bvinca/smartRecruiter/internal/config"
	"github.com/bvinca/smartRecruiter/internal/db"
	"github.com/bvinca/smartRecruiter/internal/logger"
	"github.com/bvinca/smartRecruiter/internal/types"
	"github.com/bvinca/smartRecruiter/internal/weights"
)

var (
	weightsRecruiterID  string
	weightsJobID        string
	weightsFeedbackPath string
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Inspect stored weight vectors",
	Long:  `Resolve the weight vector for a scope through the fallback chain and print it.`,
	RunE:  runWeights,
}

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Recalibrate weights from a feedback file",
	Long:  `Read historical feedback samples from a JSON file, recalibrate each scope found in it, and print the updated vectors.`,
	RunE:  runLearn,
}

func init() {
	weightsCmd.PersistentFlags().StringVar(&weightsRecruiterID, "recruiter", "", "Recruiter UUID scope component")
	weightsCmd.PersistentFlags().StringVar(&weightsJobID, "job", "", "Job UUID scope component")
	learnCmd.Flags().StringVar(&weightsFeedbackPath, "feedback", "", "Path to JSON file with an array of feedback samples (required)")
	_ = learnCmd.MarkFlagRequired("feedback")
	weightsCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(weightsCmd)
}

func scopeFromFlags() (types.WeightScope, error) {
	var scope types.WeightScope
	if weightsRecruiterID != "" {
		id, err := uuid.Parse(weightsRecruiterID)
		if err != nil {
			return scope, fmt.Errorf("invalid recruiter ID: %w", err)
		}
		scope.RecruiterID = &id
	}
	if weightsJobID != "" {
		id, err := uuid.Parse(weightsJobID)
		if err != nil {
			return scope, fmt.Errorf("invalid job ID: %w", err)
		}
		scope.JobID = &id
	}
	return scope, nil
}

func openWeightStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (weights.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory weights (defaults only)")
		return weights.NewMemoryStore(), func() {}, nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, err
	}
	return db.NewWeightStore(database), database.Close, nil
}

func runWeights(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	scope, err := scopeFromFlags()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, closeStore, err := openWeightStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	vector, err := store.Resolve(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to resolve weights: %w", err)
	}
	return printJSON(map[string]any{"scope": scope, "weights": vector})
}

func runLearn(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	var samples []types.FeedbackSample
	if err := readJSONFile(weightsFeedbackPath, &samples); err != nil {
		return err
	}

	ctx := cmd.Context()
	store, closeStore, err := openWeightStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	learner, err := weights.NewLearner(store, cfg.LearningRate, log)
	if err != nil {
		return err
	}

	updated := make(map[string]types.WeightVector)
	for key, batch := range weights.ScopedSamples(samples) {
		vector, err := learner.Learn(ctx, batch[0].Scope, batch)
		if err != nil {
			return fmt.Errorf("recalibration failed for scope %s: %w", key, err)
		}
		updated[key] = vector
	}
	return printJSON(updated)
}
