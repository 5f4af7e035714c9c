package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bvinca/smartRecruiter/internal/config"
	"github.com/bvinca/smartRecruiter/internal/db"
	"github.com/bvinca/smartRecruiter/internal/fairness"
	"github.com/bvinca/smartRecruiter/internal/judgment"
	"github.com/bvinca/smartRecruiter/internal/llm"
	"github.com/bvinca/smartRecruiter/internal/logger"
	"github.com/bvinca/smartRecruiter/internal/metrics"
	"github.com/bvinca/smartRecruiter/internal/scoring"
	"github.com/bvinca/smartRecruiter/internal/server"
	"github.com/bvinca/smartRecruiter/internal/weights"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scoring REST API server",
	Long:  `Start an HTTP server that exposes scoring, feedback, weight and fairness-audit endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Verbose = true
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	log, err := logger.New(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck // stderr sync failures are unactionable

	ctx := cmd.Context()
	m := metrics.New()

	// Providers: no API key means degraded feature-only scoring, not a
	// startup failure.
	var (
		embedder llm.EmbeddingProvider
		judge    scoring.Judge
	)
	if cfg.GeminiAPIKey != "" {
		providerCfg := llm.DefaultConfig()
		if cfg.ReasoningModel != "" {
			providerCfg.ReasoningModel = cfg.ReasoningModel
		}
		if cfg.EmbeddingModel != "" {
			providerCfg.EmbeddingModel = cfg.EmbeddingModel
		}
		providerCfg.Timeout = cfg.ProviderTimeout
		providerCfg.MaxRetries = cfg.ProviderRetries

		client, err := llm.NewGeminiClient(ctx, providerCfg, cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create provider client: %w", err)
		}
		defer client.Close() //nolint:errcheck
		embedder = client
		judge = judgment.NewEvaluator(client, log)
	} else {
		log.Warn("GEMINI_API_KEY not set, scoring degrades to heuristic features only")
	}

	// Storage: PostgreSQL when configured, in-memory otherwise.
	var (
		weightStore weights.Store
		store       server.Persistence
	)
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		defer database.Close()
		weightStore = db.NewWeightStore(database)
		store = database
	} else {
		log.Warn("DATABASE_URL not set, running with in-memory storage")
		weightStore = weights.NewMemoryStore()
	}

	engine, err := scoring.NewEngine(embedder, judge, weightStore, scoring.EngineConfig{
		SemanticWeight: cfg.SemanticWeight,
		Logger:         log,
		Metrics:        m,
	})
	if err != nil {
		return err
	}

	learner, err := weights.NewLearner(weightStore, cfg.LearningRate, log)
	if err != nil {
		return err
	}

	var jwtService *server.JWTService
	if cfg.JWTSecret != "" {
		if jwtService, err = server.NewJWTService(cfg.JWTSecret, cfg.JWTExpirationHours); err != nil {
			return err
		}
	} else {
		log.Warn("JWT_SECRET not set, authentication disabled")
	}

	srv, err := server.New(cfg, server.Deps{
		Engine:      engine,
		Learner:     learner,
		WeightStore: weightStore,
		Auditor:     fairness.NewAuditor(log),
		Store:       store,
		JWTService:  jwtService,
		Logger:      log,
		Metrics:     m,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.Bool("database", cfg.DatabaseURL != ""),
		zap.Bool("providers", cfg.GeminiAPIKey != ""))
	return srv.Start()
}
