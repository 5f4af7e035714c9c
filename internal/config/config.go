// Package config provides configuration loading and validation for the
// scoring service. Values come from an optional JSON file merged with
// environment variables; the environment wins.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds everything the service and the offline CLI commands need.
// All fields are optional in the file; missing values use defaults or must
// be provided via environment/CLI flags.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty runs in-memory

	// Providers
	GeminiAPIKey    string        `json:"api_key,omitempty"`         // Gemini API key; empty degrades to feature-only scoring
	ReasoningModel  string        `json:"reasoning_model,omitempty"` // Model used for candidate judgments
	EmbeddingModel  string        `json:"embedding_model,omitempty"` // Model used for text embeddings
	ProviderTimeout time.Duration `json:"-"`
	ProviderRetries int           `json:"provider_retries,omitempty"`

	// Scoring
	SemanticWeight float64 `json:"semantic_weight,omitempty"` // Semantic vs judgment blend per dimension (0.0-1.0)
	LearningRate   float64 `json:"learning_rate,omitempty"`   // Weight recalibration EMA rate (0.0-1.0]

	// Fairness
	BiasThreshold float64 `json:"bias_threshold,omitempty"` // Max acceptable mean-score gap between groups
	PassThreshold float64 `json:"pass_threshold,omitempty"` // Pass cutoff for disparate impact analysis

	// Auth
	JWTSecret          string `json:"-"` // Never read from file; env only
	JWTExpirationHours int    `json:"jwt_expiration_hours,omitempty"`

	Verbose bool `json:"verbose,omitempty"` // Debug-level logging
}

// Defaults for everything a deployment does not pin.
const (
	DefaultPort               = 8080
	DefaultSemanticWeight     = 0.5
	DefaultLearningRate       = 0.1
	DefaultBiasThreshold      = 10.0
	DefaultPassThreshold      = 70.0
	DefaultProviderTimeout    = 10 * time.Second
	DefaultProviderRetries    = 3
	DefaultJWTExpirationHours = 24
)

// Default returns a config populated with the compiled-in defaults.
func Default() *Config {
	return &Config{
		Port:               DefaultPort,
		SemanticWeight:     DefaultSemanticWeight,
		LearningRate:       DefaultLearningRate,
		BiasThreshold:      DefaultBiasThreshold,
		PassThreshold:      DefaultPassThreshold,
		ProviderTimeout:    DefaultProviderTimeout,
		ProviderRetries:    DefaultProviderRetries,
		JWTExpirationHours: DefaultJWTExpirationHours,
	}
}

// Load builds the effective configuration: defaults, then the JSON file at
// path (if non-empty), then environment variables. Returns an error if the
// file cannot be read or parsed, or if the merged result is invalid.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return nil
}

// mergeEnv overlays environment variables onto the config.
func (c *Config) mergeEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err)
		}
		c.JWTExpirationHours = hours
	}
	if v := os.Getenv("SEMANTIC_WEIGHT"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SEMANTIC_WEIGHT: %w", err)
		}
		c.SemanticWeight = w
	}
	if v := os.Getenv("LEARNING_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid LEARNING_RATE: %w", err)
		}
		c.LearningRate = r
	}
	if v := os.Getenv("BIAS_THRESHOLD"); v != "" {
		th, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid BIAS_THRESHOLD: %w", err)
		}
		c.BiasThreshold = th
	}
	return nil
}

// Validate checks numeric ranges. Required-field checks (API key, JWT secret)
// are done by the commands that need them, so offline commands can run with a
// minimal environment.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be in 1-65535, got %d", c.Port)
	}
	if c.SemanticWeight < 0 || c.SemanticWeight > 1 {
		return fmt.Errorf("config error: 'semantic_weight' must be between 0.0 and 1.0, got %v", c.SemanticWeight)
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("config error: 'learning_rate' must be in (0.0, 1.0], got %v", c.LearningRate)
	}
	if c.BiasThreshold <= 0 {
		return fmt.Errorf("config error: 'bias_threshold' must be positive, got %v", c.BiasThreshold)
	}
	if c.PassThreshold <= 0 || c.PassThreshold > 100 {
		return fmt.Errorf("config error: 'pass_threshold' must be in (0, 100], got %v", c.PassThreshold)
	}
	if c.ProviderRetries < 1 {
		return fmt.Errorf("config error: 'provider_retries' must be at least 1, got %d", c.ProviderRetries)
	}
	if c.JWTExpirationHours < 1 {
		return fmt.Errorf("config error: 'jwt_expiration_hours' must be at least 1, got %d", c.JWTExpirationHours)
	}
	return nil
}
