package llm

import "time"

// Config holds provider model names and call budgets.
type Config struct {
	ReasoningModel string        `json:"reasoning_model,omitempty"`
	EmbeddingModel string        `json:"embedding_model,omitempty"`
	Timeout        time.Duration `json:"-"` // per-attempt timeout
	MaxRetries     int           `json:"max_retries,omitempty"`
}

// DefaultConfig returns the default provider configuration: Gemini Flash for
// reasoning, the text embedding model, 10s per attempt, 3 attempts total.
func DefaultConfig() *Config {
	return &Config{
		ReasoningModel: "gemini-1.5-flash",
		EmbeddingModel: "text-embedding-004",
		Timeout:        10 * time.Second,
		MaxRetries:     3,
	}
}
