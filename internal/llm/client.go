// Package llm provides the external embedding and reasoning providers used by
// the scoring engine. Both are abstracted behind interfaces so the engine can
// degrade to feature-only scoring when no provider is configured.
package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// EvaluateRequest carries the inputs for one reasoning-model evaluation.
type EvaluateRequest struct {
	CVText          string
	JobText         string
	JobRequirements string
	Skills          []string
	ExperienceYears float64
}

// EmbeddingProvider produces a fixed-dimensionality embedding for a text.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ReasoningProvider evaluates a candidate against a job and returns the raw
// model response text for the judgment adapter to parse.
type ReasoningProvider interface {
	Evaluate(ctx context.Context, req EvaluateRequest) (string, error)
}

// GeminiClient implements EmbeddingProvider and ReasoningProvider on Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a Gemini-backed provider client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: config}, nil
}

// Embed generates an embedding for the given text. Calls are retried with
// exponential backoff and bounded by the configured per-attempt timeout.
func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float64, error) {
	model := c.client.EmbeddingModel(c.config.EmbeddingModel)

	values, err := withRetry(ctx, c.config, func(ctx context.Context) ([]float32, error) {
		resp, err := model.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, fmt.Errorf("failed to embed content: %w", err)
		}
		if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
			return nil, fmt.Errorf("embedding response is empty")
		}
		return resp.Embedding.Values, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out, nil
}

// Evaluate asks the reasoning model to judge the candidate against the job and
// returns the raw response text. Calls are retried with exponential backoff.
func (c *GeminiClient) Evaluate(ctx context.Context, req EvaluateRequest) (string, error) {
	model := c.client.GenerativeModel(c.config.ReasoningModel)
	model.SetTemperature(0.3) // Low temperature for consistent scoring

	prompt := buildEvaluationPrompt(req)

	return withRetry(ctx, c.config, func(ctx context.Context) (string, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		return extractTextFromResponse(resp)
	})
}

// Close releases the underlying client resources.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// extractTextFromResponse concatenates the text parts of the first candidate.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("response contains no candidates")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	if text == "" {
		return "", fmt.Errorf("response contains no text parts")
	}
	return text, nil
}
