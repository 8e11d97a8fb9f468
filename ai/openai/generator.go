package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/minbar-ai/minbar/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator against an OpenAI-compatible chat API.
// It walks an ordered model preference list, skipping rate-limited models,
// and encodes every failure into the returned answer text.
type Generator struct {
	client      llms.Model
	models      []string
	temperature float64
	timeout     time.Duration
	logger      *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GenerationHost),
		openai.WithToken(config.GenerationToken),
		openai.WithModel(config.GenerationModels[0]),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		models:      config.GenerationModels,
		temperature: config.Temperature,
		timeout:     config.GenerateTimeout,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate produces an answer for the given system prompt and query.
// See ai.Generator for the failure contract: the returned text always
// exists, even when every backend model failed.
func (g *Generator) Generate(ctx context.Context, systemPrompt, query string) string {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(query),
			},
		},
	}

	var lastErr error
	for _, model := range g.models {
		text, err := g.generateOnce(ctx, model, content)
		if err == nil {
			return text
		}
		lastErr = err

		if isRateLimited(err) {
			g.logger.Warn("model rate limited, trying next", "model", model, "err", err)
			continue
		}

		g.logger.Error("generation failed", "model", model, "err", err)
		return fmt.Sprintf("Error from generation backend (%s): %s", model, err)
	}

	g.logger.Error("all generation models exhausted", "models", len(g.models), "err", lastErr)
	return fmt.Sprintf("All generation models rate limited or unavailable. Last error: %s", lastErr)
}

// generateOnce issues a single call against one model, bounded by the
// configured timeout.
func (g *Generator) generateOnce(ctx context.Context, model string, content []llms.MessageContent) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithModel(model),
		llms.WithTemperature(g.temperature),
	)
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", errors.New("backend returned no choices")
	}
	return response.Choices[0].Content, nil
}

// isRateLimited classifies an error as a rate limit. A per-call timeout is
// treated the same way so the next model still gets a chance.
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate_limit_exceeded") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "429")
}
