// Copyright 2025 Minbar AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
	"time"
)

// EmbeddingDim is the dimensionality of the embedding model in use
// (all-MiniLM-L6-v2 class models produce 384-dimensional vectors).
const EmbeddingDim = 384

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingToken authenticates against the embedding service.
	// Local OpenAI-compatible servers accept any non-empty token.
	EmbeddingToken string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "all-minilm", "text-embedding-3-small"
	EmbeddingModel string

	// GenerationHost is the base URL for the answer generation API.
	// Default is the Groq OpenAI-compatible endpoint.
	GenerationHost string

	// GenerationToken authenticates against the generation service.
	// Defaults to "none" so the client constructs without an ambient
	// OPENAI_API_KEY; the backend rejects it at call time, where the
	// generator's error-as-text contract absorbs the failure.
	GenerationToken string

	// GenerationModels is the ordered model preference list, most capable
	// first. The generator walks this list when a model is rate limited.
	GenerationModels []string

	// Temperature for answer generation. Default: 0.2
	Temperature float64

	// EmbedTimeout bounds a single embedding call. Default: 15s
	EmbedTimeout time.Duration

	// GenerateTimeout bounds a single generation call. A timeout is treated
	// like a rate limit: the generator moves on to the next model. Default: 90s
	GenerateTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEmbeddingToken sets the embedding service API token.
func WithEmbeddingToken(token string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingToken = token
	}
}

// WithGenerationHost sets the generation service host URL.
func WithGenerationHost(host string) ConfigOption {
	return func(c *Config) {
		c.GenerationHost = host
	}
}

// WithGenerationToken sets the generation service API token.
func WithGenerationToken(token string) ConfigOption {
	return func(c *Config) {
		c.GenerationToken = token
	}
}

// WithGenerationModels sets the ordered model preference list.
func WithGenerationModels(models ...string) ConfigOption {
	return func(c *Config) {
		c.GenerationModels = models
	}
}

// WithTemperature sets the generation temperature.
func WithTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

// WithTimeouts sets the per-call timeouts for embedding and generation.
func WithTimeouts(embed, generate time.Duration) ConfigOption {
	return func(c *Config) {
		c.EmbedTimeout = embed
		c.GenerateTimeout = generate
	}
}

// DefaultConfig returns a Config with defaults for a local OpenAI-compatible
// embedding service and the Groq generation endpoint.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:   "http://localhost:11434/v1",
		EmbeddingToken:  "none",
		EmbeddingModel:  "all-minilm",
		GenerationHost:  "https://api.groq.com/openai/v1",
		GenerationToken: "none",
		GenerationModels: []string{
			"llama-3.3-70b-versatile",
			"llama-3.1-70b-versatile",
			"mixtral-8x7b-32768",
			"llama3-8b-8192",
		},
		Temperature:     0.2,
		EmbedTimeout:    15 * time.Second,
		GenerateTimeout: 90 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithEmbeddingHost("http://localhost:11434/v1"),
//	    ai.WithGenerationToken(apiKey),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, Groq, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	if c.GenerationHost != "" && !strings.HasSuffix(c.GenerationHost, "/v1") {
		c.GenerationHost = strings.TrimSuffix(c.GenerationHost, "/")
		c.GenerationHost = c.GenerationHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.GenerationHost == "" {
		return errors.New("ai config: GenerationHost is required")
	}
	if len(c.GenerationModels) == 0 {
		return errors.New("ai config: at least one generation model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	if c.EmbedTimeout <= 0 || c.GenerateTimeout <= 0 {
		return errors.New("ai config: timeouts must be positive")
	}
	return nil
}
