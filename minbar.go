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

// Package minbar is a retrieval-and-generation engine for answering
// questions against a curated corpus of Quran verses, hadith narrations
// and fiqh rulings. The Assistant type wires storage, AI services and the
// query engine into one handle.
package minbar

import (
	"log/slog"

	"github.com/minbar-ai/minbar/ai"
	"github.com/minbar-ai/minbar/ai/openai"
	"github.com/minbar-ai/minbar/engine"
	"github.com/minbar-ai/minbar/ingestion"
	"github.com/minbar-ai/minbar/storage"
	"github.com/minbar-ai/minbar/storage/badger"
	"github.com/minbar-ai/minbar/websearch"
)

// Assistant bundles the storage backend, the repositories and the AI
// provider behind one lifecycle.
type Assistant struct {
	repos    *badger.Repositories
	provider ai.AIProvider
	web      websearch.Client
	logger   *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig     *ai.Config
	tavilyAPIKey string
}

// WithAIConfig overrides the default AI service configuration.
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		o.aiConfig = config
	}
}

// WithTavilyAPIKey enables the web search fallback.
// Without a key, thin local context is never supplemented.
func WithTavilyAPIKey(key string) AssistantOption {
	return func(o *assistantOptions) {
		o.tavilyAPIKey = key
	}
}

// NewAssistant opens the storage backend at filePath and constructs the
// repositories and AI services.
func NewAssistant(filePath string, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	repos, err := badger.OpenRepositories(filePath, false)
	if err != nil {
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		repos.Close()
		return nil, err
	}

	a := &Assistant{
		repos:    repos,
		provider: provider,
		logger:   slog.Default(),
	}
	if options.tavilyAPIKey != "" {
		a.web = websearch.NewTavilyClient(options.tavilyAPIKey)
	}

	return a, nil
}

// Close releases the AI provider, the repositories and the backend.
func (a *Assistant) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	return a.repos.Close()
}

func (a *Assistant) CorpusRepository() storage.CorpusRepository {
	return a.repos.Corpus
}

func (a *Assistant) UserRepository() storage.UserRepository {
	return a.repos.Users
}

func (a *Assistant) SessionRepository() storage.SessionRepository {
	return a.repos.Sessions
}

func (a *Assistant) HistoryRepository() storage.HistoryRepository {
	return a.repos.History
}

func (a *Assistant) CitationRepository() storage.CitationRepository {
	return a.repos.Citations
}

// NewEngine constructs a query engine over the assistant's repositories
// and AI services. The web search fallback is wired in when the assistant
// was built with a Tavily API key.
func (a *Assistant) NewEngine(opts ...engine.Option) (*engine.Engine, error) {
	if a.web != nil {
		opts = append([]engine.Option{engine.WithWebSearch(a.web)}, opts...)
	}
	return engine.NewEngine(a.repos.Corpus, a.repos.Users, a.repos.Sessions, a.repos.History, a.provider, opts...)
}

// NewIngestionPipeline constructs an ingestion pipeline over the
// assistant's corpus repository and embedding service.
func (a *Assistant) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(a.repos.Corpus, a.provider, opts...)
}
