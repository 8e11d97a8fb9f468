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


// Package ai provides abstractions for the AI services used in Minbar.
//
// This package defines interfaces for text embedding and answer generation.
// The query engine and ingestion pipeline depend only on these abstractions,
// never on a concrete backend.
//
// # Design Principles
//
// The package is designed around three interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Generator: Produces answers from a system prompt and a query,
//     walking an ordered model preference list
//   - AIProvider: Aggregates both services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//     (Groq for generation, any OpenAI-compatible host for embeddings)
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Generator Failure Contract
//
// Generator.Generate never returns an error. A backend failure is encoded in
// the returned text: rate-limited models are skipped in preference order, any
// other error short-circuits with a message naming the failing model, and
// exhausting the whole list yields a summary including the last error. The
// query engine persists whatever text comes back as the conversation
// response, so there must always be one.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithGenerationToken(apiKey))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "establish prayer and give zakah")
//	answer := provider.Generator().Generate(ctx, systemPrompt, query)
package ai
