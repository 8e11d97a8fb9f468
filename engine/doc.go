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

// Package engine sequences one question through the answering pipeline.
//
// The Engine type runs each query through a fixed series of stages:
//   - Quota check (the only stage that can deny a query outright)
//   - Session resolution (create from the query, or verify ownership)
//   - Query embedding and per-kind semantic ranking over the local corpus
//   - Web search fallback when local context is thin
//   - Prompt assembly and generation against the model preference list
//   - Atomic persistence of the conversation turn and the usage count
//
// Every retrieval stage degrades in place rather than failing the query: a
// dead embedding service means an empty ranking, a dead search API means no
// web supplement. Once the quota check passes, generation is always
// attempted and its output is always persisted, even when that output is an
// error message from the generation backend.
package engine
