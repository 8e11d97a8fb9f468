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

// Package ingestion loads corpus files into storage and backfills
// embedding vectors.
//
// Loading and embedding are decoupled: items land in storage immediately
// with no vector, and the backfill pipeline batches unembedded items
// through the embedding service on a worker pool, retrying transient
// failures with exponential backoff. Re-ingesting a file is idempotent
// because corpus IDs derive from each item's kind and reference.
package ingestion
