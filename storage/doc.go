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


// Package storage provides the storage abstraction layer for Minbar.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic: the corpus, users with their quota
// state, sessions, conversation history, and saved citations. The query
// engine holds only transient references to stored records for the duration
// of one query; all durable state is owned here.
//
// Two invariants live in this layer rather than in the engine:
//
//   - HistoryRepository.RecordTurn persists a conversation turn and counts
//     it against the owner's daily usage atomically, so concurrent queries
//     from the same user cannot lose a quota increment.
//   - Ownership-scoped reads and deletes report ErrNotFound both for
//     missing records and for records owned by another user, so callers
//     cannot distinguish the two cases.
//
// The storage/badger sub-package implements every interface on BadgerDB.
// Records are serialized with the hand-written MUS codecs in package core.
package storage
