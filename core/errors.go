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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidCorpusItem indicates a CorpusItem failed validation.
	ErrInvalidCorpusItem = errors.New("invalid corpus item")

	// ErrInvalidUser indicates a User failed validation.
	ErrInvalidUser = errors.New("invalid user")

	// ErrInvalidTurn indicates a ConversationTurn failed validation.
	ErrInvalidTurn = errors.New("invalid conversation turn")

	// ErrInvalidCorpusKind indicates an invalid CorpusKind value.
	ErrInvalidCorpusKind = errors.New("invalid corpus kind")

	// ErrInvalidTier indicates an invalid Tier value.
	ErrInvalidTier = errors.New("invalid tier")

	// ErrEmptyReference indicates the Reference field is empty.
	ErrEmptyReference = errors.New("reference cannot be empty")

	// ErrEmptyText indicates a corpus item carries no text at all.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyEmail indicates the Email field is empty.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrEmptyQuery indicates the Query field is empty.
	ErrEmptyQuery = errors.New("query cannot be empty")
)
