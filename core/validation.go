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

import "fmt"

// ValidateCorpusItem validates a CorpusItem according to domain rules.
//
// Validation rules:
//   - Kind must be a known corpus kind
//   - Reference must not be empty
//   - At least one of PrimaryText or Translation must be set
//
// NOT validated (populated later):
//   - Vector (can be empty until the ingestion pipeline embeds the item)
//   - ID (derived from Reference at insert time)
func ValidateCorpusItem(item *CorpusItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidCorpusItem)
	}

	if err := ValidateCorpusKind(item.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCorpusItem, err)
	}

	if item.Reference == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCorpusItem, ErrEmptyReference)
	}

	if item.PrimaryText == "" && item.Translation == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCorpusItem, ErrEmptyText)
	}

	return nil
}

// ValidateUser validates a User according to domain rules.
//
// Validation rules:
//   - Email must not be empty
//   - Tier must be a known tier
//
// NOT validated:
//   - UsageLimit (0 falls back to DefaultDailyLimit at creation)
//   - ID (0 is valid from database sequences)
func ValidateUser(user *User) error {
	if user == nil {
		return fmt.Errorf("%w: user is nil", ErrInvalidUser)
	}

	if user.Email == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUser, ErrEmptyEmail)
	}

	if err := ValidateTier(user.Tier); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUser, err)
	}

	return nil
}

// ValidateTurn validates a ConversationTurn according to domain rules.
// The Response field is not validated: failed generation is stored as
// response text, and an empty response is still a recordable outcome.
func ValidateTurn(turn *ConversationTurn) error {
	if turn == nil {
		return fmt.Errorf("%w: turn is nil", ErrInvalidTurn)
	}

	if turn.Query == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTurn, ErrEmptyQuery)
	}

	return nil
}

// ValidateCorpusKind validates that a CorpusKind has a valid value.
func ValidateCorpusKind(kind CorpusKind) error {
	if kind != CorpusKindVerse && kind != CorpusKindNarration && kind != CorpusKindRuling {
		return fmt.Errorf("%w: value %d", ErrInvalidCorpusKind, kind)
	}
	return nil
}

// ValidateTier validates that a Tier has a valid value.
func ValidateTier(tier Tier) error {
	if tier != TierFree && tier != TierPro {
		return fmt.Errorf("%w: value %d", ErrInvalidTier, tier)
	}
	return nil
}
