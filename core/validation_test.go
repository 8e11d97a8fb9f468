package core

import (
	"errors"
	"testing"
)

func TestValidateCorpusItem(t *testing.T) {
	tests := []struct {
		name    string
		item    *CorpusItem
		wantErr error
	}{
		{
			name: "valid item",
			item: &CorpusItem{
				Kind:        CorpusKindVerse,
				Reference:   "Quran 2:43",
				PrimaryText: "وَأَقِيمُوا الصَّلَاةَ وَآتُوا الزَّكَاةَ",
				Translation: "And establish prayer and give zakah",
			},
			wantErr: nil,
		},
		{
			name: "valid item with translation only",
			item: &CorpusItem{
				Kind:        CorpusKindRuling,
				Reference:   "Zakat on savings",
				School:      "Hanafi",
				Translation: "Zakat becomes due after one lunar year",
			},
			wantErr: nil,
		},
		{
			name: "valid item without vector",
			item: &CorpusItem{
				Kind:        CorpusKindNarration,
				Reference:   "Sahih al-Bukhari 1395",
				PrimaryText: "...",
				Vector:      nil,
			},
			wantErr: nil,
		},
		{
			name:    "nil item",
			item:    nil,
			wantErr: ErrInvalidCorpusItem,
		},
		{
			name: "unknown kind",
			item: &CorpusItem{
				Kind:        CorpusKind(99),
				Reference:   "Quran 2:43",
				PrimaryText: "...",
			},
			wantErr: ErrInvalidCorpusKind,
		},
		{
			name: "empty reference",
			item: &CorpusItem{
				Kind:        CorpusKindVerse,
				PrimaryText: "...",
			},
			wantErr: ErrEmptyReference,
		},
		{
			name: "no text at all",
			item: &CorpusItem{
				Kind:      CorpusKindVerse,
				Reference: "Quran 2:43",
			},
			wantErr: ErrEmptyText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCorpusItem(tt.item)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCorpusItem() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateCorpusItem() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCorpusItem() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUser(t *testing.T) {
	tests := []struct {
		name    string
		user    *User
		wantErr error
	}{
		{
			name:    "valid user",
			user:    &User{Email: "amina@example.com", Tier: TierFree},
			wantErr: nil,
		},
		{
			name:    "valid pro user",
			user:    &User{Email: "omar@example.com", Tier: TierPro, Locale: "bn", School: "Hanafi"},
			wantErr: nil,
		},
		{
			name:    "valid user with ID 0",
			user:    &User{Id: 0, Email: "new@example.com", Tier: TierFree},
			wantErr: nil,
		},
		{
			name:    "nil user",
			user:    nil,
			wantErr: ErrInvalidUser,
		},
		{
			name:    "empty email",
			user:    &User{Tier: TierFree},
			wantErr: ErrEmptyEmail,
		},
		{
			name:    "unknown tier",
			user:    &User{Email: "amina@example.com", Tier: Tier(99)},
			wantErr: ErrInvalidTier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUser(tt.user)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateUser() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateUser() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateUser() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTurn(t *testing.T) {
	tests := []struct {
		name    string
		turn    *ConversationTurn
		wantErr error
	}{
		{
			name:    "valid turn",
			turn:    &ConversationTurn{SessionId: 1, UserId: 1, Query: "what is zakat", Response: "..."},
			wantErr: nil,
		},
		{
			name:    "empty response is recordable",
			turn:    &ConversationTurn{SessionId: 1, UserId: 1, Query: "what is zakat"},
			wantErr: nil,
		},
		{
			name:    "nil turn",
			turn:    nil,
			wantErr: ErrInvalidTurn,
		},
		{
			name:    "empty query",
			turn:    &ConversationTurn{SessionId: 1, UserId: 1},
			wantErr: ErrEmptyQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTurn(tt.turn)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTurn() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateTurn() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTurn() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
