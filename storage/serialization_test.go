package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbar-ai/minbar/core"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("verse:Quran 2:43")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalCorpusItem(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		item *core.CorpusItem
	}{
		{
			name: "verse with translation and vector",
			item: &core.CorpusItem{
				Id:          core.IDFromContent("verse:Quran 2:43"),
				Kind:        core.CorpusKindVerse,
				Reference:   "Quran 2:43",
				PrimaryText: "وَأَقِيمُوا الصَّلَاةَ وَآتُوا الزَّكَاةَ",
				Translation: "And establish prayer and give zakat",
				Vector:      []float32{0.1, -0.2, 0.3},
				InsertedAt:  now,
				UpdatedAt:   now,
			},
		},
		{
			name: "ruling without vector",
			item: &core.CorpusItem{
				Id:          core.IDFromContent("ruling:Radd al-Muhtar 2:5"),
				Kind:        core.CorpusKindRuling,
				Reference:   "Radd al-Muhtar 2:5",
				School:      "Hanafi",
				Translation: "Zakat is obligatory on gold above the nisab",
				InsertedAt:  now,
				UpdatedAt:   now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalCorpusItem(tt.item)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalCorpusItem(data)
			require.NoError(t, err)

			assert.Equal(t, tt.item.Id, decoded.Id)
			assert.Equal(t, tt.item.Kind, decoded.Kind)
			assert.Equal(t, tt.item.Reference, decoded.Reference)
			assert.Equal(t, tt.item.School, decoded.School)
			assert.Equal(t, tt.item.PrimaryText, decoded.PrimaryText)
			assert.Equal(t, tt.item.Translation, decoded.Translation)
			assert.True(t, tt.item.InsertedAt.Equal(decoded.InsertedAt))
			assert.True(t, tt.item.UpdatedAt.Equal(decoded.UpdatedAt))
			if len(tt.item.Vector) == 0 {
				assert.Empty(t, decoded.Vector)
			} else {
				assert.Equal(t, tt.item.Vector, decoded.Vector)
			}
		})
	}
}

func TestUnmarshalCorpusItem_Invalid(t *testing.T) {
	_, err := UnmarshalCorpusItem([]byte{0xff})
	assert.Error(t, err)
}

func TestMarshalUnmarshalUser(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	user := &core.User{
		Id:         core.ID(7),
		Email:      "user@example.com",
		Name:       "Test User",
		Tier:       core.TierPro,
		Locale:     "bn",
		School:     "Hanafi",
		UsageCount: 4,
		UsageLimit: 10,
		LastReset:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	decoded, err := UnmarshalUser(MarshalUser(user))
	require.NoError(t, err)

	assert.Equal(t, user.Id, decoded.Id)
	assert.Equal(t, user.Email, decoded.Email)
	assert.Equal(t, user.Name, decoded.Name)
	assert.Equal(t, user.Tier, decoded.Tier)
	assert.Equal(t, user.Locale, decoded.Locale)
	assert.Equal(t, user.School, decoded.School)
	assert.Equal(t, user.UsageCount, decoded.UsageCount)
	assert.Equal(t, user.UsageLimit, decoded.UsageLimit)
	assert.True(t, user.LastReset.Equal(decoded.LastReset))
	assert.True(t, user.CreatedAt.Equal(decoded.CreatedAt))
	assert.True(t, user.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestMarshalUnmarshalSession(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	session := &core.Session{
		Id:        core.ID(3),
		UserId:    core.ID(7),
		Title:     "Who must pay zakat?",
		CreatedAt: now,
	}

	decoded, err := UnmarshalSession(MarshalSession(session))
	require.NoError(t, err)

	assert.Equal(t, session.Id, decoded.Id)
	assert.Equal(t, session.UserId, decoded.UserId)
	assert.Equal(t, session.Title, decoded.Title)
	assert.True(t, session.CreatedAt.Equal(decoded.CreatedAt))
}

func TestMarshalUnmarshalTurn(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	turn := &core.ConversationTurn{
		Id:        core.ID(11),
		SessionId: core.ID(3),
		UserId:    core.ID(7),
		Query:     "Who must pay zakat?",
		Response:  "Zakat is due from every Muslim whose wealth exceeds the nisab.",
		Locale:    "en",
		CreatedAt: now,
	}

	decoded, err := UnmarshalTurn(MarshalTurn(turn))
	require.NoError(t, err)

	assert.Equal(t, turn.Id, decoded.Id)
	assert.Equal(t, turn.SessionId, decoded.SessionId)
	assert.Equal(t, turn.UserId, decoded.UserId)
	assert.Equal(t, turn.Query, decoded.Query)
	assert.Equal(t, turn.Response, decoded.Response)
	assert.Equal(t, turn.Locale, decoded.Locale)
	assert.True(t, turn.CreatedAt.Equal(decoded.CreatedAt))
}

func TestMarshalUnmarshalCitation(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	citation := &core.SavedCitation{
		Id:         core.ID(5),
		UserId:     core.ID(7),
		SourceType: "web",
		SourceRef:  "https://example.org/zakat",
		Content:    "Guidance on zakat thresholds",
		CreatedAt:  now,
	}

	decoded, err := UnmarshalCitation(MarshalCitation(citation))
	require.NoError(t, err)

	assert.Equal(t, citation.Id, decoded.Id)
	assert.Equal(t, citation.UserId, decoded.UserId)
	assert.Equal(t, citation.SourceType, decoded.SourceType)
	assert.Equal(t, citation.SourceRef, decoded.SourceRef)
	assert.Equal(t, citation.Content, decoded.Content)
	assert.True(t, citation.CreatedAt.Equal(decoded.CreatedAt))
}
