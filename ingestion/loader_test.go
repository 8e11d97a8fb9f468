package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbar-ai/minbar/core"
)

func writeCorpusFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadCorpusFile(t *testing.T) {
	path := writeCorpusFile(t, `[
		{
			"kind": "verse",
			"reference": "Quran 2:43",
			"text": "وَأَقِيمُوا الصَّلَاةَ وَآتُوا الزَّكَاةَ",
			"translation": "And establish prayer and give zakat"
		},
		{
			"kind": "hadith",
			"reference": "Sahih al-Bukhari 1395",
			"text": "Narration about the obligation of zakat"
		},
		{
			"kind": "ruling",
			"reference": "Radd al-Muhtar 2:5",
			"school": "Hanafi",
			"text": "Zakat is obligatory on gold above the nisab"
		}
	]`)

	items, err := LoadCorpusFile(path)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, core.CorpusKindVerse, items[0].Kind)
	assert.Equal(t, "Quran 2:43", items[0].Reference)
	assert.Equal(t, "And establish prayer and give zakat", items[0].Translation)

	// "hadith" is accepted as an alias for narration.
	assert.Equal(t, core.CorpusKindNarration, items[1].Kind)

	assert.Equal(t, core.CorpusKindRuling, items[2].Kind)
	assert.Equal(t, "Hanafi", items[2].School)
}

func TestLoadCorpusFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCorpusFile(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeCorpusFile(t, `{"not": "an array"}`)
		_, err := LoadCorpusFile(path)
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		path := writeCorpusFile(t, `[{"kind": "poem", "reference": "X 1", "text": "text"}]`)
		_, err := LoadCorpusFile(path)
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("invalid entry", func(t *testing.T) {
		path := writeCorpusFile(t, `[{"kind": "verse", "reference": "Quran 2:43"}]`)
		_, err := LoadCorpusFile(path)
		assert.ErrorIs(t, err, core.ErrEmptyText)
		assert.Contains(t, err.Error(), "Quran 2:43")
	})
}

func TestParseCorpusKind(t *testing.T) {
	tests := []struct {
		name string
		want core.CorpusKind
	}{
		{"verse", core.CorpusKindVerse},
		{"narration", core.CorpusKindNarration},
		{"hadith", core.CorpusKindNarration},
		{"ruling", core.CorpusKindRuling},
		{" Verse ", core.CorpusKindVerse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := ParseCorpusKind(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := ParseCorpusKind("poem")
		assert.ErrorIs(t, err, ErrUnknownKind)
	})
}
