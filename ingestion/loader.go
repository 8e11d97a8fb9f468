package ingestion

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/minbar-ai/minbar/core"
)

// corpusEntry is the on-disk shape of one corpus item.
type corpusEntry struct {
	Kind        string `json:"kind"`
	Reference   string `json:"reference"`
	School      string `json:"school,omitempty"`
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
}

// LoadCorpusFile parses a corpus JSON file into corpus items.
// The file is a JSON array of objects with kind, reference, text and
// optional translation and school fields.
func LoadCorpusFile(path string) ([]*core.CorpusItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus file: %w", err)
	}

	var entries []corpusEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing corpus file %s: %w", path, err)
	}

	items := make([]*core.CorpusItem, 0, len(entries))
	for i, entry := range entries {
		kind, err := ParseCorpusKind(entry.Kind)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, entry.Reference, err)
		}
		item := &core.CorpusItem{
			Kind:        kind,
			Reference:   entry.Reference,
			School:      entry.School,
			PrimaryText: entry.Text,
			Translation: entry.Translation,
		}
		if err := core.ValidateCorpusItem(item); err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, entry.Reference, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// ParseCorpusKind maps a kind name from a corpus file to its enum value.
func ParseCorpusKind(name string) (core.CorpusKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "verse":
		return core.CorpusKindVerse, nil
	case "narration", "hadith":
		return core.CorpusKindNarration, nil
	case "ruling":
		return core.CorpusKindRuling, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}
