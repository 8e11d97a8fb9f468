package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Corpus items use content-based IDs derived from their canonical reference;
// users, sessions, turns and citations use database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// CorpusKind identifies the type of a corpus item.
type CorpusKind int

const (
	// CorpusKindVerse is a Quran verse.
	CorpusKindVerse CorpusKind = iota + 1
	// CorpusKindNarration is a hadith narration.
	CorpusKindNarration
	// CorpusKindRuling is a fiqh ruling.
	CorpusKindRuling
)

// CorpusKinds lists every corpus kind in canonical retrieval order.
var CorpusKinds = []CorpusKind{CorpusKindVerse, CorpusKindNarration, CorpusKindRuling}

// String returns the lowercase name used in citations and CLI output.
func (k CorpusKind) String() string {
	switch k {
	case CorpusKindVerse:
		return "verse"
	case CorpusKindNarration:
		return "narration"
	case CorpusKindRuling:
		return "ruling"
	default:
		return "unknown"
	}
}

// CorpusItem is one retrievable unit of source text.
// Items are immutable after ingestion except for their embedding vector,
// which may be filled in later by the ingestion pipeline.
type CorpusItem struct {
	Id          ID
	Kind        CorpusKind
	Reference   string // Canonical citation, e.g. "Quran 2:43" or "Sahih al-Bukhari 1395"
	School      string // Madhhab attribution, set only for rulings
	PrimaryText string // Source-language text
	Translation string // English translation, may be empty
	Vector      []float32
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// Text returns the text used for retrieval context: the translation when
// available, otherwise the primary text.
func (c *CorpusItem) Text() string {
	if c.Translation != "" {
		return c.Translation
	}
	return c.PrimaryText
}

// Tier is a user's subscription class controlling quota exemption.
type Tier int

const (
	// TierFree is the default tier, subject to the daily query limit.
	TierFree Tier = iota + 1
	// TierPro is exempt from the daily query limit.
	TierPro
)

// String returns the lowercase tier name.
func (t Tier) String() string {
	switch t {
	case TierFree:
		return "free"
	case TierPro:
		return "pro"
	default:
		return "unknown"
	}
}

// DefaultDailyLimit is the daily query budget for free-tier users.
const DefaultDailyLimit = 10

// User is an authenticated identity with quota state and answer preferences.
// Credentials are owned by the authentication layer and never stored here.
type User struct {
	Id         ID
	Email      string
	Name       string
	Tier       Tier
	Locale     string // Response language preference, e.g. "en", "bn"
	School     string // Preferred madhhab, empty for no preference
	UsageCount int
	UsageLimit int
	LastReset  time.Time // Start of the usage day currently being counted
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Session groups conversation turns under a user-visible title.
type Session struct {
	Id        ID
	UserId    ID
	Title     string
	CreatedAt time.Time
}

// SessionTitleRunes is the maximum length of an auto-generated session title.
const SessionTitleRunes = 64

// TitleFromQuery derives a session title from the first query of a session.
func TitleFromQuery(query string) string {
	runes := []rune(query)
	if len(runes) <= SessionTitleRunes {
		return query
	}
	return string(runes[:SessionTitleRunes])
}

// ConversationTurn is one query/response exchange. Turns are created exactly
// once per generated answer and never mutated afterwards.
type ConversationTurn struct {
	Id        ID
	SessionId ID
	UserId    ID
	Query     string
	Response  string
	Locale    string
	CreatedAt time.Time
}

// SavedCitation is a source reference a user chose to keep.
type SavedCitation struct {
	Id         ID
	UserId     ID
	SourceType string // "verse", "narration", "ruling" or "web"
	SourceRef  string // Citation string or URL
	Content    string
	CreatedAt  time.Time
}

// QueryMode selects standard single-answer generation versus comparative
// multi-school generation.
type QueryMode string

const (
	ModeStandard    QueryMode = "standard"
	ModeComparative QueryMode = "comparative"
)

// Schools lists the recognized fiqh schools in the order used by
// comparative answers.
var Schools = []string{"Hanafi", "Maliki", "Shafi'i", "Hanbali"}

// IsRecognizedSchool reports whether name is one of the recognized schools.
func IsRecognizedSchool(name string) bool {
	for _, s := range Schools {
		if s == name {
			return true
		}
	}
	return false
}
