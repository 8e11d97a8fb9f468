package storage

import (
	"context"
	"time"

	"github.com/minbar-ai/minbar/core"
)

// CorpusRepository provides read access to the ingested corpus plus the
// write operations the ingestion pipeline needs. Corpus items are immutable
// after ingestion except for their embedding vector.
type CorpusRepository interface {
	// AddCorpusItems inserts corpus items. IDs are derived from each item's
	// kind and canonical reference, so re-ingesting the same data is
	// idempotent: an existing item is overwritten in place.
	// Sets InsertedAt and UpdatedAt timestamps.
	AddCorpusItems(ctx context.Context, items ...*core.CorpusItem) ([]*core.CorpusItem, error)

	// UpdateCorpusItems updates existing items, typically to attach
	// embedding vectors. Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any item doesn't exist.
	UpdateCorpusItems(ctx context.Context, items ...*core.CorpusItem) ([]*core.CorpusItem, error)

	// GetCorpusItem retrieves a single item by ID.
	// Returns ErrNotFound if the item doesn't exist.
	GetCorpusItem(ctx context.Context, id core.ID) (*core.CorpusItem, error)

	// GetCorpusItems retrieves multiple items by their IDs.
	// Returns only the items that exist (no error for missing items).
	GetCorpusItems(ctx context.Context, ids ...core.ID) ([]*core.CorpusItem, error)

	// ListByKind retrieves every corpus item of one kind, in key order.
	// The ranker scores the full candidate list per query; acceptable at
	// curated-corpus sizes, an index takes over behind the same contract
	// when the corpus grows.
	ListByKind(ctx context.Context, kind core.CorpusKind) ([]*core.CorpusItem, error)

	// ListUnembedded retrieves up to limit items that have no embedding
	// vector yet, for the ingestion pipeline to backfill.
	ListUnembedded(ctx context.Context, limit int) ([]*core.CorpusItem, error)

	// Close closes the repository and releases resources.
	Close() error
}

// UserRepository provides operations for managing users and their quota state.
type UserRepository interface {
	// AddUser inserts a new user, generating its ID from sequence and
	// applying defaults (free tier, DefaultDailyLimit).
	// Returns ErrDuplicateKey if the email is already registered.
	AddUser(ctx context.Context, user *core.User) (*core.User, error)

	// GetUser retrieves a user by ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetUser(ctx context.Context, id core.ID) (*core.User, error)

	// GetUserByEmail retrieves a user by email.
	// Returns ErrNotFound if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*core.User, error)

	// UpdateUser updates an existing user.
	// Returns ErrNotFound if the user doesn't exist.
	UpdateUser(ctx context.Context, user *core.User) (*core.User, error)

	// ResetDailyUsage resets the user's usage count to zero when the last
	// reset happened on an earlier UTC calendar day than now. Idempotent
	// within a day: calling it again without intervening queries changes
	// nothing. Returns the user's current state either way.
	ResetDailyUsage(ctx context.Context, id core.ID, now time.Time) (*core.User, error)

	// Close closes the repository and releases resources.
	Close() error
}

// SessionRepository provides operations for managing conversation sessions.
type SessionRepository interface {
	// AddSession inserts a new session, generating its ID from sequence.
	AddSession(ctx context.Context, session *core.Session) (*core.Session, error)

	// GetSession retrieves a session by ID.
	// Returns ErrNotFound if the session doesn't exist.
	GetSession(ctx context.Context, id core.ID) (*core.Session, error)

	// GetSessionsByUser retrieves all sessions owned by a user.
	GetSessionsByUser(ctx context.Context, userID core.ID) ([]*core.Session, error)

	// DeleteSession removes a session and cascades to every conversation
	// turn recorded under it. Returns ErrNotFound when the session is
	// absent or owned by a different user; the two cases are deliberately
	// indistinguishable.
	DeleteSession(ctx context.Context, id, userID core.ID) error

	// Close closes the repository and releases resources.
	Close() error
}

// HistoryRepository provides operations for conversation turns.
type HistoryRepository interface {
	// RecordTurn persists a conversation turn and counts it against the
	// owning user's daily usage in one atomic transaction, so concurrent
	// queries from the same user cannot lose an increment.
	// Generates the turn ID from sequence and sets CreatedAt.
	RecordTurn(ctx context.Context, turn *core.ConversationTurn) (*core.ConversationTurn, error)

	// GetTurnsBySession retrieves a session's turns in recording order.
	// Returns ErrNotFound when the session is absent or owned by a
	// different user.
	GetTurnsBySession(ctx context.Context, sessionID, userID core.ID) ([]*core.ConversationTurn, error)

	// GetRecentTurns retrieves up to limit of the user's most recent turns,
	// newest first.
	GetRecentTurns(ctx context.Context, userID core.ID, limit int) ([]*core.ConversationTurn, error)

	// DeleteTurn removes one turn. Returns ErrNotFound when the turn is
	// absent or owned by a different user.
	DeleteTurn(ctx context.Context, id, userID core.ID) error

	// DeleteTurnsByUser removes every turn owned by a user.
	DeleteTurnsByUser(ctx context.Context, userID core.ID) error

	// Close closes the repository and releases resources.
	Close() error
}

// CitationRepository provides operations for saved citations.
type CitationRepository interface {
	// AddCitation inserts a saved citation, generating its ID from sequence.
	AddCitation(ctx context.Context, citation *core.SavedCitation) (*core.SavedCitation, error)

	// GetCitationsByUser retrieves all citations saved by a user.
	GetCitationsByUser(ctx context.Context, userID core.ID) ([]*core.SavedCitation, error)

	// DeleteCitation removes one citation. Returns ErrNotFound when the
	// citation is absent or owned by a different user.
	DeleteCitation(ctx context.Context, id, userID core.ID) error

	// Close closes the repository and releases resources.
	Close() error
}
