package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/storage"
)

// HistoryRepository implements storage.HistoryRepository for BadgerDB.
type HistoryRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(backend *Backend) (*HistoryRepository, error) {
	idSeq, err := backend.GetSequence(turnIDSeq)
	if err != nil {
		return nil, err
	}

	return &HistoryRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *HistoryRepository) Close() error {
	return r.idSeq.Release()
}

// RecordTurn persists the turn and increments the owning user's usage count
// in the same transaction. The transaction retries on conflict, so a racing
// query from the same user cannot erase the increment.
func (r *HistoryRepository) RecordTurn(ctx context.Context, turn *core.ConversationTurn) (*core.ConversationTurn, error) {
	if err := core.ValidateTurn(turn); err != nil {
		return nil, err
	}

	err := r.backend.WithRetryTx(func(tx *badger.Txn) error {
		user, err := readUser(tx, turn.UserId)
		if err != nil {
			return err
		}
		if user == nil {
			return storage.ErrNotFound
		}

		id, err := nextSequenceID(r.idSeq)
		if err != nil {
			return err
		}
		turn.Id = id
		turn.CreatedAt = time.Now().UTC()

		if err := tx.Set(makeTurnKey(turn.Id), storage.MarshalTurn(turn)); err != nil {
			return err
		}
		if err := tx.Set(makeTurnSessionKey(turn.SessionId, turn.Id), storage.MarshalID(turn.Id)); err != nil {
			return err
		}
		if err := tx.Set(makeTurnUserKey(turn.UserId, turn.Id), storage.MarshalID(turn.Id)); err != nil {
			return err
		}

		user.UsageCount++
		user.UpdatedAt = turn.CreatedAt
		if err := tx.Set(makeUserKey(user.Id), storage.MarshalUser(user)); err != nil {
			return err
		}
		return tx.Commit()
	})

	return turn, err
}

// GetTurnsBySession retrieves a session's turns in recording order, after
// checking the session belongs to the requesting user.
func (r *HistoryRepository) GetTurnsBySession(ctx context.Context, sessionID, userID core.ID) ([]*core.ConversationTurn, error) {
	var turns []*core.ConversationTurn
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		session, err := readSession(tx, sessionID)
		if err != nil {
			return err
		}
		if session == nil || session.UserId != userID {
			return storage.ErrNotFound
		}

		ids, err := collectIndexedIDs(tx, makePartialTurnSessionKey(sessionID))
		if err != nil {
			return err
		}
		for _, id := range ids {
			turn, err := readTurn(tx, id)
			if err != nil {
				return err
			}
			if turn != nil {
				turns = append(turns, turn)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return turns, nil
}

// GetRecentTurns retrieves up to limit of the user's turns, newest first.
func (r *HistoryRepository) GetRecentTurns(ctx context.Context, userID core.ID, limit int) ([]*core.ConversationTurn, error) {
	if limit <= 0 {
		return nil, nil
	}

	var turns []*core.ConversationTurn
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := collectIndexedIDs(tx, makePartialTurnUserKey(userID))
		if err != nil {
			return err
		}
		// Index order is oldest first; walk backwards for newest first.
		for i := len(ids) - 1; i >= 0 && len(turns) < limit; i-- {
			turn, err := readTurn(tx, ids[i])
			if err != nil {
				return err
			}
			if turn != nil {
				turns = append(turns, turn)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return turns, nil
}

// DeleteTurn removes one turn. Absent and foreign turns both report
// ErrNotFound.
func (r *HistoryRepository) DeleteTurn(ctx context.Context, id, userID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		turn, err := readTurn(tx, id)
		if err != nil {
			return err
		}
		if turn == nil || turn.UserId != userID {
			return storage.ErrNotFound
		}

		if err := deleteTurnKeys(tx, turn); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DeleteTurnsByUser removes every turn owned by a user.
func (r *HistoryRepository) DeleteTurnsByUser(ctx context.Context, userID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := collectIndexedIDs(tx, makePartialTurnUserKey(userID))
		if err != nil {
			return err
		}
		for _, id := range ids {
			turn, err := readTurn(tx, id)
			if err != nil {
				return err
			}
			if turn == nil {
				continue
			}
			if err := deleteTurnKeys(tx, turn); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readTurn reads one turn inside a transaction.
// Returns (nil, nil) when the turn does not exist.
func readTurn(tx *badger.Txn, id core.ID) (*core.ConversationTurn, error) {
	item, err := tx.Get(makeTurnKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var turn *core.ConversationTurn
	err = item.Value(func(val []byte) error {
		var err error
		turn, err = storage.UnmarshalTurn(val)
		return err
	})
	return turn, err
}

// deleteTurnKeys drops a turn's primary record and both index entries.
func deleteTurnKeys(tx *badger.Txn, turn *core.ConversationTurn) error {
	if err := tx.Delete(makeTurnKey(turn.Id)); err != nil {
		return err
	}
	if err := tx.Delete(makeTurnSessionKey(turn.SessionId, turn.Id)); err != nil {
		return err
	}
	return tx.Delete(makeTurnUserKey(turn.UserId, turn.Id))
}
