package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/storage"
)

// SessionRepository implements storage.SessionRepository for BadgerDB.
type SessionRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(backend *Backend) (*SessionRepository, error) {
	idSeq, err := backend.GetSequence(sessionIDSeq)
	if err != nil {
		return nil, err
	}

	return &SessionRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *SessionRepository) Close() error {
	return r.idSeq.Release()
}

// AddSession inserts a new session.
func (r *SessionRepository) AddSession(ctx context.Context, session *core.Session) (*core.Session, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, err := nextSequenceID(r.idSeq)
		if err != nil {
			return err
		}
		session.Id = id
		session.CreatedAt = time.Now().UTC()

		if err := tx.Set(makeSessionKey(session.Id), storage.MarshalSession(session)); err != nil {
			return err
		}
		userKey := makeSessionUserKey(session.UserId, session.Id)
		if err := tx.Set(userKey, storage.MarshalID(session.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return session, err
}

// GetSession retrieves a session by ID.
func (r *SessionRepository) GetSession(ctx context.Context, id core.ID) (*core.Session, error) {
	var session *core.Session
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		session, err = readSession(tx, id)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, storage.ErrNotFound
	}
	return session, nil
}

// GetSessionsByUser retrieves all sessions owned by a user, oldest first.
func (r *SessionRepository) GetSessionsByUser(ctx context.Context, userID core.ID) ([]*core.Session, error) {
	var sessions []*core.Session
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialSessionUserKey(userID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			session, err := readSession(tx, id)
			if err != nil {
				return err
			}
			if session != nil {
				sessions = append(sessions, session)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// DeleteSession removes a session and every turn recorded under it.
// A missing session and a session owned by someone else both report
// ErrNotFound.
func (r *SessionRepository) DeleteSession(ctx context.Context, id, userID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		session, err := readSession(tx, id)
		if err != nil {
			return err
		}
		if session == nil || session.UserId != userID {
			return storage.ErrNotFound
		}

		// Cascade: collect the session's turns, then drop each turn with
		// its index entries.
		turnIDs, err := collectIndexedIDs(tx, makePartialTurnSessionKey(id))
		if err != nil {
			return err
		}
		for _, turnID := range turnIDs {
			turn, err := readTurn(tx, turnID)
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

		if err := tx.Delete(makeSessionKey(id)); err != nil {
			return err
		}
		if err := tx.Delete(makeSessionUserKey(session.UserId, id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readSession reads one session inside a transaction.
// Returns (nil, nil) when the session does not exist.
func readSession(tx *badger.Txn, id core.ID) (*core.Session, error) {
	item, err := tx.Get(makeSessionKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session *core.Session
	err = item.Value(func(val []byte) error {
		var err error
		session, err = storage.UnmarshalSession(val)
		return err
	})
	return session, err
}

// collectIndexedIDs gathers all IDs stored under an index prefix.
func collectIndexedIDs(tx *badger.Txn, prefix []byte) ([]core.ID, error) {
	var ids []core.ID
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var id core.ID
		err := iter.Item().Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
