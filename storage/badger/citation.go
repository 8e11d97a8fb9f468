package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/storage"
)

// CitationRepository implements storage.CitationRepository for BadgerDB.
type CitationRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.CitationRepository = (*CitationRepository)(nil)

// NewCitationRepository creates a new CitationRepository.
func NewCitationRepository(backend *Backend) (*CitationRepository, error) {
	idSeq, err := backend.GetSequence(citationIDSeq)
	if err != nil {
		return nil, err
	}

	return &CitationRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *CitationRepository) Close() error {
	return r.idSeq.Release()
}

// AddCitation inserts a saved citation.
func (r *CitationRepository) AddCitation(ctx context.Context, citation *core.SavedCitation) (*core.SavedCitation, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, err := nextSequenceID(r.idSeq)
		if err != nil {
			return err
		}
		citation.Id = id
		citation.CreatedAt = time.Now().UTC()

		if err := tx.Set(makeCitationKey(citation.Id), storage.MarshalCitation(citation)); err != nil {
			return err
		}
		userKey := makeCitationUserKey(citation.UserId, citation.Id)
		if err := tx.Set(userKey, storage.MarshalID(citation.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return citation, err
}

// GetCitationsByUser retrieves all citations saved by a user, oldest first.
func (r *CitationRepository) GetCitationsByUser(ctx context.Context, userID core.ID) ([]*core.SavedCitation, error) {
	var citations []*core.SavedCitation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := collectIndexedIDs(tx, makePartialCitationUserKey(userID))
		if err != nil {
			return err
		}
		for _, id := range ids {
			citation, err := readCitation(tx, id)
			if err != nil {
				return err
			}
			if citation != nil {
				citations = append(citations, citation)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return citations, nil
}

// DeleteCitation removes one citation. Absent and foreign citations both
// report ErrNotFound.
func (r *CitationRepository) DeleteCitation(ctx context.Context, id, userID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		citation, err := readCitation(tx, id)
		if err != nil {
			return err
		}
		if citation == nil || citation.UserId != userID {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeCitationKey(id)); err != nil {
			return err
		}
		if err := tx.Delete(makeCitationUserKey(citation.UserId, id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readCitation reads one citation inside a transaction.
// Returns (nil, nil) when the citation does not exist.
func readCitation(tx *badger.Txn, id core.ID) (*core.SavedCitation, error) {
	item, err := tx.Get(makeCitationKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var citation *core.SavedCitation
	err = item.Value(func(val []byte) error {
		var err error
		citation, err = storage.UnmarshalCitation(val)
		return err
	})
	return citation, err
}
