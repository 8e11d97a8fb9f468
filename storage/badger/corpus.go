package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/storage"
)

// CorpusRepository implements storage.CorpusRepository for BadgerDB.
type CorpusRepository struct {
	backend *Backend
	ordSeq  *badger.Sequence
}

var _ storage.CorpusRepository = (*CorpusRepository)(nil)

// NewCorpusRepository creates a new CorpusRepository.
func NewCorpusRepository(backend *Backend) (*CorpusRepository, error) {
	ordSeq, err := backend.GetSequence(corpusOrdSeq)
	if err != nil {
		return nil, err
	}

	return &CorpusRepository{
		backend: backend,
		ordSeq:  ordSeq,
	}, nil
}

// Close releases the ordinal sequence.
func (r *CorpusRepository) Close() error {
	return r.ordSeq.Release()
}

// AddCorpusItems inserts corpus items with content-derived IDs.
// Re-ingesting an existing reference overwrites the stored item in place
// and keeps its position in the kind index, so ingestion order stays the
// canonical order of the corpus file.
func (r *CorpusRepository) AddCorpusItems(ctx context.Context, items ...*core.CorpusItem) ([]*core.CorpusItem, error) {
	for _, item := range items {
		if err := core.ValidateCorpusItem(item); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, item := range items {
			item.Id = core.IDFromContent(item.Kind.String() + ":" + item.Reference)
			item.UpdatedAt = now

			key := makeCorpusKey(item.Id)
			old, err := r.readCorpusItem(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				item.InsertedAt = old.InsertedAt
			} else {
				item.InsertedAt = now

				ord, err := r.ordSeq.Next()
				if err != nil {
					return err
				}
				kindKey := makeCorpusKindKey(item.Kind, ord)
				if err := tx.Set(kindKey, storage.MarshalID(item.Id)); err != nil {
					return err
				}
			}

			if err := tx.Set(key, storage.MarshalCorpusItem(item)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return items, err
}

// UpdateCorpusItems updates existing items, typically with freshly computed
// embedding vectors.
func (r *CorpusRepository) UpdateCorpusItems(ctx context.Context, items ...*core.CorpusItem) ([]*core.CorpusItem, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			key := makeCorpusKey(item.Id)

			old, err := r.readCorpusItem(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			item.UpdatedAt = time.Now().UTC()
			if err := tx.Set(key, storage.MarshalCorpusItem(item)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return items, err
}

// GetCorpusItem retrieves a single corpus item by ID.
func (r *CorpusRepository) GetCorpusItem(ctx context.Context, id core.ID) (*core.CorpusItem, error) {
	var item *core.CorpusItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		item, err = r.readCorpusItem(tx, makeCorpusKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, storage.ErrNotFound
	}
	return item, nil
}

// GetCorpusItems retrieves multiple items; missing IDs are silently skipped.
func (r *CorpusRepository) GetCorpusItems(ctx context.Context, ids ...core.ID) ([]*core.CorpusItem, error) {
	items := make([]*core.CorpusItem, 0, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := r.readCorpusItem(tx, makeCorpusKey(id))
			if err != nil {
				return err
			}
			if item != nil {
				items = append(items, item)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListByKind retrieves every item of one kind via the kind index, in
// first-ingestion order. For a corpus loaded from a canonically ordered
// file this is canonical order, which the ranker's stable sort preserves
// when scores tie.
func (r *CorpusRepository) ListByKind(ctx context.Context, kind core.CorpusKind) ([]*core.CorpusItem, error) {
	if err := core.ValidateCorpusKind(kind); err != nil {
		return nil, err
	}

	var items []*core.CorpusItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialCorpusKindKey(kind)
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

			item, err := r.readCorpusItem(tx, makeCorpusKey(id))
			if err != nil {
				return err
			}
			if item != nil {
				items = append(items, item)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListUnembedded scans for items without an embedding vector, up to limit.
func (r *CorpusRepository) ListUnembedded(ctx context.Context, limit int) ([]*core.CorpusItem, error) {
	if limit <= 0 {
		return nil, nil
	}

	var items []*core.CorpusItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(corpusPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid() && len(items) < limit; iter.Next() {
			var item *core.CorpusItem
			err := iter.Item().Value(func(val []byte) error {
				var err error
				item, err = storage.UnmarshalCorpusItem(val)
				return err
			})
			if err != nil {
				return err
			}
			if item != nil && len(item.Vector) == 0 {
				items = append(items, item)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// readCorpusItem reads one item inside a transaction.
// Returns (nil, nil) when the key does not exist.
func (r *CorpusRepository) readCorpusItem(tx *badger.Txn, key []byte) (*core.CorpusItem, error) {
	badgerItem, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var item *core.CorpusItem
	err = badgerItem.Value(func(val []byte) error {
		var err error
		item, err = storage.UnmarshalCorpusItem(val)
		return err
	})
	return item, err
}
