package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/storage"
)

// UserRepository implements storage.UserRepository for BadgerDB.
type UserRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository.
func NewUserRepository(backend *Backend) (*UserRepository, error) {
	idSeq, err := backend.GetSequence(userIDSeq)
	if err != nil {
		return nil, err
	}

	return &UserRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *UserRepository) Close() error {
	return r.idSeq.Release()
}

// AddUser inserts a new user with defaults applied.
func (r *UserRepository) AddUser(ctx context.Context, user *core.User) (*core.User, error) {
	if user.Tier == 0 {
		user.Tier = core.TierFree
	}
	if user.UsageLimit == 0 {
		user.UsageLimit = core.DefaultDailyLimit
	}
	if err := core.ValidateUser(user); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		emailKey := makeUserEmailKey(user.Email)
		if _, err := tx.Get(emailKey); err == nil {
			return storage.ErrDuplicateKey
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		id, err := nextSequenceID(r.idSeq)
		if err != nil {
			return err
		}
		user.Id = id
		user.CreatedAt = time.Now().UTC()
		user.UpdatedAt = user.CreatedAt

		if err := tx.Set(makeUserKey(user.Id), storage.MarshalUser(user)); err != nil {
			return err
		}
		if err := tx.Set(emailKey, storage.MarshalID(user.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return user, err
}

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id core.ID) (*core.User, error) {
	var user *core.User
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		user, err = readUser(tx, id)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

// GetUserByEmail retrieves a user through the email index.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	var user *core.User
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeUserEmailKey(email))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		user, err = readUser(tx, id)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

// UpdateUser updates an existing user.
func (r *UserRepository) UpdateUser(ctx context.Context, user *core.User) (*core.User, error) {
	err := r.backend.WithRetryTx(func(tx *badger.Txn) error {
		old, err := readUser(tx, user.Id)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		user.UpdatedAt = time.Now().UTC()
		if err := tx.Set(makeUserKey(user.Id), storage.MarshalUser(user)); err != nil {
			return err
		}
		return tx.Commit()
	})

	return user, err
}

// ResetDailyUsage zeroes the usage count when the last reset lies on an
// earlier UTC calendar day. Idempotent within a day and safe under
// concurrent callers: the whole check-and-write runs in one transaction.
func (r *UserRepository) ResetDailyUsage(ctx context.Context, id core.ID, now time.Time) (*core.User, error) {
	var user *core.User
	err := r.backend.WithRetryTx(func(tx *badger.Txn) error {
		var err error
		user, err = readUser(tx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return storage.ErrNotFound
		}

		if !staleReset(user.LastReset, now) {
			return nil
		}

		user.UsageCount = 0
		user.LastReset = now.UTC()
		user.UpdatedAt = now.UTC()
		if err := tx.Set(makeUserKey(user.Id), storage.MarshalUser(user)); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// staleReset reports whether lastReset belongs to a UTC calendar day before
// now's day (or was never set).
func staleReset(lastReset, now time.Time) bool {
	if lastReset.IsZero() {
		return true
	}
	ly, lm, ld := lastReset.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	if ly != ny {
		return ly < ny
	}
	if lm != nm {
		return lm < nm
	}
	return ld < nd
}

// readUser reads one user inside a transaction.
// Returns (nil, nil) when the user does not exist.
func readUser(tx *badger.Txn, id core.ID) (*core.User, error) {
	item, err := tx.Get(makeUserKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user *core.User
	err = item.Value(func(val []byte) error {
		var err error
		user, err = storage.UnmarshalUser(val)
		return err
	})
	return user, err
}

// nextSequenceID draws the next non-zero ID from a sequence.
// BadgerDB sequences can return 0 on first call, so 0 is skipped.
func nextSequenceID(seq *badger.Sequence) (core.ID, error) {
	next, err := seq.Next()
	if err != nil {
		return 0, err
	}
	if next == 0 {
		next, err = seq.Next()
		if err != nil {
			return 0, err
		}
	}
	return core.ID(next), nil
}
