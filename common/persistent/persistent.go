// Package persistent provides a BadgerDB backed key/value store shared
// by multiple services, each with its own key namespace.
package persistent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"go.uber.org/multierr"

	cmnBackoff "github.com/nupic-community/seedrand/common/backoff"
	cmnBadger "github.com/nupic-community/seedrand/common/badger"
	"github.com/nupic-community/seedrand/common/cbor"
	"github.com/nupic-community/seedrand/common/logging"
)

const (
	dbName = "persistent-store.badger.db"

	// DefaultOpenTimeout is how long NewCommonStore keeps retrying a
	// database locked by another process.
	DefaultOpenTimeout = 5 * time.Second

	keySeparator = "/"
)

var (
	// ErrNotFound is the error returned when the requested key is not found.
	ErrNotFound = errors.New("persistent: key not found")

	// ErrExists is the error returned when a key that must be absent is
	// already present.
	ErrExists = errors.New("persistent: key already exists")

	// ErrInvalidKey is the error returned for empty keys or service names.
	ErrInvalidKey = errors.New("persistent: invalid key")
)

// Options are the store options.
type Options struct {
	// SyncWrites makes every write durable before it returns.
	SyncWrites bool
	// InMemory keeps the store in memory only (dataDir is ignored).
	InMemory bool
	// OpenTimeout bounds retries when the database directory is locked.
	OpenTimeout time.Duration
	// GCInterval is the value log GC interval.
	GCInterval time.Duration
}

// CommonStore is the common persistent store.
type CommonStore struct {
	logger *logging.Logger

	db *badger.DB
	gc *cmnBadger.GCWorker
}

// Close closes the database handle.
func (cs *CommonStore) Close() error {
	cs.gc.Close()

	err := cs.db.Close()
	if err != nil {
		cs.logger.Error("failed to close persistent store",
			"err", err,
		)
	}
	return err
}

// GetServiceStore returns a handle to a per-service bucket.
func (cs *CommonStore) GetServiceStore(name string) (*ServiceStore, error) {
	if name == "" || strings.Contains(name, keySeparator) {
		return nil, fmt.Errorf("%w: service name '%s'", ErrInvalidKey, name)
	}

	return &ServiceStore{
		store:  cs,
		prefix: []byte(name + keySeparator),
	}, nil
}

// NewCommonStore opens the common persistent store in the provided
// directory.
func NewCommonStore(ctx context.Context, dataDir string, opts Options) (*CommonStore, error) {
	cs := &CommonStore{
		logger: logging.GetLogger("common/persistent"),
	}

	dbOpts := badger.DefaultOptions(filepath.Join(dataDir, dbName))
	if opts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	dbOpts = dbOpts.WithLogger(cmnBadger.NewLogAdapter(cs.logger))
	dbOpts = dbOpts.WithSyncWrites(opts.SyncWrites)
	dbOpts = dbOpts.WithCompression(options.None)

	timeout := opts.OpenTimeout
	if timeout <= 0 {
		timeout = DefaultOpenTimeout
	}

	open := func() error {
		db, err := badger.Open(dbOpts)
		switch {
		case err == nil:
			cs.db = db
			return nil
		case isLockError(err):
			cs.logger.Warn("persistent store is locked, retrying",
				"err", err,
			)
			return err
		default:
			return backoff.Permanent(err)
		}
	}
	bo := backoff.WithContext(cmnBackoff.NewExponentialBackOff(timeout), ctx)
	if err := backoff.Retry(open, bo); err != nil {
		return nil, fmt.Errorf("failed to open persistent store: %w", err)
	}
	cs.gc = cmnBadger.NewGCWorker(cs.logger, cs.db, opts.GCInterval)

	return cs, nil
}

func isLockError(err error) bool {
	return strings.Contains(err.Error(), "Cannot acquire directory lock")
}

// ServiceStore is a handle to a per-service bucket.
type ServiceStore struct {
	store  *CommonStore
	prefix []byte
}

// GetCBOR is a helper for retrieving CBOR-serialized values.
func (ss *ServiceStore) GetCBOR(key []byte, value interface{}) error {
	if len(key) == 0 {
		return ErrInvalidKey
	}

	return ss.store.db.View(func(tx *badger.Txn) error {
		item, txErr := tx.Get(ss.dbKey(key))
		switch txErr {
		case nil:
		case badger.ErrKeyNotFound:
			return ErrNotFound
		default:
			return txErr
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, value)
		})
	})
}

// PutCBOR is a helper for storing CBOR-serialized values.
func (ss *ServiceStore) PutCBOR(key []byte, value interface{}) error {
	if len(key) == 0 {
		return ErrInvalidKey
	}

	return ss.store.db.Update(func(tx *badger.Txn) error {
		return tx.Set(ss.dbKey(key), cbor.Marshal(value))
	})
}

// InsertCBOR stores a CBOR-serialized value unless the key is already
// present, in which case ErrExists is returned.
func (ss *ServiceStore) InsertCBOR(key []byte, value interface{}) error {
	if len(key) == 0 {
		return ErrInvalidKey
	}

	return ss.store.db.Update(func(tx *badger.Txn) error {
		dbKey := ss.dbKey(key)
		switch _, err := tx.Get(dbKey); err {
		case nil:
			return ErrExists
		case badger.ErrKeyNotFound:
		default:
			return err
		}
		return tx.Set(dbKey, cbor.Marshal(value))
	})
}

// Delete removes the specified key from the service store. Deleting a
// missing key returns ErrNotFound.
func (ss *ServiceStore) Delete(key []byte) error {
	if len(key) == 0 {
		return ErrInvalidKey
	}

	return ss.store.db.Update(func(tx *badger.Txn) error {
		dbKey := ss.dbKey(key)
		switch _, err := tx.Get(dbKey); err {
		case nil:
		case badger.ErrKeyNotFound:
			return ErrNotFound
		default:
			return err
		}
		return tx.Delete(dbKey)
	})
}

// Keys returns all keys in the service store, in lexicographic order.
func (ss *ServiceStore) Keys() ([][]byte, error) {
	var keys [][]byte
	err := ss.store.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = ss.prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := bytes.TrimPrefix(it.Item().KeyCopy(nil), ss.prefix)
			keys = append(keys, key)
		}
		return nil
	})
	return keys, err
}

func (ss *ServiceStore) dbKey(key []byte) []byte {
	return append(append([]byte{}, ss.prefix...), key...)
}

// CloseAll closes all given stores, combining any errors.
func CloseAll(stores ...*CommonStore) error {
	var err error
	for _, s := range stores {
		if s == nil {
			continue
		}
		err = multierr.Append(err, s.Close())
	}
	return err
}
