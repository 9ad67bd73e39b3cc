package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/structlearn/structlearn/pkg/errors"
)

type badgerStorage struct {
	db *badger.DB
}

// NewBadgerStorage opens (or creates) a Badger database at path.
func NewBadgerStorage(path string) (Storage, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &badgerStorage{db: db}, nil
}

func (s *badgerStorage) Put(_ context.Context, key string, value []byte) error {
	if key == "" {
		return errors.ErrEmptyKey
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (s *badgerStorage) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.ErrEmptyKey
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)

		return err
	})
	switch {
	case err == nil:
		return value, nil
	case err == badger.ErrKeyNotFound:
		return nil, errors.ErrNotFound
	default:
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
}

func (s *badgerStorage) Keys(_ context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		pfx := []byte(prefix)
		for it.Seek(pfx); it.ValidForPrefix(pfx); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	sort.Strings(keys)

	return keys, nil
}

func (s *badgerStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.ErrEmptyKey
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *badgerStorage) Close() error {
	return s.db.Close()
}
