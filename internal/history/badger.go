package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "upload:"

type BadgerStore struct {
	db         *badger.DB
	maxEntries int
}

// NewBadgerStore opens (or creates) the history database at dbPath. Once more
// than maxEntries documents are recorded the oldest ones are pruned.
func NewBadgerStore(dbPath string, maxEntries int) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable logging

	return open(opts, maxEntries)
}

// NewInMemoryStore opens a history database that lives only in memory
func NewInMemoryStore(maxEntries int) (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts, maxEntries)
}

func open(opts badger.Options, maxEntries int) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &BadgerStore{db: db, maxEntries: maxEntries}, nil
}

func entryKey(path string) []byte {
	return []byte(keyPrefix + path)
}

func (s *BadgerStore) Record(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(entry.Path), data)
	}); err != nil {
		return fmt.Errorf("failed to store history entry: %w", err)
	}

	return s.prune()
}

func (s *BadgerStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	entries, err := s.all()
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

func (s *BadgerStore) Forget(ctx context.Context, path string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(entryKey(path))
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// all returns every entry sorted by IndexedAt descending
func (s *BadgerStore) all() ([]Entry, error) {
	var entries []Entry
	prefix := []byte(keyPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var entry Entry
				if err := json.Unmarshal(val, &entry); err != nil {
					return err
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve history: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].IndexedAt.After(entries[j].IndexedAt)
	})

	return entries, nil
}

func (s *BadgerStore) prune() error {
	if s.maxEntries <= 0 {
		return nil
	}

	entries, err := s.all()
	if err != nil {
		return err
	}
	if len(entries) <= s.maxEntries {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, entry := range entries[s.maxEntries:] {
			if err := txn.Delete(entryKey(entry.Path)); err != nil {
				return err
			}
		}
		return nil
	})
}
