package state

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore is a durable Store on a local badger database. One write-set
// maps to one badger transaction, which gives the all-or-nothing commit
// the ledger requires.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *BadgerStore) Scan(prefix string) (Iterator, error) {
	// Snapshot the matching range up front; the handlers consume whole
	// result sets anyway and it keeps the badger txn short-lived.
	var items []memItem
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			items = append(items, memItem{key: string(item.KeyCopy(nil)), value: value})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &memIter{items: items, pos: -1}, nil
}

func (s *BadgerStore) Write(batch []Modify) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, m := range batch {
			switch data := m.Data.(type) {
			case Put:
				if err := txn.Set([]byte(data.Key), data.Value); err != nil {
					return err
				}
			case Delete:
				if err := txn.Delete([]byte(data.Key)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
