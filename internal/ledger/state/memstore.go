package state

import (
	"strings"
	"sync"

	"github.com/google/btree"
)

type memItem struct {
	key   string
	value []byte
}

func memLess(a, b memItem) bool {
	return a.key < b.key
}

// MemStore is an ordered in-memory Store. Data is not written to disk;
// it backs tests and the "memory" state backend.
type MemStore struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[memItem]
}

func NewMemStore() *MemStore {
	return &MemStore{tree: btree.NewG(32, memLess)}
}

func (s *MemStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.tree.Get(memItem{key: key})
	if !ok {
		return nil, nil
	}
	value := make([]byte, len(item.value))
	copy(value, item.value)
	return value, nil
}

func (s *MemStore) Scan(prefix string) (Iterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []memItem
	s.tree.AscendGreaterOrEqual(memItem{key: prefix}, func(item memItem) bool {
		if !strings.HasPrefix(item.key, prefix) {
			return false
		}
		value := make([]byte, len(item.value))
		copy(value, item.value)
		items = append(items, memItem{key: item.key, value: value})
		return true
	})
	return &memIter{items: items, pos: -1}, nil
}

func (s *MemStore) Write(batch []Modify) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range batch {
		switch data := m.Data.(type) {
		case Put:
			value := make([]byte, len(data.Value))
			copy(value, data.Value)
			s.tree.ReplaceOrInsert(memItem{key: data.Key, value: value})
		case Delete:
			s.tree.Delete(memItem{key: data.Key})
		}
	}
	return nil
}

func (s *MemStore) Close() error { return nil }

// Len returns the number of stored keys. Test helper.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

// memIter iterates over a snapshot taken at Scan time, so mutations during
// iteration do not affect results.
type memIter struct {
	items []memItem
	pos   int
}

func (it *memIter) Next() bool {
	it.pos++
	return it.pos < len(it.items)
}

func (it *memIter) Key() string   { return it.items[it.pos].key }
func (it *memIter) Value() []byte { return it.items[it.pos].value }
func (it *memIter) Close() error  { return nil }
