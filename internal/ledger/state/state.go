package state

// ModifyType is the smallest unit of mutation of the ledger's underlying
// key-value storage.
type ModifyType int

const (
	ModifyTypePut ModifyType = iota + 1
	ModifyTypeDelete
)

// Put writes Value under Key.
type Put struct {
	Key   string
	Value []byte
}

// Delete removes Key.
type Delete struct {
	Key string
}

// Modify is one entry of a write-set. Data is either a Put or a Delete.
type Modify struct {
	Type ModifyType
	Data interface{}
}

func NewPut(key string, value []byte) Modify {
	return Modify{Type: ModifyTypePut, Data: Put{Key: key, Value: value}}
}

func NewDelete(key string) Modify {
	return Modify{Type: ModifyTypeDelete, Data: Delete{Key: key}}
}

// Key returns the key the modification applies to.
func (m Modify) Key() string {
	switch data := m.Data.(type) {
	case Put:
		return data.Key
	case Delete:
		return data.Key
	}
	return ""
}

// Store is the ordered key-value map every ledger component builds on.
// Implementations must be deterministic: the same operations against the
// same starting state always produce the same state and the same returned
// values. An absent key is (nil, nil), never an error.
type Store interface {
	// Get returns the value stored under key, or nil if absent.
	Get(key string) ([]byte, error)
	// Scan returns an iterator over all keys with the given prefix, in
	// ascending key order. An empty prefix scans the whole store.
	Scan(prefix string) (Iterator, error)
	// Write applies a whole write-set atomically: either every
	// modification is applied or none is.
	Write(batch []Modify) error
	Close() error
}

// Iterator walks key/value pairs in ascending key order.
//
//	it, _ := store.Scan("job:")
//	defer it.Close()
//	for it.Next() {
//	    _ = it.Key()
//	    _ = it.Value()
//	}
type Iterator interface {
	Next() bool
	Key() string
	Value() []byte
	Close() error
}

// PrefixEnd returns the smallest key greater than every key that has the
// given prefix, or "" when no such key exists (all-0xff prefix).
func PrefixEnd(prefix string) string {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1])
		}
	}
	return ""
}
