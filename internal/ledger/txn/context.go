// Package txn wraps one handler invocation: it exposes the state store,
// a caller-supplied deterministic timestamp, and accumulates the
// invocation's write-set. Nothing in this package reads the host clock.
package txn

import (
	"sort"
	"strings"
	"time"

	"cvchain-backend/internal/ledger/state"
)

// Timestamp is the deterministic transaction time supplied by the
// ordering collaborator. It replaces every wall-clock read inside the
// handlers so replaying a transaction reproduces its output exactly.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

// ISO renders the timestamp the way the stored createdAt/appliedAt
// fields expect: millisecond-precision UTC, trailing Z.
func (ts Timestamp) ISO() string {
	return ts.Time().Format("2006-01-02T15:04:05.000Z07:00")
}

// Context carries one invocation. Reads see the invocation's own prior
// writes (and deletes) but the write-set is invisible to the store until
// the engine commits it.
type Context struct {
	store state.Store
	ts    Timestamp

	writes  []state.Modify
	pending map[string]int // key -> index of its latest entry in writes
}

func New(store state.Store, ts Timestamp) *Context {
	return &Context{
		store:   store,
		ts:      ts,
		pending: make(map[string]int),
	}
}

func (c *Context) Timestamp() Timestamp { return c.ts }

// TxTime returns the ISO-8601 string handlers stamp records with.
func (c *Context) TxTime() string { return c.ts.ISO() }

// GetState returns the value under key, observing the invocation's own
// writes first. Absent keys are (nil, nil).
func (c *Context) GetState(key string) ([]byte, error) {
	if i, ok := c.pending[key]; ok {
		switch data := c.writes[i].Data.(type) {
		case state.Put:
			value := make([]byte, len(data.Value))
			copy(value, data.Value)
			return value, nil
		case state.Delete:
			return nil, nil
		}
	}
	return c.store.Get(key)
}

// PutState records a write in the write-set. The store is untouched
// until the engine commits.
func (c *Context) PutState(key string, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)
	c.append(state.NewPut(key, v))
}

// DelState records a delete in the write-set.
func (c *Context) DelState(key string) {
	c.append(state.NewDelete(key))
}

func (c *Context) append(m state.Modify) {
	c.writes = append(c.writes, m)
	c.pending[m.Key()] = len(c.writes) - 1
}

// Scan iterates the prefix range with the invocation's writes overlaid:
// pending puts appear (replacing stored values), pending deletes hide
// stored values. Results are in ascending key order.
func (c *Context) Scan(prefix string) (state.Iterator, error) {
	it, err := c.store.Scan(prefix)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	merged := make(map[string][]byte)
	for it.Next() {
		merged[it.Key()] = it.Value()
	}
	for key, i := range c.pending {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		switch data := c.writes[i].Data.(type) {
		case state.Put:
			merged[key] = data.Value
		case state.Delete:
			delete(merged, key)
		}
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	items := make([]kv, len(keys))
	for i, key := range keys {
		items[i] = kv{key: key, value: merged[key]}
	}
	return &mergedIter{items: items, pos: -1}, nil
}

// WriteSet returns the accumulated modifications in application order.
// Later writes to a key supersede earlier ones when applied in order, so
// no dedup is needed.
func (c *Context) WriteSet() []state.Modify {
	return c.writes
}

type kv struct {
	key   string
	value []byte
}

type mergedIter struct {
	items []kv
	pos   int
}

func (it *mergedIter) Next() bool {
	it.pos++
	return it.pos < len(it.items)
}

func (it *mergedIter) Key() string   { return it.items[it.pos].key }
func (it *mergedIter) Value() []byte { return it.items[it.pos].value }
func (it *mergedIter) Close() error  { return nil }
