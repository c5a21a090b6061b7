package index

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/discogo/internal/hash"
)

// DB is a loaded, immutable index. It is safe for concurrent readers.
type DB struct {
	h      *header
	size   int
	values [][]byte
	keys   [][]byte
	items  [][]uint32
	hashed map[string]int

	valueIDsOnce sync.Once
	valueIDs     map[string]uint32
}

// Load decodes a serialized index.
//
// Uncompressed indexes reference data directly; the caller must keep data
// valid (e.g. keep the file mapped) for the lifetime of the DB.
func Load(data []byte) (*DB, error) {
	h, err := unmarshalHeader(data)
	if err != nil {
		return nil, err
	}

	stored := data[headerSize:]
	if err := hash.Verify(stored, h.checksum); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChecksum, err)
	}

	raw, err := h.rawSize()
	if err != nil {
		return nil, err
	}
	body, err := decompress(h.compression, stored, raw)
	if err != nil {
		return nil, err
	}
	if len(body) != raw {
		return nil, fmt.Errorf("%w: body is %d bytes, header says %d", ErrInvalidFormat, len(body), raw)
	}

	db := &DB{
		h:    h,
		size: len(data),
	}
	if err := db.decode(body); err != nil {
		return nil, err
	}

	if h.flags&flagHashed != 0 {
		db.hashed = make(map[string]int, len(db.keys))
		for i, k := range db.keys {
			db.hashed[string(k)] = i
		}
	}
	return db, nil
}

func (db *DB) decode(body []byte) error {
	h := db.h
	valuesEnd := h.valuesSize
	keysEnd := valuesEnd + h.keysSize

	// Every entry takes at least one byte, which bounds the preallocation.
	if uint64(h.numUnique) > h.valuesSize || uint64(h.numKeys) > h.keysSize {
		return fmt.Errorf("%w: entry counts exceed section sizes", ErrInvalidFormat)
	}

	d := decoder{buf: body[:valuesEnd]}
	db.values = make([][]byte, h.numUnique)
	for i := range db.values {
		db.values[i] = d.bytes()
	}
	if err := d.finish("values"); err != nil {
		return err
	}

	d = decoder{buf: body[valuesEnd:keysEnd]}
	db.keys = make([][]byte, h.numKeys)
	for i := range db.keys {
		db.keys[i] = d.bytes()
	}
	if err := d.finish("keys"); err != nil {
		return err
	}

	d = decoder{buf: body[keysEnd:]}
	db.items = make([][]uint32, h.numKeys)
	var total uint64
	for i := range db.items {
		n := d.uvarint()
		if n > uint64(len(d.buf)) {
			return fmt.Errorf("%w: item count %d overruns section", ErrInvalidFormat, n)
		}
		ids := make([]uint32, n)
		for j := range ids {
			id := d.uvarint()
			if id >= uint64(h.numUnique) {
				return fmt.Errorf("%w: value id %d out of range", ErrInvalidFormat, id)
			}
			ids[j] = uint32(id)
		}
		db.items[i] = ids
		total += n
	}
	if err := d.finish("items"); err != nil {
		return err
	}
	if total != h.numItems {
		return fmt.Errorf("%w: %d items, header says %d", ErrInvalidFormat, total, h.numItems)
	}
	return nil
}

// lookup returns the position of key.
func (db *DB) lookup(key string) (int, bool) {
	if db.hashed != nil {
		i, ok := db.hashed[key]
		return i, ok
	}
	i := sort.Search(len(db.keys), func(i int) bool {
		return string(db.keys[i]) >= key
	})
	if i < len(db.keys) && string(db.keys[i]) == key {
		return i, true
	}
	return 0, false
}

// valueID resolves a value to its unique id.
func (db *DB) valueID(value []byte) (uint32, bool) {
	db.valueIDsOnce.Do(func() {
		db.valueIDs = make(map[string]uint32, len(db.values))
		for i, v := range db.values {
			db.valueIDs[string(v)] = uint32(i)
		}
	})
	id, ok := db.valueIDs[string(value)]
	return id, ok
}

// NumKeys returns the number of distinct keys.
func (db *DB) NumKeys() int { return len(db.keys) }

// NumItems returns the number of key/value pairs.
func (db *DB) NumItems() int { return int(db.h.numItems) }

// NumUniqueValues returns the number of distinct values.
func (db *DB) NumUniqueValues() int { return len(db.values) }

// GetItem returns the values stored under key, in insertion order.
// The cursor reports NotFound when the key does not exist.
func (db *DB) GetItem(key []byte) *Cursor {
	i, ok := db.lookup(string(key))
	if !ok {
		return notFoundCursor()
	}
	ids := db.items[i]
	return sliceCursor(len(ids), func(j int) []byte { return db.values[ids[j]] })
}

// Keys returns all keys in sorted order.
func (db *DB) Keys() *Cursor {
	return sliceCursor(len(db.keys), func(i int) []byte { return db.keys[i] })
}

// UniqueValues returns every distinct value once, in insertion order.
func (db *DB) UniqueValues() *Cursor {
	return sliceCursor(len(db.values), func(i int) []byte { return db.values[i] })
}

// Values returns the values of every key, in key order. Values shared by
// several keys are repeated.
func (db *DB) Values() *Cursor {
	k, j := 0, 0
	return &Cursor{
		size: int(db.h.numItems),
		next: func() ([]byte, bool) {
			for k < len(db.items) && j >= len(db.items[k]) {
				k++
				j = 0
			}
			if k >= len(db.items) {
				return nil, false
			}
			v := db.values[db.items[k][j]]
			j++
			return v, true
		},
	}
}

// Features describes a loaded index.
type Features struct {
	TotalSize       uint64 `json:"total_size"`
	ItemsSize       uint64 `json:"items_size"`
	ValuesSize      uint64 `json:"values_size"`
	NumKeys         uint64 `json:"num_keys"`
	NumItems        uint64 `json:"num_items"`
	NumUniqueValues uint64 `json:"num_unique_values"`
	Compressed      bool   `json:"compressed"`
	Hashed          bool   `json:"hashed"`
	Multiset        bool   `json:"multiset"`
}

// Features reports sizes, counts, and format flags.
func (db *DB) Features() Features {
	return Features{
		TotalSize:       uint64(db.size),
		ItemsSize:       db.h.itemsSize,
		ValuesSize:      db.h.valuesSize,
		NumKeys:         uint64(db.h.numKeys),
		NumItems:        db.h.numItems,
		NumUniqueValues: uint64(db.h.numUnique),
		Compressed:      db.h.compression != CompressionNone,
		Hashed:          db.h.flags&flagHashed != 0,
		Multiset:        db.h.flags&flagMultiset != 0,
	}
}

// BoolLabel renders a feature flag as "true" or "false".
func BoolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
