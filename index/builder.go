package index

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/hupe1980/discogo/internal/conv"
	"github.com/hupe1980/discogo/internal/hash"
)

// MaxEntrySize is the largest key or value accepted by a Builder.
const MaxEntrySize = 1<<32 - 1

// FinalizeOptions controls how a Builder serializes the index.
type FinalizeOptions struct {
	// Compression applied to the body. Defaults to CompressionZSTD.
	Compression Compression
	// UniqueItems drops duplicate values under the same key.
	UniqueItems bool
	// Hash marks the index for hash based key lookups at load time.
	Hash bool
}

// DefaultFinalizeOptions are used when Finalize is called without options.
var DefaultFinalizeOptions = FinalizeOptions{
	Compression: CompressionZSTD,
}

type keyEntry struct {
	key    []byte
	values []uint32
}

// Builder accumulates key/value pairs and serializes them into an immutable
// index. A Builder is not safe for concurrent use.
type Builder struct {
	keys     map[string]int
	entries  []keyEntry
	valueIDs map[string]uint32
	values   [][]byte
	numItems int
	released bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		keys:     make(map[string]int),
		valueIDs: make(map[string]uint32),
	}
}

// Add records value under key. A nil value registers the key without any
// value. Both slices are copied.
func (b *Builder) Add(key, value []byte) error {
	if b.released {
		return ErrBuilderReleased
	}
	if uint64(len(key)) > MaxEntrySize {
		return &ErrEntryTooLarge{Size: len(key)}
	}
	if uint64(len(value)) > MaxEntrySize {
		return &ErrEntryTooLarge{Size: len(value)}
	}

	idx, ok := b.keys[string(key)]
	if !ok {
		idx = len(b.entries)
		b.keys[string(key)] = idx
		b.entries = append(b.entries, keyEntry{key: bytes.Clone(key)})
	}
	if value == nil {
		return nil
	}

	id, ok := b.valueIDs[string(value)]
	if !ok {
		next, err := conv.Uint32(len(b.values))
		if err != nil {
			return fmt.Errorf("index: too many unique values: %w", err)
		}
		id = next
		b.valueIDs[string(value)] = id
		b.values = append(b.values, bytes.Clone(value))
	}
	b.entries[idx].values = append(b.entries[idx].values, id)
	b.numItems++
	return nil
}

// NumKeys returns the number of distinct keys added so far.
func (b *Builder) NumKeys() int { return len(b.entries) }

// NumItems returns the number of key/value pairs added so far.
func (b *Builder) NumItems() int { return b.numItems }

// Release drops the builder's state. Further calls to Add fail.
func (b *Builder) Release() {
	b.released = true
	b.keys = nil
	b.entries = nil
	b.valueIDs = nil
	b.values = nil
}

// Finalize serializes the accumulated pairs. The builder stays usable.
func (b *Builder) Finalize(optFns ...func(*FinalizeOptions)) ([]byte, error) {
	if b.released {
		return nil, ErrBuilderReleased
	}
	opts := DefaultFinalizeOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	order := make([]int, len(b.entries))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(x, y int) int {
		return bytes.Compare(b.entries[x].key, b.entries[y].key)
	})

	numKeys, err := conv.Uint32(len(b.entries))
	if err != nil {
		return nil, fmt.Errorf("index: too many keys: %w", err)
	}
	h := header{
		version:   formatVersion,
		numKeys:   numKeys,
		numUnique: uint32(len(b.values)),
	}
	if opts.Hash {
		h.flags |= flagHashed
	}
	if opts.UniqueItems {
		h.flags |= flagUniqueItems
	}

	var body []byte
	for _, v := range b.values {
		body = appendBytes(body, v)
	}
	h.valuesSize = uint64(len(body))

	for _, i := range order {
		body = appendBytes(body, b.entries[i].key)
	}
	h.keysSize = uint64(len(body)) - h.valuesSize

	seen := make(map[uint32]struct{})
	for _, i := range order {
		ids := b.entries[i].values
		clear(seen)
		dups := false
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				dups = true
				break
			}
			seen[id] = struct{}{}
		}
		if dups && opts.UniqueItems {
			ids = dedup(ids)
			dups = false
		}
		if dups {
			h.flags |= flagMultiset
		}

		body = binary.AppendUvarint(body, uint64(len(ids)))
		for _, id := range ids {
			body = binary.AppendUvarint(body, uint64(id))
		}
		h.numItems += uint64(len(ids))
	}
	h.itemsSize = uint64(len(body)) - h.valuesSize - h.keysSize

	stored, used, err := compress(opts.Compression, body)
	if err != nil {
		return nil, err
	}
	h.compression = used
	h.bodySize = uint64(len(stored))
	h.checksum = hash.Sum(stored)

	out := make([]byte, 0, headerSize+len(stored))
	out = append(out, h.marshal()...)
	return append(out, stored...), nil
}

// dedup keeps the first occurrence of every id, preserving order.
func dedup(ids []uint32) []uint32 {
	seen := make(map[uint32]struct{}, len(ids))
	out := make([]uint32, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
