package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/discogo/blobstore"
	"github.com/hupe1980/discogo/index"
	"github.com/hupe1980/discogo/internal/mmap"
)

// ErrNoBuilder is returned when the builder factory yields nothing.
var ErrNoBuilder = errors.New("view: builder unavailable")

// Builder is the view construction protocol of the index.
// *index.ViewBuilder implements it.
type Builder interface {
	Add(entry []byte) error
	Finalize(db *index.DB) (*index.View, error)
	Release()
}

// Options configures a load.
type Options struct {
	// NewBuilder creates the builder entries are fed into.
	// Defaults to index.NewViewBuilder.
	NewBuilder func() Builder
}

func newOptions(optFns []func(*Options)) Options {
	opts := Options{
		NewBuilder: func() Builder { return index.NewViewBuilder() },
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// mapFile is swapped in tests.
var mapFile = mmap.Open

// Load maps the file at path and builds a view of its lines against db.
// An empty file yields an empty view.
func Load(path string, db *index.DB, optFns ...func(*Options)) (*index.View, error) {
	opts := newOptions(optFns)

	b := opts.NewBuilder()
	if b == nil {
		return nil, ErrNoBuilder
	}
	defer b.Release()

	m, err := mapFile(path)
	if err != nil {
		return nil, fmt.Errorf("view: %w", err)
	}
	defer m.Close()

	_ = m.Advise(mmap.AccessSequential)

	return build(b, m.Bytes(), db)
}

// LoadBytes builds a view of the lines in buf against db.
func LoadBytes(buf []byte, db *index.DB, optFns ...func(*Options)) (*index.View, error) {
	opts := newOptions(optFns)

	b := opts.NewBuilder()
	if b == nil {
		return nil, ErrNoBuilder
	}
	defer b.Release()

	return build(b, buf, db)
}

// LoadBlob reads the named blob from store and builds a view of its lines.
// Mappable blobs are read in place.
func LoadBlob(ctx context.Context, store blobstore.BlobStore, name string, db *index.DB, optFns ...func(*Options)) (*index.View, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("view: open %s: %w", name, err)
	}
	defer blob.Close()

	buf, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("view: read %s: %w", name, err)
	}
	return LoadBytes(buf, db, optFns...)
}

func build(b Builder, buf []byte, db *index.DB) (*index.View, error) {
	n := 0
	for line := range Lines(buf) {
		if err := b.Add(line); err != nil {
			return nil, fmt.Errorf("view: add entry %d: %w", n, err)
		}
		n++
	}

	v, err := b.Finalize(db)
	if err != nil {
		return nil, fmt.Errorf("view: finalize: %w", err)
	}
	return v, nil
}
