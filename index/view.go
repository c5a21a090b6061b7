package index

import (
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
)

// View is an immutable restriction set of values, built against one DB.
// It is safe for concurrent use, including a Release racing with readers.
type View struct {
	db *DB
	rb atomic.Pointer[roaring.Bitmap]
}

var emptyBitmap = roaring.New()

func (v *View) bitmap() *roaring.Bitmap {
	if rb := v.rb.Load(); rb != nil {
		return rb
	}
	return emptyBitmap
}

// Size returns the number of distinct index values in the view.
func (v *View) Size() int {
	return int(v.bitmap().GetCardinality())
}

// Contains reports whether value is part of the view. It is false for any db
// other than the one the view was finalized against.
func (v *View) Contains(db *DB, value []byte) bool {
	if db != v.db {
		return false
	}
	id, ok := db.valueID(value)
	return ok && v.bitmap().Contains(id)
}

// Release frees the view. A released view restricts queries to nothing.
func (v *View) Release() {
	if v == nil {
		return
	}
	v.rb.Store(nil)
}

// ViewBuilder collects view entries.
//
// Add keeps a reference to each entry until Finalize returns; callers must
// keep the backing memory valid until then.
type ViewBuilder struct {
	entries  [][]byte
	released bool
}

// NewViewBuilder creates an empty view builder.
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Add appends an entry. Duplicates and empty entries are allowed.
func (b *ViewBuilder) Add(entry []byte) error {
	if b.released {
		return ErrBuilderReleased
	}
	b.entries = append(b.entries, entry)
	return nil
}

// Len returns the number of entries added so far.
func (b *ViewBuilder) Len() int { return len(b.entries) }

// Finalize resolves the entries against db. Entries that are not values of
// db are ignored. The returned view holds no reference to the entries.
func (b *ViewBuilder) Finalize(db *DB) (*View, error) {
	if b.released {
		return nil, ErrBuilderReleased
	}
	if db == nil {
		return nil, ErrNilDB
	}
	rb := roaring.New()
	for _, e := range b.entries {
		if id, ok := db.valueID(e); ok {
			rb.Add(id)
		}
	}
	rb.RunOptimize()
	v := &View{db: db}
	v.rb.Store(rb)
	return v, nil
}

// Release drops the collected entries.
func (b *ViewBuilder) Release() {
	b.released = true
	b.entries = nil
}
