package index

import "iter"

// Cursor lazily yields entries produced by a lookup, an enumeration, or a
// query. Returned slices reference index memory and must not be modified.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	next     func() ([]byte, bool)
	size     int
	notFound bool
	err      error
	closed   bool
}

func sliceCursor(n int, at func(i int) []byte) *Cursor {
	i := 0
	return &Cursor{
		size: n,
		next: func() ([]byte, bool) {
			if i >= n {
				return nil, false
			}
			v := at(i)
			i++
			return v, true
		},
	}
}

func notFoundCursor() *Cursor {
	return &Cursor{
		notFound: true,
		next:     func() ([]byte, bool) { return nil, false },
	}
}

// Next returns the next entry, or false when the cursor is exhausted or
// failed. Check Err after Next returns false.
func (c *Cursor) Next() ([]byte, bool) {
	if c.closed || c.err != nil {
		return nil, false
	}
	return c.next()
}

// Size returns the total number of entries the cursor yields.
func (c *Cursor) Size() int { return c.size }

// NotFound reports whether the cursor is the result of a lookup of a
// missing key.
func (c *Cursor) NotFound() bool { return c.notFound }

// Err returns the error that stopped iteration, if any.
func (c *Cursor) Err() error { return c.err }

// All iterates over the remaining entries.
func (c *Cursor) All() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for {
			v, ok := c.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Close releases the cursor. It is idempotent.
func (c *Cursor) Close() error {
	c.closed = true
	return nil
}
