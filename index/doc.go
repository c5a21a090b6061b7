// Package index implements an immutable key/multi-value index.
//
// # Building
//
//	b := index.NewBuilder()
//	_ = b.Add([]byte("red"), []byte("apple"))
//	_ = b.Add([]byte("red"), []byte("cherry"))
//	data, _ := b.Finalize(func(o *index.FinalizeOptions) {
//	    o.Compression = index.CompressionLZ4
//	})
//
// # Querying
//
// A DB supports point lookups, enumeration of keys, values, and unique
// values, and evaluation of CNF queries (see package cnf), optionally
// restricted to a View. Every operation returns a lazy Cursor.
//
// Query evaluation works on roaring bitmaps of value ids: a term maps to the
// values stored under its key, a negated term to all other values, clauses are
// unions, and the query is the intersection of its clauses.
//
// # Memory
//
// Uncompressed indexes are decoded in place. When data comes from a memory
// mapping, the mapping must outlive the DB.
package index
