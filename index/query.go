package index

import (
	"context"
	"runtime"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/discogo/cnf"
	"golang.org/x/sync/errgroup"
)

// Query evaluates a CNF query against the unique values of the index.
//
// A value satisfies a term when it is stored under the term's key (or, for a
// negated term, when it is not). A clause is satisfied by any of its terms and
// the query by all of its clauses. A clause without terms is unsatisfiable.
// When view is non-nil, results are restricted to the view, which must have
// been finalized against db.
//
// Results are yielded in value insertion order.
func (db *DB) Query(ctx context.Context, q *cnf.Query, view *View) (*Cursor, error) {
	if q == nil || q.NumClauses() == 0 {
		return nil, cnf.ErrEmptyQuery
	}
	if view != nil && view.db != db {
		return nil, ErrViewMismatch
	}

	rb, err := db.evaluate(ctx, q)
	if err != nil {
		return nil, err
	}
	if view != nil {
		rb.And(view.bitmap())
	}

	return db.bitmapCursor(ctx, rb), nil
}

func (db *DB) evaluate(ctx context.Context, q *cnf.Query) (*roaring.Bitmap, error) {
	clauses := make([]*roaring.Bitmap, q.NumClauses())

	if len(clauses) == 1 {
		clauses[0] = db.clauseBitmap(q.Clause(0))
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, terms := range q.Clauses() {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				clauses[i] = db.clauseBitmap(terms)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Intersect smallest first so an empty clause short-circuits early.
	slices.SortFunc(clauses, func(a, b *roaring.Bitmap) int {
		ca, cb := a.GetCardinality(), b.GetCardinality()
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		default:
			return 0
		}
	})

	result := clauses[0]
	for _, c := range clauses[1:] {
		if result.IsEmpty() {
			break
		}
		result.And(c)
	}
	return result, nil
}

func (db *DB) clauseBitmap(terms []cnf.Term) *roaring.Bitmap {
	if len(terms) == 0 {
		return roaring.New()
	}
	if len(terms) == 1 {
		return db.termBitmap(terms[0])
	}
	bms := make([]*roaring.Bitmap, len(terms))
	for i, t := range terms {
		bms[i] = db.termBitmap(t)
	}
	return roaring.FastOr(bms...)
}

func (db *DB) termBitmap(t cnf.Term) *roaring.Bitmap {
	rb := roaring.New()
	if i, ok := db.lookup(t.Key); ok {
		rb.AddMany(db.items[i])
	}
	if !t.Not {
		return rb
	}
	all := roaring.New()
	all.AddRange(0, uint64(len(db.values)))
	all.AndNot(rb)
	return all
}

func (db *DB) bitmapCursor(ctx context.Context, rb *roaring.Bitmap) *Cursor {
	it := rb.Iterator()
	c := &Cursor{size: int(rb.GetCardinality())}
	c.next = func() ([]byte, bool) {
		if !it.HasNext() {
			return nil, false
		}
		if err := ctx.Err(); err != nil {
			c.err = err
			return nil, false
		}
		return db.values[it.Next()], true
	}
	return c
}
