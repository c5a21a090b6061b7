package discogo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hupe1980/discogo/blobstore"
	"github.com/hupe1980/discogo/cnf"
	"github.com/hupe1980/discogo/index"
	"github.com/hupe1980/discogo/internal/mmap"
	"github.com/hupe1980/discogo/view"
)

// DB is an opened index. It is safe for concurrent use; Close must not race
// with other calls.
type DB struct {
	name     string
	idx      *index.DB
	closer   io.Closer
	reserved int64
	opts     options
	closed   atomic.Bool
}

// Open maps the index file at path.
func Open(path string, optFns ...Option) (*DB, error) {
	opts := applyOptions(optFns)
	start := time.Now()

	db, err := openMapped(path, opts)
	opts.metricsCollector.RecordOpen(time.Since(start), err)
	logOpen(context.Background(), opts.logger, path, db, err)
	return db, err
}

func openMapped(path string, opts options) (*DB, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, translateOpenError(path, err)
	}
	_ = m.Advise(mmap.AccessRandom)

	idx, err := index.Load(m.Bytes())
	if err != nil {
		_ = m.Close()
		return nil, translateOpenError(path, err)
	}
	return &DB{name: path, idx: idx, closer: m, opts: opts}, nil
}

// OpenBlob reads the index blob name from store. Blobs that are already in
// memory (local or memory stores) are not copied.
func OpenBlob(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*DB, error) {
	opts := applyOptions(optFns)
	start := time.Now()

	db, err := openBlob(ctx, store, name, opts)
	opts.metricsCollector.RecordOpen(time.Since(start), err)
	logOpen(ctx, opts.logger, name, db, err)
	return db, err
}

func openBlob(ctx context.Context, store blobstore.BlobStore, name string, opts options) (db *DB, err error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, translateOpenError(name, err)
	}

	var reserved int64
	defer func() {
		if err != nil {
			opts.resources.ReleaseMemory(reserved)
			_ = blob.Close()
			err = translateOpenError(name, err)
		}
	}()

	size := int64(0)
	if _, mapped := blob.(blobstore.Mappable); !mapped {
		size = blob.Size()
	}
	if err = opts.resources.AcquireMemory(size); err != nil {
		return nil, err
	}
	reserved = size

	data, err := opts.resources.ReadAll(ctx, blob)
	if err != nil {
		return nil, err
	}
	idx, err := index.Load(data)
	if err != nil {
		return nil, err
	}
	return &DB{name: name, idx: idx, closer: blob, reserved: reserved, opts: opts}, nil
}

func logOpen(ctx context.Context, l *Logger, name string, db *DB, err error) {
	if err != nil {
		l.LogOpen(ctx, name, 0, 0, err)
		return
	}
	l.LogOpen(ctx, name, db.idx.NumKeys(), db.idx.NumUniqueValues(), nil)
}

// Index returns the underlying index.
func (db *DB) Index() *index.DB { return db.idx }

// Name returns the path or blob name the DB was opened from.
func (db *DB) Name() string { return db.name }

// Get returns the values stored under key. It returns ErrNotFound when the
// key is absent.
func (db *DB) Get(ctx context.Context, key []byte) (*index.Cursor, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()

	var err error
	cur := db.idx.GetItem(key)
	if cur.NotFound() {
		err = ErrNotFound
		cur = nil
	}

	db.recordLookup(ctx, "item", cur, start, err)
	return cur, err
}

// Keys lists every key in sorted order.
func (db *DB) Keys(ctx context.Context) (*index.Cursor, error) {
	return db.list(ctx, "keys", db.idx.Keys)
}

// Values lists every stored value, one entry per key/value pair.
func (db *DB) Values(ctx context.Context) (*index.Cursor, error) {
	return db.list(ctx, "values", db.idx.Values)
}

// UniqueValues lists every distinct value.
func (db *DB) UniqueValues(ctx context.Context) (*index.Cursor, error) {
	return db.list(ctx, "unique_values", db.idx.UniqueValues)
}

func (db *DB) list(ctx context.Context, kind string, fn func() *index.Cursor) (*index.Cursor, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	cur := fn()
	db.recordLookup(ctx, kind, cur, start, nil)
	return cur, nil
}

func (db *DB) recordLookup(ctx context.Context, kind string, cur *index.Cursor, start time.Time, err error) {
	db.opts.metricsCollector.RecordLookup(kind, time.Since(start), err)
	results := 0
	if cur != nil {
		results = cur.Size()
	}
	if errors.Is(err, ErrNotFound) {
		db.opts.logger.DebugContext(ctx, "key not found", "kind", kind)
		return
	}
	db.opts.logger.LogLookup(ctx, kind, results, err)
}

// Query parses tokens as a CNF query and evaluates it. A non-nil v restricts
// the result to values admitted by the view.
func (db *DB) Query(ctx context.Context, tokens []string, v *index.View) (*index.Cursor, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()

	q, err := cnf.Parse(tokens)
	if err != nil {
		err = translateQueryError(err)
		db.opts.metricsCollector.RecordQuery(0, 0, time.Since(start), err)
		db.opts.logger.ErrorContext(ctx, "query parse failed", "error", err)
		return nil, err
	}
	return db.eval(ctx, q, v, start)
}

// QueryString splits s on whitespace and calls Query.
func (db *DB) QueryString(ctx context.Context, s string, v *index.View) (*index.Cursor, error) {
	return db.Query(ctx, strings.Fields(s), v)
}

// Eval evaluates an already parsed query.
func (db *DB) Eval(ctx context.Context, q *cnf.Query, v *index.View) (*index.Cursor, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}
	if q == nil {
		return nil, translateQueryError(cnf.ErrEmptyQuery)
	}
	return db.eval(ctx, q, v, time.Now())
}

func (db *DB) eval(ctx context.Context, q *cnf.Query, v *index.View, start time.Time) (*index.Cursor, error) {
	db.opts.logger.LogParsedQuery(ctx, q)

	cur, err := db.query(ctx, q, v)
	results := 0
	if err == nil {
		results = cur.Size()
	}
	db.opts.metricsCollector.RecordQuery(q.NumClauses(), results, time.Since(start), err)
	db.opts.logger.LogQuery(ctx, q, results, err)
	return cur, err
}

func (db *DB) query(ctx context.Context, q *cnf.Query, v *index.View) (*index.Cursor, error) {
	if err := db.opts.resources.AcquireQuery(ctx); err != nil {
		return nil, err
	}
	defer db.opts.resources.ReleaseQuery()
	return db.idx.Query(ctx, q, v)
}

// LoadView builds a view from the newline separated file at path.
func (db *DB) LoadView(path string) (*index.View, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()

	v, err := view.Load(path, db.idx, db.opts.viewOptions...)
	return db.finishView(context.Background(), path, v, err, start)
}

// LoadViewBlob builds a view from a newline separated blob.
func (db *DB) LoadViewBlob(ctx context.Context, store blobstore.BlobStore, name string) (*index.View, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()

	v, err := view.LoadBlob(ctx, store, name, db.idx, db.opts.viewOptions...)
	return db.finishView(ctx, name, v, err, start)
}

func (db *DB) finishView(ctx context.Context, name string, v *index.View, err error, start time.Time) (*index.View, error) {
	size := 0
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrViewLoad, err)
	} else {
		size = v.Size()
	}
	db.opts.metricsCollector.RecordViewLoad(size, time.Since(start), err)
	db.opts.logger.LogViewLoad(ctx, name, size, err)
	return v, err
}

// Info reports the features of the index.
func (db *DB) Info() index.Features {
	return db.idx.Features()
}

// Close releases the index. Cursors and data returned by the DB must not be
// used afterwards.
func (db *DB) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return nil
	}
	db.opts.resources.ReleaseMemory(db.reserved)
	if db.closer == nil {
		return nil
	}
	return db.closer.Close()
}
