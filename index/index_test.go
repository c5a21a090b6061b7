package index

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/hupe1980/discogo/cnf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, c *Cursor) []string {
	t.Helper()
	var out []string
	for v := range c.All() {
		out = append(out, string(v))
	}
	require.NoError(t, c.Err())
	return out
}

// fruits builds:
//
//	red    -> apple, cherry, strawberry
//	yellow -> banana, lemon
//	sweet  -> apple, banana, cherry, strawberry
//	sour   -> lemon
//	round  -> apple, cherry, lemon
func fruits(t *testing.T, optFns ...func(*FinalizeOptions)) *DB {
	t.Helper()
	pairs := [][2]string{
		{"red", "apple"}, {"red", "cherry"}, {"red", "strawberry"},
		{"yellow", "banana"}, {"yellow", "lemon"},
		{"sweet", "apple"}, {"sweet", "banana"}, {"sweet", "cherry"}, {"sweet", "strawberry"},
		{"sour", "lemon"},
		{"round", "apple"}, {"round", "cherry"}, {"round", "lemon"},
	}
	b := NewBuilder()
	for _, p := range pairs {
		require.NoError(t, b.Add([]byte(p[0]), []byte(p[1])))
	}
	data, err := b.Finalize(optFns...)
	require.NoError(t, err)

	db, err := Load(data)
	require.NoError(t, err)
	return db
}

func TestDB_Lookups(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			db := fruits(t, func(o *FinalizeOptions) { o.Compression = c })

			assert.Equal(t, 5, db.NumKeys())
			assert.Equal(t, 13, db.NumItems())
			assert.Equal(t, 5, db.NumUniqueValues())

			assert.Equal(t, []string{"red", "round", "sour", "sweet", "yellow"}, collect(t, db.Keys()))
			assert.Equal(t, []string{"apple", "cherry", "strawberry", "banana", "lemon"}, collect(t, db.UniqueValues()))

			cur := db.GetItem([]byte("yellow"))
			assert.False(t, cur.NotFound())
			assert.Equal(t, 2, cur.Size())
			assert.Equal(t, []string{"banana", "lemon"}, collect(t, cur))

			values := db.Values()
			assert.Equal(t, 13, values.Size())
			assert.Len(t, collect(t, values), 13)

			missing := db.GetItem([]byte("blue"))
			assert.True(t, missing.NotFound())
			assert.Empty(t, collect(t, missing))
		})
	}
}

func TestDB_HashedLookup(t *testing.T) {
	db := fruits(t, func(o *FinalizeOptions) { o.Hash = true })
	assert.True(t, db.Features().Hashed)
	assert.Equal(t, []string{"lemon"}, collect(t, db.GetItem([]byte("sour"))))
	assert.True(t, db.GetItem([]byte("nope")).NotFound())
}

func TestDB_Query(t *testing.T) {
	db := fruits(t)
	ctx := context.Background()

	tests := []struct {
		query string
		want  []string
	}{
		{"red", []string{"apple", "cherry", "strawberry"}},
		{"red yellow", []string{"apple", "cherry", "strawberry", "banana", "lemon"}},
		{"red & round", []string{"apple", "cherry"}},
		{"~red", []string{"banana", "lemon"}},
		{"sweet & ~red", []string{"banana"}},
		{"yellow & ~sour round", []string{"banana", "lemon"}},
		{"red & sour", nil},
		{"unknown", nil},
		{"~unknown & sour", []string{"lemon"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := cnf.ParseString(tt.query)
			require.NoError(t, err)

			cur, err := db.Query(ctx, q, nil)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), cur.Size())
			assert.Equal(t, tt.want, collect(t, cur))
		})
	}
}

func TestDB_QueryNil(t *testing.T) {
	db := fruits(t)
	_, err := db.Query(context.Background(), nil, nil)
	assert.ErrorIs(t, err, cnf.ErrEmptyQuery)
}

func TestDB_QueryCanceled(t *testing.T) {
	db := fruits(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q, err := cnf.ParseString("red & sweet")
	require.NoError(t, err)
	_, err = db.Query(ctx, q, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDB_QueryView(t *testing.T) {
	db := fruits(t)

	vb := NewViewBuilder()
	for _, e := range []string{"cherry", "lemon", "kiwi", "cherry", ""} {
		require.NoError(t, vb.Add([]byte(e)))
	}
	view, err := vb.Finalize(db)
	require.NoError(t, err)
	vb.Release()

	assert.Equal(t, 2, view.Size())
	assert.True(t, view.Contains(db, []byte("lemon")))
	assert.False(t, view.Contains(db, []byte("kiwi")))

	q, err := cnf.ParseString("round")
	require.NoError(t, err)
	cur, err := db.Query(context.Background(), q, view)
	require.NoError(t, err)
	assert.Equal(t, []string{"cherry", "lemon"}, collect(t, cur))

	view.Release()
	view.Release()
	assert.Equal(t, 0, view.Size())
}

func TestDB_QueryForeignView(t *testing.T) {
	db := fruits(t)
	other := fruits(t, func(o *FinalizeOptions) { o.Compression = CompressionNone })

	vb := NewViewBuilder()
	require.NoError(t, vb.Add([]byte("lemon")))
	view, err := vb.Finalize(other)
	require.NoError(t, err)
	vb.Release()

	assert.True(t, view.Contains(other, []byte("lemon")))
	assert.False(t, view.Contains(db, []byte("lemon")))

	q, err := cnf.ParseString("round")
	require.NoError(t, err)
	_, err = db.Query(context.Background(), q, view)
	assert.ErrorIs(t, err, ErrViewMismatch)

	cur, err := other.Query(context.Background(), q, view)
	require.NoError(t, err)
	assert.Equal(t, []string{"lemon"}, collect(t, cur))
}

func TestView_ReleaseWhileQuerying(t *testing.T) {
	db := fruits(t)
	vb := NewViewBuilder()
	for _, e := range []string{"apple", "cherry", "lemon"} {
		require.NoError(t, vb.Add([]byte(e)))
	}
	view, err := vb.Finalize(db)
	require.NoError(t, err)
	vb.Release()

	q, err := cnf.ParseString("round")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				cur, err := db.Query(context.Background(), q, view)
				if !assert.NoError(t, err) {
					return
				}
				assert.LessOrEqual(t, cur.Size(), 3)
				assert.LessOrEqual(t, view.Size(), 3)
			}
		}()
	}
	view.Release()
	wg.Wait()
	assert.Equal(t, 0, view.Size())
}

func TestViewBuilder_Released(t *testing.T) {
	vb := NewViewBuilder()
	vb.Release()
	assert.ErrorIs(t, vb.Add([]byte("x")), ErrBuilderReleased)

	_, err := vb.Finalize(nil)
	assert.ErrorIs(t, err, ErrBuilderReleased)

	_, err = NewViewBuilder().Finalize(nil)
	assert.ErrorIs(t, err, ErrNilDB)
}

func TestBuilder_UniqueItems(t *testing.T) {
	build := func(unique bool) *DB {
		b := NewBuilder()
		require.NoError(t, b.Add([]byte("k"), []byte("v")))
		require.NoError(t, b.Add([]byte("k"), []byte("v")))
		require.NoError(t, b.Add([]byte("k"), []byte("w")))
		require.NoError(t, b.Add([]byte("only-key"), nil))
		data, err := b.Finalize(func(o *FinalizeOptions) { o.UniqueItems = unique })
		require.NoError(t, err)
		db, err := Load(data)
		require.NoError(t, err)
		return db
	}

	multi := build(false)
	assert.True(t, multi.Features().Multiset)
	assert.Equal(t, []string{"v", "v", "w"}, collect(t, multi.GetItem([]byte("k"))))

	uniq := build(true)
	assert.False(t, uniq.Features().Multiset)
	assert.Equal(t, []string{"v", "w"}, collect(t, uniq.GetItem([]byte("k"))))

	keyOnly := uniq.GetItem([]byte("only-key"))
	assert.False(t, keyOnly.NotFound())
	assert.Equal(t, 0, keyOnly.Size())
}

func TestBuilder_Released(t *testing.T) {
	b := NewBuilder()
	b.Release()
	assert.ErrorIs(t, b.Add([]byte("k"), nil), ErrBuilderReleased)
	_, err := b.Finalize()
	assert.ErrorIs(t, err, ErrBuilderReleased)
}

func TestDB_Features(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 1000; i++ {
		require.NoError(t, b.Add([]byte("key"), []byte("a fairly repetitive value for compression")))
		require.NoError(t, b.Add([]byte("key"), binary.AppendUvarint(nil, uint64(i))))
	}
	data, err := b.Finalize()
	require.NoError(t, err)

	db, err := Load(data)
	require.NoError(t, err)

	f := db.Features()
	assert.Equal(t, uint64(len(data)), f.TotalSize)
	assert.Equal(t, uint64(1), f.NumKeys)
	assert.Equal(t, uint64(2000), f.NumItems)
	assert.Equal(t, uint64(1001), f.NumUniqueValues)
	assert.True(t, f.Compressed)
	assert.True(t, f.Multiset)
	assert.False(t, f.Hashed)
	assert.NotZero(t, f.ItemsSize)
	assert.NotZero(t, f.ValuesSize)
}

func TestLoad_Corrupt(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add([]byte("k"), []byte("v")))
	data, err := b.Finalize(func(o *FinalizeOptions) { o.Compression = CompressionNone })
	require.NoError(t, err)

	t.Run("Short", func(t *testing.T) {
		_, err := Load(data[:10])
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("Magic", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[0] = 'X'
		_, err := Load(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("Version", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[4] = 9
		_, err := Load(bad)
		var uv *ErrUnsupportedVersion
		require.ErrorAs(t, err, &uv)
		assert.Equal(t, uint16(9), uv.Version)
	})

	t.Run("Checksum", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[len(bad)-1] ^= 0xff
		_, err := Load(bad)
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := Load(data[:len(data)-1])
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("HugeSections", hugeSections)

	t.Run("SectionOverflow", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		binary.LittleEndian.PutUint64(bad[32:], math.MaxUint64)
		_, err := Load(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}

// hugeSections rewrites valuesSize of otherwise valid indexes; the body
// checksum still matches.
func hugeSections(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			b := NewBuilder()
			for k := 0; k < 200; k++ {
				key := []byte(fmt.Sprintf("key%03d", k))
				for v := 0; v < 50; v++ {
					require.NoError(t, b.Add(key, []byte(fmt.Sprintf("value%02d", v))))
				}
			}
			data, err := b.Finalize(func(o *FinalizeOptions) { o.Compression = c })
			require.NoError(t, err)
			require.Equal(t, byte(c), data[8])

			for _, size := range []uint64{1 << 50, 1 << 34, 1 << 20} {
				bad := append([]byte(nil), data...)
				binary.LittleEndian.PutUint64(bad[32:], size)

				assert.NotPanics(t, func() {
					_, err = Load(bad)
				})
				assert.ErrorIs(t, err, ErrInvalidFormat, "valuesSize=%d", size)
			}
		})
	}
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}

func TestBoolLabel(t *testing.T) {
	assert.Equal(t, "true", BoolLabel(true))
	assert.Equal(t, "false", BoolLabel(false))
}
