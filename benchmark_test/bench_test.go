package benchmark_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hupe1980/discogo/cnf"
	"github.com/hupe1980/discogo/index"
	"github.com/hupe1980/discogo/testutil"
	"github.com/hupe1980/discogo/view"
)

const (
	benchKeys   = 1_000
	benchValues = 50_000
)

func packed(b *testing.B, n int, c index.Compression) []byte {
	b.Helper()
	rng := testutil.NewRNG(1)
	builder := index.NewBuilder()
	defer builder.Release()
	for _, p := range rng.Pairs(n, benchKeys, benchValues, 1.1) {
		if err := builder.Add([]byte(p.Key), []byte(p.Value)); err != nil {
			b.Fatal(err)
		}
	}
	data, err := builder.Finalize(func(o *index.FinalizeOptions) { o.Compression = c })
	if err != nil {
		b.Fatal(err)
	}
	return data
}

func BenchmarkLoad(b *testing.B) {
	for _, c := range []index.Compression{index.CompressionNone, index.CompressionLZ4, index.CompressionZSTD} {
		data := packed(b, 200_000, c)
		b.Run(c.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				if _, err := index.Load(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkQuery(b *testing.B) {
	db, err := index.Load(packed(b, 200_000, index.CompressionNone))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	for _, clauses := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("clauses=%d", clauses), func(b *testing.B) {
			rng := testutil.NewRNG(int64(clauses))
			queries := make([]*cnf.Query, 64)
			for i := range queries {
				q, err := cnf.Parse(rng.Query(benchKeys, clauses, 4, 0.2))
				if err != nil {
					b.Fatal(err)
				}
				queries[i] = q
			}

			b.ReportAllocs()
			i := 0
			for b.Loop() {
				cur, err := db.Query(ctx, queries[i%len(queries)], nil)
				if err != nil {
					b.Fatal(err)
				}
				_ = cur.Size()
				i++
			}
		})
	}
}

func BenchmarkViewLoad(b *testing.B) {
	db, err := index.Load(packed(b, 100_000, index.CompressionNone))
	if err != nil {
		b.Fatal(err)
	}
	entries := testutil.NewRNG(3).ViewEntries(benchValues, 20_000)
	buf := []byte(strings.Join(entries, "\n"))

	b.ReportAllocs()
	b.SetBytes(int64(len(buf)))
	for b.Loop() {
		v, err := view.LoadBytes(buf, db)
		if err != nil {
			b.Fatal(err)
		}
		v.Release()
	}
}
