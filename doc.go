// Package discogo opens immutable multimap indexes and evaluates queries in
// conjunctive normal form against them.
//
// An index maps keys to lists of values. A query is a conjunction of
// clauses, each clause a disjunction of keys, and a key prefixed with "~"
// selects every value not stored under that key. A view restricts results to
// the values listed in a newline separated file.
//
// # Quick Start
//
//	db, err := discogo.Open("fruits.ddb")
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	v, err := db.LoadView("allowed.txt")
//	if err != nil {
//	    return err
//	}
//	defer v.Release()
//
//	cur, err := db.Query(ctx, strings.Fields("red sweet & ~small"), v)
//	if err != nil {
//	    return err
//	}
//	defer cur.Close()
//	for value := range cur.All() {
//	    fmt.Println(string(value))
//	}
//
// # Building
//
//	b := index.NewBuilder()
//	defer b.Release()
//	_, _ = discogo.ReadPairs(in, b)
//	data, _ := b.Finalize(func(o *index.FinalizeOptions) {
//	    o.Compression = index.CompressionLZ4
//	})
//	_ = discogo.WriteFile("fruits.ddb", data)
//
// # Remote storage
//
// Indexes and views can be read from any blobstore.BlobStore, including the
// S3 and MinIO stores:
//
//	store, _ := s3.New(ctx, "my-bucket")
//	db, _ := discogo.OpenBlob(ctx, store, "fruits.ddb")
package discogo
