// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", func(o *s3.Options) {
//	    o.Prefix = "indexes/"
//	    o.Region = "eu-central-1"
//	})
//
//	db, err := discogo.OpenBlob(ctx, store, "fruits.ddb")
//
// # Features
//
//   - Range reads for blobs
//   - Multipart uploads for large indexes
//   - Configurable prefix for multi-tenant isolation
package s3
