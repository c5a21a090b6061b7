// Package minio provides a blobstore.BlobStore backed by MinIO or any
// S3-compatible object storage.
//
//	store, err := minio.New("localhost:9000", "indexes", func(o *minio.Options) {
//	    o.AccessKey = "minioadmin"
//	    o.SecretKey = "minioadmin"
//	})
//
// Blobs are read with ranged GET requests; an index is fetched in full
// before it is decoded.
package minio
