// Package blobstore abstracts where serialized indexes and view files live.
//
// Indexes are immutable single blobs: they are written once with Put and
// read back with Open. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped reads
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3 (range reads, multipart uploads)
//   - minio.Store: MinIO and other S3-compatible services
//
// Blobs that can expose their content without copying implement Mappable;
// ReadAll uses it when available.
package blobstore
