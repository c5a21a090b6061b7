// Package hash computes the checksum stored in index headers.
//
// Indexes use CRC32-Castagnoli, which Go's hash/crc32 accelerates with
// SSE4.2 on amd64 and the CRC extension on arm64.
//
//	sum := hash.Sum(body)
//	if err := hash.Verify(body, sum); err != nil { ... }
package hash
