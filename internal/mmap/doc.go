// Package mmap provides read-only memory-mapped file access.
//
// # Usage
//
//	m, err := mmap.Open("index.ddb")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//	_ = m.Advise(mmap.AccessSequential)
//
// The file descriptor is closed as soon as the mapping is established; only
// the mapping itself has to be released.
//
// # Empty Files
//
// Mapping a zero-length file is not possible on most platforms. Open returns
// a valid Mapping with a nil byte slice instead, so callers never dereference
// an empty region.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (Advise is a no-op)
//
// # Thread Safety
//
// A Mapping is safe for concurrent readers. Close is idempotent, but callers
// must ensure no goroutine uses Bytes() after Close() returns.
package mmap
