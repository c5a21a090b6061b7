package hash

import (
	"fmt"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Sum returns the CRC32-C checksum of data.
func Sum(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// ErrMismatch reports a checksum that does not match the data.
type ErrMismatch struct {
	Want, Got uint32
}

func (e *ErrMismatch) Error() string {
	return fmt.Sprintf("crc32c mismatch: want %08x, got %08x", e.Want, e.Got)
}

// Verify returns *ErrMismatch when data does not hash to want.
func Verify(data []byte, want uint32) error {
	if got := Sum(data); got != want {
		return &ErrMismatch{Want: want, Got: got}
	}
	return nil
}
