package index

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned when serialized index data cannot be decoded.
	ErrInvalidFormat = errors.New("index: invalid format")

	// ErrChecksum is returned when the stored body does not match its checksum.
	ErrChecksum = errors.New("index: checksum mismatch")

	// ErrBuilderReleased is returned when a released builder is used.
	ErrBuilderReleased = errors.New("index: builder released")

	// ErrNilDB is returned when a view is finalized without an index.
	ErrNilDB = errors.New("index: nil db")

	// ErrViewMismatch is returned when a view is applied to an index other
	// than the one it was finalized against.
	ErrViewMismatch = errors.New("index: view belongs to another index")
)

// ErrUnsupportedVersion indicates a format version this package cannot read.
type ErrUnsupportedVersion struct {
	Version uint16
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("index: unsupported format version %d", e.Version)
}

// ErrEntryTooLarge indicates a key or value exceeding MaxEntrySize.
type ErrEntryTooLarge struct {
	Size int
}

func (e *ErrEntryTooLarge) Error() string {
	return fmt.Sprintf("index: entry of %d bytes exceeds limit of %d", e.Size, uint64(MaxEntrySize))
}
