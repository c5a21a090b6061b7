package index

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/discogo/internal/conv"
)

// On-disk layout (little endian):
//
//	header (64 bytes)
//	body   (bodySize bytes, compressed as one block unless compression is none)
//
// The raw body holds three sections back to back:
//
//	values: numUnique x (uvarint len, bytes)
//	keys:   numKeys   x (uvarint len, bytes), sorted
//	items:  numKeys   x (uvarint count, count x uvarint value id)
const (
	headerSize    = 64
	formatVersion = 1
)

var magic = [4]byte{'D', 'G', 'D', 'B'}

const (
	flagHashed uint16 = 1 << iota
	flagMultiset
	flagUniqueItems
)

type header struct {
	version     uint16
	flags       uint16
	compression Compression
	numKeys     uint32
	numUnique   uint32
	checksum    uint32
	numItems    uint64
	valuesSize  uint64
	keysSize    uint64
	itemsSize   uint64
	bodySize    uint64
}

// rawSize returns the uncompressed body size as an int.
func (h *header) rawSize() (int, error) {
	sum, err := conv.Sum(h.valuesSize, h.keysSize, h.itemsSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	n, err := conv.Int(sum)
	if err != nil {
		return 0, fmt.Errorf("%w: body is too large: %w", ErrInvalidFormat, err)
	}
	return n, nil
}

func (h *header) marshal() []byte {
	b := make([]byte, headerSize)
	copy(b[0:4], magic[:])
	binary.LittleEndian.PutUint16(b[4:], h.version)
	binary.LittleEndian.PutUint16(b[6:], h.flags)
	b[8] = byte(h.compression)
	binary.LittleEndian.PutUint32(b[12:], h.numKeys)
	binary.LittleEndian.PutUint32(b[16:], h.numUnique)
	binary.LittleEndian.PutUint32(b[20:], h.checksum)
	binary.LittleEndian.PutUint64(b[24:], h.numItems)
	binary.LittleEndian.PutUint64(b[32:], h.valuesSize)
	binary.LittleEndian.PutUint64(b[40:], h.keysSize)
	binary.LittleEndian.PutUint64(b[48:], h.itemsSize)
	binary.LittleEndian.PutUint64(b[56:], h.bodySize)
	return b
}

func unmarshalHeader(b []byte) (*header, error) {
	if len(b) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrInvalidFormat, len(b))
	}
	if [4]byte(b[0:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidFormat)
	}

	h := &header{
		version:     binary.LittleEndian.Uint16(b[4:]),
		flags:       binary.LittleEndian.Uint16(b[6:]),
		compression: Compression(b[8]),
		numKeys:     binary.LittleEndian.Uint32(b[12:]),
		numUnique:   binary.LittleEndian.Uint32(b[16:]),
		checksum:    binary.LittleEndian.Uint32(b[20:]),
		numItems:    binary.LittleEndian.Uint64(b[24:]),
		valuesSize:  binary.LittleEndian.Uint64(b[32:]),
		keysSize:    binary.LittleEndian.Uint64(b[40:]),
		itemsSize:   binary.LittleEndian.Uint64(b[48:]),
		bodySize:    binary.LittleEndian.Uint64(b[56:]),
	}
	if h.version != formatVersion {
		return nil, &ErrUnsupportedVersion{Version: h.version}
	}
	if h.bodySize != uint64(len(b)-headerSize) {
		return nil, fmt.Errorf("%w: body size %d does not match %d available bytes",
			ErrInvalidFormat, h.bodySize, len(b)-headerSize)
	}
	return h, nil
}

// appendBytes appends a uvarint length prefixed byte string.
func appendBytes(dst, b []byte) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(b)))
	return append(dst, b...)
}

// decoder walks a section; the first error sticks.
type decoder struct {
	buf []byte
	err error
}

func (d *decoder) uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, n := binary.Uvarint(d.buf)
	if n <= 0 {
		d.err = fmt.Errorf("%w: truncated varint", ErrInvalidFormat)
		return 0
	}
	d.buf = d.buf[n:]
	return v
}

// bytes returns a length prefixed byte string without copying.
func (d *decoder) bytes() []byte {
	n := d.uvarint()
	if d.err != nil {
		return nil
	}
	if n > uint64(len(d.buf)) {
		d.err = fmt.Errorf("%w: entry of %d bytes overruns section", ErrInvalidFormat, n)
		return nil
	}
	b := d.buf[:n:n]
	d.buf = d.buf[n:]
	return b
}

func (d *decoder) finish(section string) error {
	if d.err != nil {
		return d.err
	}
	if len(d.buf) != 0 {
		return fmt.Errorf("%w: %d trailing bytes in %s section", ErrInvalidFormat, len(d.buf), section)
	}
	return nil
}
