package index

import (
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the algorithm applied to the serialized body.
type Compression uint8

const (
	// CompressionNone stores the body as is. Loading is zero-copy.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD compression (better ratio).
	CompressionZSTD Compression = 2
)

// String returns the canonical name of the algorithm.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name as returned by String.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "zstd":
		return CompressionZSTD, nil
	case "lz4":
		return CompressionLZ4, nil
	case "none", "off":
		return CompressionNone, nil
	default:
		return 0, fmt.Errorf("index: unknown compression %q", s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compress returns the stored form of body and the algorithm actually used.
// Bodies that do not shrink below 90% of their size are stored uncompressed.
func compress(c Compression, body []byte) ([]byte, Compression, error) {
	if c == CompressionNone || len(body) == 0 {
		return body, CompressionNone, nil
	}

	var out []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(body)))
		n, err := lz4.CompressBlock(body, buf, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("index: lz4 compress: %w", err)
		}
		out = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		out = enc.EncodeAll(body, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, 0, fmt.Errorf("index: unknown compression %d", c)
	}

	if len(out) == 0 || float64(len(out)) > float64(len(body))*0.9 {
		return body, CompressionNone, nil
	}
	return out, c, nil
}

// lz4MaxRatio bounds the expansion of a single LZ4 block.
const lz4MaxRatio = 255

// decompress inflates a stored body into a fresh buffer of rawSize bytes.
// rawSize comes from the unchecksummed header, so it is bounded by what the
// stored body can produce before anything is allocated.
func decompress(c Compression, stored []byte, rawSize int) ([]byte, error) {
	switch c {
	case CompressionNone:
		return stored, nil
	case CompressionLZ4:
		if uint64(rawSize) > uint64(len(stored))*lz4MaxRatio {
			return nil, fmt.Errorf("%w: lz4 body of %d bytes cannot inflate to %d", ErrInvalidFormat, len(stored), rawSize)
		}
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(stored, out)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrInvalidFormat, err)
		}
		if n != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrInvalidFormat)
		}
		return out, nil
	case CompressionZSTD:
		var fh zstd.Header
		if err := fh.Decode(stored); err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrInvalidFormat, err)
		}
		// Small frames carry no content size; their output grows as decoded.
		capacity := len(stored)
		if fh.HasFCS {
			if fh.FrameContentSize != uint64(rawSize) {
				return nil, fmt.Errorf("%w: zstd frame holds %d bytes, header says %d",
					ErrInvalidFormat, fh.FrameContentSize, rawSize)
			}
			capacity = rawSize
		}
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(stored, make([]byte, 0, capacity))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrInvalidFormat, err)
		}
		if len(out) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrInvalidFormat)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidFormat, c)
	}
}
