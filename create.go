package discogo

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/discogo/index"
	"github.com/hupe1980/discogo/internal/fs"
)

// MaxTokenSize bounds a single whitespace separated token read by ReadPairs
// and ReadKeys.
const MaxTokenSize = 64 << 20

// ErrDanglingKey is returned by ReadPairs when the input ends with a key that
// has no value.
var ErrDanglingKey = errors.New("discogo: key without value")

func newWordScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxTokenSize)
	sc.Split(bufio.ScanWords)
	return sc
}

// ReadPairs reads whitespace separated key/value tokens from r into b and
// returns the number of pairs added.
func ReadPairs(r io.Reader, b *index.Builder) (int, error) {
	sc := newWordScanner(r)

	n := 0
	for sc.Scan() {
		key := sc.Bytes()
		key = append([]byte(nil), key...)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return n, fmt.Errorf("read pairs: %w", err)
			}
			return n, fmt.Errorf("%w: %q", ErrDanglingKey, key)
		}
		if err := b.Add(key, sc.Bytes()); err != nil {
			return n, fmt.Errorf("read pairs: %w", err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("read pairs: %w", err)
	}
	return n, nil
}

// ReadKeys reads whitespace separated keys from r into b, each with no values,
// and returns the number of keys added.
func ReadKeys(r io.Reader, b *index.Builder) (int, error) {
	sc := newWordScanner(r)

	n := 0
	for sc.Scan() {
		if err := b.Add(sc.Bytes(), nil); err != nil {
			return n, fmt.Errorf("read keys: %w", err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("read keys: %w", err)
	}
	return n, nil
}

// WriteFile writes data to path atomically via a temporary file in the same
// directory.
func WriteFile(path string, data []byte) error {
	return fs.WriteAtomic(fs.Default, path, data, 0o644)
}
