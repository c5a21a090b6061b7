package view

import (
	"bytes"
	"iter"
)

// Lines splits buf on '\n'. Yielded slices alias buf.
func Lines(buf []byte) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for len(buf) > 0 {
			i := bytes.IndexByte(buf, '\n')
			if i < 0 {
				yield(buf[:len(buf):len(buf)])
				return
			}
			if !yield(buf[:i:i]) {
				return
			}
			buf = buf[i+1:]
		}
	}
}
