// Package codec selects the JSON encoder used for machine-readable tool
// output such as `discogo-query info --json`.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Indenter is implemented by codecs that can pretty-print.
type Indenter interface {
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json", "":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Encode marshals v with c, indenting with two spaces when pretty is set and
// c supports it. A nil codec selects Default.
func Encode(c Codec, v any, pretty bool) ([]byte, error) {
	if c == nil {
		c = Default
	}
	var (
		b   []byte
		err error
	)
	if ind, ok := c.(Indenter); ok && pretty {
		b, err = ind.MarshalIndent(v, "", "  ")
	} else {
		b, err = c.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.Name(), err)
	}
	return b, nil
}
