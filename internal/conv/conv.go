package conv

import (
	"fmt"
	"math"
)

// ErrOverflow reports a value that does not fit the target type.
type ErrOverflow struct {
	Value  string
	Target string
}

func (e *ErrOverflow) Error() string {
	return fmt.Sprintf("integer overflow: %s does not fit in %s", e.Value, e.Target)
}

// Uint32 converts a non-negative int to uint32.
func Uint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, &ErrOverflow{Value: fmt.Sprint(v), Target: "uint32"}
	}
	return uint32(v), nil
}

// Int converts a uint64 to int.
func Int(v uint64) (int, error) {
	if v > math.MaxInt {
		return 0, &ErrOverflow{Value: fmt.Sprint(v), Target: "int"}
	}
	return int(v), nil
}

// Sum adds vs, failing if the total wraps around.
func Sum(vs ...uint64) (uint64, error) {
	var total uint64
	for _, v := range vs {
		if v > math.MaxUint64-total {
			return 0, &ErrOverflow{Value: fmt.Sprintf("sum of %v", vs), Target: "uint64"}
		}
		total += v
	}
	return total, nil
}
