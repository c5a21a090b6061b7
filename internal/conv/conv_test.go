package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint32(t *testing.T) {
	v, err := Uint32(42)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), v)

	_, err = Uint32(-1)
	var oe *ErrOverflow
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "uint32", oe.Target)

	if math.MaxInt > math.MaxUint32 {
		_, err = Uint32(math.MaxUint32 + 1)
		assert.Error(t, err)
	}
}

func TestInt(t *testing.T) {
	v, err := Int(7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = Int(math.MaxUint64)
	assert.ErrorContains(t, err, "does not fit in int")
}

func TestSum(t *testing.T) {
	v, err := Sum(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), v)

	v, err = Sum()
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = Sum(math.MaxUint64, 1)
	assert.Error(t, err)
}
