package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(7).Pairs(100, 10, 50, 1.2)
	b := NewRNG(7).Pairs(100, 10, 50, 1.2)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(7), NewRNG(7).Seed())
}

func TestRNG_Zipf(t *testing.T) {
	rng := NewRNG(1)
	counts := make([]int, 10)
	for range 5000 {
		k := rng.Zipf(10, 1.5)
		assert.GreaterOrEqual(t, k, 0)
		assert.Less(t, k, 10)
		counts[k]++
	}
	assert.Greater(t, counts[0], counts[9])
	assert.Equal(t, 0, rng.Zipf(1, 1.5))
}

func TestRNG_Query(t *testing.T) {
	tokens := NewRNG(3).Query(20, 3, 4, 0.5)
	amps := 0
	for _, tok := range tokens {
		if tok == "&" {
			amps++
		}
	}
	assert.Equal(t, 2, amps)
	assert.NotEqual(t, "&", tokens[0])
	assert.NotEqual(t, "&", tokens[len(tokens)-1])
}

func TestEvalCNF(t *testing.T) {
	pairs := []Pair{
		{"red", "apple"}, {"red", "cherry"},
		{"yellow", "banana"}, {"yellow", "lemon"},
		{"round", "apple"}, {"round", "lemon"},
	}

	tests := []struct {
		tokens []string
		view   []string
		want   []string
	}{
		{[]string{"red"}, nil, []string{"apple", "cherry"}},
		{[]string{"red", "yellow", "&", "~round"}, nil, []string{"cherry", "banana"}},
		{[]string{"~missing"}, nil, []string{"apple", "cherry", "banana", "lemon"}},
		{[]string{"round"}, []string{"lemon", "kiwi"}, []string{"lemon"}},
		{[]string{"round"}, []string{}, nil},
		{[]string{"red", "&"}, nil, nil},
		{nil, nil, nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EvalCNF(pairs, tt.tokens, tt.view), "%v view=%v", tt.tokens, tt.view)
	}
}
