package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sync"
)

// RNG wraps a seeded random source. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 { return r.seed }

// Intn returns a uniform value in [0, n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Zipf returns a Zipfian-distributed value in [0, n) with skew s.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}
	return n - 1
}

// Pair is one key/value record.
type Pair struct {
	Key   string
	Value string
}

// Key returns the name of key i.
func Key(i int) string { return fmt.Sprintf("k%d", i) }

// Value returns the name of value i.
func Value(i int) string { return fmt.Sprintf("v%d", i) }

// Pairs generates n records over numKeys keys and numValues uniformly chosen
// values. Keys are Zipf-skewed when s > 1 and uniform otherwise.
func (r *RNG) Pairs(n, numKeys, numValues int, s float64) []Pair {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zipf *rand.Zipf
	if s > 1 && numKeys > 1 {
		zipf = rand.NewZipf(r.rand, s, 1, uint64(numKeys-1))
	}

	pairs := make([]Pair, n)
	for i := range pairs {
		var k int
		if zipf != nil {
			k = int(zipf.Uint64())
		} else {
			k = r.rand.Intn(numKeys)
		}
		pairs[i] = Pair{
			Key:   Key(k),
			Value: Value(r.rand.Intn(numValues)),
		}
	}
	return pairs
}

// Query generates CNF tokens with the given number of clauses and up to
// maxTerms terms per clause. Each term is negated with probability negRate.
// Keys are drawn from numKeys+numKeys/10 names so some do not exist.
func (r *RNG) Query(numKeys, clauses, maxTerms int, negRate float64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	universe := numKeys + numKeys/10 + 1
	var tokens []string
	for c := 0; c < clauses; c++ {
		if c > 0 {
			tokens = append(tokens, "&")
		}
		n := 1 + r.rand.Intn(maxTerms)
		for range n {
			tok := Key(r.rand.Intn(universe))
			if r.rand.Float64() < negRate {
				tok = "~" + tok
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// ViewEntries picks n values, some of which may not exist in a dataset over
// numValues values.
func (r *RNG) ViewEntries(numValues, n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, n)
	for i := range out {
		out[i] = Value(r.rand.Intn(numValues + numValues/10 + 1))
	}
	return out
}

// EvalCNF evaluates tokens against pairs by brute force. Values are returned
// in order of first appearance in pairs. A non-nil view restricts the result
// to values it lists. Malformed queries yield nil.
func EvalCNF(pairs []Pair, tokens []string, view []string) []string {
	var values []string
	seen := make(map[string]bool)
	byKey := make(map[string]map[string]bool)
	for _, p := range pairs {
		if !seen[p.Value] {
			seen[p.Value] = true
			values = append(values, p.Value)
		}
		if byKey[p.Key] == nil {
			byKey[p.Key] = make(map[string]bool)
		}
		byKey[p.Key][p.Value] = true
	}

	var clauses [][]string
	cur := []string{}
	for _, t := range tokens {
		if t == "&" {
			clauses = append(clauses, cur)
			cur = []string{}
			continue
		}
		cur = append(cur, t)
	}
	clauses = append(clauses, cur)
	if len(tokens) == 0 {
		return nil
	}
	for _, c := range clauses {
		if len(c) == 0 {
			return nil
		}
	}

	var allowed map[string]bool
	if view != nil {
		allowed = make(map[string]bool, len(view))
		for _, v := range view {
			allowed[v] = true
		}
	}

	var out []string
	for _, v := range values {
		if allowed != nil && !allowed[v] {
			continue
		}
		if slices.IndexFunc(clauses, func(c []string) bool { return !satisfies(byKey, c, v) }) < 0 {
			out = append(out, v)
		}
	}
	return out
}

func satisfies(byKey map[string]map[string]bool, clause []string, v string) bool {
	for _, t := range clause {
		if len(t) > 0 && t[0] == '~' {
			if !byKey[t[1:]][v] {
				return true
			}
			continue
		}
		if byKey[t][v] {
			return true
		}
	}
	return false
}
