package cnf

import (
	"iter"
	"strings"
)

// Term is a single signed key reference.
type Term struct {
	// Key references the caller's token; it is not a copy.
	Key string
	// Not requires the key to be absent when set.
	Not bool
}

// Token renders the term back into its token form.
func (t Term) Token() string {
	if t.Not {
		return string(NegationPrefix) + t.Key
	}
	return t.Key
}

// span is a clause: a range into the shared term arena.
type span struct {
	off int
	n   int
}

// Query is an AND of clauses, each an OR of terms.
type Query struct {
	terms   []Term
	clauses []span
}

// NumClauses returns the number of clauses.
func (q *Query) NumClauses() int { return len(q.clauses) }

// NumTerms returns the total number of terms across all clauses.
func (q *Query) NumTerms() int { return len(q.terms) }

// Clause returns the terms of clause i.
// The returned slice shares the query's arena and must not be modified.
func (q *Query) Clause(i int) []Term {
	c := q.clauses[i]
	return q.terms[c.off : c.off+c.n : c.off+c.n]
}

// Clauses iterates over the clauses in input order.
func (q *Query) Clauses() iter.Seq2[int, []Term] {
	return func(yield func(int, []Term) bool) {
		for i := range q.clauses {
			if !yield(i, q.Clause(i)) {
				return
			}
		}
	}
}

// Tokens reconstructs a token stream equivalent to the parsed input.
func (q *Query) Tokens() []string {
	if len(q.clauses) == 0 {
		return nil
	}
	out := make([]string, 0, len(q.terms)+len(q.clauses)-1)
	for i, terms := range q.Clauses() {
		if i > 0 {
			out = append(out, Separator)
		}
		for _, t := range terms {
			out = append(out, t.Token())
		}
	}
	return out
}

// String renders the query as a space separated token stream.
func (q *Query) String() string {
	return strings.Join(q.Tokens(), " ")
}
