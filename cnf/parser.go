package cnf

import "strings"

const (
	// Separator is the token that closes a clause.
	Separator = "&"
	// NegationPrefix marks a negated term.
	NegationPrefix = '~'
	// MaxTokens bounds the size of a single query.
	MaxTokens = 1 << 24
)

// Parse converts tokens into a CNF query.
//
// The parser makes two passes: the first counts separators to size the term
// arena and clause table, the second fills them. Empty clauses are rejected
// with *ErrEmptyClause. A bare "~" is accepted as a negated empty key.
func Parse(tokens []string) (*Query, error) {
	num := len(tokens)
	if num == 0 {
		return nil, ErrEmptyQuery
	}
	if num > MaxTokens {
		return nil, ErrQueryTooLarge
	}

	seps := 0
	for _, tok := range tokens {
		if tok == Separator {
			seps++
		}
	}

	q := &Query{
		terms:   make([]Term, 0, num-seps),
		clauses: make([]span, seps+1),
	}

	j, start := 0, 0
	for _, tok := range tokens {
		if tok == Separator {
			q.clauses[j] = span{off: start, n: len(q.terms) - start}
			if q.clauses[j].n == 0 {
				return nil, &ErrEmptyClause{Clause: j}
			}
			j++
			start = len(q.terms)
			continue
		}
		if len(tok) > 0 && tok[0] == NegationPrefix {
			q.terms = append(q.terms, Term{Key: tok[1:], Not: true})
		} else {
			q.terms = append(q.terms, Term{Key: tok})
		}
	}

	q.clauses[j] = span{off: start, n: len(q.terms) - start}
	if q.clauses[j].n == 0 {
		return nil, &ErrEmptyClause{Clause: j}
	}

	return q, nil
}

// ParseString splits s on whitespace and parses the resulting tokens.
func ParseString(s string) (*Query, error) {
	return Parse(strings.Fields(s))
}
