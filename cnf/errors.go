package cnf

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery is returned when the token stream is empty.
	ErrEmptyQuery = errors.New("cnf: empty query")

	// ErrQueryTooLarge is returned when the token stream exceeds MaxTokens.
	ErrQueryTooLarge = errors.New("cnf: query too large")
)

// ErrEmptyClause indicates a clause without terms, produced by a separator at
// either end of the token stream or by two adjacent separators.
type ErrEmptyClause struct {
	// Clause is the zero-based index of the empty clause.
	Clause int
}

func (e *ErrEmptyClause) Error() string {
	return fmt.Sprintf("cnf: clause %d has no terms", e.Clause)
}
