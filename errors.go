package discogo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/discogo/blobstore"
	"github.com/hupe1980/discogo/cnf"
	"github.com/hupe1980/discogo/internal/resource"
)

var (
	// ErrNotFound is returned when a key or blob does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuery is returned when a query cannot be parsed.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrViewLoad is returned when a view cannot be built.
	ErrViewLoad = errors.New("view load failed")

	// ErrClosed is returned when a closed DB is used.
	ErrClosed = errors.New("discogo: db closed")

	// ErrMemoryLimitExceeded is returned when an index does not fit the
	// limit set with WithMemoryLimit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// ErrOpen indicates that an index could not be opened.
//
// The underlying error can be accessed via errors.Unwrap.
type ErrOpen struct {
	Name  string
	cause error
}

func (e *ErrOpen) Error() string {
	return fmt.Sprintf("open %s: %v", e.Name, e.cause)
}

func (e *ErrOpen) Unwrap() error { return e.cause }

func translateQueryError(err error) error {
	if err == nil {
		return nil
	}
	var ec *cnf.ErrEmptyClause
	if errors.Is(err, cnf.ErrEmptyQuery) || errors.As(err, &ec) || errors.Is(err, cnf.ErrQueryTooLarge) {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	return err
}

func translateOpenError(name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, blobstore.ErrNotFound) {
		err = fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return &ErrOpen{Name: name, cause: err}
}
