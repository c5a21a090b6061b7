// Package cnf parses command-line style token streams into conjunctive normal
// form queries.
//
// # Syntax
//
// A query is a flat list of tokens. The token "&" separates clauses, every
// other token is a term. A term prefixed with "~" is negated:
//
//	a b & ~c d & e
//
// reads as (a OR b) AND (NOT c OR d) AND e.
//
// # Memory Layout
//
// All terms of a query live in one contiguous arena. Each clause is an
// (offset, count) range into that arena, so parsing performs exactly two
// allocations regardless of the number of clauses. Term keys are substrings of
// the caller's tokens and are never copied.
//
// # Thread Safety
//
// A parsed Query is immutable and safe for concurrent readers.
package cnf
