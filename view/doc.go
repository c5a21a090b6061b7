// Package view loads line-oriented restriction sets ("views") for index
// queries.
//
// Every line of the source becomes one view entry, with the '\n' terminator
// excluded. Empty lines yield empty entries and duplicates are kept. An
// unterminated final line is included; a trailing '\n' does not add an empty
// entry. No other escaping, quoting, or line terminator is recognized.
//
// Files are memory-mapped for the duration of the load. The mapping is
// released exactly once on every exit path, after the view has been
// finalized.
package view
