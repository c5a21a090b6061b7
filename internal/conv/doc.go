// Package conv converts between integer widths with overflow checks.
//
// Use it for counts and sizes read from index headers or accumulated while
// building; plain casts are fine where the domain bounds the value.
package conv
