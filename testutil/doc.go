// Package testutil provides testing utilities for discogo.
//
// This package is intended for use in tests and benchmarks only.
// It generates reproducible key/value datasets and CNF queries, and evaluates
// queries by brute force to serve as ground truth for the bitmap engine.
//
// # Random Datasets
//
//	rng := testutil.NewRNG(seed)
//	pairs := rng.Pairs(10_000, 100, 1_000, 1.2) // Zipf-skewed keys when s > 1
//	tokens := rng.Query(100, 3, 4, 0.2)
//
// # Ground Truth
//
//	want := testutil.EvalCNF(pairs, tokens, nil)
package testutil
