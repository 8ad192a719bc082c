// Package testutil provides testing utilities for Hugego.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded, thread-safe random data generation for filling
// dense pages and for drawing skewed or widely spaced sparse indices.
//
// # Random Data Generation
//
//	rng := testutil.NewRNG(seed)
//	vals := make([]int64, 4096)
//	rng.FillInt64(vals, 1000) // uniform [0, 1000)
//
// # Index Draws
//
//	idx := rng.SparseIndices(64, 1<<20)   // ascending, page-spanning
//	hot := rng.ZipfValues(1024, 100, 1.5) // power-law skew
package testutil
