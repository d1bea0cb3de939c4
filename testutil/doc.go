// Package testutil provides testing utilities for tablix.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for building sealed single-column chunk fixtures
// with explicit null cells:
//
//	chunk := testutil.Int64Chunk(t, testutil.I64(10), nil, testutil.I64(20))
package testutil
