// Package testutil provides testing utilities for strkernel.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source and helpers for
// generating random strings over small alphabets, which produce the
// dense match tables the string kernels are sensitive to.
//
// # Random Strings
//
//	rng := testutil.NewRNG(seed)
//	s := rng.String(32, "acgt")
//	texts := rng.Strings(100, 4, 40, "ab")
package testutil
