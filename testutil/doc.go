// Package testutil provides testing utilities for fastvec.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Data Generation
//
//	rng := testutil.NewRNG(seed)
//	buf := make([]float32, 1024)
//	rng.FillUniform(buf) // uniform [0, 1)
//	ids := rng.Perm(100)  // shuffled positions
package testutil
