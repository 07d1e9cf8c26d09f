//go:build !fastvec_debug

package fastvec

// debugAssertions is false in release builds; every checkContract call compiles away.
const debugAssertions = false
