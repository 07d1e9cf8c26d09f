//go:build fastvec_debug

package fastvec

// debugAssertions enables contract checks; build with -tags fastvec_debug.
const debugAssertions = true
