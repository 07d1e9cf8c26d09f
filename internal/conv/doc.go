// Package conv provides overflow-checked integer conversions and arithmetic for buffer sizes
// and snapshot headers.
package conv
