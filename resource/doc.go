// Package resource accounts for the memory held by vectors and throttles snapshot I/O.
//
// A single Controller may be shared by many vectors (and goroutines). Memory is reserved
// without blocking: a request that would exceed the configured budget fails immediately with
// ErrMemoryLimitExceeded, which the vector reports as an allocation failure.
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64 << 20})
//	v := fastvec.New[float32](fastvec.WithMemoryAcquirer(rc))
package resource
