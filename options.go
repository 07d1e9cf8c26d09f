package fastvec

// MemoryAcquirer accounts for the bytes held by vector buffers.
// *resource.Controller implements it.
type MemoryAcquirer interface {
	// AcquireMemory reserves bytes or fails without blocking.
	AcquireMemory(bytes int64) error
	// ReleaseMemory returns previously acquired bytes.
	ReleaseMemory(bytes int64)
}

type options struct {
	offHeap         bool
	logger          *Logger
	memory          MemoryAcquirer
	metrics         MetricsCollector
	initialCapacity int
}

// Option configures a vector at construction time.
//
// Options travel with the buffer: Clone copies them, Move and MoveFrom transfer them and Swap
// exchanges them.
type Option func(*options)

// WithOffHeap stores elements in anonymous memory mappings outside the Go heap.
//
// Off-heap buffers never add to GC scan work, and growth can remap in place instead of
// copying. Only trivial element types (see IsTrivial) qualify; for other types, for zero-sized
// types and on platforms without anonymous mappings the vector falls back to heap storage
// and logs a warning.
//
// Off-heap vectors must be released with Release; the garbage collector does not free them.
func WithOffHeap() Option {
	return func(o *options) {
		o.offHeap = true
	}
}

// WithLogger sets the logger used for reallocation and release events.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMemoryAcquirer accounts every buffer allocation against m. An allocation that m rejects
// fails like any other allocation failure (see AllocationError).
func WithMemoryAcquirer(m MemoryAcquirer) Option {
	return func(o *options) {
		o.memory = m
	}
}

// WithMetrics sets the metrics collector notified of reallocations, releases and snapshots.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithInitialCapacity reserves n slots at construction.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		o.initialCapacity = n
	}
}
