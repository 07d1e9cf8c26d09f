package fastvec

import (
	"time"
	"unsafe"

	"github.com/hupe1980/fastvec/internal/conv"
	"github.com/hupe1980/fastvec/internal/mmap"
)

// GrowFactor is the multiplier of the growth policy: a full vector grows to Cap()*GrowFactor+1
// slots, so capacity runs 0, 1, 3, 7, 15, ...
const GrowFactor = 2

// Vector is a growable, contiguous array of T.
//
// A vector exclusively owns one buffer of Cap() slots, of which the first Len() hold live
// elements. The zero value is an empty vector using heap storage. A Vector must not be copied
// by value once it owns a buffer; use Clone, Move or Swap instead.
//
// Vectors are not safe for concurrent use.
type Vector[T any] struct {
	data   []T // len(data) is the capacity; nil when there is no buffer
	length int
	ops    elemOps[T]
	store  storage[T]
	opts   options
}

// New returns an empty vector. No buffer is allocated unless WithInitialCapacity is given.
func New[T any](opts ...Option) *Vector[T] {
	v := newVector[T](opts)
	if n := v.opts.initialCapacity; n > 0 {
		v.reallocate(n)
	}
	return v
}

// FromSlice returns a vector holding a copy of src. The buffer holds exactly len(src) slots
// (or the initial capacity, if larger).
func FromSlice[T any](src []T, opts ...Option) *Vector[T] {
	v := newVector[T](opts)
	if n := max(len(src), v.opts.initialCapacity); n > 0 {
		v.data = v.allocate(n)
		v.ops.copyInto(v.data, src)
		v.length = len(src)
	}
	return v
}

// Of returns a vector holding values.
func Of[T any](values ...T) *Vector[T] {
	return FromSlice(values)
}

func newVector[T any](opts []Option) *Vector[T] {
	v := &Vector[T]{}
	for _, opt := range opts {
		opt(&v.opts)
	}
	v.init()
	return v
}

// init selects the element strategy and storage once. It makes the zero Vector usable.
func (v *Vector[T]) init() {
	if v.ops != nil {
		return
	}
	v.ops = opsFor[T]()
	v.store = heapStorage[T]{}

	if !v.opts.offHeap {
		return
	}
	switch {
	case !v.ops.trivial():
		v.opts.logger.LogStorageFallback("element type is not trivial")
	case elemSize[T]() == 0:
		v.opts.logger.LogStorageFallback("element type has zero size")
	case !mmap.Supported:
		v.opts.logger.LogStorageFallback("anonymous mappings not supported")
	default:
		v.store = offHeapStorage[T]{}
	}
}

// Clone returns an independent copy holding exactly Len() slots. Options carry over.
func (v *Vector[T]) Clone() *Vector[T] {
	c := &Vector[T]{opts: v.opts}
	c.init()
	if v.length > 0 {
		c.data = c.allocate(v.length)
		c.ops.copyInto(c.data, v.data[:v.length])
		c.length = v.length
	}
	return c
}

// Move transfers the buffer, length and options into a new vector in O(1). v is left empty
// with no buffer; releasing it afterwards is a no-op.
func (v *Vector[T]) Move() *Vector[T] {
	m := &Vector[T]{}
	*m = *v
	v.data = nil
	v.length = 0
	return m
}

// CopyFrom replaces the contents of v with a copy of src holding exactly src.Len() slots. The
// previous buffer of v is released after the copy succeeds. v keeps its own options.
func (v *Vector[T]) CopyFrom(src *Vector[T]) {
	if v == src {
		return
	}
	v.init()

	var buf []T
	if src.length > 0 {
		buf = v.allocate(src.length)
		v.ops.copyInto(buf, src.data[:src.length])
	}

	v.Release()
	v.data = buf
	v.length = src.length
}

// MoveFrom releases the buffer of v and takes over the buffer, length and options of src.
// src is left empty with no buffer.
func (v *Vector[T]) MoveFrom(src *Vector[T]) {
	if v == src {
		return
	}
	v.Release()
	*v = *src
	src.data = nil
	src.length = 0
}

// Release destroys all live elements and frees the buffer. The vector stays usable and empty.
// Off-heap vectors must be released; for heap vectors Release only runs Destroy hooks early and
// drops the buffer for the garbage collector.
func (v *Vector[T]) Release() {
	if v.data == nil {
		v.length = 0
		return
	}
	v.init()

	capacity, length := len(v.data), v.length
	v.ops.destroy(v.data[:v.length])
	v.store.free(v.data)
	v.release(capacity)
	v.data = nil
	v.length = 0

	v.opts.logger.LogRelease(capacity, length, v.store.name())
	if m := v.opts.metrics; m != nil {
		m.RecordRelease(capacity, v.store.name())
	}
}

// Swap exchanges the complete state of a and b in O(1).
func Swap[T any](a, b *Vector[T]) {
	*a, *b = *b, *a
}

// allocate returns a fresh buffer of n slots charged to the memory acquirer.
// It panics with *AllocationError on failure.
func (v *Vector[T]) allocate(n int) []T {
	if err := v.acquire(n); err != nil {
		panic(v.allocationError(n, err))
	}
	buf, err := v.store.alloc(n)
	if err != nil {
		v.release(n)
		panic(v.allocationError(n, err))
	}
	return buf
}

// reallocate replaces the buffer with one of exactly n slots, n >= Len(). Trivial elements are
// relocated by the storage in bulk; managed elements are moved one by one and their old slots
// zeroed before the old buffer is freed.
func (v *Vector[T]) reallocate(n int) {
	oldCap := len(v.data)
	var start time.Time
	if v.opts.metrics != nil {
		start = time.Now()
	}

	switch {
	case v.data == nil:
		v.data = v.allocate(n)
	case v.ops.trivial():
		if err := v.acquire(n - oldCap); err != nil {
			panic(v.allocationError(n, err))
		}
		buf, err := v.store.realloc(v.data, v.length, n)
		if err != nil {
			v.release(n - oldCap)
			panic(v.allocationError(n, err))
		}
		v.data = buf
		v.release(oldCap - n)
	default:
		buf := v.allocate(n)
		copy(buf, v.data[:v.length])
		clear(v.data[:v.length])
		v.store.free(v.data)
		v.release(oldCap)
		v.data = buf
	}

	v.opts.logger.LogRealloc(oldCap, n, v.length, v.store.name())
	if m := v.opts.metrics; m != nil {
		m.RecordRealloc(oldCap, n, v.store.name(), time.Since(start))
	}
}

// grow applies the growth policy.
func (v *Vector[T]) grow() {
	v.reallocate(len(v.data)*GrowFactor + 1)
}

// acquire charges n slots to the memory acquirer; non-positive n is a no-op.
func (v *Vector[T]) acquire(n int) error {
	if n <= 0 {
		return nil
	}
	bytes, err := conv.MulInt(n, elemSize[T]())
	if err != nil {
		return err
	}
	if v.opts.memory == nil {
		return nil
	}
	return v.opts.memory.AcquireMemory(int64(bytes))
}

// release returns n slots to the memory acquirer; non-positive n is a no-op.
func (v *Vector[T]) release(n int) {
	if n <= 0 || v.opts.memory == nil {
		return
	}
	v.opts.memory.ReleaseMemory(int64(n) * int64(elemSize[T]()))
}

func (v *Vector[T]) allocationError(n int, cause error) *AllocationError {
	return &AllocationError{
		Requested: n,
		Bytes:     int64(n) * int64(elemSize[T]()),
		Storage:   v.store.name(),
		cause:     cause,
	}
}

// overlaps reports whether s shares memory with the buffer of v.
func (v *Vector[T]) overlaps(s []T) bool {
	if len(s) == 0 || len(v.data) == 0 || elemSize[T]() == 0 {
		return false
	}
	size := uintptr(elemSize[T]())
	bufStart := uintptr(unsafe.Pointer(unsafe.SliceData(v.data)))
	bufEnd := bufStart + uintptr(len(v.data))*size
	sStart := uintptr(unsafe.Pointer(unsafe.SliceData(s)))
	sEnd := sStart + uintptr(len(s))*size
	return sStart < bufEnd && bufStart < sEnd
}
