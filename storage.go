package fastvec

import (
	"unsafe"

	"github.com/hupe1980/fastvec/internal/mmap"
)

// storage owns the raw element buffers of a vector. Buffers returned by alloc and realloc have
// len == cap == the requested slot count.
type storage[T any] interface {
	alloc(n int) ([]T, error)
	// realloc resizes buf to n slots preserving the first live elements bytewise. It is only
	// used for trivial element types. buf must not be used after a successful call.
	realloc(buf []T, live, n int) ([]T, error)
	free(buf []T)
	name() string
}

// heapStorage allocates from the Go heap.
type heapStorage[T any] struct{}

func (heapStorage[T]) alloc(n int) ([]T, error) {
	return make([]T, n), nil
}

func (heapStorage[T]) realloc(buf []T, live, n int) ([]T, error) {
	grown := make([]T, n)
	copy(grown, buf[:live])
	return grown, nil
}

// free drops the reference; the garbage collector reclaims the buffer.
func (heapStorage[T]) free([]T) {}

func (heapStorage[T]) name() string { return "heap" }

// offHeapStorage keeps pointer-free elements in anonymous mappings outside the Go heap.
// Zero-sized element types never select it.
type offHeapStorage[T any] struct{}

func (offHeapStorage[T]) alloc(n int) ([]T, error) {
	b, err := mmap.Map(n * elemSize[T]())
	if err != nil {
		return nil, err
	}
	return viewOf[T](b, n), nil
}

func (offHeapStorage[T]) realloc(buf []T, _, n int) ([]T, error) {
	b, err := mmap.Remap(bytesOf(buf), n*elemSize[T]())
	if err != nil {
		return nil, err
	}
	return viewOf[T](b, n), nil
}

func (offHeapStorage[T]) free(buf []T) {
	// Unmap only fails for ranges that were never mapped, which ownership rules out.
	_ = mmap.Unmap(bytesOf(buf))
}

func (offHeapStorage[T]) name() string { return "offheap" }

// viewOf reinterprets b as n elements of T. b must be suitably aligned for T.
func viewOf[T any](b []byte, n int) []T {
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n) //nolint:gosec // mappings are page aligned
}

// bytesOf reinterprets the elements of s as raw bytes. T must be pointer-free.
func bytesOf[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero))) //nolint:gosec // reinterpreting pointer-free elements
}

// elemSize returns the in-memory size of one T.
func elemSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
