package fastvec

import "iter"

// Len returns the number of live elements.
func (v *Vector[T]) Len() int { return v.length }

// Cap returns the number of allocated slots.
func (v *Vector[T]) Cap() int { return len(v.data) }

// Empty reports whether the vector holds no elements.
func (v *Vector[T]) Empty() bool { return v.length == 0 }

// Get returns the element at pos. pos must be in [0, Len()); this is only checked in debug
// builds, use At for a checked access.
func (v *Vector[T]) Get(pos int) T {
	checkContract(pos >= 0 && pos < v.length, "position is out of range")
	return v.data[pos]
}

// Ref returns a pointer to the element at pos, valid until the next capacity change.
// pos must be in [0, Len()).
func (v *Vector[T]) Ref(pos int) *T {
	checkContract(pos >= 0 && pos < v.length, "position is out of range")
	return &v.data[pos]
}

// Set overwrites the element at pos. pos must be in [0, Len()). The previous element is
// overwritten, not destroyed.
func (v *Vector[T]) Set(pos int, value T) {
	checkContract(pos >= 0 && pos < v.length, "position is out of range")
	v.data[pos] = value
}

// At returns the element at pos, or an *OutOfRangeError if pos is not in [0, Len()).
func (v *Vector[T]) At(pos int) (T, error) {
	if pos < 0 || pos >= v.length {
		var zero T
		return zero, &OutOfRangeError{Pos: pos, Len: v.length}
	}
	return v.data[pos], nil
}

// Front returns the first element. The vector must not be empty.
func (v *Vector[T]) Front() T {
	checkContract(v.length > 0, "container is empty")
	return v.data[0]
}

// Back returns the last element. The vector must not be empty.
func (v *Vector[T]) Back() T {
	checkContract(v.length > 0, "container is empty")
	return v.data[v.length-1]
}

// Data returns the live elements as a slice aliasing the buffer. Writes through it are visible
// in the vector. The slice is valid until the next capacity change and is nil when the vector
// has no buffer.
func (v *Vector[T]) Data() []T {
	if v.data == nil {
		return nil
	}
	return v.data[:v.length:v.length]
}

// All returns an iterator over index/element pairs in insertion order.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.length; i++ {
			if !yield(i, v.data[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements in insertion order.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.length; i++ {
			if !yield(v.data[i]) {
				return
			}
		}
	}
}

// Backward returns an iterator over index/element pairs from last to first.
func (v *Vector[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := v.length - 1; i >= 0; i-- {
			if i >= v.length {
				continue
			}
			if !yield(i, v.data[i]) {
				return
			}
		}
	}
}

// Index returns the position of the first element equal to value, or -1.
func Index[T comparable](v *Vector[T], value T) int {
	for i := 0; i < v.length; i++ {
		if v.data[i] == value {
			return i
		}
	}
	return -1
}

// Contains reports whether value is present in v.
func Contains[T comparable](v *Vector[T], value T) bool {
	return Index(v, value) >= 0
}

// Equal reports whether a and b hold equal elements in the same order.
func Equal[T comparable](a, b *Vector[T]) bool {
	if a.length != b.length {
		return false
	}
	for i := 0; i < a.length; i++ {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}
