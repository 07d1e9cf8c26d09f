package fastvec

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Reserve reallocates the buffer to exactly newCap slots. newCap must exceed Cap(); in release
// builds a smaller or equal request is ignored. Length and element order are unchanged; all
// references into the old buffer are invalidated.
func (v *Vector[T]) Reserve(newCap int) {
	checkContract(newCap > len(v.data), "capacity is already equal to or greater than the passed value")
	if newCap <= len(v.data) {
		return
	}
	v.init()
	v.reallocate(newCap)
}

// ShrinkToFit reallocates the buffer to exactly Len() slots when 0 < Len() < Cap().
func (v *Vector[T]) ShrinkToFit() {
	if v.length == 0 || v.length == len(v.data) {
		return
	}
	v.init()
	v.reallocate(v.length)
}

// Clear destroys all elements. The buffer is kept for reuse.
func (v *Vector[T]) Clear() {
	if v.length == 0 {
		return
	}
	v.init()
	v.ops.destroy(v.data[:v.length])
	v.length = 0
}

// PushBack appends value, moving it into the vector. A full vector grows first.
func (v *Vector[T]) PushBack(value T) {
	v.init()
	if v.length == len(v.data) {
		v.grow()
	}
	v.data[v.length] = value
	v.length++
}

// PushBackCopy appends a copy of value: Clone for element types implementing Cloner, a plain
// copy otherwise.
func (v *Vector[T]) PushBackCopy(value T) {
	v.init()
	if v.length == len(v.data) {
		v.grow()
	}
	v.data[v.length] = v.ops.copyOne(value)
	v.length++
}

// EmplaceBack constructs a new last element in place. construct receives a pointer to a
// zeroed slot. Trivial element types must use PushBack.
func (v *Vector[T]) EmplaceBack(construct func(*T)) {
	v.init()
	checkContract(!v.ops.trivial(), "use PushBack() instead of EmplaceBack() with trivial types")
	if v.length == len(v.data) {
		v.grow()
	}
	clear(v.data[v.length : v.length+1])
	construct(&v.data[v.length])
	v.length++
}

// Append copies values to the end of the vector. When they fit into the spare capacity they
// are copied in bulk; otherwise they are appended one by one, growing by the growth policy.
func (v *Vector[T]) Append(values ...T) {
	n := len(values)
	if n == 0 {
		return
	}
	v.init()

	if v.length+n > len(v.data) {
		if v.overlaps(values) {
			values = slices.Clone(values)
		}
		for i := range values {
			v.PushBackCopy(values[i])
		}
		return
	}

	v.ops.copyInto(v.data[v.length:v.length+n], values)
	v.length += n
}

// PopBack destroys the last element. The vector must not be empty; in release builds the call
// is ignored on an empty vector. Capacity is unchanged.
func (v *Vector[T]) PopBack() {
	checkContract(v.length > 0, "container is empty")
	if v.length == 0 {
		return
	}
	v.init()
	v.length--
	v.ops.destroy(v.data[v.length : v.length+1])
}

// Erase removes the first element equal to value, keeping the order of the rest.
// It reports whether an element was removed.
func Erase[T comparable](v *Vector[T], value T) bool {
	return v.EraseFunc(func(e T) bool { return e == value })
}

// EraseFunc removes the first element for which match returns true, keeping the order of the
// rest. It reports whether an element was removed.
func (v *Vector[T]) EraseFunc(match func(T) bool) bool {
	for i := 0; i < v.length; i++ {
		if match(v.data[i]) {
			v.removeAt(i)
			return true
		}
	}
	return false
}

func (v *Vector[T]) removeAt(i int) {
	v.init()
	v.ops.destroy(v.data[i : i+1])
	copy(v.data[i:], v.data[i+1:v.length])
	v.length--
	if !v.ops.trivial() {
		clear(v.data[v.length : v.length+1])
	}
}

// Resize sets the length to count. New slots are default-constructed (Init hook or zero value
// for managed types; unspecified content for trivial types); removed slots are destroyed.
// If count exceeds Cap() the buffer is reallocated to exactly count slots.
func (v *Vector[T]) Resize(count int) {
	checkContract(count >= 0, "size must not be negative")
	count = max(count, 0)
	if count == v.length {
		return
	}
	v.init()

	if count > len(v.data) {
		v.reallocate(count)
	}
	if count > v.length {
		v.ops.construct(v.data[v.length:count])
	} else {
		v.ops.destroy(v.data[count:v.length])
	}
	v.length = count
}

// RemoveMarked removes every element whose position is set in marks, in one pass, keeping the
// order of the rest. Positions at or beyond Len() are ignored. It returns the number of elements
// removed.
func (v *Vector[T]) RemoveMarked(marks *roaring.Bitmap) int {
	if marks == nil || marks.IsEmpty() || v.length == 0 {
		return 0
	}
	v.init()

	w, r, removed := 0, 0, 0
	it := marks.Iterator()
	for it.HasNext() {
		p := int(it.Next())
		if p >= v.length {
			break
		}
		copy(v.data[w:], v.data[r:p])
		w += p - r
		v.ops.destroy(v.data[p : p+1])
		removed++
		r = p + 1
	}
	if removed == 0 {
		return 0
	}

	copy(v.data[w:], v.data[r:v.length])
	w += v.length - r
	if !v.ops.trivial() {
		clear(v.data[w:v.length])
	}
	v.length = w
	return removed
}
