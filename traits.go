package fastvec

import (
	"reflect"
	"sync"
)

// Cloner is implemented by element types whose copies must not share state with the
// original. Copy operations (Clone, CopyFrom, FromSlice, PushBackCopy, Append) call it once per
// copied element.
type Cloner[T any] interface {
	Clone() T
}

// Destroyer is implemented by element types that hold resources needing explicit release.
// Destroy is called exactly once for every element that leaves the vector by Clear, PopBack,
// Erase, Resize, RemoveMarked or Release. Elements relocated by growth are moved, not destroyed.
type Destroyer interface {
	Destroy()
}

// Initializer is implemented by element types with a non-zero default state. Resize calls Init
// on every new slot after zeroing it.
type Initializer interface {
	Init()
}

// elemOps is the per-type construction strategy. It is selected once per element type and never
// re-evaluated, so vector operations pay one interface call instead of a branch per element.
type elemOps[T any] interface {
	// trivial reports whether T may be relocated by byte copy and needs no destruction.
	trivial() bool
	// copyInto copy-constructs src into dst[:len(src)].
	copyInto(dst, src []T)
	// copyOne returns a copy-constructed duplicate of v.
	copyOne(v T) T
	// destroy ends the lifetime of every element in s.
	destroy(s []T)
	// construct default-constructs every slot in s.
	construct(s []T)
}

// trivialOps bulk-copies and treats construction and destruction as no-ops.
type trivialOps[T any] struct{}

func (trivialOps[T]) trivial() bool         { return true }
func (trivialOps[T]) copyInto(dst, src []T) { copy(dst, src) }
func (trivialOps[T]) copyOne(v T) T         { return v }
func (trivialOps[T]) destroy([]T)           {}
func (trivialOps[T]) construct([]T)         {}

// managedOps runs element hooks one at a time and zeroes every slot it destroys so the
// garbage collector never sees references in [length, capacity).
type managedOps[T any] struct {
	clone bool
	drop  bool
	init  bool
}

func (managedOps[T]) trivial() bool { return false }

func (o managedOps[T]) copyInto(dst, src []T) {
	if !o.clone {
		copy(dst, src)
		return
	}
	for i := range src {
		dst[i] = any(&src[i]).(Cloner[T]).Clone()
	}
}

func (o managedOps[T]) copyOne(v T) T {
	if !o.clone {
		return v
	}
	return any(&v).(Cloner[T]).Clone()
}

func (o managedOps[T]) destroy(s []T) {
	if o.drop {
		for i := range s {
			any(&s[i]).(Destroyer).Destroy()
		}
	}
	clear(s)
}

func (o managedOps[T]) construct(s []T) {
	clear(s)
	if o.init {
		for i := range s {
			any(&s[i]).(Initializer).Init()
		}
	}
}

type hooks struct {
	clone, drop, init bool
}

func (h hooks) present() bool { return h.clone || h.drop || h.init }

// hooksOf inspects the method set of *T, which includes the value-receiver methods of T.
func hooksOf[T any]() hooks {
	var p *T
	_, clone := any(p).(Cloner[T])
	_, drop := any(p).(Destroyer)
	_, init := any(p).(Initializer)
	return hooks{clone: clone, drop: drop, init: init}
}

var opsCache sync.Map // reflect.Type -> elemOps[T]

// opsFor returns the cached strategy for T.
func opsFor[T any]() elemOps[T] {
	t := reflect.TypeFor[T]()
	if ops, ok := opsCache.Load(t); ok {
		return ops.(elemOps[T])
	}

	var ops elemOps[T]
	h := hooksOf[T]()
	if !h.present() && pointerFree(t) {
		ops = trivialOps[T]{}
	} else {
		ops = managedOps[T]{clone: h.clone, drop: h.drop, init: h.init}
	}

	actual, _ := opsCache.LoadOrStore(t, ops)
	return actual.(elemOps[T])
}

// IsTrivial reports whether T is handled by the trivial code path: T contains no pointers
// (so it is invisible to the garbage collector and may be copied byte for byte) and implements
// none of Cloner, Destroyer or Initializer. Only trivial vectors may use off-heap storage and
// snapshots.
func IsTrivial[T any]() bool {
	return opsFor[T]().trivial()
}

func pointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || pointerFree(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !pointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		// Pointer, UnsafePointer, String, Slice, Map, Chan, Func, Interface.
		return false
	}
}
