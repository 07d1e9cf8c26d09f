// Package fastvec provides Vector, a growable contiguous array tuned for plain element types.
//
// Vector is a lean alternative to a slice grown with append. It owns exactly one buffer,
// grows by a fixed policy (capacity*2+1), and picks one of two code paths per element type:
//
//   - Trivial types (pointer-free, no lifecycle hooks) are relocated, copied and serialized in
//     bulk, may live off-heap, and need no destruction.
//   - Managed types (anything holding pointers, or implementing Cloner, Destroyer or
//     Initializer) are copied, constructed and destroyed one element at a time, and vacated
//     slots are zeroed so the garbage collector never retains stale references.
//
// The path is chosen once per type; see IsTrivial.
//
// # Quick Start
//
//	v := fastvec.New[int]()
//	v.PushBack(1)
//	v.PushBack(2)
//	v.PushBack(3)
//	fmt.Println(v.Len(), v.Cap()) // 3 3
//
//	fastvec.Erase(v, 2)           // [1 3]
//	x, err := v.At(10)            // err is *OutOfRangeError
//
// # Ownership
//
// A vector is the only owner of its buffer:
//
//	c := v.Clone()      // independent copy, Cap() == Len()
//	m := v.Move()       // O(1) transfer, v is left without a buffer
//	fastvec.Swap(a, b)  // O(1) exchange
//	m.Release()         // destroy elements and free the buffer
//
// # Off-heap Storage
//
// Trivial vectors can keep their elements in anonymous memory mappings, outside the reach of
// the garbage collector. Growth then uses mremap instead of copying on Linux:
//
//	v := fastvec.New[float32](fastvec.WithOffHeap())
//	defer v.Release() // required for off-heap vectors
//
// # Errors
//
// Precondition violations (unchecked access out of range, PopBack/Front/Back on an empty vector,
// Reserve to a capacity that is not larger, EmplaceBack on a trivial type) are programming
// errors. They are asserted only when built with -tags fastvec_debug and cost nothing otherwise.
// Checked access (At) returns *OutOfRangeError. Allocation failures, including a rejection by
// the memory acquirer, panic with *AllocationError from every capacity-changing operation.
//
// # Snapshots
//
// Trivial vectors implement io.WriterTo and io.ReaderFrom using a block-compressed,
// checksummed format (LZ4 by default, ZSTD or none on request):
//
//	_, err := v.Encode(ctx, f, fastvec.WithCompression(fastvec.CompressionZSTD))
//	_, err = w.Decode(ctx, f)
//
// Vectors are not safe for concurrent use.
package fastvec
