package fastvec

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fastvec/internal/conv"
	"github.com/hupe1980/fastvec/resource"
	"github.com/hupe1980/fastvec/testutil"
)

// counters records hook calls of resource elements.
type counters struct {
	clones    int
	destroyed int
}

// resourceElem is a managed element with Clone and Destroy hooks.
type resourceElem struct {
	id int
	c  *counters
}

func (r *resourceElem) Clone() resourceElem {
	r.c.clones++
	return resourceElem{id: r.id, c: r.c}
}

func (r *resourceElem) Destroy() {
	r.c.destroyed++
}

func resourceElems(c *counters, ids ...int) []resourceElem {
	out := make([]resourceElem, len(ids))
	for i, id := range ids {
		out[i] = resourceElem{id: id, c: c}
	}
	return out
}

func ids(v *Vector[resourceElem]) []int {
	var out []int
	for e := range v.Values() {
		out = append(out, e.id)
	}
	return out
}

// defaulted is a managed element with a non-zero default state.
type defaulted struct {
	name  string
	ready bool
}

func (d *defaulted) Init() {
	d.name = "unnamed"
	d.ready = true
}

func catchPanic(f func()) (v any) {
	defer func() { v = recover() }()
	f()
	return nil
}

func TestVector(t *testing.T) {
	t.Run("ZeroValue", func(t *testing.T) {
		var v Vector[int]
		assert.True(t, v.Empty())
		assert.Equal(t, 0, v.Cap())
		assert.Nil(t, v.Data())

		v.PushBack(7)
		assert.Equal(t, []int{7}, v.Data())
	})

	t.Run("PushBack", func(t *testing.T) {
		v := New[int]()
		v.PushBack(1)
		v.PushBack(2)
		v.PushBack(3)

		assert.Equal(t, 3, v.Len())
		assert.Equal(t, 3, v.Cap())
		assert.Equal(t, []int{1, 2, 3}, v.Data())
		assert.Equal(t, 1, v.Front())
		assert.Equal(t, 3, v.Back())
	})

	t.Run("GrowthPolicy", func(t *testing.T) {
		v := New[int]()
		var caps []int
		for i := range 16 {
			v.PushBack(i)
			caps = append(caps, v.Cap())
		}
		assert.Equal(t, []int{1, 3, 3, 7, 7, 7, 7, 15, 15, 15, 15, 15, 15, 15, 15, 31}, caps)
	})

	t.Run("AppendFallback", func(t *testing.T) {
		v := Of(1, 2, 3)
		require.Equal(t, 3, v.Cap())

		v.Append(4, 5)
		assert.Equal(t, 5, v.Len())
		assert.Equal(t, 7, v.Cap())
		assert.Equal(t, []int{1, 2, 3, 4, 5}, v.Data())
	})

	t.Run("AppendBulk", func(t *testing.T) {
		v := New[int](WithInitialCapacity(10))
		v.Append(1, 2, 3)
		v.Append(4, 5, 6, 7, 8, 9, 10)
		assert.Equal(t, 10, v.Cap())
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, v.Data())

		v.Append()
		assert.Equal(t, 10, v.Len())
	})

	t.Run("AppendSelf", func(t *testing.T) {
		v := Of(1, 2, 3)
		v.Append(v.Data()...)
		assert.Equal(t, []int{1, 2, 3, 1, 2, 3}, v.Data())

		v.Reserve(20)
		v.Append(v.Data()[:2]...)
		assert.Equal(t, []int{1, 2, 3, 1, 2, 3, 1, 2}, v.Data())
	})

	t.Run("Erase", func(t *testing.T) {
		v := Of(1, 2, 3)
		assert.True(t, Erase(v, 2))
		assert.Equal(t, []int{1, 3}, v.Data())
		assert.Equal(t, 2, v.Len())
		assert.Equal(t, 3, v.Cap())

		assert.False(t, Erase(v, 42))
		assert.Equal(t, []int{1, 3}, v.Data())

		v = Of(5, 5, 5)
		assert.True(t, Erase(v, 5))
		assert.Equal(t, []int{5, 5}, v.Data())
	})

	t.Run("EraseFunc", func(t *testing.T) {
		v := Of("a", "bb", "ccc", "dd")
		assert.True(t, v.EraseFunc(func(s string) bool { return len(s) == 2 }))
		assert.Equal(t, []string{"a", "ccc", "dd"}, v.Data())
		assert.Empty(t, v.data[v.length], "vacated slot is zeroed")
	})

	t.Run("At", func(t *testing.T) {
		v := Of(1, 2, 3)

		x, err := v.At(2)
		require.NoError(t, err)
		assert.Equal(t, 3, x)

		for _, pos := range []int{-1, 3, 10} {
			_, err = v.At(pos)
			require.ErrorIs(t, err, ErrOutOfRange)

			var oor *OutOfRangeError
			require.ErrorAs(t, err, &oor)
			assert.Equal(t, pos, oor.Pos)
			assert.Equal(t, 3, oor.Len)
		}
	})

	t.Run("GetSetRef", func(t *testing.T) {
		v := Of(1, 2, 3)
		v.Set(1, 20)
		*v.Ref(2) = 30
		assert.Equal(t, 20, v.Get(1))
		assert.Equal(t, []int{1, 20, 30}, v.Data())

		v.Data()[0] = 10
		assert.Equal(t, 10, v.Front())
	})

	t.Run("Clear", func(t *testing.T) {
		v := Of(1, 2, 3)
		v.Clear()
		assert.True(t, v.Empty())
		assert.Equal(t, 3, v.Cap())

		v.PushBack(4)
		assert.Equal(t, []int{4}, v.Data())
		assert.Equal(t, 3, v.Cap())
	})

	t.Run("PopBack", func(t *testing.T) {
		v := Of(1, 2)
		v.PopBack()
		assert.Equal(t, []int{1}, v.Data())
		v.PopBack()
		assert.True(t, v.Empty())
		assert.Equal(t, 2, v.Cap())
	})

	t.Run("Reserve", func(t *testing.T) {
		v := Of(1, 2, 3)
		v.Reserve(100)
		assert.Equal(t, 100, v.Cap())
		assert.Equal(t, []int{1, 2, 3}, v.Data())

		v = New[int]()
		v.Reserve(4)
		assert.Equal(t, 4, v.Cap())
		assert.True(t, v.Empty())
	})

	t.Run("ShrinkToFit", func(t *testing.T) {
		v := New[int](WithInitialCapacity(16))
		v.Append(1, 2, 3)
		v.ShrinkToFit()
		assert.Equal(t, 3, v.Cap())
		assert.Equal(t, []int{1, 2, 3}, v.Data())

		empty := New[int](WithInitialCapacity(8))
		empty.ShrinkToFit()
		assert.Equal(t, 8, empty.Cap())
	})

	t.Run("Resize", func(t *testing.T) {
		v := New[int]()
		v.Resize(4)
		assert.Equal(t, 4, v.Len())
		assert.Equal(t, 4, v.Cap())

		v.Resize(2)
		assert.Equal(t, 2, v.Len())
		assert.Equal(t, 4, v.Cap())

		v.PushBack(9)
		assert.Equal(t, []int{0, 0, 9}, v.Data())
		assert.Equal(t, 4, v.Cap())

		v.Resize(3)
		assert.Equal(t, 3, v.Len())
		assert.Equal(t, 4, v.Cap())

		v.Resize(0)
		assert.True(t, v.Empty())
		assert.Equal(t, 4, v.Cap())

		v.PushBack(5)
		assert.Equal(t, []int{5}, v.Data())
		assert.Equal(t, 4, v.Cap())
	})

	t.Run("FromSlice", func(t *testing.T) {
		src := []int{1, 2, 3}
		v := FromSlice(src)
		src[0] = 100
		assert.Equal(t, []int{1, 2, 3}, v.Data())
		assert.Equal(t, 3, v.Cap())

		v = FromSlice(src, WithInitialCapacity(8))
		assert.Equal(t, 8, v.Cap())
		assert.Equal(t, 3, v.Len())

		v = FromSlice[int](nil)
		assert.Equal(t, 0, v.Cap())
	})

	t.Run("Iterators", func(t *testing.T) {
		v := Of("a", "b", "c")

		var fwd []string
		for i, s := range v.All() {
			fwd = append(fwd, strings.Repeat(s, i+1))
		}
		assert.Equal(t, []string{"a", "bb", "ccc"}, fwd)

		var back []int
		for i := range v.Backward() {
			back = append(back, i)
		}
		assert.Equal(t, []int{2, 1, 0}, back)

		var prefix []string
		for s := range v.Values() {
			if s == "b" {
				break
			}
			prefix = append(prefix, s)
		}
		assert.Equal(t, []string{"a"}, prefix)
	})

	t.Run("Search", func(t *testing.T) {
		v := Of(3, 1, 4, 1, 5)
		assert.Equal(t, 1, Index(v, 1))
		assert.Equal(t, -1, Index(v, 9))
		assert.True(t, Contains(v, 5))
		assert.False(t, Contains(v, 2))

		assert.True(t, Equal(v, Of(3, 1, 4, 1, 5)))
		assert.False(t, Equal(v, Of(3, 1, 4)))
		assert.False(t, Equal(v, Of(3, 1, 4, 1, 6)))
	})
}

func TestVector_Ownership(t *testing.T) {
	t.Run("CloneIsIndependent", func(t *testing.T) {
		v := New[int](WithInitialCapacity(10))
		v.Append(1, 2, 3)

		c := v.Clone()
		assert.Equal(t, 3, c.Cap())
		c.Set(0, 100)
		c.PushBack(4)

		assert.Equal(t, []int{1, 2, 3}, v.Data())
		assert.Equal(t, []int{100, 2, 3, 4}, c.Data())
	})

	t.Run("Move", func(t *testing.T) {
		v := Of(1, 2, 3)
		buf := v.Data()

		m := v.Move()
		assert.Equal(t, 0, v.Len())
		assert.Equal(t, 0, v.Cap())
		assert.Equal(t, []int{1, 2, 3}, m.Data())
		assert.Same(t, &buf[0], &m.Data()[0])

		v.Release()
		v.PushBack(9)
		assert.Equal(t, []int{9}, v.Data())
	})

	t.Run("Swap", func(t *testing.T) {
		a := Of(1, 2)
		b := New[int](WithInitialCapacity(5))
		b.PushBack(3)

		Swap(a, b)
		assert.Equal(t, []int{3}, a.Data())
		assert.Equal(t, 5, a.Cap())
		assert.Equal(t, []int{1, 2}, b.Data())
		assert.Equal(t, 2, b.Cap())
	})

	t.Run("CopyFrom", func(t *testing.T) {
		c := &counters{}
		dst := FromSlice(resourceElems(c, 1, 2))
		src := FromSlice(resourceElems(c, 7, 8, 9))
		*c = counters{}

		dst.CopyFrom(src)
		assert.Equal(t, []int{7, 8, 9}, ids(dst))
		assert.Equal(t, 3, dst.Cap())
		assert.Equal(t, 3, c.clones)
		assert.Equal(t, 2, c.destroyed, "previous elements are destroyed")
		assert.Equal(t, []int{7, 8, 9}, ids(src))

		dst.CopyFrom(dst)
		assert.Equal(t, []int{7, 8, 9}, ids(dst))
		assert.Equal(t, 3, c.clones)
	})

	t.Run("CopyFromEmpty", func(t *testing.T) {
		dst := Of(1, 2)
		dst.CopyFrom(New[int]())
		assert.True(t, dst.Empty())
		assert.Equal(t, 0, dst.Cap())
	})

	t.Run("MoveFrom", func(t *testing.T) {
		c := &counters{}
		dst := FromSlice(resourceElems(c, 1, 2))
		src := FromSlice(resourceElems(c, 7, 8, 9))
		*c = counters{}

		dst.MoveFrom(src)
		assert.Equal(t, []int{7, 8, 9}, ids(dst))
		assert.Equal(t, 0, c.clones)
		assert.Equal(t, 2, c.destroyed)
		assert.Equal(t, 0, src.Len())
		assert.Equal(t, 0, src.Cap())

		src.Release()
		assert.Equal(t, 2, c.destroyed, "moved-from vector owns nothing")
	})
}

func TestVector_ManagedElements(t *testing.T) {
	t.Run("DestroyCalledOncePerElement", func(t *testing.T) {
		c := &counters{}
		v := New[resourceElem]()
		for _, e := range resourceElems(c, 1, 2, 3, 4, 5, 6) {
			v.PushBack(e)
		}
		assert.Equal(t, 0, c.destroyed, "growth relocates without destroying")
		assert.Equal(t, 7, v.Cap())

		v.PopBack()
		assert.Equal(t, 1, c.destroyed)

		assert.True(t, v.EraseFunc(func(e resourceElem) bool { return e.id == 2 }))
		assert.Equal(t, 2, c.destroyed)
		assert.Equal(t, []int{1, 3, 4, 5}, ids(v))

		v.Resize(2)
		assert.Equal(t, 4, c.destroyed)

		v.Clear()
		assert.Equal(t, 6, c.destroyed)

		v.PushBack(resourceElem{id: 10, c: c})
		v.Release()
		assert.Equal(t, 7, c.destroyed)
		assert.Equal(t, 0, v.Cap())
	})

	t.Run("VacatedSlotsAreZeroed", func(t *testing.T) {
		c := &counters{}
		v := FromSlice(resourceElems(c, 1, 2, 3))
		v.Reserve(10)
		v.PopBack()
		v.EraseFunc(func(e resourceElem) bool { return e.id == 1 })

		for _, slot := range v.data[v.length:] {
			assert.Nil(t, slot.c)
		}
	})

	t.Run("CopyClones", func(t *testing.T) {
		c := &counters{}
		v := FromSlice(resourceElems(c, 1, 2))
		assert.Equal(t, 2, c.clones)

		v.PushBackCopy(resourceElem{id: 3, c: c})
		assert.Equal(t, 3, c.clones)

		v.PushBack(resourceElem{id: 4, c: c})
		assert.Equal(t, 3, c.clones, "PushBack moves")

		v.Append(resourceElems(c, 5, 6)...)
		assert.Equal(t, 5, c.clones)

		_ = v.Clone()
		assert.Equal(t, 11, c.clones)
	})

	t.Run("ResizeInitializes", func(t *testing.T) {
		v := New[defaulted]()
		v.PushBack(defaulted{name: "first"})
		v.Resize(3)

		assert.Equal(t, defaulted{name: "first"}, v.Get(0))
		for _, d := range v.Data()[1:] {
			assert.Equal(t, defaulted{name: "unnamed", ready: true}, d)
		}
	})

	t.Run("EmplaceBack", func(t *testing.T) {
		v := New[defaulted]()
		for _, name := range []string{"a", "b", "c"} {
			v.EmplaceBack(func(d *defaulted) {
				assert.Zero(t, *d)
				d.name = name
			})
		}
		assert.Equal(t, 3, v.Len())
		assert.Equal(t, 3, v.Cap())
		assert.Equal(t, "c", v.Back().name)
	})

	t.Run("Strings", func(t *testing.T) {
		v := New[string]()
		for i := range 100 {
			v.PushBack(strings.Repeat("x", i))
		}
		v.ShrinkToFit()
		assert.Equal(t, 100, v.Cap())
		assert.Equal(t, strings.Repeat("x", 99), v.Back())
	})
}

func TestVector_RemoveMarked(t *testing.T) {
	t.Run("Trivial", func(t *testing.T) {
		v := Of(0, 1, 2, 3, 4, 5, 6, 7)
		n := v.RemoveMarked(roaring.BitmapOf(0, 3, 4, 7, 100))
		assert.Equal(t, 4, n)
		assert.Equal(t, []int{1, 2, 5, 6}, v.Data())
		assert.Equal(t, 8, v.Cap())
	})

	t.Run("Managed", func(t *testing.T) {
		c := &counters{}
		v := FromSlice(resourceElems(c, 0, 1, 2, 3, 4))
		n := v.RemoveMarked(roaring.BitmapOf(1, 2))
		assert.Equal(t, 2, n)
		assert.Equal(t, 2, c.destroyed)
		assert.Equal(t, []int{0, 3, 4}, ids(v))
		for _, slot := range v.data[v.length:] {
			assert.Nil(t, slot.c)
		}
	})

	t.Run("NothingToRemove", func(t *testing.T) {
		v := Of(1, 2, 3)
		assert.Equal(t, 0, v.RemoveMarked(nil))
		assert.Equal(t, 0, v.RemoveMarked(roaring.New()))
		assert.Equal(t, 0, v.RemoveMarked(roaring.BitmapOf(3, 4)))
		assert.Equal(t, []int{1, 2, 3}, v.Data())
	})

	t.Run("Random", func(t *testing.T) {
		rng := testutil.NewRNG(3)
		for range 20 {
			n := 1 + rng.IntN(500)
			src := make([]uint64, n)
			rng.FillUint64(src)
			marked := rng.Sample(n, rng.IntN(n+1))

			v := FromSlice(src)
			removed := v.RemoveMarked(roaring.BitmapOf(marked...))

			want := make([]uint64, 0, n)
			for i, x := range src {
				if !slices.Contains(marked, uint32(i)) { //nolint:gosec // small test sizes
					want = append(want, x)
				}
			}
			require.Equal(t, len(marked), removed)
			require.Equal(t, want, v.Data())
		}
	})

	t.Run("All", func(t *testing.T) {
		v := Of(1, 2, 3)
		marks := roaring.New()
		marks.AddRange(0, 3)
		assert.Equal(t, 3, v.RemoveMarked(marks))
		assert.True(t, v.Empty())
	})
}

func TestVector_MemoryAccounting(t *testing.T) {
	t.Run("TracksCapacity", func(t *testing.T) {
		rc := resource.NewController(resource.Config{})
		v := New[int64](WithMemoryAcquirer(rc))
		for i := range 10 {
			v.PushBack(int64(i))
		}
		assert.Equal(t, int64(15*8), rc.MemoryUsage())

		v.ShrinkToFit()
		assert.Equal(t, int64(10*8), rc.MemoryUsage())

		c := v.Clone()
		assert.Equal(t, int64(20*8), rc.MemoryUsage())

		c.Release()
		v.Release()
		assert.Equal(t, int64(0), rc.MemoryUsage())
	})

	t.Run("ManagedTracksCapacity", func(t *testing.T) {
		rc := resource.NewController(resource.Config{})
		v := New[string](WithMemoryAcquirer(rc))
		v.Append("a", "b", "c", "d")
		assert.Equal(t, int64(7)*int64(elemSize[string]()), rc.MemoryUsage())
		v.Release()
		assert.Equal(t, int64(0), rc.MemoryUsage())
	})

	t.Run("LimitExceeded", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 16})
		v := New[int64](WithMemoryAcquirer(rc))
		v.PushBack(1)

		p := catchPanic(func() { v.PushBack(2) })
		require.NotNil(t, p)

		err, ok := p.(error)
		require.True(t, ok)
		require.ErrorIs(t, err, ErrAllocationFailed)
		require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)

		var ae *AllocationError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, 3, ae.Requested)
		assert.Equal(t, "heap", ae.Storage)

		assert.Equal(t, []int64{1}, v.Data(), "vector unchanged")
		assert.Equal(t, 1, v.Cap())
		assert.Equal(t, int64(8), rc.MemoryUsage())
	})

	t.Run("ManagedLimitExceeded", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: int64(elemSize[string]())})
		v := New[string](WithMemoryAcquirer(rc))
		v.PushBack("a")

		p := catchPanic(func() { v.Reserve(2) })
		err, ok := p.(error)
		require.True(t, ok)
		require.ErrorIs(t, err, ErrAllocationFailed)
		assert.Equal(t, []string{"a"}, v.Data())
		assert.Equal(t, 1, v.Cap())
	})
}

func TestVector_AllocationOverflow(t *testing.T) {
	v := Of[int64](1, 2)

	p := catchPanic(func() { v.Reserve(math.MaxInt) })
	err, ok := p.(error)
	require.True(t, ok)
	require.ErrorIs(t, err, ErrAllocationFailed)
	require.ErrorIs(t, err, conv.ErrOverflow)
	assert.True(t, errors.As(err, new(*AllocationError)))
	assert.Equal(t, []int64{1, 2}, v.Data())
}

func BenchmarkPushBack(b *testing.B) {
	b.Run("Vector", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			v := New[int]()
			for i := range 1024 {
				v.PushBack(i)
			}
		}
	})

	b.Run("VectorOffHeap", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			v := New[int](WithOffHeap())
			for i := range 1024 {
				v.PushBack(i)
			}
			v.Release()
		}
	})

	b.Run("Slice", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			var s []int
			for i := range 1024 {
				s = append(s, i)
			}
			_ = s
		}
	})
}

func BenchmarkAppend(b *testing.B) {
	src := make([]float32, 256)
	b.ReportAllocs()
	for b.Loop() {
		v := New[float32](WithInitialCapacity(4096))
		for range 16 {
			v.Append(src...)
		}
	}
}
