package paged

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hugego/paging"
)

// countingAllocator tracks page allocations so growth tests can assert
// that double-checked locking never allocates a page twice.
type countingAllocator struct {
	pageSize  int
	allocated atomic.Int64
}

func (a *countingAllocator) PageSize() int { return a.pageSize }

func (a *countingAllocator) NewPage() []int64 {
	a.allocated.Add(1)
	return make([]int64, a.pageSize)
}

func (a *countingAllocator) EstimateMemoryUsage(capacity int64) int64 {
	return int64(paging.NumPagesFor(capacity, a.pageSize)) * int64(a.pageSize) * 8
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name         string
		initialSize  int64
		wantPages    int
		wantCapacity int64
	}{
		{name: "empty", initialSize: 0, wantPages: 0, wantCapacity: 0},
		{name: "single partial page", initialSize: 1000, wantPages: 1, wantCapacity: 4096},
		{name: "exact page boundary", initialSize: 4096, wantPages: 1, wantCapacity: 4096},
		{name: "one past boundary", initialSize: 4097, wantPages: 2, wantCapacity: 8192},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := &countingAllocator{pageSize: 4096}
			s := NewStore[int64](tt.initialSize, alloc)

			assert.Equal(t, tt.initialSize, s.Size())
			assert.Equal(t, tt.wantCapacity, s.Capacity())
			assert.Len(t, s.Pages(), tt.wantPages)
			assert.Equal(t, int64(tt.wantPages), alloc.allocated.Load())
		})
	}
}

func TestNewStore_Preconditions(t *testing.T) {
	t.Run("negative initial size", func(t *testing.T) {
		assert.Panics(t, func() {
			NewStore[int64](-1, &countingAllocator{pageSize: 4096})
		})
	})

	t.Run("non power of two page size", func(t *testing.T) {
		assert.Panics(t, func() {
			NewStore[int64](10, &countingAllocator{pageSize: 1000})
		})
	})

	t.Run("exceeds maximum supported size", func(t *testing.T) {
		assert.Panics(t, func() {
			NewStore[int64](paging.MaxSupportedSize(4096)+1, &countingAllocator{pageSize: 4096})
		})
	})
}

func TestStore_GetSet(t *testing.T) {
	s := NewStore[int64](10000, NewSliceAllocator[int64](4096))

	// Values straddling the page boundary at 4096.
	for _, i := range []int64{0, 1, 4095, 4096, 4097, 9999} {
		s.Set(i, i*10)
	}
	for _, i := range []int64{0, 1, 4095, 4096, 4097, 9999} {
		assert.Equal(t, i*10, s.Get(i))
	}

	// Untouched slots read as zero.
	assert.Equal(t, int64(0), s.Get(2))

	assert.Panics(t, func() { s.Get(-1) })
	assert.Panics(t, func() { s.Get(10000) })
	assert.Panics(t, func() { s.Set(-1, 1) })
	assert.Panics(t, func() { s.Set(10000, 1) })
}

func TestStore_Grow(t *testing.T) {
	alloc := &countingAllocator{pageSize: 4096}
	s := NewStore[int64](1000, alloc)

	s.Grow(100_000)

	assert.Equal(t, int64(100_000), s.Size())
	assert.GreaterOrEqual(t, s.Capacity(), int64(100_000))
	assert.Equal(t, int64(paging.NumPagesFor(100_000, 4096)), alloc.allocated.Load())
}

func TestStore_GrowIsMonotonic(t *testing.T) {
	s := NewStore[int64](1000, NewSliceAllocator[int64](4096))

	s.Grow(50)
	assert.Equal(t, int64(1000), s.Size(), "grow never shrinks")
	assert.Equal(t, int64(4096), s.Capacity())

	s.Grow(5000)
	s.Grow(2000)
	assert.Equal(t, int64(5000), s.Size())
}

func TestStore_GrowIdempotence(t *testing.T) {
	alloc := &countingAllocator{pageSize: 4096}
	s := NewStore[int64](4096, alloc)

	s.Set(0, 7)
	s.Set(4095, 9)

	before := alloc.allocated.Load()
	capBefore := s.Capacity()

	// Capacity already suffices, so this only moves size.
	s.Grow(2000)
	s.Grow(4096)

	assert.Equal(t, capBefore, s.Capacity())
	assert.Equal(t, before, alloc.allocated.Load(), "no pages allocated on fast path")
	assert.Equal(t, int64(7), s.Get(0))
	assert.Equal(t, int64(9), s.Get(4095))
}

func TestStore_GrowPreservesContents(t *testing.T) {
	s := NewStore[int64](4096, NewSliceAllocator[int64](4096))

	for i := int64(0); i < 4096; i++ {
		s.Set(i, i)
	}

	s.Grow(20000)

	for i := int64(0); i < 4096; i++ {
		require.Equal(t, i, s.Get(i))
	}
	assert.Equal(t, int64(0), s.Get(19999))
}

func TestStore_ConcurrentGrow(t *testing.T) {
	const (
		goroutines = 4
		target     = int64(100_000)
	)

	alloc := &countingAllocator{pageSize: 4096}
	s := NewStore[int64](1000, alloc)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Grow(target)
			assert.Equal(t, target, s.Size())
		}()
	}
	wg.Wait()

	assert.Equal(t, target, s.Size())
	assert.GreaterOrEqual(t, s.Capacity(), target)

	// The loser of the growth race re-checks under the lock and reuses the
	// winner's pages, so every page is allocated exactly once.
	assert.Equal(t, int64(paging.NumPagesFor(target, 4096)), alloc.allocated.Load())
}

func TestStore_ConcurrentGrowDistinctTargets(t *testing.T) {
	s := NewStore[int64](0, NewSliceAllocator[int64](4096))

	targets := []int64{10_000, 50_000, 25_000, 100_000, 75_000}

	var wg sync.WaitGroup
	for _, target := range targets {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			s.Grow(n)
		}(target)
	}
	wg.Wait()

	// The largest requested size wins; nothing shrinks along the way.
	assert.Equal(t, int64(100_000), s.Size())
	assert.GreaterOrEqual(t, s.Capacity(), int64(100_000))
}

func TestStore_GrowSkippingPage(t *testing.T) {
	s := NewStore[int64](0, NewSliceAllocator[int64](4096))

	s.GrowSkippingPage(3*4096, 1)

	pages := s.Pages()
	require.Len(t, pages, 3)
	assert.NotNil(t, pages[0])
	assert.Nil(t, pages[1], "skipped slot stays unallocated")
	assert.NotNil(t, pages[2])

	// Install the out-of-band page and read through it.
	external := make([]int64, 4096)
	external[17] = 42
	s.SetPage(1, external)

	assert.Equal(t, int64(42), s.Get(4096+17))
}

func TestStore_SetPagePreconditions(t *testing.T) {
	s := NewStore[int64](4096, NewSliceAllocator[int64](4096))

	assert.Panics(t, func() { s.SetPage(0, make([]int64, 100)) })
	assert.Panics(t, func() { s.SetPage(-1, make([]int64, 4096)) })
	assert.Panics(t, func() { s.SetPage(1, make([]int64, 4096)) })
}

func TestStore_GrowPastMaxPanics(t *testing.T) {
	s := NewStore[int64](0, NewSliceAllocator[int64](4096))

	assert.Panics(t, func() { s.Grow(paging.MaxSupportedSize(4096) + 1) })
}

func TestStore_Release(t *testing.T) {
	alloc := &countingAllocator{pageSize: 4096}
	s := NewStore[int64](10000, alloc)

	wantFreed := alloc.EstimateMemoryUsage(s.Capacity())
	freed := s.Release()

	assert.Equal(t, wantFreed, freed)
	assert.Equal(t, int64(0), s.Size())
	assert.Equal(t, int64(0), s.Capacity())

	// The transition is terminal.
	assert.Panics(t, func() { s.Get(0) })
	assert.Panics(t, func() { s.Grow(10) })
}

func TestStore_SizeOf(t *testing.T) {
	s := NewStore[int64](1000, NewSliceAllocator[int64](4096))
	assert.Equal(t, int64(4096*8), s.SizeOf())

	s.Grow(10000)
	assert.Equal(t, int64(3*4096*8), s.SizeOf())
}

func TestStore_AlignedAllocator(t *testing.T) {
	s := NewStore[float64](10000, NewAlignedAllocator[float64](4096))

	s.Set(0, 1.5)
	s.Set(9999, -2.5)

	assert.Equal(t, 1.5, s.Get(0))
	assert.Equal(t, -2.5, s.Get(9999))
	assert.Equal(t, int64(3*4096*8), s.SizeOf())
}

func BenchmarkStore_Get(b *testing.B) {
	s := NewStore[int64](1_000_000, NewSliceAllocator[int64](4096))
	for i := int64(0); i < 1_000_000; i += 1000 {
		s.Set(i, i)
	}

	b.ResetTimer()
	var sum int64
	for i := 0; i < b.N; i++ {
		sum += s.Get(int64(i) % 1_000_000)
	}
	_ = sum
}

func BenchmarkStore_Grow(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s := NewStore[int64](0, NewSliceAllocator[int64](4096))
		s.Grow(100_000)
	}
}
