package sparse

import (
	"iter"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/hugego/paging"
)

// Array is the immutable result of Builder.Build. All methods are total
// and read-only, so an Array may be shared across goroutines without
// synchronization.
type Array[T any] struct {
	capacity     int64
	defaultValue T
	pages        map[int][]T
	occupancy    *roaring64.Bitmap
}

// Get returns the value at index, or the default value for any index that
// was never written. Total for every int64: negative and out-of-range
// indexes yield the default rather than panicking.
func (a *Array[T]) Get(index int64) T {
	if index < 0 || index >= a.capacity {
		return a.defaultValue
	}

	page, ok := a.pages[paging.PageIndex(index, paging.DefaultPageShift)]
	if !ok {
		return a.defaultValue
	}

	return page[paging.IndexInPage(index, paging.DefaultPageMask)]
}

// Contains reports whether index was explicitly written. This
// distinguishes a never-set index from one explicitly set to the default
// value, which Get alone cannot.
func (a *Array[T]) Contains(index int64) bool {
	if index < 0 {
		return false
	}
	return a.occupancy.Contains(uint64(index))
}

// Capacity returns one past the highest index set at snapshot time (or
// the builder's capacity hint, if larger).
func (a *Array[T]) Capacity() int64 { return a.capacity }

// DefaultValue returns the value unset indices resolve to.
func (a *Array[T]) DefaultValue() T { return a.defaultValue }

// PageCount returns the number of allocated pages. Only pages containing
// at least one explicitly written value exist.
func (a *Array[T]) PageCount() int { return len(a.pages) }

// Count returns the number of explicitly written indices.
func (a *Array[T]) Count() int64 {
	return int64(a.occupancy.GetCardinality()) //nolint:gosec // cardinality is bounded by int64 indices
}

// SizeOf estimates the bytes backing allocated pages. Heap allocations
// nested inside element values are not counted.
func (a *Array[T]) SizeOf() int64 {
	elementSize := int64(unsafe.Sizeof(*new(T))) //nolint:gosec // size probe only
	return int64(a.PageCount()) * paging.DefaultPageSize * elementSize
}

// All iterates the explicitly written indices in ascending order together
// with their values.
func (a *Array[T]) All() iter.Seq2[int64, T] {
	return func(yield func(int64, T) bool) {
		it := a.occupancy.Iterator()
		for it.HasNext() {
			index := int64(it.Next()) //nolint:gosec // only non-negative indices are ever added
			if !yield(index, a.Get(index)) {
				return
			}
		}
	}
}
