// Package paged implements the growth-capable paged store and the cursors
// that iterate it.
//
// A Store owns an ordered list of fixed-size pages plus two counters,
// capacity (total addressable slots) and size (logically filled prefix).
// Reads never lock: the page list is published through an atomic pointer
// and both counters live in cache-line padded atomics. Growth serializes
// on a single structural mutex with a double-checked re-test, then
// advances size through a CAS loop, so racing growers converge on the
// largest requested size and neither counter is ever observed decreasing.
package paged

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/hugego/padded"
	"github.com/hupe1980/hugego/paging"
)

// Store is a generic, growth-capable collection of fixed-size pages.
//
// A Store is safe to share across goroutines provided T itself is; the
// zero value is not usable, construct with NewStore.
type Store[T any] struct {
	size     padded.Int64
	capacity padded.Int64

	pages  atomic.Pointer[[][]T]
	growMu sync.Mutex // serializes structural growth

	alloc     Allocator[T]
	pageShift uint
	pageMask  int64
	maxSize   int64
}

// NewStore creates a store of initialSize elements, eagerly allocating
// every needed page. Panics if initialSize is negative, if the allocator's
// page size is not a power of two, or if initialSize exceeds the maximum
// supported size for that page size.
func NewStore[T any](initialSize int64, alloc Allocator[T]) *Store[T] {
	pageSize := alloc.PageSize()
	shift := paging.PageShift(pageSize) // panics on non-power-of-two
	maxSize := paging.MaxSupportedSize(pageSize)

	if initialSize < 0 {
		panic(fmt.Sprintf("paged: negative initial size %d", initialSize))
	}
	if initialSize > maxSize {
		panic(fmt.Sprintf("paged: size %d exceeds maximum supported size %d", initialSize, maxSize))
	}

	s := &Store[T]{
		alloc:     alloc,
		pageShift: shift,
		pageMask:  paging.PageMask(pageSize),
		maxSize:   maxSize,
	}

	numPages := paging.NumPagesForShift(initialSize, shift, s.pageMask)
	pages := make([][]T, numPages)
	for i := range pages {
		pages[i] = alloc.NewPage()
	}

	s.pages.Store(&pages)
	s.capacity.Store(paging.CapacityFor(numPages, shift))
	s.size.Store(initialSize)

	return s
}

// Size returns the logically filled prefix length. Lock-free; observations
// across goroutines are monotonically non-decreasing.
func (s *Store[T]) Size() int64 { return s.size.Load() }

// Capacity returns the total addressable slots across allocated pages.
// Lock-free and monotonically non-decreasing, with Capacity >= Size.
func (s *Store[T]) Capacity() int64 { return s.capacity.Load() }

// PageSize returns the page length in elements.
func (s *Store[T]) PageSize() int { return int(s.pageMask) + 1 }

// PageIndex returns the page holding global index i.
func (s *Store[T]) PageIndex(i int64) int { return paging.PageIndex(i, s.pageShift) }

// IndexInPage returns the offset of global index i within its page.
func (s *Store[T]) IndexInPage(i int64) int { return paging.IndexInPage(i, s.pageMask) }

// Get returns the element at index i. Panics if i is outside [0, Size()).
func (s *Store[T]) Get(i int64) T {
	if size := s.size.Load(); i < 0 || i >= size {
		panic(fmt.Sprintf("paged: index %d out of range [0, %d)", i, size))
	}
	pages := *s.pages.Load()
	return pages[i>>s.pageShift][i&s.pageMask]
}

// Set stores v at index i. Panics if i is outside [0, Size()).
func (s *Store[T]) Set(i int64, v T) {
	if size := s.size.Load(); i < 0 || i >= size {
		panic(fmt.Sprintf("paged: index %d out of range [0, %d)", i, size))
	}
	pages := *s.pages.Load()
	pages[i>>s.pageShift][i&s.pageMask] = v
}

// Pages returns the current page list. The list itself is a stable
// snapshot, but the pages are live storage: callers must not iterate
// concurrently with growth and must not retain the snapshot across a
// Release.
func (s *Store[T]) Pages() [][]T { return *s.pages.Load() }

// Grow raises the store's size to at least newSize, allocating pages as
// needed. Size never decreases: a newSize at or below the current size
// leaves the store untouched. Panics past the maximum supported size.
func (s *Store[T]) Grow(newSize int64) {
	s.grow(newSize, -1)
}

// GrowSkippingPage grows like Grow but leaves the page slot at skipPage
// nil for a page produced out of band. The caller must install that page
// with SetPage before it is read.
func (s *Store[T]) GrowSkippingPage(newSize int64, skipPage int) {
	s.grow(newSize, skipPage)
}

func (s *Store[T]) grow(newSize int64, skipPage int) {
	if newSize > s.maxSize {
		panic(fmt.Sprintf("paged: size %d exceeds maximum supported size %d", newSize, s.maxSize))
	}

	if s.capacity.Load() < newSize {
		s.growPages(newSize, skipPage)
	}

	s.advanceSize(newSize)
}

func (s *Store[T]) growPages(newSize int64, skipPage int) {
	s.growMu.Lock()
	defer s.growMu.Unlock()

	// Re-check under the lock; another goroutine may have grown the store
	// while this one waited.
	if s.capacity.Load() >= newSize {
		return
	}

	cur := *s.pages.Load()
	numPages := paging.NumPagesForShift(newSize, s.pageShift, s.pageMask)

	grown := make([][]T, numPages)
	copy(grown, cur)
	for i := len(cur); i < numPages; i++ {
		if i == skipPage {
			continue
		}
		grown[i] = s.alloc.NewPage()
	}

	s.pages.Store(&grown)
	s.capacity.Store(paging.CapacityFor(numPages, s.pageShift))
}

// advanceSize raises size to newSize unless it is already larger. The CAS
// loop never writes a value below one it observed, which keeps Size
// monotonic across racing growers.
func (s *Store[T]) advanceSize(newSize int64) {
	for {
		cur := s.size.Load()
		if newSize <= cur {
			return
		}
		if s.size.CompareAndSwap(cur, newSize) {
			return
		}
	}
}

// SetPage installs page at pageIndex, typically filling a slot left nil by
// GrowSkippingPage. The page must have the allocator's page length.
func (s *Store[T]) SetPage(pageIndex int, page []T) {
	if len(page) != s.PageSize() {
		panic(fmt.Sprintf("paged: page length %d does not match page size %d", len(page), s.PageSize()))
	}

	s.growMu.Lock()
	defer s.growMu.Unlock()

	cur := *s.pages.Load()
	if pageIndex < 0 || pageIndex >= len(cur) {
		panic(fmt.Sprintf("paged: page index %d out of range [0, %d)", pageIndex, len(cur)))
	}

	// Copy-on-write so concurrent readers only ever see a fully formed
	// page list.
	next := make([][]T, len(cur))
	copy(next, cur)
	next[pageIndex] = page
	s.pages.Store(&next)
}

// NewCursor returns a multi-page cursor over the half-open range
// [start, end), which must lie within [0, Size()]. The store must not be
// grown or released while the cursor is in use.
func (s *Store[T]) NewCursor(start, end int64) *MultiPageCursor[T] {
	if size := s.size.Load(); start < 0 || start > end || end > size {
		panic(fmt.Sprintf("paged: invalid cursor range [%d, %d) for size %d", start, end, size))
	}

	c := &MultiPageCursor[T]{
		pages:     *s.pages.Load(),
		pageShift: s.pageShift,
		pageMask:  s.pageMask,
	}
	c.SetRange(start, end)

	return c
}

// SizeOf returns the estimated bytes backing the current capacity.
func (s *Store[T]) SizeOf() int64 {
	return s.alloc.EstimateMemoryUsage(s.capacity.Load())
}

// Release drops every page and zeroes both counters, returning an
// estimate of the freed bytes. The transition is terminal: the store must
// not be used afterward, and most later accesses panic on the cleared
// page list.
func (s *Store[T]) Release() int64 {
	s.growMu.Lock()
	defer s.growMu.Unlock()

	s.size.Store(0)
	prev := s.capacity.Swap(0)
	s.pages.Store(nil)

	return s.alloc.EstimateMemoryUsage(prev)
}
