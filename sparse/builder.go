// Package sparse implements the sparse paged array: an int64-indexed
// container that only allocates a page once some index inside that page
// has been written. A thread-safe Builder accumulates writes; Build
// freezes a point-in-time snapshot into an immutable Array while the
// builder stays usable.
//
// All sparse containers share 4096-element pages regardless of element
// width, so widely separated indices land on separate, independently
// allocated pages.
package sparse

import (
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/hugego/paging"
)

// Number constrains the element types eligible for arithmetic
// accumulation via AddTo.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Builder accumulates writes into a sparse paged array.
//
// Capacity, pages, and occupancy are guarded by three independent
// reader-writer locks rather than one combined lock. Concurrent Set calls
// on disjoint indices interleave their capacity, page, and occupancy steps
// freely; each step is individually consistent, and no step ever holds two
// of the locks at once. Callers that need a global view across overlapping
// writes must serialize externally.
type Builder[T any] struct {
	defaultValue T

	capMu    sync.RWMutex
	capacity int64

	pagesMu sync.RWMutex
	pages   map[int][]T

	occMu     sync.RWMutex
	occupancy *roaring64.Bitmap
}

// NewBuilder creates a builder whose unset indices resolve to defaultValue.
func NewBuilder[T any](defaultValue T) *Builder[T] {
	return NewBuilderWithCapacity(defaultValue, 0)
}

// NewBuilderWithCapacity creates a builder with a pre-declared addressable
// range of capacityHint elements. The hint sizes the page table and sets
// the initial capacity; it does not allocate any pages.
func NewBuilderWithCapacity[T any](defaultValue T, capacityHint int64) *Builder[T] {
	if capacityHint < 0 {
		panic(fmt.Sprintf("sparse: negative capacity hint %d", capacityHint))
	}

	return &Builder[T]{
		defaultValue: defaultValue,
		capacity:     capacityHint,
		pages:        make(map[int][]T, paging.NumPagesForShift(capacityHint, paging.DefaultPageShift, paging.DefaultPageMask)),
		occupancy:    roaring64.New(),
	}
}

// DefaultValue returns the value unset indices resolve to.
func (b *Builder[T]) DefaultValue() T { return b.defaultValue }

// Set writes value at index, raising the capacity and allocating the
// index's page as needed. Panics if index is negative.
func (b *Builder[T]) Set(index int64, value T) {
	b.growCapacity(index)
	b.withPage(index, func(page []T, offset int) {
		page[offset] = value
	})
	b.markSet(index)
}

// Update transforms the value at index with fn, reading the current value
// (or the default if never written) and writing the result back under a
// single hold of the pages lock, so concurrent Update calls on the same
// index never lose increments. Panics if index is negative.
func (b *Builder[T]) Update(index int64, fn func(T) T) {
	b.growCapacity(index)
	b.withPage(index, func(page []T, offset int) {
		page[offset] = fn(page[offset])
	})
	b.markSet(index)
}

// AddTo accumulates delta onto the current (or default) value at index.
// Used for histogram and counter style sparse accumulation.
func AddTo[T Number](b *Builder[T], index int64, delta T) {
	b.Update(index, func(cur T) T { return cur + delta })
}

// SetIfAbsent writes value only if index has never been set, returning
// true when this call performed the write. The presence check and the
// occupancy reservation are one critical section, so of any number of
// callers racing on the same index exactly one wins; the losers return
// false without mutating.
func (b *Builder[T]) SetIfAbsent(index int64, value T) bool {
	if index < 0 {
		panic(fmt.Sprintf("sparse: negative index %d", index))
	}

	b.occMu.Lock()
	won := b.occupancy.CheckedAdd(uint64(index))
	b.occMu.Unlock()

	if !won {
		return false
	}

	b.growCapacity(index)
	b.withPage(index, func(page []T, offset int) {
		page[offset] = value
	})

	return true
}

// Build returns an immutable point-in-time snapshot of the builder's
// state. The builder remains usable afterward; writes that follow never
// leak into the snapshot, and any number of snapshots may be taken over
// the builder's lifetime.
func (b *Builder[T]) Build() *Array[T] {
	// Snapshot one field at a time, never holding two locks at once.
	// Writers landing between fields produce the same per-field skew the
	// builder's write path already allows.
	b.capMu.RLock()
	capacity := b.capacity
	b.capMu.RUnlock()

	b.pagesMu.RLock()
	pages := make(map[int][]T, len(b.pages))
	for pageIdx, page := range b.pages {
		clone := make([]T, len(page))
		copy(clone, page)
		pages[pageIdx] = clone
	}
	b.pagesMu.RUnlock()

	b.occMu.RLock()
	occupancy := b.occupancy.Clone()
	b.occMu.RUnlock()

	return &Array[T]{
		capacity:     capacity,
		defaultValue: b.defaultValue,
		pages:        pages,
		occupancy:    occupancy,
	}
}

func (b *Builder[T]) growCapacity(index int64) {
	if index < 0 {
		panic(fmt.Sprintf("sparse: negative index %d", index))
	}

	b.capMu.Lock()
	if index+1 > b.capacity {
		b.capacity = index + 1
	}
	b.capMu.Unlock()
}

// withPage runs fn on the page holding index and the in-page offset,
// allocating the page default-filled on first touch. fn runs under the
// pages write lock.
func (b *Builder[T]) withPage(index int64, fn func(page []T, offset int)) {
	pageIdx := paging.PageIndex(index, paging.DefaultPageShift)
	offset := paging.IndexInPage(index, paging.DefaultPageMask)

	b.pagesMu.Lock()
	defer b.pagesMu.Unlock()

	page, ok := b.pages[pageIdx]
	if !ok {
		page = make([]T, paging.DefaultPageSize)
		for i := range page {
			page[i] = b.defaultValue
		}
		b.pages[pageIdx] = page
	}

	fn(page, offset)
}

func (b *Builder[T]) markSet(index int64) {
	b.occMu.Lock()
	b.occupancy.Add(uint64(index))
	b.occMu.Unlock()
}
