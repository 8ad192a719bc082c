package paged

import (
	"fmt"

	"github.com/hupe1980/hugego/paging"
)

// Cursor iterates paged storage without copying: after each successful
// Advance, Page()[i] for i in [Offset(), Limit()) is element Base()+i of
// the underlying storage.
//
// Cursors are single-goroutine state machines with no internal locking.
// They hold only weak references to pages, so the backing store must
// outlive the cursor and must not grow while the cursor is active; any
// number of independent cursors may read the same storage concurrently.
type Cursor[T any] interface {
	// Advance claims the next page, returning false once the range is
	// exhausted. The window accessors are only valid after a true return.
	Advance() bool

	// Base returns the global index of element 0 of the current page.
	Base() int64

	// Page returns the current page's backing slice.
	Page() []T

	// Offset returns the first valid index within Page.
	Offset() int

	// Limit returns one past the last valid index within Page.
	Limit() int

	// SetRange rebinds the cursor to the half-open global range
	// [start, end) and rewinds it.
	SetRange(start, end int64)

	// Reset rewinds the cursor to the start of its current range.
	Reset()
}

// Compile-time interface checks.
var (
	_ Cursor[int64] = (*SinglePageCursor[int64])(nil)
	_ Cursor[int64] = (*MultiPageCursor[int64])(nil)
)

// SinglePageCursor drives the cursor contract over one contiguous slice.
// Advance succeeds exactly once per SetRange or Reset when the bound range
// is non-empty.
type SinglePageCursor[T any] struct {
	page []T

	start int64
	end   int64

	exhausted bool
}

// NewSinglePageCursor creates a cursor bound to the full slice.
func NewSinglePageCursor[T any](page []T) *SinglePageCursor[T] {
	c := &SinglePageCursor[T]{page: page}
	c.SetRange(0, int64(len(page)))

	return c
}

// SetRange implements Cursor. start and end index directly into the slice.
func (c *SinglePageCursor[T]) SetRange(start, end int64) {
	if start < 0 || start > end || end > int64(len(c.page)) {
		panic(fmt.Sprintf("paged: invalid range [%d, %d) for page of length %d", start, end, len(c.page)))
	}

	c.start, c.end = start, end
	c.Reset()
}

// Reset implements Cursor.
func (c *SinglePageCursor[T]) Reset() {
	c.exhausted = false
}

// Advance implements Cursor.
func (c *SinglePageCursor[T]) Advance() bool {
	if c.exhausted || c.start >= c.end {
		return false
	}
	c.exhausted = true

	return true
}

// Base implements Cursor. A single page always starts at global index 0.
func (c *SinglePageCursor[T]) Base() int64 { return 0 }

// Page implements Cursor.
func (c *SinglePageCursor[T]) Page() []T { return c.page }

// Offset implements Cursor.
func (c *SinglePageCursor[T]) Offset() int { return int(c.start) }

// Limit implements Cursor.
func (c *SinglePageCursor[T]) Limit() int { return int(c.end) }

// MultiPageCursor walks an ordered page list, spanning page boundaries
// transparently: the first page of a range starts at the range's in-page
// offset, the last page ends one past the range's final element, and every
// page strictly between covers its full length.
type MultiPageCursor[T any] struct {
	pages     [][]T
	pageShift uint
	pageMask  int64

	start int64
	end   int64

	fromPage int
	maxPage  int

	pageIdx int
	page    []T
	base    int64
	offset  int
	limit   int
}

// NewMultiPageCursor creates a cursor over pages of pageSize elements,
// initially bound to the empty range. Panics if pageSize is not a power
// of two.
func NewMultiPageCursor[T any](pages [][]T, pageSize int) *MultiPageCursor[T] {
	shift := paging.PageShift(pageSize) // panics on non-power-of-two

	c := &MultiPageCursor[T]{
		pages:     pages,
		pageShift: shift,
		pageMask:  paging.PageMask(pageSize),
	}
	c.SetRange(0, 0)

	return c
}

// SetRange implements Cursor. The range must lie within the capacity of
// the bound page list.
func (c *MultiPageCursor[T]) SetRange(start, end int64) {
	capacity := paging.CapacityFor(len(c.pages), c.pageShift)
	if start < 0 || start > end || end > capacity {
		panic(fmt.Sprintf("paged: invalid range [%d, %d) for capacity %d", start, end, capacity))
	}

	c.start, c.end = start, end
	c.Reset()
}

// Reset implements Cursor.
func (c *MultiPageCursor[T]) Reset() {
	c.fromPage = paging.PageIndex(c.start, c.pageShift)
	if c.start >= c.end {
		// Empty range: exhausted before the first Advance.
		c.maxPage = c.fromPage - 1
	} else {
		c.maxPage = paging.PageIndex(c.end-1, c.pageShift)
	}

	c.pageIdx = c.fromPage - 1
	c.page = nil
	c.base = 0
	c.offset = 0
	c.limit = 0
}

// Advance implements Cursor.
func (c *MultiPageCursor[T]) Advance() bool {
	if c.pageIdx >= c.maxPage {
		return false
	}
	c.pageIdx++

	c.page = c.pages[c.pageIdx]
	c.base = paging.CapacityFor(c.pageIdx, c.pageShift)

	if c.pageIdx == c.fromPage {
		c.offset = paging.IndexInPage(c.start, c.pageMask)
	} else {
		c.offset = 0
	}

	if c.pageIdx == c.maxPage {
		c.limit = paging.ExclusiveIndexOfPage(c.end-1, c.pageMask)
	} else {
		c.limit = len(c.page)
	}

	return true
}

// Base implements Cursor.
func (c *MultiPageCursor[T]) Base() int64 { return c.base }

// Page implements Cursor.
func (c *MultiPageCursor[T]) Page() []T { return c.page }

// Offset implements Cursor.
func (c *MultiPageCursor[T]) Offset() int { return c.offset }

// Limit implements Cursor.
func (c *MultiPageCursor[T]) Limit() int { return c.limit }
