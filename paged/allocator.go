package paged

import (
	"unsafe"

	"github.com/hupe1980/hugego/internal/mem"
	"github.com/hupe1980/hugego/paging"
)

// Allocator produces the fixed-size pages backing a Store. Injecting it at
// construction decouples the store from any one element type's allocation
// strategy.
type Allocator[T any] interface {
	// PageSize returns the page length in elements. Stores require a
	// power of two.
	PageSize() int

	// NewPage returns a fresh, default-initialized page of PageSize
	// elements.
	NewPage() []T

	// EstimateMemoryUsage returns the approximate number of bytes backing
	// the given element capacity.
	EstimateMemoryUsage(capacity int64) int64
}

// Compile-time interface checks.
var (
	_ Allocator[int64]   = (*SliceAllocator[int64])(nil)
	_ Allocator[float64] = (*AlignedAllocator[float64])(nil)
)

// SliceAllocator allocates zero-initialized pages with make. It works for
// any element type, including element types holding pointers.
type SliceAllocator[T any] struct {
	pageSize    int
	elementSize int64
}

// NewSliceAllocator returns an allocator producing pages of pageSize
// elements. Panics if pageSize is not a power of two.
func NewSliceAllocator[T any](pageSize int) *SliceAllocator[T] {
	paging.PageShift(pageSize) // validates the page size

	return &SliceAllocator[T]{
		pageSize:    pageSize,
		elementSize: int64(unsafe.Sizeof(*new(T))), //nolint:gosec // size probe only
	}
}

// PageSize implements Allocator.
func (a *SliceAllocator[T]) PageSize() int { return a.pageSize }

// NewPage implements Allocator.
func (a *SliceAllocator[T]) NewPage() []T { return make([]T, a.pageSize) }

// EstimateMemoryUsage implements Allocator. The estimate covers whole
// allocated pages; heap allocations nested inside element values are not
// counted.
func (a *SliceAllocator[T]) EstimateMemoryUsage(capacity int64) int64 {
	numPages := paging.NumPagesFor(capacity, a.pageSize)
	return int64(numPages) * int64(a.pageSize) * a.elementSize
}

// AlignedAllocator allocates pages starting on a 64-byte boundary, so a
// page base never shares its first cache line with another allocation.
// Restricted to pointer-free element types.
type AlignedAllocator[T mem.Scalar] struct {
	pageSize    int
	elementSize int64
}

// NewAlignedAllocator returns a cache-line-aligned allocator producing
// pages of pageSize elements. Panics if pageSize is not a power of two.
func NewAlignedAllocator[T mem.Scalar](pageSize int) *AlignedAllocator[T] {
	paging.PageShift(pageSize) // validates the page size

	return &AlignedAllocator[T]{
		pageSize:    pageSize,
		elementSize: int64(unsafe.Sizeof(*new(T))), //nolint:gosec // size probe only
	}
}

// PageSize implements Allocator.
func (a *AlignedAllocator[T]) PageSize() int { return a.pageSize }

// NewPage implements Allocator.
func (a *AlignedAllocator[T]) NewPage() []T { return mem.AllocAlignedOf[T](a.pageSize) }

// EstimateMemoryUsage implements Allocator.
func (a *AlignedAllocator[T]) EstimateMemoryUsage(capacity int64) int64 {
	numPages := paging.NumPagesFor(capacity, a.pageSize)
	return int64(numPages) * int64(a.pageSize) * a.elementSize
}
