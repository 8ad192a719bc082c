// Package paging provides the bit arithmetic that maps a global element
// index onto a (page index, in-page offset) pair.
//
// Page sizes are powers of two, so the division and modulo of address
// translation reduce to a shift and a mask:
//
//	pageIndex   = index >> pageShift
//	indexInPage = index & pageMask
//
// All functions are pure and O(1). Violated preconditions panic; there are
// no recoverable error paths.
package paging

import (
	"fmt"
	"math/bits"
)

const (
	// PageSizeInBytes is the allocation budget of a single page. Element
	// counts per page are derived from it, e.g. 4096 for 8-byte elements
	// and 32768 for 1-byte elements.
	PageSizeInBytes = 1 << 15

	// DefaultPageShift is the shift shared by the sparse containers,
	// giving 4096-element pages regardless of element width.
	DefaultPageShift = 12

	// DefaultPageSize is the page length implied by DefaultPageShift.
	DefaultPageSize = 1 << DefaultPageShift

	// DefaultPageMask masks an index down to its in-page offset for
	// DefaultPageSize pages.
	DefaultPageMask = DefaultPageSize - 1

	// MaxPageCount bounds the page-index space to signed 32 bits.
	MaxPageCount = 1 << 31
)

// PageSizeFor returns how many elements of the given width fit into a page
// of pageSizeInBytes bytes. Panics if bytesPerElement is not a power of two.
func PageSizeFor(pageSizeInBytes, bytesPerElement int) int {
	if bytesPerElement <= 0 || bytesPerElement&(bytesPerElement-1) != 0 {
		panic(fmt.Sprintf("paging: bytes per element must be a power of two, got %d", bytesPerElement))
	}
	return pageSizeInBytes >> uint(bits.TrailingZeros(uint(bytesPerElement)))
}

// PageShift returns log2(pageSize). Panics if pageSize is not a power of two.
func PageShift(pageSize int) uint {
	if pageSize <= 0 || pageSize&(pageSize-1) != 0 {
		panic(fmt.Sprintf("paging: page size must be a power of two, got %d", pageSize))
	}
	return uint(bits.TrailingZeros(uint(pageSize)))
}

// PageMask returns the in-page offset mask for a power-of-two pageSize.
func PageMask(pageSize int) int64 {
	return int64(pageSize) - 1
}

// NumPagesFor returns the number of pages needed to hold capacity elements.
// A capacity of zero needs zero pages. Power-of-two page sizes take the
// shift/mask path; any other size falls back to plain ceiling division.
func NumPagesFor(capacity int64, pageSize int) int {
	if capacity < 0 {
		panic(fmt.Sprintf("paging: negative capacity %d", capacity))
	}
	if pageSize <= 0 {
		panic(fmt.Sprintf("paging: invalid page size %d", pageSize))
	}
	if pageSize&(pageSize-1) == 0 {
		shift := uint(bits.TrailingZeros(uint(pageSize)))
		return NumPagesForShift(capacity, shift, int64(pageSize)-1)
	}
	return int((capacity + int64(pageSize) - 1) / int64(pageSize))
}

// NumPagesForShift is NumPagesFor with a precomputed shift and mask.
func NumPagesForShift(capacity int64, pageShift uint, pageMask int64) int {
	return int((capacity + pageMask) >> pageShift)
}

// PageIndex returns the page holding the given global index.
func PageIndex(index int64, pageShift uint) int {
	return int(index >> pageShift)
}

// IndexInPage returns the offset of the given global index within its page.
func IndexInPage(index int64, pageMask int64) int {
	return int(index & pageMask)
}

// ExclusiveIndexOfPage returns one past the in-page offset of the given
// global index. Sizing a trailing partial page for a structure holding
// indices up to and including index uses exactly this value.
func ExclusiveIndexOfPage(index int64, pageMask int64) int {
	return int(index&pageMask) + 1
}

// CapacityFor returns the total element capacity of numPages full pages.
func CapacityFor(numPages int, pageShift uint) int64 {
	return int64(numPages) << pageShift
}

// MaxSupportedSize returns the largest element count addressable with the
// given page size, limited by the MaxPageCount page-index space.
func MaxSupportedSize(pageSize int) int64 {
	return int64(MaxPageCount) * int64(pageSize)
}
