// Package mem provides aligned memory allocation utilities.
package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of allocated pages (one cache line, 64
// bytes). Pages starting on a cache-line boundary never share their first
// line with a neighboring allocation.
const Alignment = 64

// Scalar enumerates the pointer-free element types eligible for aligned
// allocation. Reinterpreting byte-backed memory is only safe when T holds
// no pointers the garbage collector would have to trace.
type Scalar interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	// Allocate size + alignment so an aligned offset always exists within
	// the buffer.
	totalSize := size + Alignment
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

// AllocAlignedOf allocates a slice of n elements of type T with 64-byte
// alignment. The returned slice is guaranteed to start at a memory address
// divisible by 64, which is also correctly aligned for every Scalar type.
func AllocAlignedOf[T Scalar](n int) []T {
	if n <= 0 {
		return nil
	}

	elemSize := int(unsafe.Sizeof(*new(T)))
	byteSlice := AllocAligned(n * elemSize)

	ptr := unsafe.Pointer(&byteSlice[0]) //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*T)(ptr), n)    //nolint:gosec // unsafe is required for memory alignment
}
