package hugego

import (
	"unsafe"

	"github.com/hupe1980/hugego/internal/mem"
	"github.com/hupe1980/hugego/paged"
	"github.com/hupe1980/hugego/paging"
)

// Typed aliases for the common primitive element types.
type (
	ByteArray   = Array[byte]
	IntArray    = Array[int32]
	LongArray   = Array[int64]
	FloatArray  = Array[float32]
	DoubleArray = Array[float64]
)

// NewByteArray creates a dense array of byte with 32768-element pages.
func NewByteArray(size int64, opts ...Option[byte]) (*ByteArray, error) {
	return newScalarArray[byte](size, opts)
}

// NewIntArray creates a dense array of int32 with 8192-element pages.
func NewIntArray(size int64, opts ...Option[int32]) (*IntArray, error) {
	return newScalarArray[int32](size, opts)
}

// NewLongArray creates a dense array of int64 with 4096-element pages.
func NewLongArray(size int64, opts ...Option[int64]) (*LongArray, error) {
	return newScalarArray[int64](size, opts)
}

// NewFloatArray creates a dense array of float32 with 8192-element pages.
func NewFloatArray(size int64, opts ...Option[float32]) (*FloatArray, error) {
	return newScalarArray[float32](size, opts)
}

// NewDoubleArray creates a dense array of float64 with 4096-element pages.
func NewDoubleArray(size int64, opts ...Option[float64]) (*DoubleArray, error) {
	return newScalarArray[float64](size, opts)
}

// newScalarArray appends the aligned-allocator default so the typed
// façades get cache-line aligned pages unless the caller configured an
// allocator. Running last, the default sees the caller's page size.
func newScalarArray[T mem.Scalar](size int64, opts []Option[T]) (*Array[T], error) {
	aligned := func(o *options[T]) {
		if o.allocator != nil {
			return
		}

		pageSize := o.pageSize
		if pageSize == 0 {
			pageSize = paging.PageSizeFor(paging.PageSizeInBytes, int(unsafe.Sizeof(*new(T))))
		}

		o.allocator = paged.NewAlignedAllocator[T](pageSize)
	}

	return NewArray(size, append(opts, aligned)...)
}
