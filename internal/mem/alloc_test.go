package mem

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 10, 63, 64, 65, 100, 1024}

	for _, size := range sizes {
		buf := AllocAligned(size)
		assert.Len(t, buf, size)

		ptr := unsafe.Pointer(&buf[0])
		addr := uintptr(ptr)
		assert.Equal(t, uintptr(0), addr%Alignment, "Address %d should be aligned to %d for size %d", addr, Alignment, size)
	}

	assert.Nil(t, AllocAligned(0))
	assert.Nil(t, AllocAligned(-1))
}

func TestAllocAlignedOf(t *testing.T) {
	t.Run("float64", func(t *testing.T) {
		sizes := []int{1, 7, 8, 9, 100, 4096}

		for _, size := range sizes {
			buf := AllocAlignedOf[float64](size)
			assert.Len(t, buf, size)

			addr := uintptr(unsafe.Pointer(&buf[0]))
			assert.Equal(t, uintptr(0), addr%Alignment, "Address %d should be aligned to %d for size %d", addr, Alignment, size)
		}

		assert.Nil(t, AllocAlignedOf[float64](0))
		assert.Nil(t, AllocAlignedOf[float64](-1))
	})

	t.Run("int64", func(t *testing.T) {
		buf := AllocAlignedOf[int64](4096)
		assert.Len(t, buf, 4096)

		addr := uintptr(unsafe.Pointer(&buf[0]))
		assert.Equal(t, uintptr(0), addr%Alignment)

		for _, v := range buf {
			assert.Equal(t, int64(0), v)
		}
	})

	t.Run("byte", func(t *testing.T) {
		buf := AllocAlignedOf[byte](32768)
		assert.Len(t, buf, 32768)

		addr := uintptr(unsafe.Pointer(&buf[0]))
		assert.Equal(t, uintptr(0), addr%Alignment)
	})
}

func BenchmarkAllocAligned(b *testing.B) {
	sizes := []int{64, 256, 1024, 4096}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = AllocAligned(size)
			}
		})
	}
}

func BenchmarkAllocAlignedOf(b *testing.B) {
	sizes := []int{512, 1024, 4096}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = AllocAlignedOf[float64](size)
			}
		})
	}
}
