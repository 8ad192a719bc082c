package hugego_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hupe1980/hugego"
	"github.com/hupe1980/hugego/resource"
	"github.com/hupe1980/hugego/sparse"
)

// ExampleNewLongArray demonstrates a dense paged array of int64.
func ExampleNewLongArray() {
	arr, err := hugego.NewLongArray(1 << 20)
	if err != nil {
		log.Fatal(err)
	}
	defer arr.Release()

	arr.Set(123_456, 42)

	fmt.Println(arr.Get(123_456))
	fmt.Println(arr.Size())
	// Output:
	// 42
	// 1048576
}

// ExampleArray_SetAll demonstrates bulk initialization from a generator.
func ExampleArray_SetAll() {
	arr, err := hugego.NewLongArray(5)
	if err != nil {
		log.Fatal(err)
	}
	defer arr.Release()

	arr.SetAll(func(i int64) int64 { return i * 10 })

	fmt.Println(arr.ToSlice())
	// Output:
	// [0 10 20 30 40]
}

// ExampleArray_SetAllParallel demonstrates a page-partitioned parallel fill.
func ExampleArray_SetAllParallel() {
	arr, err := hugego.NewDoubleArray(1 << 16)
	if err != nil {
		log.Fatal(err)
	}
	defer arr.Release()

	err = arr.SetAllParallel(context.Background(), 4, func(i int64) float64 {
		return float64(i) / 2
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(arr.Get(9))
	// Output:
	// 4.5
}

// ExampleArray_NewCursor demonstrates zero-copy iteration over pages.
func ExampleArray_NewCursor() {
	arr, err := hugego.NewLongArray(10_000)
	if err != nil {
		log.Fatal(err)
	}
	defer arr.Release()

	arr.Fill(1)

	var sum int64
	c := arr.NewCursor(0, arr.Size())
	for c.Advance() {
		page := c.Page()
		for i := c.Offset(); i < c.Limit(); i++ {
			sum += page[i]
		}
	}

	fmt.Println(sum)
	// Output:
	// 10000
}

// ExampleWithController demonstrates enforcing a memory budget.
func ExampleWithController() {
	ctrl := resource.NewController(resource.Config{
		MemoryLimitBytes: 1 << 20, // 1 MiB
	})

	// 1<<20 int64 elements need 8 MiB of pages.
	_, err := hugego.NewLongArray(1<<20, hugego.WithController[int64](ctrl))

	fmt.Println(errors.Is(err, hugego.ErrMemoryLimitExceeded))
	// Output:
	// true
}

// Example_sparse demonstrates building a sparse array over a huge index
// space.
func Example_sparse() {
	b := sparse.NewBuilder[int64](-1)
	b.Set(0, 100)
	b.Set(1_000_000, 200)
	b.Set(1_000_000_000, 300)

	arr := b.Build()

	fmt.Println(arr.Get(999))
	fmt.Println(arr.Get(1_000_000_000))
	fmt.Println(arr.PageCount())
	// Output:
	// -1
	// 300
	// 3
}
