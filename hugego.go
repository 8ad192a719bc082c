// Package hugego provides paged, growable arrays for datasets that
// outgrow a single Go slice.
//
// Arrays are backed by fixed-size pages with power-of-two lengths, so an
// element address splits into a page index and an in-page offset with one
// shift and one mask. On top of that layout hugego offers:
//
//   - Generic dense arrays with typed façades: NewByteArray, NewIntArray,
//     NewLongArray, NewFloatArray, NewDoubleArray
//   - Lock-free Get/Set with concurrent, monotonic Grow
//   - Zero-copy page cursors and range-over-func All iteration
//   - Sparse arrays that allocate pages only where values were written
//   - Memory budgeting and parallel fills via resource.Controller
package hugego

import (
	"context"
	"fmt"
	"iter"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/hugego/paged"
	"github.com/hupe1980/hugego/paging"
	"github.com/hupe1980/hugego/resource"
)

// Array is a dense, paged array of T indexed by int64. Reads and writes
// are lock-free; Grow is safe to call concurrently and size never
// decreases. Construct with NewArray or one of the typed façades.
type Array[T any] struct {
	store *paged.Store[T]
	alloc paged.Allocator[T]

	ctrl    *resource.Controller
	logger  *Logger
	metrics MetricsCollector

	growMu sync.Mutex // serializes budget accounting around growth
}

// NewArray creates a dense array of size elements, each initialized to
// the zero value of T.
//
// The only runtime failure is a budget rejection from an attached
// resource controller. Misuse panics: negative size, a non-power-of-two
// page size, or a size beyond the page-addressing limit.
func NewArray[T any](size int64, opts ...Option[T]) (*Array[T], error) {
	if size < 0 {
		panic(fmt.Sprintf("hugego: negative size %d", size))
	}

	o := applyOptions(opts)
	alloc := o.resolveAllocator()

	if maxSize := paging.MaxSupportedSize(alloc.PageSize()); size > maxSize {
		panic(fmt.Sprintf("hugego: size %d exceeds maximum supported size %d", size, maxSize))
	}

	start := time.Now()

	if err := o.controller.TryAcquireMemory(alloc.EstimateMemoryUsage(size)); err != nil {
		err = fmt.Errorf("hugego: create array of %d elements: %w", size, err)
		o.metricsCollector.RecordGrow(0, time.Since(start), err)
		o.logger.LogCreate(size, alloc.PageSize(), err)
		return nil, err
	}

	a := &Array[T]{
		store:   paged.NewStore(size, alloc),
		alloc:   alloc,
		ctrl:    o.controller,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}

	a.metrics.RecordGrow(paging.NumPagesFor(size, alloc.PageSize()), time.Since(start), nil)
	a.logger.LogCreate(size, alloc.PageSize(), nil)

	return a, nil
}

// Size returns the number of addressable elements. Lock-free;
// observations across goroutines are monotonically non-decreasing.
func (a *Array[T]) Size() int64 { return a.store.Size() }

// Capacity returns the total slots across allocated pages, always at
// least Size.
func (a *Array[T]) Capacity() int64 { return a.store.Capacity() }

// PageSize returns the page length in elements.
func (a *Array[T]) PageSize() int { return a.store.PageSize() }

// Get returns the element at index i. Panics if i is outside [0, Size()).
func (a *Array[T]) Get(i int64) T { return a.store.Get(i) }

// Set stores v at index i. Panics if i is outside [0, Size()).
func (a *Array[T]) Set(i int64, v T) { a.store.Set(i, v) }

// Grow raises the array's size to at least newSize, allocating pages as
// needed; existing elements keep their values. Size never decreases: a
// newSize at or below the current size leaves the array untouched.
// Returns ErrMemoryLimitExceeded when the attached controller cannot
// cover the new pages, in which case nothing was allocated.
func (a *Array[T]) Grow(newSize int64) error {
	if newSize < 0 {
		panic(fmt.Sprintf("hugego: negative size %d", newSize))
	}
	if maxSize := paging.MaxSupportedSize(a.store.PageSize()); newSize > maxSize {
		panic(fmt.Sprintf("hugego: size %d exceeds maximum supported size %d", newSize, maxSize))
	}

	a.growMu.Lock()
	defer a.growMu.Unlock()

	start := time.Now()
	oldSize := a.store.Size()
	oldCapacity := a.store.Capacity()

	if delta := a.alloc.EstimateMemoryUsage(newSize) - a.alloc.EstimateMemoryUsage(oldCapacity); delta > 0 {
		if err := a.ctrl.TryAcquireMemory(delta); err != nil {
			err = fmt.Errorf("hugego: grow array to %d elements: %w", newSize, err)
			a.metrics.RecordGrow(0, time.Since(start), err)
			a.logger.LogGrow(oldSize, newSize, 0, err)
			return err
		}
	}

	a.store.Grow(newSize)

	pages := int((a.store.Capacity() - oldCapacity) / int64(a.store.PageSize()))
	a.metrics.RecordGrow(pages, time.Since(start), nil)
	a.logger.LogGrow(oldSize, newSize, pages, nil)

	return nil
}

// Fill writes v to every element.
func (a *Array[T]) Fill(v T) {
	start := time.Now()
	size := a.store.Size()

	c := a.store.NewCursor(0, size)
	for c.Advance() {
		page := c.Page()
		for i := c.Offset(); i < c.Limit(); i++ {
			page[i] = v
		}
	}

	a.metrics.RecordFill(size, time.Since(start), nil)
}

// SetAll writes gen(i) to every element i, in index order.
func (a *Array[T]) SetAll(gen func(i int64) T) {
	start := time.Now()
	size := a.store.Size()

	c := a.store.NewCursor(0, size)
	for c.Advance() {
		page := c.Page()
		base := c.Base()
		for i := c.Offset(); i < c.Limit(); i++ {
			page[i] = gen(base + int64(i))
		}
	}

	a.metrics.RecordFill(size, time.Since(start), nil)
}

// SetAllParallel writes gen(i) to every element i using up to workers
// goroutines, partitioned on page boundaries so no page is shared
// between workers. workers <= 0 means GOMAXPROCS. With an attached
// controller the fill occupies one background worker slot and paces
// itself against the throughput limit, one page of bytes at a time.
//
// The array must not be grown or released during the fill. On error
// (context cancellation, budget rejection) a prefix of pages may
// already hold generated values.
func (a *Array[T]) SetAllParallel(ctx context.Context, workers int, gen func(i int64) T) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	size := a.store.Size()

	if err := a.ctrl.AcquireBackground(ctx); err != nil {
		a.metrics.RecordFill(0, time.Since(start), err)
		a.logger.LogFill(ctx, 0, workers, err)
		return err
	}
	defer a.ctrl.ReleaseBackground()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	pageSize := int64(a.store.PageSize())
	pageBytes := int(a.alloc.EstimateMemoryUsage(pageSize))

	for base := int64(0); base < size; base += pageSize {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := a.ctrl.AcquireThroughput(gctx, pageBytes); err != nil {
				return err
			}

			c := a.store.NewCursor(base, min(base+pageSize, size))
			for c.Advance() {
				page := c.Page()
				pageBase := c.Base()
				for i := c.Offset(); i < c.Limit(); i++ {
					page[i] = gen(pageBase + int64(i))
				}
			}

			return nil
		})
	}

	err := g.Wait()
	a.metrics.RecordFill(size, time.Since(start), err)
	a.logger.LogFill(ctx, size, workers, err)

	return err
}

// NewCursor returns a zero-copy cursor over the half-open range
// [start, end), which must lie within [0, Size()]. The array must not
// be grown or released while the cursor is in use.
func (a *Array[T]) NewCursor(start, end int64) *paged.MultiPageCursor[T] {
	return a.store.NewCursor(start, end)
}

// All iterates (index, element) pairs in index order.
func (a *Array[T]) All() iter.Seq2[int64, T] {
	return func(yield func(int64, T) bool) {
		c := a.store.NewCursor(0, a.store.Size())
		for c.Advance() {
			page := c.Page()
			base := c.Base()
			for i := c.Offset(); i < c.Limit(); i++ {
				if !yield(base+int64(i), page[i]) {
					return
				}
			}
		}
	}
}

// ToSlice copies every element into one contiguous slice.
func (a *Array[T]) ToSlice() []T {
	out := make([]T, a.store.Size())

	c := a.store.NewCursor(0, a.store.Size())
	for c.Advance() {
		copy(out[c.Base()+int64(c.Offset()):], c.Page()[c.Offset():c.Limit()])
	}

	return out
}

// SizeOf returns the estimated bytes backing the current capacity.
func (a *Array[T]) SizeOf() int64 { return a.store.SizeOf() }

// Release drops every page, returns the reservation to the controller
// and reports the estimated freed bytes. The transition is terminal:
// the array must not be used afterward.
func (a *Array[T]) Release() int64 {
	a.growMu.Lock()
	defer a.growMu.Unlock()

	freed := a.store.Release()
	a.ctrl.ReleaseMemory(freed)

	a.metrics.RecordRelease(freed)
	a.logger.LogRelease(freed)

	return freed
}
