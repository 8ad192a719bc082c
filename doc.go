// Package hugego provides paged, growable arrays for datasets that
// outgrow a single Go slice.
//
// Hugego backs graph-analytics workloads where node and relationship
// properties run into the billions: elements live in fixed-size pages
// with power-of-two lengths, are addressed by int64, and support
// lock-free reads alongside concurrent, monotonic growth.
//
// # Quick Start
//
// Dense arrays:
//
//	arr, err := hugego.NewLongArray(1 << 30)
//	if err != nil {
//		panic(err)
//	}
//	defer arr.Release()
//
//	arr.Set(123_456_789, 42)
//	v := arr.Get(123_456_789)
//
// Bulk initialization, sequential or parallel:
//
//	arr.SetAll(func(i int64) int64 { return i })
//
//	err = arr.SetAllParallel(ctx, 8, func(i int64) int64 { return i * i })
//
// Zero-copy iteration via cursors:
//
//	c := arr.NewCursor(0, arr.Size())
//	for c.Advance() {
//		page := c.Page()
//		for i := c.Offset(); i < c.Limit(); i++ {
//			_ = page[i] // element c.Base()+int64(i)
//		}
//	}
//
// # Dense vs Sparse
//
// Dense arrays back every index in [0, capacity) with allocated pages
// and panic on out-of-range access. When only a scattered subset of a
// huge index space holds values, build a sparse array instead: pages
// materialize on first write, reads are total, and a default value
// stands in for never-written indices:
//
//	b := sparse.NewBuilder[int64](-1)
//	b.Set(0, 100)
//	b.Set(1_000_000_000, 300)
//	arr := b.Build()
//	_ = arr.Get(999) // -1, never written
//
// # Memory Budgeting
//
// Attach a resource.Controller to cap how many bytes arrays may hold
// and to bound parallel fill work:
//
//	ctrl := resource.NewController(resource.Config{
//		MemoryLimitBytes:     8 << 30,
//		MaxBackgroundWorkers: 4,
//	})
//
//	arr, err := hugego.NewDoubleArray(n, hugego.WithController[float64](ctrl))
//	if errors.Is(err, hugego.ErrMemoryLimitExceeded) {
//		// reduce n or release other arrays first
//	}
//
// # Key Features
//
//   - Generic dense arrays with typed façades (byte, int32, int64, float32, float64)
//   - Lock-free reads, concurrent monotonic growth of size and capacity
//   - Zero-copy cursors spanning page boundaries
//   - Sparse arrays with Roaring Bitmap occupancy tracking
//   - Cache-line padded atomic counters and 64-byte aligned pages
//   - Memory budgets, bounded background workers, throughput-limited fills
package hugego
