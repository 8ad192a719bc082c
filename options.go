package hugego

import (
	"log/slog"
	"unsafe"

	"github.com/hupe1980/hugego/paged"
	"github.com/hupe1980/hugego/paging"
	"github.com/hupe1980/hugego/resource"
)

type options[T any] struct {
	pageSize         int
	allocator        paged.Allocator[T]
	controller       *resource.Controller
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures array construction.
//
// Options are generic over the element type so allocator injection stays
// type-safe; the type argument is inferred from the constructor call.
type Option[T any] func(*options[T])

// WithPageSize configures the page length in elements. Must be a power
// of two. By default the page length is derived from the element width
// so one page spans paging.PageSizeInBytes bytes (4096 elements for
// 8-byte elements); element widths that are not a power of two fall
// back to 4096-element pages.
//
// Ignored when WithAllocator is set, since an allocator carries its own
// page size.
func WithPageSize[T any](pageSize int) Option[T] {
	return func(o *options[T]) {
		o.pageSize = pageSize
	}
}

// WithAllocator configures the allocator producing the array's pages.
//
// If nil is passed, the default slice allocator is used.
func WithAllocator[T any](alloc paged.Allocator[T]) Option[T] {
	return func(o *options[T]) {
		o.allocator = alloc
	}
}

// WithController attaches a resource controller. Construction and
// growth then reserve page memory against its budget, failing with
// ErrMemoryLimitExceeded instead of allocating past the limit, and
// parallel fills honor its background worker and throughput bounds.
//
// Pass nil (or omit) for unbounded allocation.
//
// Example:
//
//	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 8 << 30})
//	arr, err := hugego.NewLongArray(n, hugego.WithController[int64](ctrl))
func WithController[T any](ctrl *resource.Controller) Option[T] {
	return func(o *options[T]) {
		o.controller = ctrl
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &hugego.BasicMetricsCollector{}
//	arr, _ := hugego.NewLongArray(n, hugego.WithMetricsCollector[int64](metrics))
//	// ... use arr ...
//	stats := metrics.GetStats()
//	fmt.Printf("Grows: %d, Pages: %d\n", stats.GrowCount, stats.GrowPages)
func WithMetricsCollector[T any](mc MetricsCollector) Option[T] {
	return func(o *options[T]) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := hugego.NewJSONLogger(slog.LevelInfo)
//	arr, _ := hugego.NewLongArray(n, hugego.WithLogger[int64](logger))
func WithLogger[T any](logger *Logger) Option[T] {
	return func(o *options[T]) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel[T any](level slog.Level) Option[T] {
	return func(o *options[T]) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions[T any](optFns []Option[T]) options[T] {
	o := options[T]{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}

// resolveAllocator returns the configured allocator, or builds the
// default slice allocator from the configured or derived page size.
func (o *options[T]) resolveAllocator() paged.Allocator[T] {
	if o.allocator != nil {
		return o.allocator
	}

	pageSize := o.pageSize
	if pageSize == 0 {
		pageSize = defaultPageSizeOf[T]()
	}

	return paged.NewSliceAllocator[T](pageSize)
}

// defaultPageSizeOf derives the page length from the element width.
func defaultPageSizeOf[T any]() int {
	width := int(unsafe.Sizeof(*new(T)))
	if width > 0 && width&(width-1) == 0 {
		return paging.PageSizeFor(paging.PageSizeInBytes, width)
	}

	return paging.DefaultPageSize
}
