package hugego

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    growCounter    prometheus.Counter
//	    fillHistogram  prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordGrow(pages int, duration time.Duration, err error) {
//	    p.growCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordGrow is called after construction and after each growth
	// operation. pages is the number of pages allocated, duration is the
	// total time taken, err is nil if successful.
	RecordGrow(pages int, duration time.Duration, err error)

	// RecordFill is called after each bulk fill operation.
	// elements is the number of elements written, duration is the total
	// time taken, err is nil if successful.
	RecordFill(elements int64, duration time.Duration, err error)

	// RecordRelease is called after each release operation.
	// freedBytes is the estimated page memory returned.
	RecordRelease(freedBytes int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGrow(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordFill(int64, time.Duration, error)  {}
func (NoopMetricsCollector) RecordRelease(int64)                     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GrowCount      atomic.Int64
	GrowErrors     atomic.Int64
	GrowPages      atomic.Int64
	GrowTotalNanos atomic.Int64
	FillCount      atomic.Int64
	FillErrors     atomic.Int64
	FillElements   atomic.Int64
	FillTotalNanos atomic.Int64
	ReleaseCount   atomic.Int64
	ReleasedBytes  atomic.Int64
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(pages int, duration time.Duration, err error) {
	b.GrowCount.Add(1)
	b.GrowPages.Add(int64(pages))
	b.GrowTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GrowErrors.Add(1)
	}
}

// RecordFill implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFill(elements int64, duration time.Duration, err error) {
	b.FillCount.Add(1)
	b.FillElements.Add(elements)
	b.FillTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FillErrors.Add(1)
	}
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(freedBytes int64) {
	b.ReleaseCount.Add(1)
	b.ReleasedBytes.Add(freedBytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GrowCount:     b.GrowCount.Load(),
		GrowErrors:    b.GrowErrors.Load(),
		GrowPages:     b.GrowPages.Load(),
		GrowAvgNanos:  b.getAvgGrowNanos(),
		FillCount:     b.FillCount.Load(),
		FillErrors:    b.FillErrors.Load(),
		FillElements:  b.FillElements.Load(),
		FillAvgNanos:  b.getAvgFillNanos(),
		ReleaseCount:  b.ReleaseCount.Load(),
		ReleasedBytes: b.ReleasedBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgGrowNanos() int64 {
	count := b.GrowCount.Load()
	if count == 0 {
		return 0
	}
	return b.GrowTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgFillNanos() int64 {
	count := b.FillCount.Load()
	if count == 0 {
		return 0
	}
	return b.FillTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GrowCount     int64
	GrowErrors    int64
	GrowPages     int64
	GrowAvgNanos  int64
	FillCount     int64
	FillErrors    int64
	FillElements  int64
	FillAvgNanos  int64
	ReleaseCount  int64
	ReleasedBytes int64
}
