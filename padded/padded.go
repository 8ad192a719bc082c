// Package padded provides cache-line padded atomic counters.
//
// Counters that live side by side in one struct or slice are mutated by
// different goroutines; padding each one to a full cache line keeps an
// update of one counter from invalidating the line of its neighbor.
// All operations are sequentially consistent, like everything in
// sync/atomic.
package padded

import (
	"math"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Int64 is an atomic int64 occupying its own cache line.
// The zero value holds 0 and is ready to use. Must not be copied after
// first use.
type Int64 struct {
	_ cpu.CacheLinePad
	v atomic.Int64
	_ cpu.CacheLinePad
}

// Load atomically loads the value.
func (p *Int64) Load() int64 { return p.v.Load() }

// Store atomically stores v.
func (p *Int64) Store(v int64) { p.v.Store(v) }

// Swap atomically stores new and returns the previous value.
func (p *Int64) Swap(new int64) int64 { return p.v.Swap(new) }

// CompareAndSwap executes the compare-and-swap operation.
func (p *Int64) CompareAndSwap(old, new int64) bool { return p.v.CompareAndSwap(old, new) }

// Add atomically adds delta and returns the new value.
func (p *Int64) Add(delta int64) int64 { return p.v.Add(delta) }

// Float64 is an atomic float64 occupying its own cache line. The value is
// stored as its IEEE-754 bit pattern; loads and stores convert on the way
// through.
// The zero value holds 0 and is ready to use. Must not be copied after
// first use.
type Float64 struct {
	_ cpu.CacheLinePad
	v atomic.Uint64
	_ cpu.CacheLinePad
}

// Load atomically loads the value.
func (p *Float64) Load() float64 { return math.Float64frombits(p.v.Load()) }

// Store atomically stores v.
func (p *Float64) Store(v float64) { p.v.Store(math.Float64bits(v)) }

// Swap atomically stores new and returns the previous value.
func (p *Float64) Swap(new float64) float64 {
	return math.Float64frombits(p.v.Swap(math.Float64bits(new)))
}

// CompareAndSwap executes the compare-and-swap operation. The comparison
// is on bit patterns, so NaN values with identical bits compare equal and
// -0 does not match +0.
func (p *Float64) CompareAndSwap(old, new float64) bool {
	return p.v.CompareAndSwap(math.Float64bits(old), math.Float64bits(new))
}

// Add atomically adds delta and returns the new value. There is no native
// atomic float add, so Add retries a compare-and-swap over the bit pattern
// until it wins.
func (p *Float64) Add(delta float64) float64 {
	for {
		oldBits := p.v.Load()
		newVal := math.Float64frombits(oldBits) + delta
		if p.v.CompareAndSwap(oldBits, math.Float64bits(newVal)) {
			return newVal
		}
	}
}

// Sub atomically subtracts delta and returns the new value.
func (p *Float64) Sub(delta float64) float64 {
	return p.Add(-delta)
}
