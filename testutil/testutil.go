package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63n returns a non-negative pseudo-random int64 in [0,n).
func (r *RNG) Int63n(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63n(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns, as a float64, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillInt64 fills dst with random values in range [0, bound).
// Locks only once per call (preferred over calling Int63n in a loop).
func (r *RNG) FillInt64(dst []int64, bound int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Int63n(bound)
	}
}

// FillFloat64 fills dst with random values in range [0, 1).
func (r *RNG) FillFloat64(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// Perm returns a random permutation of [0, n). Useful for writing
// every index of an array in shuffled order.
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// SparseIndices returns n strictly increasing indices, starting at a
// random offset in [0, maxGap) with gaps drawn uniformly from
// [1, maxGap]. With maxGap well above the page size, consecutive
// indices land on distinct pages.
func (r *RNG) SparseIndices(n int, maxGap int64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	indices := make([]int64, n)
	next := r.rand.Int63n(maxGap)
	for i := range indices {
		indices[i] = next
		next += 1 + r.rand.Int63n(maxGap)
	}

	return indices
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
// This is how real-world data is distributed (power law).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	// Compute normalization constant (harmonic number with exponent s)
	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	// Sample from uniform and use inverse transform
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// ZipfValues generates n draws with Zipfian distribution over
// [0, valueCount). Low values dominate, matching the skewed degree and
// label distributions of power-law graphs.
func (r *RNG) ZipfValues(n, valueCount int, s float64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]int64, n)
	for i := range n {
		values[i] = int64(r.zipfLocked(valueCount, s))
	}

	return values
}
