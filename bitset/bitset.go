// Package bitset provides a growable, concurrent bitset stored in
// fixed-size pages of atomic words.
//
// Bit operations are lock-free. Growth publishes a fresh page list
// through a compare-and-swap loop, so concurrent growers and bit writers
// never block each other; a grower losing the publication race simply
// retries against the winner's list.
package bitset

import (
	"fmt"
	"iter"
	"math/bits"
	"sync/atomic"

	"github.com/hupe1980/hugego/padded"
	"github.com/hupe1980/hugego/paging"
)

const (
	wordShift = 6 // 64 bits per word
	wordMask  = 63

	wordsPerPage = paging.DefaultPageSize
	bitsPerPage  = wordsPerPage << wordShift
)

// page is a fixed-size block of atomic words.
type page [wordsPerPage]atomic.Uint64

// Huge is a bitset addressed by int64 bit index. The zero value is an
// empty bitset of size 0; construct with New for an initial size.
//
// All single-bit operations panic on indices outside [0, Size()), the
// fail-fast convention of the dense containers.
type Huge struct {
	pages atomic.Pointer[[]*page]
	size  padded.Int64
}

// New creates a bitset of the given size in bits, with every bit clear.
func New(size int64) *Huge {
	if size < 0 {
		panic(fmt.Sprintf("bitset: negative size %d", size))
	}

	b := &Huge{}
	b.size.Store(size)
	b.growPages(size)

	return b
}

// Size returns the bitset's size in bits.
func (b *Huge) Size() int64 { return b.size.Load() }

// Grow ensures the bitset holds at least size bits. Size never decreases.
func (b *Huge) Grow(size int64) {
	if size < 0 {
		panic(fmt.Sprintf("bitset: negative size %d", size))
	}

	b.growPages(size)
	for {
		cur := b.size.Load()
		if size <= cur {
			return
		}
		if b.size.CompareAndSwap(cur, size) {
			return
		}
	}
}

// growPages ensures enough pages exist for the given size.
func (b *Huge) growPages(size int64) {
	if size == 0 {
		return
	}
	targetIdx := int((size - 1) / bitsPerPage)

	// Fast path
	pages := b.pages.Load()
	if pages != nil && len(*pages) > targetIdx {
		return
	}

	// Slow path: CAS loop. A loser re-reads the winner's list and keeps
	// its pages, so published words are never discarded.
	for {
		oldPages := b.pages.Load()
		currentLen := 0
		if oldPages != nil {
			currentLen = len(*oldPages)
		}

		if targetIdx < currentLen {
			return
		}

		newPages := make([]*page, targetIdx+1)
		if oldPages != nil {
			copy(newPages, *oldPages)
		}
		for i := currentLen; i <= targetIdx; i++ {
			newPages[i] = new(page)
		}

		if b.pages.CompareAndSwap(oldPages, &newPages) {
			return
		}
	}
}

// word returns the atomic word holding the given global word index.
func (b *Huge) word(wordIdx int64) *atomic.Uint64 {
	pages := *b.pages.Load()
	return &pages[wordIdx>>paging.DefaultPageShift][wordIdx&paging.DefaultPageMask]
}

func (b *Huge) check(i int64) {
	if size := b.size.Load(); i < 0 || i >= size {
		panic(fmt.Sprintf("bitset: index %d out of range [0, %d)", i, size))
	}
}

// Set sets the bit at index i.
func (b *Huge) Set(i int64) {
	b.check(i)
	b.word(i >> wordShift).Or(1 << uint(i&wordMask))
}

// Get returns the bit at index i.
func (b *Huge) Get(i int64) bool {
	b.check(i)
	return b.word(i>>wordShift).Load()&(1<<uint(i&wordMask)) != 0
}

// GetAndSet sets the bit at index i and reports whether it was already
// set, in one atomic step.
func (b *Huge) GetAndSet(i int64) bool {
	b.check(i)

	mask := uint64(1) << uint(i&wordMask)
	old := b.word(i >> wordShift).Or(mask)

	return old&mask != 0
}

// Flip inverts the bit at index i.
func (b *Huge) Flip(i int64) {
	b.check(i)

	w := b.word(i >> wordShift)
	mask := uint64(1) << uint(i&wordMask)

	for {
		old := w.Load()
		if w.CompareAndSwap(old, old^mask) {
			return
		}
	}
}

// ClearBit clears the bit at index i.
func (b *Huge) ClearBit(i int64) {
	b.check(i)
	b.word(i >> wordShift).And(^(uint64(1) << uint(i&wordMask)))
}

// SetRange sets every bit in the half-open range [start, end).
func (b *Huge) SetRange(start, end int64) {
	if size := b.size.Load(); start < 0 || start > end || end > size {
		panic(fmt.Sprintf("bitset: invalid range [%d, %d) for size %d", start, end, size))
	}
	if start == end {
		return
	}

	firstWord := start >> wordShift
	lastWord := (end - 1) >> wordShift

	startMask := ^uint64(0) << uint(start&wordMask)
	endMask := ^uint64(0) >> uint(wordMask-int((end-1)&wordMask))

	if firstWord == lastWord {
		b.word(firstWord).Or(startMask & endMask)
		return
	}

	b.word(firstWord).Or(startMask)
	for w := firstWord + 1; w < lastWord; w++ {
		b.word(w).Store(^uint64(0))
	}
	b.word(lastWord).Or(endMask)
}

// Clear clears every bit.
func (b *Huge) Clear() {
	pages := b.pages.Load()
	if pages == nil {
		return
	}
	for _, pg := range *pages {
		if pg == nil {
			continue
		}
		for w := range pg {
			pg[w].Store(0)
		}
	}
}

// Cardinality returns the number of set bits.
func (b *Huge) Cardinality() int64 {
	var count int64

	pages := b.pages.Load()
	if pages == nil {
		return 0
	}
	for _, pg := range *pages {
		if pg == nil {
			continue
		}
		for w := range pg {
			if val := pg[w].Load(); val != 0 {
				count += int64(bits.OnesCount64(val))
			}
		}
	}

	return count
}

// IsEmpty reports whether no bit is set.
func (b *Huge) IsEmpty() bool {
	return b.Cardinality() == 0
}

// NextSetBit returns the index of the first set bit at or after i, or -1
// if none exists.
func (b *Huge) NextSetBit(i int64) int64 {
	if i < 0 || i >= b.size.Load() {
		return -1
	}

	pages := b.pages.Load()
	if pages == nil {
		return -1
	}

	wordIdx := i >> wordShift
	numWords := int64(len(*pages)) << paging.DefaultPageShift

	// The first word is masked below the starting bit.
	val := b.word(wordIdx).Load() &^ ((1 << uint(i&wordMask)) - 1)
	for {
		if val != 0 {
			return wordIdx<<wordShift + int64(bits.TrailingZeros64(val))
		}
		wordIdx++
		if wordIdx >= numWords {
			return -1
		}
		val = b.word(wordIdx).Load()
	}
}

// All iterates the set bits in ascending order.
func (b *Huge) All() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		pages := b.pages.Load()
		if pages == nil {
			return
		}
		for pageIdx, pg := range *pages {
			if pg == nil {
				continue
			}
			for w := range pg {
				word := pg[w].Load()
				for word != 0 {
					bit := bits.TrailingZeros64(word)
					index := int64(pageIdx)*bitsPerPage + int64(w)<<wordShift + int64(bit)
					if !yield(index) {
						return
					}
					word &= word - 1
				}
			}
		}
	}
}

// SizeOf returns the estimated bytes backing the allocated pages.
func (b *Huge) SizeOf() int64 {
	pages := b.pages.Load()
	if pages == nil {
		return 0
	}
	return int64(len(*pages)) * wordsPerPage * 8
}
