// Package eytzinger rearranges a sorted slice into breadth-first order
// so repeated binary searches walk memory in cache-friendly strides
// instead of jumping across the whole slice.
package eytzinger

import (
	"cmp"
	"iter"
	"math/bits"
)

// Layout is a sorted slice in breadth-first order. It is 1-indexed:
// slot 0 holds the zero value and is never compared, and the children
// of slot k live at slots 2k and 2k+1. An in-order walk of that
// implicit tree visits the elements in ascending order.
type Layout[T cmp.Ordered] []T

// From builds the breadth-first layout of sorted, which must already be
// in ascending order. From does not verify the ordering.
func From[T cmp.Ordered](sorted []T) Layout[T] {
	l := make(Layout[T], len(sorted)+1)
	l.fill(sorted, 0, 1)

	return l
}

// fill places elements by in-order traversal of the subtree rooted at
// k, returning the next unplaced sorted index.
func (l Layout[T]) fill(sorted []T, next, k int) int {
	if k > len(sorted) {
		return next
	}

	next = l.fill(sorted, next, 2*k)
	l[k] = sorted[next]

	return l.fill(sorted, next+1, 2*k+1)
}

// Len returns the number of elements in the layout.
func (l Layout[T]) Len() int {
	if len(l) == 0 {
		return 0
	}

	return len(l) - 1
}

// Search returns the layout index of the smallest element greater than
// or equal to v, or 0 if every element is smaller. Element indices
// start at 1, so 0 unambiguously means absent.
func (l Layout[T]) Search(v T) int {
	n := l.Len()

	k := 1
	for k <= n {
		if l[k] < v {
			k = 2*k + 1
		} else {
			k = 2 * k
		}
	}

	// The descent records its turns in k's low bits; the trailing run
	// of ones is the right turns taken since the answer was last
	// visited, so stripping it (and one left turn) restores its slot.
	return k >> (bits.TrailingZeros(^uint(k)) + 1)
}

// All iterates the elements in ascending order.
func (l Layout[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		l.inorder(1, yield)
	}
}

func (l Layout[T]) inorder(k int, yield func(T) bool) bool {
	if k >= len(l) {
		return true
	}

	if !l.inorder(2*k, yield) {
		return false
	}
	if !yield(l[k]) {
		return false
	}

	return l.inorder(2*k+1, yield)
}
