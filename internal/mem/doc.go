// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides 64-byte aligned allocation so page bases start on a cache-line
// boundary.
package mem
