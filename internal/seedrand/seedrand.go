// Package seedrand provides the deterministic string-seeded PRNG used for
// paper shuffling. The algorithm pair (xmur3 seed hash + mulberry32
// generator) and its constants are fixed: the same seed string must yield
// the same sequence across processes and releases, because stored papers
// record their seed and must be re-derivable.
package seedrand

import (
	"fmt"
	"math/rand"
	"time"
)

// hashSeed mixes a seed string into a 32-bit state (xmur3).
func hashSeed(seed string) uint32 {
	h := uint32(1779033703) ^ uint32(len(seed))
	for _, c := range []byte(seed) {
		h = (h ^ uint32(c)) * 3432918353
		h = h<<13 | h>>19
	}
	h = (h ^ h>>16) * 2246822507
	h = (h ^ h>>13) * 3266489909
	return h ^ h>>16
}

// New returns a generator of floats in [0,1) derived from the seed string
// (mulberry32 over the xmur3-hashed state).
func New(seed string) func() float64 {
	state := hashSeed(seed)
	return func() float64 {
		state += 0x6d2b79f5
		t := state
		t = (t ^ t>>15) * (t | 1)
		t ^= t + (t^t>>7)*(t|61)
		return float64(t^t>>14) / 4294967296
	}
}

// MakeSeed produces a fresh seed for callers that did not supply one.
// The result is intentionally non-reproducible.
func MakeSeed() string {
	return fmt.Sprintf("%d-%v", time.Now().UnixMilli(), rand.Float64())
}

// Shuffle permutes items in place with a Fisher-Yates walk driven by the
// seeded generator. Equal seeds and equal input order give equal output.
func Shuffle[T any](items []T, seed string) {
	next := New(seed)
	for i := len(items) - 1; i > 0; i-- {
		j := int(next() * float64(i+1))
		items[i], items[j] = items[j], items[i]
	}
}
