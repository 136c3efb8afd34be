// Package quiz generates multiple-choice movie questions and tracks a score.
package quiz

import (
	"math/rand/v2"
	"time"
)

// Rand is the source of randomness used for question generation.
// IntN returns a value in [0, n) and is only called with n > 0.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a PCG-backed Rand. A zero seed derives one from the clock.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// shuffle permutes s in place with Fisher-Yates.
func shuffle(r Rand, s []string) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// sample draws up to k elements of pool without replacement. pool is
// reordered in place; the drawn elements are returned as a new slice.
func sample(r Rand, pool []string, k int) []string {
	if k > len(pool) {
		k = len(pool)
	}
	for i := 0; i < k; i++ {
		j := i + r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	out := make([]string, k)
	copy(out, pool[:k])
	return out
}
