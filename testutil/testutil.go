package testutil

import (
	"math/rand"
	"sync"
)

// DefaultAlphabet is used when an empty alphabet is passed.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz"

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
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
// It returns 0 when n <= 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Runes returns n code points drawn uniformly from alphabet.
func (r *RNG) Runes(n int, alphabet string) []rune {
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	symbols := []rune(alphabet)

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]rune, n)
	for i := range out {
		out[i] = symbols[r.rand.Intn(len(symbols))]
	}
	return out
}

// String returns a string of n code points drawn uniformly from alphabet.
func (r *RNG) String(n int, alphabet string) string {
	return string(r.Runes(n, alphabet))
}

// Strings returns num strings whose lengths are uniform in [minLen, maxLen].
func (r *RNG) Strings(num, minLen, maxLen int, alphabet string) []string {
	if maxLen < minLen {
		maxLen = minLen
	}
	out := make([]string, num)
	for i := range out {
		out[i] = r.String(minLen+r.Intn(maxLen-minLen+1), alphabet)
	}
	return out
}

// Mutate returns s with k random single code point substitutions from alphabet.
// Substituted positions may repeat, so the edit distance to s is at most k.
func (r *RNG) Mutate(s string, k int, alphabet string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	replacement := r.Runes(k, alphabet)
	for _, c := range replacement {
		runes[r.Intn(len(runes))] = c
	}
	return string(runes)
}
