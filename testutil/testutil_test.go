package testutil

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	assert.Equal(t, a.String(64, "xyz"), b.String(64, "xyz"))

	first := a.Strings(5, 1, 10, "")
	a.Reset()
	a.String(64, "xyz")
	assert.Equal(t, first, a.Strings(5, 1, 10, ""))
}

func TestRNG_Strings(t *testing.T) {
	rng := NewRNG(1)
	out := rng.Strings(100, 3, 7, "ab")
	assert.Len(t, out, 100)
	for _, s := range out {
		n := utf8.RuneCountInString(s)
		assert.GreaterOrEqual(t, n, 3)
		assert.LessOrEqual(t, n, 7)
		for _, c := range s {
			assert.Contains(t, "ab", string(c))
		}
	}
}

func TestRNG_Mutate(t *testing.T) {
	rng := NewRNG(3)
	s := rng.String(20, "a")
	m := rng.Mutate(s, 3, "b")
	assert.Equal(t, utf8.RuneCountInString(s), utf8.RuneCountInString(m))
	assert.NotEqual(t, s, m)
	assert.Equal(t, "", rng.Mutate("", 3, "b"))
}
