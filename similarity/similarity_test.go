package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/strkernel/testutil"
)

func r(s string) []rune { return []rune(s) }

func TestEditDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"KittenSitting", "kitten", "sitting", 3},
		{"BothEmpty", "", "", 0},
		{"LeftEmpty", "", "abc", 3},
		{"RightEmpty", "abcd", "", 4},
		{"Identical", "gumbo", "gumbo", 0},
		{"Substitution", "flaw", "lawn", 2},
		{"Unicode", "na\u00efve", "naive", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EditDistance(r(tt.a), r(tt.b)))
		})
	}
}

func TestEditDistanceScore(t *testing.T) {
	assert.InDelta(t, 1/3.001, EditDistanceScore(r("kitten"), r("sitting")), 1e-12)
	assert.Equal(t, 1/0.001, EditDistanceScore(r(""), r("")))
	assert.InDelta(t, 1000.0, EditDistanceScore(r("same"), r("same")), 1e-9)

	// Strictly decreasing in the distance.
	near := EditDistanceScore(r("abcd"), r("abce"))
	far := EditDistanceScore(r("abcd"), r("wxyz"))
	assert.Greater(t, near, far)
}

func TestLongestCommonSubstring(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"Reference", "abcdef", "zcdef", 4},
		{"NoOverlap", "abc", "xyz", 0},
		{"Empty", "", "abc", 0},
		{"Identical", "hello", "hello", 5},
		{"ResetOnMismatch", "abXcd", "abYcd", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LongestCommonSubstring(r(tt.a), r(tt.b)))
		})
	}
}

func TestSubstringScore(t *testing.T) {
	assert.Equal(t, 4.0/11.0, SubstringScore(r("abcdef"), r("zcdef")))
	assert.Equal(t, 0.5, SubstringScore(r("hello"), r("hello")))
	assert.Equal(t, 0.0, SubstringScore(r(""), r("")))
}

func TestLongestCommonSubsequence(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"Reference", "abcde", "ace", 3},
		{"NoOverlap", "abc", "xyz", 0},
		{"Empty", "abc", "", 0},
		{"Identical", "hello", "hello", 5},
		{"NonContiguous", "abXcd", "abYcd", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LongestCommonSubsequence(r(tt.a), r(tt.b)))
		})
	}
}

func TestSubsequenceScore(t *testing.T) {
	assert.Equal(t, 3.0/8.0, SubsequenceScore(r("abcde"), r("ace")))
	assert.Equal(t, 0.5, SubsequenceScore(r("hello"), r("hello")))
	assert.Equal(t, 0.0, SubsequenceScore(r(""), r("")))
}

func TestRatcliffObershelp(t *testing.T) {
	t.Run("Identical", func(t *testing.T) {
		for _, s := range []string{"a", "abc", "WIKIMEDIA", "aaaaaaaa"} {
			assert.Equal(t, 1.0, RatcliffObershelpScore(r(s), r(s)), s)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, 0.001, RatcliffObershelpScore(r(""), r("abc")))
		assert.Equal(t, 0.001, RatcliffObershelpScore(r("abc"), r("")))
		assert.Equal(t, 0.001, RatcliffObershelpScore(r(""), r("")))
	})

	t.Run("Wikimedia", func(t *testing.T) {
		// WIKIM + IA
		assert.Equal(t, 7, RatcliffObershelpMatches(r("WIKIMEDIA"), r("WIKIMANIA")))
		assert.Equal(t, 14.0/18.0, RatcliffObershelpScore(r("WIKIMEDIA"), r("WIKIMANIA")))
	})

	t.Run("NoMatch", func(t *testing.T) {
		assert.Equal(t, 0, RatcliffObershelpMatches(r("abc"), r("xyz")))
		assert.Equal(t, 0.0, RatcliffObershelpScore(r("abc"), r("xyz")))
	})

	t.Run("BeforeAndAfter", func(t *testing.T) {
		// "cd" is the anchor, "a" lies before it and "f" after it.
		assert.Equal(t, 4, RatcliffObershelpMatches(r("abcdef"), r("aXcdYf")))
	})

	t.Run("DeepAlternation", func(t *testing.T) {
		a := make([]rune, 0, 400)
		b := make([]rune, 0, 400)
		for i := 0; i < 200; i++ {
			a = append(a, 'x', 'a')
			b = append(b, 'y', 'a')
		}
		score := RatcliffObershelpScore(a, b)
		assert.False(t, math.IsNaN(score))
		assert.Equal(t, 200, RatcliffObershelpMatches(a, b))
	})
}

func TestProvider(t *testing.T) {
	for _, m := range Metrics {
		fn, err := Provider(m)
		require.NoError(t, err, m.String())
		require.NotNil(t, fn)
		assert.NotEmpty(t, Describe(m))
	}

	_, err := Provider(Metric(42))
	assert.Error(t, err)
	assert.Equal(t, "Unknown(42)", Metric(42).String())
}

func TestParseMetric(t *testing.T) {
	tests := map[string]Metric{
		"levenshtein":         MetricEditDistance,
		"EditDistance":        MetricEditDistance,
		"lcs":                 MetricSubstring,
		"Subsequence":         MetricSubsequence,
		" ratcliff-obershelp": MetricRatcliffObershelp,
		"RO":                  MetricRatcliffObershelp,
	}
	for name, expected := range tests {
		got, err := ParseMetric(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, got, name)
	}

	_, err := ParseMetric("cosine")
	assert.Error(t, err)
}

func TestFootprint(t *testing.T) {
	assert.Equal(t, int64(2*11*4), Footprint(MetricEditDistance, 100, 10))
	assert.Equal(t, int64(101*11*4), Footprint(MetricRatcliffObershelp, 100, 10))
	assert.Equal(t, int64(math.MaxInt64), Footprint(MetricRatcliffObershelp, math.MaxInt32, math.MaxInt32*4))
}

func TestPurity(t *testing.T) {
	rng := testutil.NewRNG(7)
	for i := 0; i < 50; i++ {
		a := rng.Runes(rng.Intn(30), "abcde")
		b := rng.Runes(rng.Intn(30), "abcde")
		for _, m := range Metrics {
			fn, err := Provider(m)
			require.NoError(t, err)
			first := fn(a, b)
			second := fn(a, b)
			assert.Equal(t, math.Float64bits(first), math.Float64bits(second), m.String())
		}
	}
}

func TestSymmetricMetrics(t *testing.T) {
	rng := testutil.NewRNG(11)
	for i := 0; i < 50; i++ {
		a := rng.Runes(rng.Intn(25), "xyz")
		b := rng.Runes(rng.Intn(25), "xyz")
		assert.Equal(t, EditDistance(a, b), EditDistance(b, a))
		assert.Equal(t, LongestCommonSubstring(a, b), LongestCommonSubstring(b, a))
		assert.Equal(t, LongestCommonSubsequence(a, b), LongestCommonSubsequence(b, a))
	}
}
