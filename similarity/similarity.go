package similarity

import (
	"fmt"
	"math"
	"strings"
)

// Metric identifies one of the string kernels.
type Metric int

const (
	MetricEditDistance Metric = iota
	MetricSubstring
	MetricSubsequence
	MetricRatcliffObershelp
)

// Metrics lists every supported metric in declaration order.
var Metrics = []Metric{
	MetricEditDistance,
	MetricSubstring,
	MetricSubsequence,
	MetricRatcliffObershelp,
}

func (m Metric) String() string {
	switch m {
	case MetricEditDistance:
		return "EditDistance"
	case MetricSubstring:
		return "Substring"
	case MetricSubsequence:
		return "Subsequence"
	case MetricRatcliffObershelp:
		return "RatcliffObershelp"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Valid reports whether m names a supported metric.
func (m Metric) Valid() bool {
	return m >= MetricEditDistance && m <= MetricRatcliffObershelp
}

// ParseMetric resolves a metric by name. Matching is case-insensitive and
// accepts the short aliases used in job files.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "editdistance", "edit", "levenshtein":
		return MetricEditDistance, nil
	case "substring", "lcs":
		return MetricSubstring, nil
	case "subsequence", "lcsq":
		return MetricSubsequence, nil
	case "ratcliffobershelp", "ratcliff-obershelp", "ro":
		return MetricRatcliffObershelp, nil
	default:
		return 0, fmt.Errorf("unknown similarity metric: %q", name)
	}
}

// Describe returns a human-readable description of the metric.
func Describe(m Metric) string {
	switch m {
	case MetricEditDistance:
		return "Levenshtein string kernel function"
	case MetricSubstring:
		return "Longest Common Substring kernel function"
	case MetricSubsequence:
		return "Longest Common Subsequence string kernel function"
	case MetricRatcliffObershelp:
		return "Ratcliff-Obershelp kernel function"
	default:
		return m.String()
	}
}

// Func computes the kernel score of two code point sequences.
type Func func(a, b []rune) float64

// Provider returns the scoring function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricEditDistance:
		return EditDistanceScore, nil
	case MetricSubstring:
		return SubstringScore, nil
	case MetricSubsequence:
		return SubsequenceScore, nil
	case MetricRatcliffObershelp:
		return RatcliffObershelpScore, nil
	default:
		return nil, fmt.Errorf("unsupported similarity metric: %v", m)
	}
}

// cellBytes is the size of one dynamic-programming cell.
const cellBytes = 4

// Footprint estimates the working memory in bytes that scoring strings of
// lengths m and n needs under the given metric. It returns math.MaxInt64 when
// the estimate does not fit in an int64.
//
// Ratcliff-Obershelp keeps the full (m+1)x(n+1) table for its sub-region
// searches; the other metrics only keep two rows.
func Footprint(metric Metric, m, n int) int64 {
	rows := int64(2)
	if metric == MetricRatcliffObershelp {
		rows = int64(m) + 1
	}
	cols := int64(n) + 1
	if rows > math.MaxInt64/cols/cellBytes {
		return math.MaxInt64
	}
	return rows * cols * cellBytes
}
