// Package similarity provides the string similarity functions used as kernel values.
//
// All functions operate on Unicode code points and are pure: the same two
// inputs always produce bit-identical scores.
//
// # Supported Metrics
//
//   - MetricEditDistance: 1 / (0.001 + Levenshtein distance)
//   - MetricSubstring: longest common contiguous substring / (m + n)
//   - MetricSubsequence: longest common subsequence / (m + n)
//   - MetricRatcliffObershelp: 2 * matched characters / (m + n)
//
// The score ranges differ between metrics. Identical non-empty strings score
// 1000 under edit distance, 0.5 under substring and subsequence and 1.0 under
// Ratcliff-Obershelp.
//
// # Usage
//
//	fn, _ := similarity.Provider(similarity.MetricRatcliffObershelp)
//	score := fn([]rune("kitten"), []rune("sitting"))
package similarity
