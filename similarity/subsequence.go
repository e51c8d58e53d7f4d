package similarity

// LongestCommonSubsequence returns the length of the longest sequence of code
// points that appears in order, not necessarily contiguously, in both a and b.
func LongestCommonSubsequence(a, b []rune) int {
	prev := make([]int32, len(b)+1)
	curr := make([]int32, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return int(prev[len(b)])
}

// SubsequenceScore normalizes the longest common subsequence by the combined
// length: lcsq / (m + n). Identical strings score 0.5. Two empty strings score 0.
func SubsequenceScore(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return float64(LongestCommonSubsequence(a, b)) / float64(total)
}
