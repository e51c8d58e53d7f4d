package similarity

// LongestCommonSubstring returns the length of the longest run of code points
// that appears contiguously in both a and b.
func LongestCommonSubstring(a, b []rune) int {
	prev := make([]int32, len(b)+1)
	curr := make([]int32, len(b)+1)
	var best int32

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best {
					best = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return int(best)
}

// SubstringScore normalizes the longest common substring by the combined
// length: lcs / (m + n). Identical strings score 0.5. Two empty strings score 0.
func SubstringScore(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return float64(LongestCommonSubstring(a, b)) / float64(total)
}
