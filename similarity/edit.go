package similarity

// editDistanceOffset keeps the score finite for identical strings.
const editDistanceOffset = 0.001

// EditDistance returns the Levenshtein distance between a and b: the minimum
// number of single code point insertions, deletions and substitutions that
// turn a into b.
func EditDistance(a, b []rune) int {
	prev := make([]int32, len(b)+1)
	curr := make([]int32, len(b)+1)
	for j := range prev {
		prev[j] = int32(j)
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = int32(i)
		for j := 1; j <= len(b); j++ {
			cost := int32(1)
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return int(prev[len(b)])
}

// EditDistanceScore maps the edit distance to a similarity: 1 / (0.001 + d).
// Identical strings score 1000.
func EditDistanceScore(a, b []rune) float64 {
	return 1.0 / (editDistanceOffset + float64(EditDistance(a, b)))
}
