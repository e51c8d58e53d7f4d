package similarity

// emptyRatcliffScore is returned when either input is empty. It keeps rows of
// the kernel matrix away from zero.
const emptyRatcliffScore = 0.001

// region is a rectangle of the match table in 1-based table coordinates,
// rows [iLo, iHi] of a and columns [jLo, jHi] of b.
type region struct {
	iLo, iHi int
	jLo, jHi int
}

func (r region) empty() bool {
	return r.iLo > r.iHi || r.jLo > r.jHi
}

// matchTable is the contiguous-match table L of a Ratcliff-Obershelp run,
// stored row-major in one allocation with a row stride of len(b)+1.
type matchTable struct {
	cells  []int32
	stride int
}

func (t *matchTable) at(i, j int) int32 {
	return t.cells[i*t.stride+j]
}

// longest returns the first cell in row-major order holding the largest
// value within r, and that value. A zero length means r holds no match.
func (t *matchTable) longest(r region) (length int32, i, j int) {
	for ii := r.iLo; ii <= r.iHi; ii++ {
		row := t.cells[ii*t.stride : (ii+1)*t.stride]
		for jj := r.jLo; jj <= r.jHi; jj++ {
			if row[jj] > length {
				length, i, j = row[jj], ii, jj
			}
		}
	}
	return length, i, j
}

// split returns the sub-regions of r strictly before and strictly after a
// match of the given length ending at (i, j).
func split(r region, length int32, i, j int) (before, after region) {
	n := int(length)
	before = region{iLo: r.iLo, iHi: i - n, jLo: r.jLo, jHi: j - n}
	after = region{iLo: i + 1, iHi: r.iHi, jLo: j + 1, jHi: r.jHi}
	return before, after
}

// RatcliffObershelpMatches returns the number of matched code points found by
// the Ratcliff-Obershelp procedure: the longest common substring plus,
// repeatedly, the longest common substrings of the regions before and after
// each match.
//
// Sub-regions are searched with an explicit work stack, so adversarial inputs
// cannot grow the goroutine stack.
func RatcliffObershelpMatches(a, b []rune) int {
	t := &matchTable{
		cells:  make([]int32, (len(a)+1)*(len(b)+1)),
		stride: len(b) + 1,
	}

	var best int32
	var bestI, bestJ int
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				continue
			}
			v := t.at(i-1, j-1) + 1
			t.cells[i*t.stride+j] = v
			if v > best {
				best, bestI, bestJ = v, i, j
			}
		}
	}

	total := int(best)
	before, after := split(region{iLo: 1, iHi: len(a), jLo: 1, jHi: len(b)}, best, bestI, bestJ)
	stack := []region{before, after}

	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if r.empty() {
			continue
		}

		length, i, j := t.longest(r)
		if length == 0 {
			continue
		}
		total += int(length)
		before, after := split(r, length, i, j)
		stack = append(stack, before, after)
	}
	return total
}

// RatcliffObershelpScore returns 2 * matches / (m + n). Identical non-empty
// strings score exactly 1. If either string is empty the score is 0.001.
func RatcliffObershelpScore(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		return emptyRatcliffScore
	}
	return float64(RatcliffObershelpMatches(a, b)) * 2 / float64(len(a)+len(b))
}
