package gram

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/strkernel/similarity"
)

// Matrix is a dense symmetric kernel matrix over a set of corpus ids.
type Matrix struct {
	Metric similarity.Metric

	ids    []int
	values []float64
}

// NewMatrix returns a zero matrix over ids, which must be ascending.
func NewMatrix(metric similarity.Metric, ids []int) *Matrix {
	n := len(ids)
	return &Matrix{Metric: metric, ids: ids, values: make([]float64, n*n)}
}

// Len returns the number of rows.
func (m *Matrix) Len() int { return len(m.ids) }

// IDs returns the corpus id of each row. The slice must not be modified.
func (m *Matrix) IDs() []int { return m.ids }

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.values[i*len(m.ids)+j]
}

// Row returns row i. The slice aliases the matrix.
func (m *Matrix) Row(i int) []float64 {
	n := len(m.ids)
	return m.values[i*n : (i+1)*n]
}

func (m *Matrix) set(i, j int, v float64) {
	n := len(m.ids)
	m.values[i*n+j] = v
	m.values[j*n+i] = v
}

// Index returns the row of corpus id.
func (m *Matrix) Index(id int) (int, bool) {
	i := sort.SearchInts(m.ids, id)
	return i, i < len(m.ids) && m.ids[i] == id
}

// Lookup returns the kernel value of two corpus ids.
func (m *Matrix) Lookup(id1, id2 int) (float64, bool) {
	i, ok := m.Index(id1)
	if !ok {
		return 0, false
	}
	j, ok := m.Index(id2)
	if !ok {
		return 0, false
	}
	return m.At(i, j), true
}

// Subset returns the row ids as a bitmap.
func (m *Matrix) Subset() *roaring.Bitmap {
	bm := roaring.New()
	for _, id := range m.ids {
		bm.Add(uint32(id))
	}
	return bm
}
