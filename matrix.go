package complaints

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// SparseMatrix is an immutable compressed-sparse-row matrix. It satisfies
// mat.Matrix so it can be handed to anything in gonum that reads matrices.
type SparseMatrix struct {
	rows, cols int
	indptr     []int // row i spans indices[indptr[i]:indptr[i+1]]
	indices    []int // column indices, ascending within a row
	data       []float64
}

var _ mat.Matrix = (*SparseMatrix)(nil)

// sparseBuilder appends rows in order.
type sparseBuilder struct {
	m *SparseMatrix
}

func newSparseBuilder(cols int) *sparseBuilder {
	return &sparseBuilder{m: &SparseMatrix{cols: cols, indptr: []int{0}}}
}

// addRow appends a row given as column → value. Zero values are skipped.
func (b *sparseBuilder) addRow(values map[int]float64) {
	cols := make([]int, 0, len(values))
	for c, v := range values {
		if v != 0 {
			cols = append(cols, c)
		}
	}
	sort.Ints(cols)
	for _, c := range cols {
		b.m.indices = append(b.m.indices, c)
		b.m.data = append(b.m.data, values[c])
	}
	b.m.rows++
	b.m.indptr = append(b.m.indptr, len(b.m.indices))
}

func (b *sparseBuilder) build() *SparseMatrix {
	return b.m
}

// Dims returns the number of rows and columns.
func (m *SparseMatrix) Dims() (r, c int) {
	return m.rows, m.cols
}

// At returns the value at row i, column j.
func (m *SparseMatrix) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(mat.ErrIndexOutOfRange)
	}
	lo, hi := m.indptr[i], m.indptr[i+1]
	k := lo + sort.SearchInts(m.indices[lo:hi], j)
	if k < hi && m.indices[k] == j {
		return m.data[k]
	}
	return 0
}

// T returns the transpose without copying.
func (m *SparseMatrix) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// NNZ returns the number of stored non-zero values.
func (m *SparseMatrix) NNZ() int {
	return len(m.data)
}

// RowNonZero returns the column indices and values stored for row i. The
// slices alias the matrix and must not be modified.
func (m *SparseMatrix) RowNonZero(i int) ([]int, []float64) {
	lo, hi := m.indptr[i], m.indptr[i+1]
	return m.indices[lo:hi], m.data[lo:hi]
}

// RowVec returns row i as a dense vector.
func (m *SparseMatrix) RowVec(i int) *mat.VecDense {
	v := mat.NewVecDense(m.cols, nil)
	idx, vals := m.RowNonZero(i)
	for k, c := range idx {
		v.SetVec(c, vals[k])
	}
	return v
}

// Rows returns a new matrix holding the selected rows in the given order.
func (m *SparseMatrix) Rows(idx []int) *SparseMatrix {
	out := &SparseMatrix{cols: m.cols, indptr: []int{0}}
	for _, i := range idx {
		cols, vals := m.RowNonZero(i)
		out.indices = append(out.indices, cols...)
		out.data = append(out.data, vals...)
		out.rows++
		out.indptr = append(out.indptr, len(out.indices))
	}
	return out
}
