package complaints

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func buildSparse(cols int, rows ...map[int]float64) *SparseMatrix {
	b := newSparseBuilder(cols)
	for _, r := range rows {
		b.addRow(r)
	}
	return b.build()
}

func TestSparseMatrix(t *testing.T) {
	m := buildSparse(4,
		map[int]float64{3: 2, 0: 1},
		nil,
		map[int]float64{1: 5, 2: 0},
	)

	dense := mat.NewDense(3, 4, []float64{
		1, 0, 0, 2,
		0, 0, 0, 0,
		0, 5, 0, 0,
	})
	if !mat.Equal(m, dense) {
		t.Errorf("Expected\n%v\nGot\n%v", mat.Formatted(dense), mat.Formatted(m))
	}
	if m.NNZ() != 3 {
		t.Errorf("Expected 3 stored values, got %d", m.NNZ())
	}
	if !mat.Equal(m.T(), dense.T()) {
		t.Error("Transpose mismatch")
	}

	idx, vals := m.RowNonZero(0)
	if len(idx) != 2 || idx[0] != 0 || idx[1] != 3 || vals[1] != 2 {
		t.Errorf("Unexpected row 0: %v %v", idx, vals)
	}
}

func TestSparseMatrixRows(t *testing.T) {
	m := buildSparse(3,
		map[int]float64{0: 1},
		map[int]float64{1: 2},
		map[int]float64{2: 3},
	)
	sub := m.Rows([]int{2, 0, 2})

	expected := mat.NewDense(3, 3, []float64{
		0, 0, 3,
		1, 0, 0,
		0, 0, 3,
	})
	if !mat.Equal(sub, expected) {
		t.Errorf("Expected\n%v\nGot\n%v", mat.Formatted(expected), mat.Formatted(sub))
	}
	if !mat.Equal(sub.RowVec(1), mat.NewVecDense(3, []float64{1, 0, 0})) {
		t.Error("RowVec mismatch")
	}
}

func TestSparseMatrixAtPanics(t *testing.T) {
	m := buildSparse(2, map[int]float64{0: 1})
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for out of range access")
		}
	}()
	m.At(0, 2)
}
