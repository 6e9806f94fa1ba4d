package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

// AddAt accumulates val into entry (i,j); scatter-add primitive for assembly.
func (m DOK) AddAt(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
	return m
}

func (m DOK) NNZ() int { return m.M.NNZ() }

func (m DOK) ToCSR() *sparse.CSR {
	return m.M.ToCSR()
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

// DenseToCSR compresses the nonzero pattern of a dense matrix; used to cache
// the mass matrix in sparse form for transient mat-vec products.
func DenseToCSR(m Matrix) (R *sparse.CSR) {
	var (
		nr, nc = m.Dims()
		dok    = NewDOK(nr, nc)
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if val := m.At(i, j); val != 0 {
				dok.Set(i, j, val)
			}
		}
	}
	R = dok.ToCSR()
	return
}

// CSRMulVec forms A*v for a sparse A without densifying.
func CSRMulVec(A *sparse.CSR, v []float64) (r []float64) {
	var (
		nr, nc = A.Dims()
	)
	if nc != len(v) {
		err := fmt.Errorf("dimension mismatch in CSRMulVec: nc = %v, len(v) = %v\n", nc, len(v))
		panic(err)
	}
	r = make([]float64, nr)
	A.DoNonZero(func(i, j int, val float64) {
		r[i] += val * v[j]
	})
	return
}
