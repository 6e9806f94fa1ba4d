package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	{
		// AddAt accumulates
		M := NewMatrix(2, 2)
		M.AddAt(0, 1, 1.5)
		M.AddAt(0, 1, 2.5)
		assert.Equal(t, 4., M.At(0, 1))
	}
	{
		// ZeroRow clears only its row
		M := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		M.ZeroRow(0)
		assert.Equal(t, 0., M.At(0, 0))
		assert.Equal(t, 0., M.At(0, 1))
		assert.Equal(t, 3., M.At(1, 0))
	}
	{
		// read only matrices reject writes, copies are writable
		M := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		M.SetReadOnly("M")
		assert.Panics(t, func() { M.Set(0, 0, 9) })
		C := M.Copy()
		C.Set(0, 0, 9)
		assert.Equal(t, 9., C.At(0, 0))
		assert.Equal(t, 1., M.At(0, 0))
	}
	{
		// Equal is bitwise
		A := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		B := A.Copy()
		assert.True(t, A.Equal(B))
		B.Set(1, 1, 4+1.e-16)
		assert.True(t, A.Equal(B)) // 4+1e-16 rounds to 4 in float64
		B.Set(1, 1, 4.000001)
		assert.False(t, A.Equal(B))
	}
	{
		// MulVec against a hand computed product
		M := NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
		r := M.MulVec([]float64{1, 1, 1})
		assert.Equal(t, []float64{6, 15}, r)
	}
}

func TestSparse(t *testing.T) {
	{
		// DOK to CSR round trip
		d := NewDOK(3, 3)
		d.Set(0, 0, 1)
		d.AddAt(1, 2, 2)
		d.AddAt(1, 2, 3)
		csr := d.ToCSR()
		assert.Equal(t, 1., csr.At(0, 0))
		assert.Equal(t, 5., csr.At(1, 2))
	}
	{
		// CSR mat-vec matches the dense product
		M := NewMatrix(3, 3, []float64{2, 0, 1, 0, 3, 0, 0, 0, 4})
		csr := DenseToCSR(M)
		v := []float64{1, 2, 3}
		dense := M.MulVec(v)
		sp := CSRMulVec(csr, v)
		for i := range dense {
			assert.True(t, math.Abs(dense[i]-sp[i]) < 1.e-14)
		}
	}
}
