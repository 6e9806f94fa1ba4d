package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NewSymTriDiagonal builds a symmetric tridiagonal matrix from its main
// diagonal d0 and first off-diagonal d1; used by the Golub-Welsch quadrature
// construction.
func NewSymTriDiagonal(d0, d1 []float64) (J *mat.SymDense) {
	var (
		n = len(d0)
	)
	if len(d1) != n-1 {
		err := fmt.Errorf("mismatch in diagonals: len(d0) = %v, len(d1) = %v\n", len(d0), len(d1))
		panic(err)
	}
	J = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		J.SetSym(i, i, d0[i])
		if i < n-1 {
			J.SetSym(i, i+1, d1[i])
		}
	}
	return
}
