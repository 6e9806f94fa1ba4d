// Package FEM1D provides the one-dimensional finite element substrate:
// Gauss quadrature, meshes of 1D segments, the degree-of-freedom handler and
// shape function evaluation for linear Lagrange elements.
package FEM1D

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/semflow/utils"
)

// Quadrature is a Gauss-Legendre rule on the reference interval [-1,1].
type Quadrature struct {
	NQ   int
	R, W utils.Vector // points and weights
}

// NewQuadrature builds an NQ point Gauss-Legendre rule using the
// Golub-Welsch eigenvalue method on the symmetric tridiagonal Jacobi matrix.
func NewQuadrature(NQ int) (q *Quadrature) {
	if NQ == 1 {
		q = &Quadrature{
			NQ: 1,
			R:  utils.NewVector(1, []float64{0}),
			W:  utils.NewVector(1, []float64{2}),
		}
		return
	}
	var (
		d0 = make([]float64, NQ)
		d1 = make([]float64, NQ-1)
	)
	for i := 0; i < NQ-1; i++ {
		ip1 := float64(i + 1)
		d1[i] = ip1 / math.Sqrt((2*ip1-1)*(2*ip1+1))
	}
	JJ := utils.NewSymTriDiagonal(d0, d1)

	var eig mat.EigenSym
	ok := eig.Factorize(JJ, true)
	if !ok {
		panic("eigenvalue decomposition failed")
	}
	x := eig.Values(nil)

	VVr := mat.NewDense(NQ, NQ, nil)
	eig.VectorsTo(VVr)
	w := make([]float64, NQ)
	for i := 0; i < NQ; i++ {
		// gamma0 for the Legendre weight is 2
		w[i] = 2 * utils.POW(VVr.At(0, i), 2)
	}
	q = &Quadrature{
		NQ: NQ,
		R:  utils.NewVector(NQ, x),
		W:  utils.NewVector(NQ, w),
	}
	return
}
