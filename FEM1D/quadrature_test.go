package FEM1D

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuadrature(t *testing.T) {
	{
		// Weights sum to the length of the reference interval
		for NQ := 1; NQ <= 6; NQ++ {
			q := NewQuadrature(NQ)
			assert.Equal(t, NQ, q.NQ)
			assert.True(t, near(q.W.Sum(), 2, 1.e-12))
		}
	}
	{
		// An NQ point rule integrates polynomials up to degree 2*NQ-1 exactly
		for NQ := 1; NQ <= 5; NQ++ {
			q := NewQuadrature(NQ)
			for deg := 0; deg <= 2*NQ-1; deg++ {
				var sum float64
				for i := 0; i < NQ; i++ {
					sum += q.W.AtVec(i) * math.Pow(q.R.AtVec(i), float64(deg))
				}
				// exact integral of x^deg over [-1,1]
				exact := 0.
				if deg%2 == 0 {
					exact = 2 / float64(deg+1)
				}
				if !near(sum, exact, 1.e-10) {
					fmt.Printf("NQ = %d, deg = %d, sum = %v, exact = %v\n", NQ, deg, sum, exact)
				}
				assert.True(t, near(sum, exact, 1.e-10))
			}
		}
	}
	{
		// Two point rule is the textbook +-1/sqrt(3)
		q := NewQuadrature(2)
		assert.True(t, near(q.R.AtVec(0), -1/math.Sqrt(3), 1.e-12))
		assert.True(t, near(q.R.AtVec(1), 1/math.Sqrt(3), 1.e-12))
		assert.True(t, near(q.W.AtVec(0), 1, 1.e-12))
		assert.True(t, near(q.W.AtVec(1), 1, 1.e-12))
	}
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
