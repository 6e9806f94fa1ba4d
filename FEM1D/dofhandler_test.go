package FEM1D

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/utils"
)

func testMesh(nCells int, area float64) *Mesh {
	return NewMesh([]Segment{UniformSegment("pipe", 0, 1, nCells, area)}, 0)
}

func TestDoFHandler(t *testing.T) {
	{
		// DOF indices are unique and contiguous
		for _, model := range []flow.ModelType{flow.OnePhase, flow.TwoPhaseNonInteracting, flow.TwoPhase} {
			dof := NewDoFHandler(testMesh(4, 1), model, nil)
			seen := make(map[int]bool)
			for node := 0; node < dof.NNodes; node++ {
				for vi := 0; vi < dof.NVars; vi++ {
					i := dof.GlobalDoF(node, vi)
					assert.False(t, seen[i])
					assert.True(t, i >= 0 && i < dof.NDoF)
					seen[i] = true
				}
			}
			assert.Equal(t, dof.NDoF, len(seen))
		}
	}
	{
		// CellDoF inverts the local layout of I
		dof := NewDoFHandler(testMesh(3, 1), flow.TwoPhase, nil)
		for e := 0; e < dof.NCells; e++ {
			for k := 0; k < dof.NDoFPerCellPerVar; k++ {
				for vi := 0; vi < dof.NVars; vi++ {
					assert.Equal(t,
						dof.GlobalDoF(dof.GlobalNode(e, k), vi),
						dof.CellDoF(e, dof.I(k, vi)))
				}
			}
		}
	}
	{
		// Scatter-add accumulates on nodes shared between adjacent cells
		dof := NewDoFHandler(testMesh(2, 1), flow.OnePhase, nil)
		r := make([]float64, dof.NDoF)
		rCell := make([]float64, dof.NDoFPerCell)
		for i := range rCell {
			rCell[i] = 1
		}
		dof.AggregateLocalCellVector(r, rCell, 0)
		dof.AggregateLocalCellVector(r, rCell, 1)
		for vi := 0; vi < dof.NVars; vi++ {
			assert.Equal(t, 1., r[dof.GlobalDoF(0, vi)])
			assert.Equal(t, 2., r[dof.GlobalDoF(1, vi)]) // shared node
			assert.Equal(t, 1., r[dof.GlobalDoF(2, vi)])
		}

		J := utils.NewMatrix(dof.NDoF, dof.NDoF)
		jCell := utils.NewMatrix(dof.NDoFPerCell, dof.NDoFPerCell)
		jCell.Set(0, 0, 1)
		dof.AggregateLocalCellMatrix(J, jCell, 0)
		dof.AggregateLocalCellMatrix(J, jCell, 1)
		i0 := dof.CellDoF(0, 0)
		i1 := dof.CellDoF(1, 0)
		assert.Equal(t, 1., J.At(i0, i0))
		assert.Equal(t, 1., J.At(i1, i1))
	}
	{
		// AA1 reads a DOF for TwoPhase and the fixed profile otherwise
		mesh := testMesh(2, 2)
		dof := NewDoFHandler(mesh, flow.TwoPhase, nil)
		U := make([]float64, dof.NDoF)
		U[dof.GlobalDoF(1, dof.VariableIndex(flow.AA1))] = 0.75
		assert.Equal(t, 0.75, dof.AA1(U, 1))

		dofNI := NewDoFHandler(mesh, flow.TwoPhaseNonInteracting, func(x float64) float64 { return 0.25 })
		assert.Equal(t, -1, dofNI.VariableIndex(flow.AA1))
		assert.True(t, near(dofNI.AA1(nil, 1), 0.25*2, 1.e-12))
	}
	{
		// Node connectivity has the tridiagonal pattern of a 1D chain
		dof := NewDoFHandler(testMesh(3, 1), flow.OnePhase, nil)
		nr, nc := dof.NodeConnectivity.Dims()
		assert.Equal(t, dof.NNodes, nr)
		assert.Equal(t, dof.NNodes, nc)
		assert.Equal(t, 1., dof.NodeConnectivity.At(1, 2))
		assert.Equal(t, 0., dof.NodeConnectivity.At(0, 2))
	}
	{
		// Constraint ledger
		dof := NewDoFHandler(testMesh(2, 1), flow.OnePhase, nil)
		assert.False(t, dof.IsConstrained(3))
		dof.MarkConstrained(3)
		assert.True(t, dof.IsConstrained(3))
	}
}

func TestFEValues(t *testing.T) {
	var (
		mesh = testMesh(2, 1)
		dof  = NewDoFHandler(mesh, flow.OnePhase, nil)
		fe   = NewFEValues(NewQuadrature(2), dof)
	)
	{
		// Shape functions are a partition of unity
		phi := fe.Phi()
		for q := 0; q < 2; q++ {
			assert.True(t, near(phi.At(0, q)+phi.At(1, q), 1, 1.e-12))
		}
	}
	{
		// JxW sums to the cell size
		jxw := fe.JxW(0)
		var sum float64
		for _, w := range jxw {
			sum += w
		}
		assert.True(t, near(sum, dof.H[0], 1.e-12))
	}
	{
		// A nodally linear field interpolates exactly, with exact gradient
		U := make([]float64, dof.NDoF)
		vi := dof.VariableIndex(flow.ARhoA1)
		for node := 0; node < dof.NNodes; node++ {
			U[dof.GlobalDoF(node, vi)] = 2*mesh.XNode[node] + 1
		}
		vals := fe.ComputeLocalSolution(U, flow.ARhoA1, 0)
		grads := fe.ComputeLocalSolutionGradient(U, flow.ARhoA1, 0)
		for q := 0; q < 2; q++ {
			x := 0.5*(1-fe.Quad.R.AtVec(q))*mesh.XNode[0] + 0.5*(1+fe.Quad.R.AtVec(q))*mesh.XNode[1]
			assert.True(t, near(vals[q], 2*x+1, 1.e-12))
			assert.True(t, near(grads[q], 2, 1.e-12))
		}
		nodal := fe.GetLocalNodalSolution(U, flow.ARhoA1, 1)
		assert.True(t, near(nodal[0], 2*mesh.XNode[1]+1, 1.e-12))
		assert.True(t, near(nodal[1], 2*mesh.XNode[2]+1, 1.e-12))
	}
}
