package assembly

import (
	"github.com/notargets/semflow/flow"
)

// Local solution extraction fills an evaluation context with the primary
// quantities at the quadrature points of a cell, at a single node, or at the
// two nodes of a cell (group-FEM pass). The phase variant is bound once at
// construction; callers invoke the bound closure and can never reach the
// wrong variant.
//
// Extracted primaries carry unit self-derivative arrays so that the chain
// rule through auxiliary quantities is uniform. Interpolated gradients carry
// no derivative entries: kernels consuming a gradient pair its Jacobian
// column with gradphi of the column node instead.

type cellExtractor func(U []float64, e int, d *flow.ElemData)
type nodalExtractor func(U []float64, e int, d *flow.ElemData)

func (a *Assembly) bindExtraction() {
	if a.Model.Phases() == 1 {
		a.extractCell = a.extractCellOnePhase
		a.extractNode = a.extractNodeOnePhase
		a.extractNodal = a.extractNodalOnePhase
		return
	}
	a.extractCell = a.extractCellTwoPhase
	a.extractNode = a.extractNodeTwoPhase
	a.extractNodal = a.extractNodalTwoPhase
}

func (a *Assembly) extractPhase(U []float64, e, phase int, d *flow.ElemData, ones []float64) {
	for _, v := range []flow.VariableID{flow.ARhoA(phase), flow.ARhoUA(phase), flow.ARhoEA(phase)} {
		d.SetValue(a.qty[v], a.FE.ComputeLocalSolution(U, v, e))
		d.SetDeriv(a.qty[v], v, ones)
		if a.needGradients {
			d.SetValue(a.grad[v], a.FE.ComputeLocalSolutionGradient(U, v, e))
		}
	}
}

func (a *Assembly) extractCellOnePhase(U []float64, e int, d *flow.ElemData) {
	d.SetValue(a.qty[flow.AA1], a.FE.ComputeLocalVolumeFractionSolution(U, e))
	d.SetValue(a.area, a.FE.ComputeLocalArea(e))
	d.SetValue(a.gradArea, a.FE.ComputeLocalAreaGradient(e))
	a.extractPhase(U, e, 0, d, a.onesQ)
}

func (a *Assembly) extractCellTwoPhase(U []float64, e int, d *flow.ElemData) {
	d.SetValue(a.qty[flow.AA1], a.FE.ComputeLocalVolumeFractionSolution(U, e))
	d.SetValue(a.grad[flow.AA1], a.FE.ComputeLocalVolumeFractionSolutionGradient(U, e))
	if a.Model == flow.TwoPhase {
		d.SetDeriv(a.qty[flow.AA1], flow.AA1, a.onesQ)
	}
	d.SetValue(a.area, a.FE.ComputeLocalArea(e))
	d.SetValue(a.gradArea, a.FE.ComputeLocalAreaGradient(e))
	a.extractPhase(U, e, 0, d, a.onesQ)
	a.extractPhase(U, e, 1, d, a.onesQ)
}

func (a *Assembly) extractNodePhase(U []float64, node, phase int, d *flow.ElemData) {
	for _, v := range []flow.VariableID{flow.ARhoA(phase), flow.ARhoUA(phase), flow.ARhoEA(phase)} {
		vals := d.ValueAlloc(a.qty[v])
		vals[0] = U[a.DoF.GlobalDoF(node, a.DoF.VariableIndex(v))]
		d.SetDeriv(a.qty[v], v, a.ones1)
	}
}

func (a *Assembly) extractNodeOnePhase(U []float64, node int, d *flow.ElemData) {
	d.ValueAlloc(a.qty[flow.AA1])[0] = a.DoF.AA1(U, node)
	d.ValueAlloc(a.area)[0] = a.DoF.A[node]
	a.extractNodePhase(U, node, 0, d)
}

func (a *Assembly) extractNodeTwoPhase(U []float64, node int, d *flow.ElemData) {
	d.ValueAlloc(a.qty[flow.AA1])[0] = a.DoF.AA1(U, node)
	if a.Model == flow.TwoPhase {
		d.SetDeriv(a.qty[flow.AA1], flow.AA1, a.ones1)
	}
	d.ValueAlloc(a.area)[0] = a.DoF.A[node]
	a.extractNodePhase(U, node, 0, d)
	a.extractNodePhase(U, node, 1, d)
}

func (a *Assembly) extractNodalPhase(U []float64, e, phase int, d *flow.ElemData) {
	for _, v := range []flow.VariableID{flow.ARhoA(phase), flow.ARhoUA(phase), flow.ARhoEA(phase)} {
		d.SetValue(a.qty[v], a.FE.GetLocalNodalSolution(U, v, e))
		d.SetDeriv(a.qty[v], v, a.ones2)
	}
}

func (a *Assembly) extractNodalOnePhase(U []float64, e int, d *flow.ElemData) {
	d.SetValue(a.qty[flow.AA1], a.FE.GetLocalNodalVolumeFractionSolution(U, e))
	d.SetValue(a.area, a.FE.GetLocalNodalArea(e))
	a.extractNodalPhase(U, e, 0, d)
}

func (a *Assembly) extractNodalTwoPhase(U []float64, e int, d *flow.ElemData) {
	d.SetValue(a.qty[flow.AA1], a.FE.GetLocalNodalVolumeFractionSolution(U, e))
	if a.Model == flow.TwoPhase {
		d.SetDeriv(a.qty[flow.AA1], flow.AA1, a.ones2)
	}
	d.SetValue(a.area, a.FE.GetLocalNodalArea(e))
	a.extractNodalPhase(U, e, 0, d)
	a.extractNodalPhase(U, e, 1, d)
}
