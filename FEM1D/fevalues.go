package FEM1D

import (
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/utils"
)

// FEValues evaluates linear Lagrange shape functions and interpolates the
// solution, its gradients and the geometry at quadrature points and nodes.
type FEValues struct {
	Quad *Quadrature
	DoF  *DoFHandler

	phi utils.Matrix // [local node][quad point], reference element
}

func NewFEValues(quad *Quadrature, dof *DoFHandler) (fe *FEValues) {
	fe = &FEValues{
		Quad: quad,
		DoF:  dof,
	}
	// Linear Lagrange basis on [-1,1]: phi0 = (1-r)/2, phi1 = (1+r)/2
	fe.phi = utils.NewMatrix(2, quad.NQ)
	for q := 0; q < quad.NQ; q++ {
		r := quad.R.AtVec(q)
		fe.phi.Set(0, q, 0.5*(1-r))
		fe.phi.Set(1, q, 0.5*(1+r))
	}
	fe.phi.SetReadOnly("phi")
	return
}

// Phi returns the shape function values, [local node][quad point].
func (fe *FEValues) Phi() utils.Matrix { return fe.phi }

// GradPhi returns the physical-space shape function gradients on cell e.
func (fe *FEValues) GradPhi(e int) (R utils.Matrix) {
	var (
		ooh = 1. / fe.DoF.H[e]
	)
	R = utils.NewMatrix(2, fe.Quad.NQ)
	for q := 0; q < fe.Quad.NQ; q++ {
		R.Set(0, q, -ooh)
		R.Set(1, q, ooh)
	}
	return
}

// JxW returns the Jacobian-weighted quadrature weights on cell e.
func (fe *FEValues) JxW(e int) (jxw []float64) {
	var (
		halfH = 0.5 * fe.DoF.H[e]
	)
	jxw = make([]float64, fe.Quad.NQ)
	for q := 0; q < fe.Quad.NQ; q++ {
		jxw[q] = fe.Quad.W.AtVec(q) * halfH
	}
	return
}

func (fe *FEValues) interpolate(nodal [2]float64) (vals []float64) {
	vals = make([]float64, fe.Quad.NQ)
	for q := 0; q < fe.Quad.NQ; q++ {
		vals[q] = fe.phi.At(0, q)*nodal[0] + fe.phi.At(1, q)*nodal[1]
	}
	return
}

func (fe *FEValues) interpolateGradient(nodal [2]float64, e int) (vals []float64) {
	var (
		g = (nodal[1] - nodal[0]) / fe.DoF.H[e]
	)
	vals = make([]float64, fe.Quad.NQ)
	for q := 0; q < fe.Quad.NQ; q++ {
		vals[q] = g
	}
	return
}

func (fe *FEValues) nodalSolution(U []float64, v flow.VariableID, e int) (nodal [2]float64) {
	var (
		d        = fe.DoF
		varIndex = d.VariableIndex(v)
	)
	nodal[0] = U[d.GlobalDoF(d.GlobalNode(e, 0), varIndex)]
	nodal[1] = U[d.GlobalDoF(d.GlobalNode(e, 1), varIndex)]
	return
}

func (fe *FEValues) nodalArea(e int) (nodal [2]float64) {
	nodal[0] = fe.DoF.A[fe.DoF.GlobalNode(e, 0)]
	nodal[1] = fe.DoF.A[fe.DoF.GlobalNode(e, 1)]
	return
}

func (fe *FEValues) nodalAA1(U []float64, e int) (nodal [2]float64) {
	nodal[0] = fe.DoF.AA1(U, fe.DoF.GlobalNode(e, 0))
	nodal[1] = fe.DoF.AA1(U, fe.DoF.GlobalNode(e, 1))
	return
}

// ComputeLocalSolution interpolates variable v at the quadrature points of
// cell e.
func (fe *FEValues) ComputeLocalSolution(U []float64, v flow.VariableID, e int) []float64 {
	return fe.interpolate(fe.nodalSolution(U, v, e))
}

func (fe *FEValues) ComputeLocalSolutionGradient(U []float64, v flow.VariableID, e int) []float64 {
	return fe.interpolateGradient(fe.nodalSolution(U, v, e), e)
}

func (fe *FEValues) ComputeLocalArea(e int) []float64 {
	return fe.interpolate(fe.nodalArea(e))
}

func (fe *FEValues) ComputeLocalAreaGradient(e int) []float64 {
	return fe.interpolateGradient(fe.nodalArea(e), e)
}

func (fe *FEValues) ComputeLocalVolumeFractionSolution(U []float64, e int) []float64 {
	return fe.interpolate(fe.nodalAA1(U, e))
}

func (fe *FEValues) ComputeLocalVolumeFractionSolutionGradient(U []float64, e int) []float64 {
	return fe.interpolateGradient(fe.nodalAA1(U, e), e)
}

// GetLocalNodalSolution returns variable v at the two nodes of cell e; used
// by the group-FEM nodal pass.
func (fe *FEValues) GetLocalNodalSolution(U []float64, v flow.VariableID, e int) (vals []float64) {
	nodal := fe.nodalSolution(U, v, e)
	vals = []float64{nodal[0], nodal[1]}
	return
}

func (fe *FEValues) GetLocalNodalArea(e int) (vals []float64) {
	nodal := fe.nodalArea(e)
	vals = []float64{nodal[0], nodal[1]}
	return
}

func (fe *FEValues) GetLocalNodalVolumeFractionSolution(U []float64, e int) (vals []float64) {
	nodal := fe.nodalAA1(U, e)
	vals = []float64{nodal[0], nodal[1]}
	return
}
