package bc

import (
	"github.com/notargets/semflow/FEM1D"
	"github.com/notargets/semflow/utils"
)

// ContinuityJunction ties the solution at the end nodes of two segments
// together, variable by variable. The strong form replaces the rows of the
// second node with equality constraints U[right] - U[left] = 0; rows already
// claimed by a boundary condition are left alone. Penalty > 0 additionally
// couples the nodes weakly during unconstrained assembly.
type ContinuityJunction struct {
	dof     *FEM1D.DoFHandler
	nodeL   int
	nodeR   int
	Penalty float64
}

func NewContinuityJunction(dof *FEM1D.DoFHandler, nodeL, nodeR int) (j *ContinuityJunction) {
	j = &ContinuityJunction{
		dof:   dof,
		nodeL: nodeL,
		nodeR: nodeR,
	}
	return
}

func (j *ContinuityJunction) Name() string { return "ContinuityJunction" }

func (j *ContinuityJunction) ApplyWeaklyToNonlinearSystem(U, r []float64, J utils.Matrix) {
	if j.Penalty == 0 {
		return
	}
	for vi := 0; vi < j.dof.NVars; vi++ {
		var (
			iL = j.dof.GlobalDoF(j.nodeL, vi)
			iR = j.dof.GlobalDoF(j.nodeR, vi)
			d  = j.Penalty * (U[iR] - U[iL])
		)
		r[iR] += d
		r[iL] -= d
		J.AddAt(iR, iR, j.Penalty)
		J.AddAt(iR, iL, -j.Penalty)
		J.AddAt(iL, iL, j.Penalty)
		J.AddAt(iL, iR, -j.Penalty)
	}
}

func (j *ContinuityJunction) ApplyStronglyToNonlinearSystem(U, r []float64, J utils.Matrix) {
	for vi := 0; vi < j.dof.NVars; vi++ {
		var (
			iL = j.dof.GlobalDoF(j.nodeL, vi)
			iR = j.dof.GlobalDoF(j.nodeR, vi)
		)
		if j.dof.IsConstrained(iR) {
			continue
		}
		r[iR] = U[iR] - U[iL]
		J.ZeroRow(iR)
		J.Set(iR, iR, 1)
		J.Set(iR, iL, -1)
	}
}

func (j *ContinuityJunction) ApplyStronglyToLinearSystemMatrix(A utils.Matrix) {
	for vi := 0; vi < j.dof.NVars; vi++ {
		var (
			iL = j.dof.GlobalDoF(j.nodeL, vi)
			iR = j.dof.GlobalDoF(j.nodeR, vi)
		)
		if j.dof.IsConstrained(iR) {
			continue
		}
		A.ZeroRow(iR)
		A.Set(iR, iR, 1)
		A.Set(iR, iL, -1)
	}
}

func (j *ContinuityJunction) ApplyStronglyToLinearSystemRHSVector(U, b []float64) {
	for vi := 0; vi < j.dof.NVars; vi++ {
		iR := j.dof.GlobalDoF(j.nodeR, vi)
		if j.dof.IsConstrained(iR) {
			continue
		}
		b[iR] = 0
	}
}
