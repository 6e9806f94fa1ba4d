// Package kernels implements the discretized PDE terms accumulated by the
// assembly engine. A kernel reads the shared cell context and adds its
// contribution to the cell-local residual and Jacobian; kernels never read
// each other's output.
package kernels

import (
	"github.com/notargets/semflow/FEM1D"
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/utils"
)

// Kernel is one discretized PDE term.
type Kernel interface {
	Name() string
	Apply(d *flow.ElemData, rCell []float64, jCell utils.Matrix)
}

// kernelBase binds a kernel to its equation variable's DOF block.
type kernelBase struct {
	name    string
	dof     *FEM1D.DoFHandler
	eqVar   flow.VariableID
	eqIndex int
}

func newKernelBase(name string, dof *FEM1D.DoFHandler, eqVar flow.VariableID) (k kernelBase) {
	k = kernelBase{
		name:    name,
		dof:     dof,
		eqVar:   eqVar,
		eqIndex: dof.VariableIndex(eqVar),
	}
	return
}

func (k kernelBase) Name() string { return k.name }

// derivs gathers the root-variable derivative arrays of a quantity.
func derivs(d *flow.ElemData, q flow.QuantityID) (dq [flow.NumVariables][]float64) {
	for v := flow.VariableID(0); v < flow.NumVariables; v++ {
		if arr, ok := d.DerivOK(q, v); ok {
			dq[v] = arr
		}
	}
	return
}

// combine forms the derivative arrays of a linear combination of quantities
// with pointwise coefficients, chaining through each quantity's entries.
func combine(d *flow.ElemData, terms ...flow.ChainTerm) (dF [flow.NumVariables][]float64) {
	for v := flow.VariableID(0); v < flow.NumVariables; v++ {
		for _, t := range terms {
			dep, ok := d.DerivOK(t.Dep, v)
			if !ok {
				continue
			}
			if dF[v] == nil {
				dF[v] = make([]float64, d.Len())
			}
			for i := range dep {
				dF[v][i] += t.Coef[i] * dep[i]
			}
		}
	}
	return
}

// applyFlux accumulates the weak divergence of a flux F:
//
//	r_i -= sum_q F gradphi_i JxW
//
// with Jacobian columns paired with the shape function of the column node.
func (k kernelBase) applyFlux(d *flow.ElemData, F []float64, dF [flow.NumVariables][]float64, rCell []float64, jCell utils.Matrix) {
	var (
		nn = 2
	)
	for q := 0; q < d.Len(); q++ {
		w := d.JxW[q]
		for i := 0; i < nn; i++ {
			ri := k.dof.I(i, k.eqIndex)
			gw := d.GradPhi.At(i, q) * w
			rCell[ri] -= F[q] * gw
			for v := flow.VariableID(0); v < flow.NumVariables; v++ {
				if dF[v] == nil {
					continue
				}
				colIndex := k.dof.VariableIndex(v)
				for l := 0; l < nn; l++ {
					jCell.AddAt(ri, k.dof.I(l, colIndex), -dF[v][q]*d.Phi.At(l, q)*gw)
				}
			}
		}
	}
}

// applySource accumulates a volumetric source S:
//
//	r_i += sum_q S phi_i JxW
func (k kernelBase) applySource(d *flow.ElemData, S []float64, dS [flow.NumVariables][]float64, rCell []float64, jCell utils.Matrix) {
	var (
		nn = 2
	)
	for q := 0; q < d.Len(); q++ {
		w := d.JxW[q]
		for i := 0; i < nn; i++ {
			ri := k.dof.I(i, k.eqIndex)
			pw := d.Phi.At(i, q) * w
			rCell[ri] += S[q] * pw
			for v := flow.VariableID(0); v < flow.NumVariables; v++ {
				if dS[v] == nil {
					continue
				}
				colIndex := k.dof.VariableIndex(v)
				for l := 0; l < nn; l++ {
					jCell.AddAt(ri, k.dof.I(l, colIndex), dS[v][q]*d.Phi.At(l, q)*pw)
				}
			}
		}
	}
}
