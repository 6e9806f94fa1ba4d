package kernels

import (
	"github.com/notargets/semflow/FEM1D"
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/utils"
)

// DissipationVariableGradient is the artificial viscosity term of the
// Lax-Friedrichs stabilization: the viscous flux -visccoef*grad_var added to
// the equation of var, accumulated against gradphi of the test function.
type DissipationVariableGradient struct {
	kernelBase
	viscCoef, gradVar flow.QuantityID
	varIndex          int
}

func NewDissipationVariableGradient(reg *flow.Registry, dof *FEM1D.DoFHandler, v flow.VariableID) (k *DissipationVariableGradient) {
	k = &DissipationVariableGradient{
		kernelBase: newKernelBase("DissipationVariableGradient", dof, v),
		viscCoef:   reg.MustID(flow.ViscousCoefficientName(v)),
		gradVar:    reg.MustID(flow.GradientName(v)),
		varIndex:   dof.VariableIndex(v),
	}
	return
}

func (k *DissipationVariableGradient) Apply(d *flow.ElemData, rCell []float64, jCell utils.Matrix) {
	var (
		nn      = 2
		vc      = d.Value(k.viscCoef)
		gradVar = d.Value(k.gradVar)
		dvc     = derivs(d, k.viscCoef)
	)
	for q := 0; q < d.Len(); q++ {
		w := d.JxW[q]
		for i := 0; i < nn; i++ {
			ri := k.dof.I(i, k.eqIndex)
			gw := d.GradPhi.At(i, q) * w
			rCell[ri] += vc[q] * gradVar[q] * gw
			for v := flow.VariableID(0); v < flow.NumVariables; v++ {
				if dvc[v] == nil {
					continue
				}
				colIndex := k.dof.VariableIndex(v)
				for l := 0; l < nn; l++ {
					jCell.AddAt(ri, k.dof.I(l, colIndex), dvc[v][q]*gradVar[q]*d.Phi.At(l, q)*gw)
				}
			}
			for l := 0; l < nn; l++ {
				jCell.AddAt(ri, k.dof.I(l, k.varIndex), vc[q]*d.GradPhi.At(l, q)*gw)
			}
		}
	}
}
