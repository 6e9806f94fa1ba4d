package kernels

import (
	"github.com/notargets/semflow/FEM1D"
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/utils"
)

// Phase-interaction kernels couple the two phases through the interfacial
// velocity uI and pressure pI. They exist only in the fully coupled two-phase
// model, where aA1 is an unknown; all three consume grad_aA1, whose Jacobian
// column pairs with gradphi of the column node rather than phi.

// VolumeFractionAdvection is the aA1 transport equation source uI*grad_aA1.
type VolumeFractionAdvection struct {
	kernelBase
	uI, gradAA1 flow.QuantityID
	aa1Index    int
}

func NewVolumeFractionAdvection(reg *flow.Registry, dof *FEM1D.DoFHandler) (k *VolumeFractionAdvection) {
	k = &VolumeFractionAdvection{
		kernelBase: newKernelBase("VolumeFractionAdvection", dof, flow.AA1),
		uI:         reg.MustID(flow.InterfacialVelocityName),
		gradAA1:    reg.MustID(flow.GradientName(flow.AA1)),
		aa1Index:   dof.VariableIndex(flow.AA1),
	}
	return
}

func (k *VolumeFractionAdvection) Apply(d *flow.ElemData, rCell []float64, jCell utils.Matrix) {
	var (
		n       = d.Len()
		uI      = d.Value(k.uI)
		gradAA1 = d.Value(k.gradAA1)
		S       = make([]float64, n)
	)
	for q := 0; q < n; q++ {
		S[q] = uI[q] * gradAA1[q]
	}
	dS := combine(d, flow.ChainTerm{Dep: k.uI, Coef: gradAA1})
	k.applySource(d, S, dS, rCell, jCell)
	k.addGradientColumn(d, uI, k.aa1Index, 1, jCell)
}

// MomentumVolumeFractionGradient is the nonconservative interfacial pressure
// force s_k*pI*grad_aA1, with s_k = +1 for phase 1 and -1 for phase 2 since
// grad_aA2 = grad_A - grad_aA1 and the aA2 part is carried by the area
// gradient kernel.
type MomentumVolumeFractionGradient struct {
	kernelBase
	pI, gradAA1 flow.QuantityID
	aa1Index    int
	sign        float64
}

func NewMomentumVolumeFractionGradient(reg *flow.Registry, dof *FEM1D.DoFHandler, phase int) (k *MomentumVolumeFractionGradient) {
	k = &MomentumVolumeFractionGradient{
		kernelBase: newKernelBase("MomentumVolumeFractionGradient", dof, flow.ARhoUA(phase)),
		pI:         reg.MustID(flow.InterfacialPressureName),
		gradAA1:    reg.MustID(flow.GradientName(flow.AA1)),
		aa1Index:   dof.VariableIndex(flow.AA1),
		sign:       phaseSign(phase),
	}
	return
}

func (k *MomentumVolumeFractionGradient) Apply(d *flow.ElemData, rCell []float64, jCell utils.Matrix) {
	var (
		n       = d.Len()
		pI      = d.Value(k.pI)
		gradAA1 = d.Value(k.gradAA1)
		S       = make([]float64, n)
		coefPI  = make([]float64, n)
		coefG   = make([]float64, n)
	)
	for q := 0; q < n; q++ {
		S[q] = k.sign * pI[q] * gradAA1[q]
		coefPI[q] = k.sign * gradAA1[q]
		coefG[q] = k.sign * pI[q]
	}
	dS := combine(d, flow.ChainTerm{Dep: k.pI, Coef: coefPI})
	k.applySource(d, S, dS, rCell, jCell)
	k.addGradientColumn(d, coefG, k.aa1Index, 1, jCell)
}

// EnergyVolumeFractionGradient is the interfacial work term
// s_k*pI*uI*grad_aA1 in the phase energy equation.
type EnergyVolumeFractionGradient struct {
	kernelBase
	pI, uI, gradAA1 flow.QuantityID
	aa1Index        int
	sign            float64
}

func NewEnergyVolumeFractionGradient(reg *flow.Registry, dof *FEM1D.DoFHandler, phase int) (k *EnergyVolumeFractionGradient) {
	k = &EnergyVolumeFractionGradient{
		kernelBase: newKernelBase("EnergyVolumeFractionGradient", dof, flow.ARhoEA(phase)),
		pI:         reg.MustID(flow.InterfacialPressureName),
		uI:         reg.MustID(flow.InterfacialVelocityName),
		gradAA1:    reg.MustID(flow.GradientName(flow.AA1)),
		aa1Index:   dof.VariableIndex(flow.AA1),
		sign:       phaseSign(phase),
	}
	return
}

func (k *EnergyVolumeFractionGradient) Apply(d *flow.ElemData, rCell []float64, jCell utils.Matrix) {
	var (
		n       = d.Len()
		pI      = d.Value(k.pI)
		uI      = d.Value(k.uI)
		gradAA1 = d.Value(k.gradAA1)
		S       = make([]float64, n)
		coefPI  = make([]float64, n)
		coefUI  = make([]float64, n)
		coefG   = make([]float64, n)
	)
	for q := 0; q < n; q++ {
		S[q] = k.sign * pI[q] * uI[q] * gradAA1[q]
		coefPI[q] = k.sign * uI[q] * gradAA1[q]
		coefUI[q] = k.sign * pI[q] * gradAA1[q]
		coefG[q] = k.sign * pI[q] * uI[q]
	}
	dS := combine(d,
		flow.ChainTerm{Dep: k.pI, Coef: coefPI},
		flow.ChainTerm{Dep: k.uI, Coef: coefUI})
	k.applySource(d, S, dS, rCell, jCell)
	k.addGradientColumn(d, coefG, k.aa1Index, 1, jCell)
}

func phaseSign(phase int) float64 {
	if phase == 0 {
		return 1
	}
	return -1
}

// addGradientColumn accumulates the Jacobian block of a source term whose
// dependence on the column variable runs through an interpolated gradient:
// the column of local node l uses gradphi_l instead of phi_l.
//
//	J[i, l] += sign * coef[q] * gradphi_l * phi_i * JxW
func (k kernelBase) addGradientColumn(d *flow.ElemData, coef []float64, colIndex int, sign float64, jCell utils.Matrix) {
	var (
		nn = 2
	)
	for q := 0; q < d.Len(); q++ {
		w := d.JxW[q]
		for i := 0; i < nn; i++ {
			ri := k.dof.I(i, k.eqIndex)
			pw := d.Phi.At(i, q) * w
			for l := 0; l < nn; l++ {
				jCell.AddAt(ri, k.dof.I(l, colIndex), sign*coef[q]*d.GradPhi.At(l, q)*pw)
			}
		}
	}
}
