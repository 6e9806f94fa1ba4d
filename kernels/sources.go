package kernels

import (
	"github.com/notargets/semflow/FEM1D"
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/utils"
)

// MomentumGravity is the body force g*arhoA on a phase momentum equation,
// with g the gravity projected on the segment orientation.
type MomentumGravity struct {
	kernelBase
	arhoA flow.QuantityID
}

func NewMomentumGravity(reg *flow.Registry, dof *FEM1D.DoFHandler, phase int) (k *MomentumGravity) {
	k = &MomentumGravity{
		kernelBase: newKernelBase("MomentumGravity", dof, flow.ARhoUA(phase)),
		arhoA:      reg.MustID(flow.ARhoA(phase).String()),
	}
	return
}

func (k *MomentumGravity) Apply(d *flow.ElemData, rCell []float64, jCell utils.Matrix) {
	var (
		n     = d.Len()
		arhoA = d.Value(k.arhoA)
		S     = make([]float64, n)
		coef  = make([]float64, n)
	)
	for q := 0; q < n; q++ {
		S[q] = d.G * arhoA[q]
		coef[q] = d.G
	}
	dS := combine(d, flow.ChainTerm{Dep: k.arhoA, Coef: coef})
	k.applySource(d, S, dS, rCell, jCell)
}

// EnergyGravity is the gravity work term g*arhouA on a phase energy equation.
type EnergyGravity struct {
	kernelBase
	arhouA flow.QuantityID
}

func NewEnergyGravity(reg *flow.Registry, dof *FEM1D.DoFHandler, phase int) (k *EnergyGravity) {
	k = &EnergyGravity{
		kernelBase: newKernelBase("EnergyGravity", dof, flow.ARhoEA(phase)),
		arhouA:     reg.MustID(flow.ARhoUA(phase).String()),
	}
	return
}

func (k *EnergyGravity) Apply(d *flow.ElemData, rCell []float64, jCell utils.Matrix) {
	var (
		n      = d.Len()
		arhouA = d.Value(k.arhouA)
		S      = make([]float64, n)
		coef   = make([]float64, n)
	)
	for q := 0; q < n; q++ {
		S[q] = d.G * arhouA[q]
		coef[q] = d.G
	}
	dS := combine(d, flow.ChainTerm{Dep: k.arhouA, Coef: coef})
	k.applySource(d, S, dS, rCell, jCell)
}

// EnergyWallHeat is the prescribed wall heat influx HTCWall*PHeat*TWall per
// unit length. The flux is fixed by the segment data, so the kernel carries
// no Jacobian contribution.
type EnergyWallHeat struct {
	kernelBase
}

func NewEnergyWallHeat(dof *FEM1D.DoFHandler, phase int) (k *EnergyWallHeat) {
	k = &EnergyWallHeat{
		kernelBase: newKernelBase("EnergyWallHeat", dof, flow.ARhoEA(phase)),
	}
	return
}

func (k *EnergyWallHeat) Apply(d *flow.ElemData, rCell []float64, jCell utils.Matrix) {
	var (
		nn = 2
		S  = d.HTCWall * d.PHeat * d.TWall
	)
	for q := 0; q < d.Len(); q++ {
		w := d.JxW[q]
		for i := 0; i < nn; i++ {
			rCell[k.dof.I(i, k.eqIndex)] += S * d.Phi.At(i, q) * w
		}
	}
}
