package kernels

import (
	"github.com/notargets/semflow/FEM1D"
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/utils"
)

// MassAdvection is the weak divergence of the mass flux arhouA.
type MassAdvection struct {
	kernelBase
	arhouA flow.QuantityID
}

func NewMassAdvection(reg *flow.Registry, dof *FEM1D.DoFHandler, phase int) (k *MassAdvection) {
	k = &MassAdvection{
		kernelBase: newKernelBase("MassAdvection", dof, flow.ARhoA(phase)),
		arhouA:     reg.MustID(flow.ARhoUA(phase).String()),
	}
	return
}

func (k *MassAdvection) Apply(d *flow.ElemData, rCell []float64, jCell utils.Matrix) {
	k.applyFlux(d, d.Value(k.arhouA), derivs(d, k.arhouA), rCell, jCell)
}

// MomentumAdvection is the weak divergence of arhouA*u + vf*p*A.
type MomentumAdvection struct {
	kernelBase
	arhouA, u, vf, p, area flow.QuantityID
}

func NewMomentumAdvection(reg *flow.Registry, dof *FEM1D.DoFHandler, phase int) (k *MomentumAdvection) {
	k = &MomentumAdvection{
		kernelBase: newKernelBase("MomentumAdvection", dof, flow.ARhoUA(phase)),
		arhouA:     reg.MustID(flow.ARhoUA(phase).String()),
		u:          reg.MustID(flow.VelocityName(phase)),
		vf:         reg.MustID(flow.VolumeFractionName(phase)),
		p:          reg.MustID(flow.PressureName(phase)),
		area:       reg.MustID(flow.AreaName),
	}
	return
}

func (k *MomentumAdvection) Apply(d *flow.ElemData, rCell []float64, jCell utils.Matrix) {
	var (
		n      = d.Len()
		arhouA = d.Value(k.arhouA)
		u      = d.Value(k.u)
		vf     = d.Value(k.vf)
		p      = d.Value(k.p)
		area   = d.Value(k.area)
		F      = make([]float64, n)
		coefU  = make([]float64, n)
		coefVF = make([]float64, n)
		coefP  = make([]float64, n)
	)
	for q := 0; q < n; q++ {
		F[q] = arhouA[q]*u[q] + vf[q]*p[q]*area[q]
		coefU[q] = arhouA[q]
		coefVF[q] = p[q] * area[q]
		coefP[q] = vf[q] * area[q]
	}
	dF := combine(d,
		flow.ChainTerm{Dep: k.arhouA, Coef: u},
		flow.ChainTerm{Dep: k.u, Coef: coefU},
		flow.ChainTerm{Dep: k.vf, Coef: coefVF},
		flow.ChainTerm{Dep: k.p, Coef: coefP})
	k.applyFlux(d, F, dF, rCell, jCell)
}

// MomentumAreaGradient is the nonconservative pressure force from a varying
// cross section: S = p*vf*dA/dx.
type MomentumAreaGradient struct {
	kernelBase
	vf, p, gradArea flow.QuantityID
}

func NewMomentumAreaGradient(reg *flow.Registry, dof *FEM1D.DoFHandler, phase int) (k *MomentumAreaGradient) {
	k = &MomentumAreaGradient{
		kernelBase: newKernelBase("MomentumAreaGradient", dof, flow.ARhoUA(phase)),
		vf:         reg.MustID(flow.VolumeFractionName(phase)),
		p:          reg.MustID(flow.PressureName(phase)),
		gradArea:   reg.MustID(flow.AreaGradientName),
	}
	return
}

func (k *MomentumAreaGradient) Apply(d *flow.ElemData, rCell []float64, jCell utils.Matrix) {
	var (
		n        = d.Len()
		vf       = d.Value(k.vf)
		p        = d.Value(k.p)
		gradArea = d.Value(k.gradArea)
		S        = make([]float64, n)
		coefVF   = make([]float64, n)
		coefP    = make([]float64, n)
	)
	for q := 0; q < n; q++ {
		S[q] = p[q] * vf[q] * gradArea[q]
		coefVF[q] = p[q] * gradArea[q]
		coefP[q] = vf[q] * gradArea[q]
	}
	dS := combine(d,
		flow.ChainTerm{Dep: k.vf, Coef: coefVF},
		flow.ChainTerm{Dep: k.p, Coef: coefP})
	k.applySource(d, S, dS, rCell, jCell)
}

// EnergyAdvection is the weak divergence of u*(arhoEA + vf*p*A).
type EnergyAdvection struct {
	kernelBase
	arhoEA, u, vf, p, area flow.QuantityID
}

func NewEnergyAdvection(reg *flow.Registry, dof *FEM1D.DoFHandler, phase int) (k *EnergyAdvection) {
	k = &EnergyAdvection{
		kernelBase: newKernelBase("EnergyAdvection", dof, flow.ARhoEA(phase)),
		arhoEA:     reg.MustID(flow.ARhoEA(phase).String()),
		u:          reg.MustID(flow.VelocityName(phase)),
		vf:         reg.MustID(flow.VolumeFractionName(phase)),
		p:          reg.MustID(flow.PressureName(phase)),
		area:       reg.MustID(flow.AreaName),
	}
	return
}

func (k *EnergyAdvection) Apply(d *flow.ElemData, rCell []float64, jCell utils.Matrix) {
	var (
		n      = d.Len()
		arhoEA = d.Value(k.arhoEA)
		u      = d.Value(k.u)
		vf     = d.Value(k.vf)
		p      = d.Value(k.p)
		area   = d.Value(k.area)
		F      = make([]float64, n)
		coefU  = make([]float64, n)
		coefVF = make([]float64, n)
		coefP  = make([]float64, n)
	)
	for q := 0; q < n; q++ {
		F[q] = u[q] * (arhoEA[q] + vf[q]*p[q]*area[q])
		coefU[q] = arhoEA[q] + vf[q]*p[q]*area[q]
		coefVF[q] = u[q] * p[q] * area[q]
		coefP[q] = u[q] * vf[q] * area[q]
	}
	dF := combine(d,
		flow.ChainTerm{Dep: k.arhoEA, Coef: u},
		flow.ChainTerm{Dep: k.u, Coef: coefU},
		flow.ChainTerm{Dep: k.vf, Coef: coefVF},
		flow.ChainTerm{Dep: k.p, Coef: coefP})
	k.applyFlux(d, F, dF, rCell, jCell)
}

// InterpolatedAdvection replaces a direct advection kernel in group-FEM mode,
// consuming a precomputed interpolated flux. Derivative entries of the flux
// are nodal, so the Jacobian column of node l uses entry l directly.
type InterpolatedAdvection struct {
	kernelBase
	flux     flow.QuantityID
	rootDeps []flow.VariableID
}

func NewInterpolatedAdvection(reg *flow.Registry, dof *FEM1D.DoFHandler, eqVar flow.VariableID, rootDeps []flow.VariableID) (k *InterpolatedAdvection) {
	k = &InterpolatedAdvection{
		kernelBase: newKernelBase("InterpolatedAdvection", dof, eqVar),
		flux:       reg.MustID(flow.FluxName(eqVar)),
		rootDeps:   rootDeps,
	}
	return
}

func (k *InterpolatedAdvection) Apply(d *flow.ElemData, rCell []float64, jCell utils.Matrix) {
	var (
		nn = 2
		F  = d.Value(k.flux)
	)
	for q := 0; q < d.Len(); q++ {
		w := d.JxW[q]
		for i := 0; i < nn; i++ {
			ri := k.dof.I(i, k.eqIndex)
			gw := d.GradPhi.At(i, q) * w
			rCell[ri] -= F[q] * gw
			for _, v := range k.rootDeps {
				der := d.Deriv(k.flux, v)
				colIndex := k.dof.VariableIndex(v)
				for l := 0; l < nn; l++ {
					jCell.AddAt(ri, k.dof.I(l, colIndex), -der[l]*d.Phi.At(l, q)*gw)
				}
			}
		}
	}
}
