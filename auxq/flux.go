package auxq

import (
	"github.com/notargets/semflow/flow"
)

// The flux quantities below are evaluated at the local nodes of a cell during
// the group-FEM pass; InterpolatedAux then carries their values to the
// quadrature points while keeping the derivative entries nodal.

// MassFlux is the inviscid mass flux arhouA.
type MassFlux struct {
	base
	arhouA flow.QuantityID
}

func NewMassFlux(reg *flow.Registry, phase int) (a *MassFlux) {
	a = &MassFlux{
		base: newBase(reg, flow.FluxName(flow.ARhoA(phase)), flow.ARhoUA(phase).String()),
	}
	a.arhouA = a.deps[0]
	return
}

func (a *MassFlux) Compute(d *flow.ElemData) {
	var (
		vals   = d.ValueAlloc(a.out)
		arhouA = d.Value(a.arhouA)
		coef   = make([]float64, d.Len())
	)
	for i := range vals {
		vals[i] = arhouA[i]
		coef[i] = 1
	}
	d.Chain(a.out, flow.ChainTerm{Dep: a.arhouA, Coef: coef})
}

// MomentumFlux is the inviscid momentum flux arhouA*u + vf*p*A.
type MomentumFlux struct {
	base
	arhouA, u, vf, p, area flow.QuantityID
}

func NewMomentumFlux(reg *flow.Registry, phase int) (a *MomentumFlux) {
	a = &MomentumFlux{
		base: newBase(reg, flow.FluxName(flow.ARhoUA(phase)),
			flow.ARhoUA(phase).String(), flow.VelocityName(phase),
			flow.VolumeFractionName(phase), flow.PressureName(phase), flow.AreaName),
	}
	a.arhouA, a.u, a.vf, a.p, a.area = a.deps[0], a.deps[1], a.deps[2], a.deps[3], a.deps[4]
	return
}

func (a *MomentumFlux) Compute(d *flow.ElemData) {
	var (
		vals       = d.ValueAlloc(a.out)
		arhouA     = d.Value(a.arhouA)
		u          = d.Value(a.u)
		vf         = d.Value(a.vf)
		p          = d.Value(a.p)
		area       = d.Value(a.area)
		coefARhoUA = make([]float64, d.Len())
		coefU      = make([]float64, d.Len())
		coefVF     = make([]float64, d.Len())
		coefP      = make([]float64, d.Len())
	)
	for i := range vals {
		vals[i] = arhouA[i]*u[i] + vf[i]*p[i]*area[i]
		coefARhoUA[i] = u[i]
		coefU[i] = arhouA[i]
		coefVF[i] = p[i] * area[i]
		coefP[i] = vf[i] * area[i]
	}
	d.Chain(a.out,
		flow.ChainTerm{Dep: a.arhouA, Coef: coefARhoUA},
		flow.ChainTerm{Dep: a.u, Coef: coefU},
		flow.ChainTerm{Dep: a.vf, Coef: coefVF},
		flow.ChainTerm{Dep: a.p, Coef: coefP})
}

// EnergyFlux is the inviscid energy flux u*(arhoEA + vf*p*A).
type EnergyFlux struct {
	base
	arhoEA, u, vf, p, area flow.QuantityID
}

func NewEnergyFlux(reg *flow.Registry, phase int) (a *EnergyFlux) {
	a = &EnergyFlux{
		base: newBase(reg, flow.FluxName(flow.ARhoEA(phase)),
			flow.ARhoEA(phase).String(), flow.VelocityName(phase),
			flow.VolumeFractionName(phase), flow.PressureName(phase), flow.AreaName),
	}
	a.arhoEA, a.u, a.vf, a.p, a.area = a.deps[0], a.deps[1], a.deps[2], a.deps[3], a.deps[4]
	return
}

func (a *EnergyFlux) Compute(d *flow.ElemData) {
	var (
		vals       = d.ValueAlloc(a.out)
		arhoEA     = d.Value(a.arhoEA)
		u          = d.Value(a.u)
		vf         = d.Value(a.vf)
		p          = d.Value(a.p)
		area       = d.Value(a.area)
		coefARhoEA = make([]float64, d.Len())
		coefU      = make([]float64, d.Len())
		coefVF     = make([]float64, d.Len())
		coefP      = make([]float64, d.Len())
	)
	for i := range vals {
		vals[i] = u[i] * (arhoEA[i] + vf[i]*p[i]*area[i])
		coefARhoEA[i] = u[i]
		coefU[i] = arhoEA[i] + vf[i]*p[i]*area[i]
		coefVF[i] = u[i] * p[i] * area[i]
		coefP[i] = u[i] * vf[i] * area[i]
	}
	d.Chain(a.out,
		flow.ChainTerm{Dep: a.arhoEA, Coef: coefARhoEA},
		flow.ChainTerm{Dep: a.u, Coef: coefU},
		flow.ChainTerm{Dep: a.vf, Coef: coefVF},
		flow.ChainTerm{Dep: a.p, Coef: coefP})
}

// InterpolatedAux interpolates a nodal flux quantity to the quadrature points
// of the elemental context. Derivative entries stay indexed by local node:
// the interpolated advection kernel pairs them with the shape function of the
// column's node, so the entries are copied into the elemental context as
// node-length arrays.
type InterpolatedAux struct {
	name     string
	out      flow.QuantityID // same slot in nodal and elemental contexts
	rootDeps []flow.VariableID
	buf      [flow.NumVariables][]float64
}

// NewInterpolatedAux declares the interpolated counterpart of a nodal flux.
// rootDeps is the explicit root-variable dependency set used to key the
// derivative context.
func NewInterpolatedAux(reg *flow.Registry, fluxVar flow.VariableID, rootDeps []flow.VariableID) (a *InterpolatedAux) {
	name := flow.FluxName(fluxVar)
	a = &InterpolatedAux{
		name:     name,
		out:      reg.MustID(name),
		rootDeps: rootDeps,
	}
	return
}

func (a *InterpolatedAux) Name() string                        { return a.name }
func (a *InterpolatedAux) Variable() flow.QuantityID           { return a.out }
func (a *InterpolatedAux) RootDependencies() []flow.VariableID { return a.rootDeps }

// Compute reads the nodal context and writes into the elemental context.
func (a *InterpolatedAux) Compute(nodal, elem *flow.ElemData) {
	var (
		vals    = elem.ValueAlloc(a.out)
		fluxAtK = nodal.Value(a.out)
		nNodes  = nodal.Len()
	)
	for q := range vals {
		var sum float64
		for k := 0; k < nNodes; k++ {
			sum += elem.Phi.At(k, q) * fluxAtK[k]
		}
		vals[q] = sum
	}
	for _, v := range a.rootDeps {
		der := nodal.Deriv(a.out, v)
		if a.buf[v] == nil {
			a.buf[v] = make([]float64, nNodes)
		}
		copy(a.buf[v], der)
		elem.SetDeriv(a.out, v, a.buf[v])
	}
}
