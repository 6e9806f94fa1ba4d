package auxq

import (
	"math"

	"github.com/notargets/semflow/eos"
	"github.com/notargets/semflow/flow"
)

// VolumeFraction computes the phase volume fraction. Phase 1 is aA1/A; for
// models where aA1 is not a DOF the extracted aA1 carries no derivative
// entries and the chain rule produces none here either. Phase 2 is the
// complement of phase 1.
type VolumeFraction struct {
	base
	phase int
	aA1   flow.QuantityID
	area  flow.QuantityID
	vf1   flow.QuantityID
}

func NewVolumeFraction(reg *flow.Registry, phase int) (a *VolumeFraction) {
	a = &VolumeFraction{phase: phase}
	if phase == 0 {
		a.base = newBase(reg, flow.VolumeFractionName(0), flow.AA1.String(), flow.AreaName)
		a.aA1 = a.deps[0]
		a.area = a.deps[1]
	} else {
		a.base = newBase(reg, flow.VolumeFractionName(1), flow.VolumeFractionName(0))
		a.vf1 = a.deps[0]
	}
	return
}

func (a *VolumeFraction) Compute(d *flow.ElemData) {
	vals := d.ValueAlloc(a.out)
	if a.phase == 0 {
		var (
			aA1  = d.Value(a.aA1)
			area = d.Value(a.area)
			coef = make([]float64, d.Len())
		)
		for i := range vals {
			vals[i] = aA1[i] / area[i]
			coef[i] = 1 / area[i]
		}
		d.Chain(a.out, flow.ChainTerm{Dep: a.aA1, Coef: coef})
		return
	}
	var (
		vf1  = d.Value(a.vf1)
		coef = make([]float64, d.Len())
	)
	for i := range vals {
		vals[i] = 1 - vf1[i]
		coef[i] = -1
	}
	d.Chain(a.out, flow.ChainTerm{Dep: a.vf1, Coef: coef})
}

// SpecificVolume computes v = vf*A/arhoA.
type SpecificVolume struct {
	base
	vf, area, arhoA flow.QuantityID
}

func NewSpecificVolume(reg *flow.Registry, phase int) (a *SpecificVolume) {
	a = &SpecificVolume{
		base: newBase(reg, flow.SpecificVolumeName(phase),
			flow.VolumeFractionName(phase), flow.AreaName, flow.ARhoA(phase).String()),
	}
	a.vf, a.area, a.arhoA = a.deps[0], a.deps[1], a.deps[2]
	return
}

func (a *SpecificVolume) Compute(d *flow.ElemData) {
	var (
		vals      = d.ValueAlloc(a.out)
		vf        = d.Value(a.vf)
		area      = d.Value(a.area)
		arhoA     = d.Value(a.arhoA)
		coefVF    = make([]float64, d.Len())
		coefARhoA = make([]float64, d.Len())
	)
	for i := range vals {
		vals[i] = vf[i] * area[i] / arhoA[i]
		coefVF[i] = area[i] / arhoA[i]
		coefARhoA[i] = -vals[i] / arhoA[i]
	}
	d.Chain(a.out,
		flow.ChainTerm{Dep: a.vf, Coef: coefVF},
		flow.ChainTerm{Dep: a.arhoA, Coef: coefARhoA})
}

// Velocity computes u = arhouA/arhoA.
type Velocity struct {
	base
	arhoA, arhouA flow.QuantityID
}

func NewVelocity(reg *flow.Registry, phase int) (a *Velocity) {
	a = &Velocity{
		base: newBase(reg, flow.VelocityName(phase),
			flow.ARhoA(phase).String(), flow.ARhoUA(phase).String()),
	}
	a.arhoA, a.arhouA = a.deps[0], a.deps[1]
	return
}

func (a *Velocity) Compute(d *flow.ElemData) {
	var (
		vals       = d.ValueAlloc(a.out)
		arhoA      = d.Value(a.arhoA)
		arhouA     = d.Value(a.arhouA)
		coefARhoA  = make([]float64, d.Len())
		coefARhoUA = make([]float64, d.Len())
	)
	for i := range vals {
		vals[i] = arhouA[i] / arhoA[i]
		coefARhoA[i] = -vals[i] / arhoA[i]
		coefARhoUA[i] = 1 / arhoA[i]
	}
	d.Chain(a.out,
		flow.ChainTerm{Dep: a.arhoA, Coef: coefARhoA},
		flow.ChainTerm{Dep: a.arhouA, Coef: coefARhoUA})
}

// SpecificTotalEnergy computes E = arhoEA/arhoA.
type SpecificTotalEnergy struct {
	base
	arhoA, arhoEA flow.QuantityID
}

func NewSpecificTotalEnergy(reg *flow.Registry, phase int) (a *SpecificTotalEnergy) {
	a = &SpecificTotalEnergy{
		base: newBase(reg, flow.TotalEnergyName(phase),
			flow.ARhoA(phase).String(), flow.ARhoEA(phase).String()),
	}
	a.arhoA, a.arhoEA = a.deps[0], a.deps[1]
	return
}

func (a *SpecificTotalEnergy) Compute(d *flow.ElemData) {
	var (
		vals       = d.ValueAlloc(a.out)
		arhoA      = d.Value(a.arhoA)
		arhoEA     = d.Value(a.arhoEA)
		coefARhoA  = make([]float64, d.Len())
		coefARhoEA = make([]float64, d.Len())
	)
	for i := range vals {
		vals[i] = arhoEA[i] / arhoA[i]
		coefARhoA[i] = -vals[i] / arhoA[i]
		coefARhoEA[i] = 1 / arhoA[i]
	}
	d.Chain(a.out,
		flow.ChainTerm{Dep: a.arhoA, Coef: coefARhoA},
		flow.ChainTerm{Dep: a.arhoEA, Coef: coefARhoEA})
}

// SpecificInternalEnergy computes e = E - u^2/2.
type SpecificInternalEnergy struct {
	base
	energy, velocity flow.QuantityID
}

func NewSpecificInternalEnergy(reg *flow.Registry, phase int) (a *SpecificInternalEnergy) {
	a = &SpecificInternalEnergy{
		base: newBase(reg, flow.InternalEnergyName(phase),
			flow.TotalEnergyName(phase), flow.VelocityName(phase)),
	}
	a.energy, a.velocity = a.deps[0], a.deps[1]
	return
}

func (a *SpecificInternalEnergy) Compute(d *flow.ElemData) {
	var (
		vals  = d.ValueAlloc(a.out)
		E     = d.Value(a.energy)
		u     = d.Value(a.velocity)
		coefE = make([]float64, d.Len())
		coefU = make([]float64, d.Len())
	)
	for i := range vals {
		vals[i] = E[i] - 0.5*u[i]*u[i]
		coefE[i] = 1
		coefU[i] = -u[i]
	}
	d.Chain(a.out,
		flow.ChainTerm{Dep: a.energy, Coef: coefE},
		flow.ChainTerm{Dep: a.velocity, Coef: coefU})
}

// Pressure evaluates the equation of state p(v,e).
type Pressure struct {
	base
	EOS  eos.EOS
	v, e flow.QuantityID
}

func NewPressure(reg *flow.Registry, phase int, state eos.EOS) (a *Pressure) {
	a = &Pressure{
		base: newBase(reg, flow.PressureName(phase),
			flow.SpecificVolumeName(phase), flow.InternalEnergyName(phase)),
		EOS: state,
	}
	a.v, a.e = a.deps[0], a.deps[1]
	return
}

func (a *Pressure) Compute(d *flow.ElemData) {
	var (
		vals  = d.ValueAlloc(a.out)
		v     = d.Value(a.v)
		e     = d.Value(a.e)
		coefV = make([]float64, d.Len())
		coefE = make([]float64, d.Len())
	)
	for i := range vals {
		p, dpdv, dpde := a.EOS.Pressure(v[i], e[i])
		vals[i] = p
		coefV[i] = dpdv
		coefE[i] = dpde
	}
	d.Chain(a.out,
		flow.ChainTerm{Dep: a.v, Coef: coefV},
		flow.ChainTerm{Dep: a.e, Coef: coefE})
}

// SoundSpeed evaluates the equation of state c(v,e).
type SoundSpeed struct {
	base
	EOS  eos.EOS
	v, e flow.QuantityID
}

func NewSoundSpeed(reg *flow.Registry, phase int, state eos.EOS) (a *SoundSpeed) {
	a = &SoundSpeed{
		base: newBase(reg, flow.SoundSpeedName(phase),
			flow.SpecificVolumeName(phase), flow.InternalEnergyName(phase)),
		EOS: state,
	}
	a.v, a.e = a.deps[0], a.deps[1]
	return
}

func (a *SoundSpeed) Compute(d *flow.ElemData) {
	var (
		vals  = d.ValueAlloc(a.out)
		v     = d.Value(a.v)
		e     = d.Value(a.e)
		coefV = make([]float64, d.Len())
		coefE = make([]float64, d.Len())
	)
	for i := range vals {
		c, dcdv, dcde := a.EOS.SoundSpeed(v[i], e[i])
		vals[i] = c
		coefV[i] = dcdv
		coefE[i] = dcde
	}
	d.Chain(a.out,
		flow.ChainTerm{Dep: a.v, Coef: coefV},
		flow.ChainTerm{Dep: a.e, Coef: coefE})
}

// InterfacialVelocity is the mass-averaged mixture velocity
// uI = (arhouA1 + arhouA2)/(arhoA1 + arhoA2).
type InterfacialVelocity struct {
	base
	arhoA1, arhouA1, arhoA2, arhouA2 flow.QuantityID
}

func NewInterfacialVelocity(reg *flow.Registry) (a *InterfacialVelocity) {
	a = &InterfacialVelocity{
		base: newBase(reg, flow.InterfacialVelocityName,
			flow.ARhoA1.String(), flow.ARhoUA1.String(),
			flow.ARhoA2.String(), flow.ARhoUA2.String()),
	}
	a.arhoA1, a.arhouA1, a.arhoA2, a.arhouA2 = a.deps[0], a.deps[1], a.deps[2], a.deps[3]
	return
}

func (a *InterfacialVelocity) Compute(d *flow.ElemData) {
	var (
		vals    = d.ValueAlloc(a.out)
		arhoA1  = d.Value(a.arhoA1)
		arhouA1 = d.Value(a.arhouA1)
		arhoA2  = d.Value(a.arhoA2)
		arhouA2 = d.Value(a.arhouA2)
		coefM1  = make([]float64, d.Len())
		coefM2  = make([]float64, d.Len())
		coefU   = make([]float64, d.Len())
	)
	for i := range vals {
		m := arhoA1[i] + arhoA2[i]
		vals[i] = (arhouA1[i] + arhouA2[i]) / m
		coefM1[i] = -vals[i] / m
		coefM2[i] = coefM1[i]
		coefU[i] = 1 / m
	}
	d.Chain(a.out,
		flow.ChainTerm{Dep: a.arhoA1, Coef: coefM1},
		flow.ChainTerm{Dep: a.arhoA2, Coef: coefM2},
		flow.ChainTerm{Dep: a.arhouA1, Coef: coefU},
		flow.ChainTerm{Dep: a.arhouA2, Coef: coefU})
}

// InterfacialPressure is the volume-fraction-weighted mixture pressure
// pI = vf1*p1 + vf2*p2.
type InterfacialPressure struct {
	base
	vf1, p1, vf2, p2 flow.QuantityID
}

func NewInterfacialPressure(reg *flow.Registry) (a *InterfacialPressure) {
	a = &InterfacialPressure{
		base: newBase(reg, flow.InterfacialPressureName,
			flow.VolumeFractionName(0), flow.PressureName(0),
			flow.VolumeFractionName(1), flow.PressureName(1)),
	}
	a.vf1, a.p1, a.vf2, a.p2 = a.deps[0], a.deps[1], a.deps[2], a.deps[3]
	return
}

func (a *InterfacialPressure) Compute(d *flow.ElemData) {
	var (
		vals = d.ValueAlloc(a.out)
		vf1  = d.Value(a.vf1)
		p1   = d.Value(a.p1)
		vf2  = d.Value(a.vf2)
		p2   = d.Value(a.p2)
	)
	coefVF1 := make([]float64, d.Len())
	coefP1 := make([]float64, d.Len())
	coefVF2 := make([]float64, d.Len())
	coefP2 := make([]float64, d.Len())
	for i := range vals {
		vals[i] = vf1[i]*p1[i] + vf2[i]*p2[i]
		coefVF1[i] = p1[i]
		coefP1[i] = vf1[i]
		coefVF2[i] = p2[i]
		coefP2[i] = vf2[i]
	}
	d.Chain(a.out,
		flow.ChainTerm{Dep: a.vf1, Coef: coefVF1},
		flow.ChainTerm{Dep: a.p1, Coef: coefP1},
		flow.ChainTerm{Dep: a.vf2, Coef: coefVF2},
		flow.ChainTerm{Dep: a.p2, Coef: coefP2})
}

// ViscousCoefficient is the stabilization viscosity applied to one conserved
// variable: visccoef = dx*(|u|+c)/2.
type ViscousCoefficient struct {
	base
	u, c flow.QuantityID
}

func NewViscousCoefficient(reg *flow.Registry, v flow.VariableID, phase int) (a *ViscousCoefficient) {
	a = &ViscousCoefficient{
		base: newBase(reg, flow.ViscousCoefficientName(v),
			flow.VelocityName(phase), flow.SoundSpeedName(phase)),
	}
	a.u, a.c = a.deps[0], a.deps[1]
	return
}

func (a *ViscousCoefficient) Compute(d *flow.ElemData) {
	var (
		vals  = d.ValueAlloc(a.out)
		u     = d.Value(a.u)
		c     = d.Value(a.c)
		half  = 0.5 * d.Dx
		coefU = make([]float64, d.Len())
		coefC = make([]float64, d.Len())
	)
	for i := range vals {
		vals[i] = half * (math.Abs(u[i]) + c[i])
		sign := 1.0
		if u[i] < 0 {
			sign = -1
		}
		coefU[i] = half * sign
		coefC[i] = half
	}
	d.Chain(a.out,
		flow.ChainTerm{Dep: a.u, Coef: coefU},
		flow.ChainTerm{Dep: a.c, Coef: coefC})
}
