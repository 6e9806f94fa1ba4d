package auxq

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/semflow/eos"
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/utils"
)

// The derivative tester: every auxiliary quantity's chained derivative
// entries must match a central finite difference of its values with respect
// to each root primary variable.

var rootVars = []flow.VariableID{
	flow.AA1, flow.ARhoA1, flow.ARhoUA1, flow.ARhoEA1,
	flow.ARhoA2, flow.ARhoUA2, flow.ARhoEA2,
}

type chainFixture struct {
	reg  *flow.Registry
	prim [flow.NumVariables]flow.QuantityID
	area flow.QuantityID
	list []Quantity
	A    []float64
	n    int
}

func newTwoPhaseChain() (f *chainFixture) {
	f = &chainFixture{
		reg: flow.NewRegistry(),
		A:   []float64{1.5, 1.6},
		n:   2,
	}
	for _, v := range rootVars {
		f.prim[v] = f.reg.Register(v.String())
	}
	f.area = f.reg.Register(flow.AreaName)
	g := eos.IdealGas{Gamma: 1.4}
	f.list = []Quantity{
		NewVolumeFraction(f.reg, 0),
		NewVolumeFraction(f.reg, 1),
	}
	for phase := 0; phase < 2; phase++ {
		f.list = append(f.list,
			NewSpecificVolume(f.reg, phase),
			NewVelocity(f.reg, phase),
			NewSpecificTotalEnergy(f.reg, phase),
			NewSpecificInternalEnergy(f.reg, phase),
			NewPressure(f.reg, phase, g),
			NewSoundSpeed(f.reg, phase, g))
	}
	f.list = append(f.list,
		NewInterfacialVelocity(f.reg),
		NewInterfacialPressure(f.reg),
		NewViscousCoefficient(f.reg, flow.ARhoUA1, 0),
		NewMassFlux(f.reg, 0),
		NewMomentumFlux(f.reg, 0),
		NewEnergyFlux(f.reg, 1))
	return
}

func (f *chainFixture) evaluate(U map[flow.VariableID][]float64) (d *flow.ElemData) {
	d = flow.NewElemData(f.reg, f.n)
	d.Dx = 0.1
	ones := []float64{1, 1}
	for _, v := range rootVars {
		vals := make([]float64, f.n)
		copy(vals, U[v])
		d.SetValue(f.prim[v], vals)
		d.SetDeriv(f.prim[v], v, ones)
	}
	d.SetValue(f.area, f.A)
	for _, q := range f.list {
		q.Compute(d)
	}
	return
}

func baseState() map[flow.VariableID][]float64 {
	return map[flow.VariableID][]float64{
		flow.AA1:     {0.90, 0.95},
		flow.ARhoA1:  {1.20, 1.25},
		flow.ARhoUA1: {0.30, 0.35},
		flow.ARhoEA1: {2.80, 2.90},
		flow.ARhoA2:  {0.70, 0.72},
		flow.ARhoUA2: {-0.20, -0.25},
		flow.ARhoEA2: {1.90, 2.00},
	}
}

func perturb(U map[flow.VariableID][]float64, v flow.VariableID, h float64) (Up map[flow.VariableID][]float64) {
	Up = make(map[flow.VariableID][]float64)
	for key, vals := range U {
		cp := make([]float64, len(vals))
		copy(cp, vals)
		Up[key] = cp
	}
	for i := range Up[v] {
		Up[v][i] += h
	}
	return
}

func TestAuxDerivatives(t *testing.T) {
	var (
		f   = newTwoPhaseChain()
		U   = baseState()
		d0  = f.evaluate(U)
		h   = 1.e-7
		tol = 1.e-6
	)
	for _, q := range f.list {
		out := q.Variable()
		for _, v := range rootVars {
			dp := f.evaluate(perturb(U, v, h))
			dm := f.evaluate(perturb(U, v, -h))
			for i := 0; i < f.n; i++ {
				fd := (dp.Value(out)[i] - dm.Value(out)[i]) / (2 * h)
				got := 0.
				if arr, ok := d0.DerivOK(out, v); ok {
					got = arr[i]
				}
				if !nearRel(got, fd, tol) {
					fmt.Printf("%s: d/d(%s) at point %d: chained = %v, FD = %v\n",
						q.Name(), v, i, got, fd)
				}
				assert.True(t, nearRel(got, fd, tol))
			}
		}
	}
}

func TestAuxValues(t *testing.T) {
	var (
		f = newTwoPhaseChain()
		U = baseState()
		d = f.evaluate(U)
	)
	{
		// volume fractions complement each other
		vf1 := d.Value(f.reg.MustID(flow.VolumeFractionName(0)))
		vf2 := d.Value(f.reg.MustID(flow.VolumeFractionName(1)))
		for i := 0; i < f.n; i++ {
			assert.True(t, nearRel(vf1[i], U[flow.AA1][i]/f.A[i], 1.e-12))
			assert.True(t, nearRel(vf1[i]+vf2[i], 1, 1.e-12))
		}
	}
	{
		// velocity and internal energy recover the usual definitions
		u1 := d.Value(f.reg.MustID(flow.VelocityName(0)))
		e1 := d.Value(f.reg.MustID(flow.InternalEnergyName(0)))
		for i := 0; i < f.n; i++ {
			u := U[flow.ARhoUA1][i] / U[flow.ARhoA1][i]
			E := U[flow.ARhoEA1][i] / U[flow.ARhoA1][i]
			assert.True(t, nearRel(u1[i], u, 1.e-12))
			assert.True(t, nearRel(e1[i], E-0.5*u*u, 1.e-12))
		}
	}
	{
		// interfacial velocity is the mass average
		uI := d.Value(f.reg.MustID(flow.InterfacialVelocityName))
		for i := 0; i < f.n; i++ {
			want := (U[flow.ARhoUA1][i] + U[flow.ARhoUA2][i]) / (U[flow.ARhoA1][i] + U[flow.ARhoA2][i])
			assert.True(t, nearRel(uI[i], want, 1.e-12))
		}
	}
	{
		// mass flux is the momentum variable itself
		mf := d.Value(f.reg.MustID(flow.FluxName(flow.ARhoA1)))
		for i := 0; i < f.n; i++ {
			assert.True(t, nearRel(mf[i], U[flow.ARhoUA1][i], 1.e-12))
		}
	}
}

func TestInterpolatedAux(t *testing.T) {
	var (
		reg = flow.NewRegistry()
	)
	reg.Register(flow.ARhoUA1.String())
	out := reg.Register(flow.FluxName(flow.ARhoA1))
	ia := NewInterpolatedAux(reg, flow.ARhoA1, []flow.VariableID{flow.ARhoUA1})

	nodal := flow.NewElemData(reg, 2)
	nodal.SetValue(out, []float64{2, 4})
	nodal.SetDeriv(out, flow.ARhoUA1, []float64{1, 1})

	elem := flow.NewElemData(reg, 2)
	phi := utils.NewMatrix(2, 2, []float64{0.75, 0.25, 0.25, 0.75})
	elem.Phi = phi

	ia.Compute(nodal, elem)
	vals := elem.Value(out)
	assert.True(t, nearRel(vals[0], 0.75*2+0.25*4, 1.e-12))
	assert.True(t, nearRel(vals[1], 0.25*2+0.75*4, 1.e-12))
	// derivative entries stay nodal
	der := elem.Deriv(out, flow.ARhoUA1)
	assert.Equal(t, []float64{1, 1}, der)
}

func TestTestAux(t *testing.T) {
	reg := flow.NewRegistry()
	qa := reg.Register("a")
	qb := reg.Register("b")
	ta := NewTestAux(reg, "lin", []string{"a", "b"}, []float64{2, 3})
	d := flow.NewElemData(reg, 1)
	d.SetValue(qa, []float64{1})
	d.SetValue(qb, []float64{10})
	d.SetDeriv(qa, flow.ARhoA1, []float64{1})
	d.SetDeriv(qb, flow.ARhoEA1, []float64{1})
	ta.Compute(d)
	assert.Equal(t, []float64{32.}, d.Value(ta.Variable()))
	assert.Equal(t, []float64{2.}, d.Deriv(ta.Variable(), flow.ARhoA1))
	assert.Equal(t, []float64{3.}, d.Deriv(ta.Variable(), flow.ARhoEA1))
}

func nearRel(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
