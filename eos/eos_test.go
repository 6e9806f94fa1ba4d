package eos

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// checkPartials verifies the returned partial derivatives of a closure
// against central finite differences.
func checkPartials(t *testing.T, g EOS, v, e float64) {
	var (
		tol = 1.e-6
		hv  = 1.e-7 * v // steps scale with the state to keep FD conditioning
		he  = 1.e-7 * e
	)
	fd := func(f func(v, e float64) float64, dv, de float64) float64 {
		h := hv*dv + he*de
		return (f(v+hv*dv, e+he*de) - f(v-hv*dv, e-he*de)) / (2 * h)
	}
	pOf := func(v, e float64) float64 { p, _, _ := g.Pressure(v, e); return p }
	cOf := func(v, e float64) float64 { c, _, _ := g.SoundSpeed(v, e); return c }

	_, dpdv, dpde := g.Pressure(v, e)
	assert.True(t, nearRel(dpdv, fd(pOf, 1, 0), tol))
	assert.True(t, nearRel(dpde, fd(pOf, 0, 1), tol))

	_, dcdv, dcde := g.SoundSpeed(v, e)
	assert.True(t, nearRel(dcdv, fd(cOf, 1, 0), tol))
	assert.True(t, nearRel(dcde, fd(cOf, 0, 1), tol))
}

func TestIdealGas(t *testing.T) {
	g := IdealGas{Gamma: 1.4}
	p, _, _ := g.Pressure(0.8, 2.5)
	assert.True(t, nearRel(p, 0.4*2.5/0.8, 1.e-12))
	c, _, _ := g.SoundSpeed(0.8, 2.5)
	assert.True(t, nearRel(c, math.Sqrt(1.4*p*0.8), 1.e-12))
	checkPartials(t, g, 0.8, 2.5)
	checkPartials(t, g, 1.3, 1.1)
}

func TestStiffenedGas(t *testing.T) {
	g := StiffenedGas{Gamma: 2.35, PInf: 1.e6}
	p, _, _ := g.Pressure(1.e-3, 3.e6)
	assert.True(t, nearRel(p, 1.35*3.e6/1.e-3-2.35*1.e6, 1.e-12))
	checkPartials(t, g, 1.e-3, 3.e6)
}

func nearRel(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
