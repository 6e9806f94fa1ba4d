// Package eos provides equation-of-state closure laws for the flow model.
// Every closure returns its value together with the partial derivatives with
// respect to its thermodynamic inputs, so auxiliary quantities can chain them
// to the root primary variables.
package eos

import "math"

// EOS is the closure contract consumed by the pressure and sound speed
// auxiliary quantities. v is specific volume, e specific internal energy.
type EOS interface {
	Pressure(v, e float64) (p, dpdv, dpde float64)
	SoundSpeed(v, e float64) (c, dcdv, dcde float64)
}

// IdealGas is the calorically perfect gas law p = (gamma-1) e / v.
type IdealGas struct {
	Gamma float64
}

func (g IdealGas) Pressure(v, e float64) (p, dpdv, dpde float64) {
	gm1 := g.Gamma - 1
	p = gm1 * e / v
	dpdv = -gm1 * e / (v * v)
	dpde = gm1 / v
	return
}

func (g IdealGas) SoundSpeed(v, e float64) (c, dcdv, dcde float64) {
	// c = sqrt(gamma p v)
	p, dpdv, dpde := g.Pressure(v, e)
	c = math.Sqrt(g.Gamma * p * v)
	dcdv = g.Gamma * (p + v*dpdv) / (2 * c)
	dcde = g.Gamma * v * dpde / (2 * c)
	return
}

// StiffenedGas adds a reference pressure for liquid-like phases:
// p = (gamma-1) e / v - gamma pInf.
type StiffenedGas struct {
	Gamma float64
	PInf  float64
}

func (g StiffenedGas) Pressure(v, e float64) (p, dpdv, dpde float64) {
	gm1 := g.Gamma - 1
	p = gm1*e/v - g.Gamma*g.PInf
	dpdv = -gm1 * e / (v * v)
	dpde = gm1 / v
	return
}

func (g StiffenedGas) SoundSpeed(v, e float64) (c, dcdv, dcde float64) {
	// c = sqrt(gamma (p + pInf) v)
	p, dpdv, dpde := g.Pressure(v, e)
	c = math.Sqrt(g.Gamma * (p + g.PInf) * v)
	dcdv = g.Gamma * (p + g.PInf + v*dpdv) / (2 * c)
	dcde = g.Gamma * v * dpde / (2 * c)
	return
}
