// Package auxq implements the auxiliary quantities of the flow model. Each
// quantity computes its point values from quantities already present in the
// cell context and propagates partial derivatives to the root primary
// variables by chaining through its dependencies' derivative entries.
package auxq

import (
	"github.com/notargets/semflow/flow"
)

// Quantity is a named derived quantity evaluated once per cell against the
// shared context. Dependencies must already be present when Compute runs;
// list ordering is validated at configuration time by the assembly builder.
type Quantity interface {
	Name() string
	Variable() flow.QuantityID
	Dependencies() []flow.QuantityID
	Compute(d *flow.ElemData)
}

// base carries the resolved output slot and dependency slots.
type base struct {
	name string
	out  flow.QuantityID
	deps []flow.QuantityID
}

func (b base) Name() string                    { return b.name }
func (b base) Variable() flow.QuantityID       { return b.out }
func (b base) Dependencies() []flow.QuantityID { return b.deps }

func newBase(reg *flow.Registry, name string, depNames ...string) (b base) {
	b = base{
		name: name,
		out:  reg.Register(name),
	}
	for _, dep := range depNames {
		b.deps = append(b.deps, reg.MustID(dep))
	}
	return
}

// TestAux is a linear combination of its dependencies with fixed
// coefficients; derivative testers use it to seed dependency chains with
// known exact derivatives.
type TestAux struct {
	base
	Coefs []float64
}

func NewTestAux(reg *flow.Registry, name string, deps []string, coefs []float64) (a *TestAux) {
	a = &TestAux{
		base:  newBase(reg, name, deps...),
		Coefs: coefs,
	}
	return
}

func (a *TestAux) Compute(d *flow.ElemData) {
	var (
		n    = d.Len()
		vals = d.ValueAlloc(a.out)
	)
	terms := make([]flow.ChainTerm, len(a.deps))
	for i := range vals {
		vals[i] = 0
	}
	for j, dep := range a.deps {
		depVals := d.Value(dep)
		coef := make([]float64, n)
		for i := range vals {
			vals[i] += a.Coefs[j] * depVals[i]
			coef[i] = a.Coefs[j]
		}
		terms[j] = flow.ChainTerm{Dep: dep, Coef: coef}
	}
	d.Chain(a.out, terms...)
}
