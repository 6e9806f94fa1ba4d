package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	{
		// registration is idempotent and IDs are dense
		a := reg.Register("u1")
		b := reg.Register("p1")
		assert.Equal(t, a, reg.Register("u1"))
		assert.Equal(t, QuantityID(0), a)
		assert.Equal(t, QuantityID(1), b)
		assert.Equal(t, "p1", reg.Name(b))
		assert.Equal(t, 2, reg.Len())
	}
	{
		// looking up a name nobody registered is a configuration error
		assert.Panics(t, func() { reg.MustID("uI") })
	}
}

func TestElemData(t *testing.T) {
	var (
		reg = NewRegistry()
		qa  = reg.Register("arhoA1")
		qb  = reg.Register("u1")
		d   = NewElemData(reg, 2)
	)
	{
		// a declared but never computed quantity fails at lookup
		assert.Panics(t, func() { d.Value(qb) })
		assert.Panics(t, func() { d.Deriv(qb, ARhoA1) })
		_, ok := d.DerivOK(qb, ARhoA1)
		assert.False(t, ok)
	}
	{
		// chain rule propagates through dependency entries
		d.SetValue(qa, []float64{2, 4})
		d.SetDeriv(qa, ARhoA1, []float64{1, 1})
		// u = 3*arhoA => du/d(arhoA1) = 3
		d.SetValue(qb, []float64{6, 12})
		d.Chain(qb, ChainTerm{Dep: qa, Coef: []float64{3, 3}})
		du := d.Deriv(qb, ARhoA1)
		assert.Equal(t, []float64{3, 3}, du)
		// roots no dependency carries stay absent
		_, ok := d.DerivOK(qb, ARhoUA1)
		assert.False(t, ok)
	}
	{
		// repeated Chain calls overwrite rather than accumulate
		d.Chain(qb, ChainTerm{Dep: qa, Coef: []float64{5, 5}})
		assert.Equal(t, []float64{5, 5}, d.Deriv(qb, ARhoA1))
	}
}

func TestModelVariables(t *testing.T) {
	assert.Equal(t, []VariableID{ARhoA1, ARhoUA1, ARhoEA1}, OnePhase.Variables())
	assert.Equal(t, 6, len(TwoPhaseNonInteracting.Variables()))
	assert.Equal(t, VariableID(AA1), TwoPhase.Variables()[0])
	assert.Equal(t, 7, len(TwoPhase.Variables()))
	assert.True(t, TwoPhase.PhaseInteraction())
	assert.False(t, TwoPhaseNonInteracting.PhaseInteraction())
	assert.Equal(t, ARhoUA2, ARhoUA(1))

	m, err := ParseModelType("TwoPhase")
	assert.NoError(t, err)
	assert.Equal(t, TwoPhase, m)
	_, err = ParseModelType("SevenPhase")
	assert.Error(t, err)

	v, err := ParseVariable("arhouA2")
	assert.NoError(t, err)
	assert.Equal(t, ARhoUA2, v)
}
