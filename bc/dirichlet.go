package bc

import (
	"github.com/notargets/semflow/FEM1D"
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/utils"
)

// DirichletValue pins one variable at the BC node. Value is re-evaluated on
// every application, so time-dependent targets are closures over the driver's
// clock.
type DirichletValue struct {
	Var   flow.VariableID
	Value func() float64
}

// ConstantValue is a fixed Dirichlet target.
func ConstantValue(v float64) func() float64 {
	return func() float64 { return v }
}

// DirichletBC replaces the rows of its node's DOFs with identity rows pinning
// the listed variables. It claims the DOFs in the handler's constraint ledger
// at construction, which is what gives BCs precedence over junctions.
type DirichletBC struct {
	dof    *FEM1D.DoFHandler
	node   int
	values []DirichletValue
}

func NewDirichletBC(dof *FEM1D.DoFHandler, node int, values ...DirichletValue) (b *DirichletBC) {
	b = &DirichletBC{
		dof:    dof,
		node:   node,
		values: values,
	}
	for _, v := range values {
		dof.MarkConstrained(dof.GlobalDoF(node, dof.VariableIndex(v.Var)))
	}
	return
}

func (b *DirichletBC) Name() string { return "DirichletBC" }

func (b *DirichletBC) ApplyWeakBC(U, r []float64, J utils.Matrix) {}

func (b *DirichletBC) ApplyStrongBCNonlinearSystem(U, r []float64, J utils.Matrix) {
	for _, v := range b.values {
		i := b.dof.GlobalDoF(b.node, b.dof.VariableIndex(v.Var))
		r[i] = U[i] - v.Value()
		J.ZeroRow(i)
		J.Set(i, i, 1)
	}
}

func (b *DirichletBC) ApplyStrongBCLinearSystemMatrix(A utils.Matrix) {
	for _, v := range b.values {
		i := b.dof.GlobalDoF(b.node, b.dof.VariableIndex(v.Var))
		A.ZeroRow(i)
		A.Set(i, i, 1)
	}
}

func (b *DirichletBC) ApplyStrongBCLinearSystemRHSVector(U, b2 []float64) {
	for _, v := range b.values {
		i := b.dof.GlobalDoF(b.node, b.dof.VariableIndex(v.Var))
		b2[i] = v.Value()
	}
}
