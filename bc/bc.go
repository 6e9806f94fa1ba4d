// Package bc implements boundary conditions and inter-segment junctions.
// Weak contributions are added during unconstrained assembly; strong
// contributions replace rows during constraint application and come in the
// nonlinear / matrix-only / RHS-only split used by the assembly engine.
package bc

import (
	"github.com/notargets/semflow/utils"
)

// BoundaryCondition constrains the solution at one boundary node.
type BoundaryCondition interface {
	Name() string
	ApplyWeakBC(U, r []float64, J utils.Matrix)
	ApplyStrongBCNonlinearSystem(U, r []float64, J utils.Matrix)
	ApplyStrongBCLinearSystemMatrix(A utils.Matrix)
	ApplyStrongBCLinearSystemRHSVector(U, b []float64)
}

// Junction couples the end nodes of two mesh segments. Strong junction rows
// yield to boundary conditions: a DOF already claimed by a BC is skipped.
type Junction interface {
	Name() string
	ApplyWeaklyToNonlinearSystem(U, r []float64, J utils.Matrix)
	ApplyStronglyToNonlinearSystem(U, r []float64, J utils.Matrix)
	ApplyStronglyToLinearSystemMatrix(A utils.Matrix)
	ApplyStronglyToLinearSystemRHSVector(U, b []float64)
}
