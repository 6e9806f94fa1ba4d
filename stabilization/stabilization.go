// Package stabilization contributes auxiliary quantities and kernels that
// damp the node-to-node oscillations of the plain Galerkin discretization.
package stabilization

import (
	"github.com/notargets/semflow/FEM1D"
	"github.com/notargets/semflow/auxq"
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/kernels"
)

// Stabilization extends the discretization with its own quantities and
// kernels. NeedSolutionGradients tells the assembly builder to compute
// interpolated solution gradients in every cell context.
type Stabilization interface {
	Name() string
	NeedSolutionGradients() bool
	CreateAuxQuantities(reg *flow.Registry, model flow.ModelType) []auxq.Quantity
	CreateKernels(reg *flow.Registry, dof *FEM1D.DoFHandler, model flow.ModelType) []kernels.Kernel
}

// NoStabilization leaves the plain Galerkin discretization untouched.
type NoStabilization struct{}

func (NoStabilization) Name() string                { return "NoStabilization" }
func (NoStabilization) NeedSolutionGradients() bool { return false }

func (NoStabilization) CreateAuxQuantities(reg *flow.Registry, model flow.ModelType) []auxq.Quantity {
	return nil
}

func (NoStabilization) CreateKernels(reg *flow.Registry, dof *FEM1D.DoFHandler, model flow.ModelType) []kernels.Kernel {
	return nil
}

// LaxFriedrichs adds first-order artificial viscosity scaled by the local
// wave speed: for each solved variable a coefficient dx*(|u|+c)/2 and a
// dissipation kernel acting on the variable's interpolated gradient. The aA1
// coefficient uses the phase 1 wave speed.
type LaxFriedrichs struct{}

func (LaxFriedrichs) Name() string                { return "LaxFriedrichs" }
func (LaxFriedrichs) NeedSolutionGradients() bool { return true }

func (LaxFriedrichs) CreateAuxQuantities(reg *flow.Registry, model flow.ModelType) (quantities []auxq.Quantity) {
	for _, v := range model.Variables() {
		quantities = append(quantities, auxq.NewViscousCoefficient(reg, v, phaseOf(v)))
	}
	return
}

func (LaxFriedrichs) CreateKernels(reg *flow.Registry, dof *FEM1D.DoFHandler, model flow.ModelType) (list []kernels.Kernel) {
	for _, v := range model.Variables() {
		list = append(list, kernels.NewDissipationVariableGradient(reg, dof, v))
	}
	return
}

func phaseOf(v flow.VariableID) int {
	if v >= flow.ARhoA2 {
		return 1
	}
	return 0
}
