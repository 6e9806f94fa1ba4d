package assembly

import (
	"fmt"

	"github.com/notargets/semflow/FEM1D"
	"github.com/notargets/semflow/auxq"
	"github.com/notargets/semflow/eos"
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/kernels"
	"github.com/notargets/semflow/stabilization"
	"github.com/notargets/semflow/utils"
)

// Config selects the discretization variant. Everything here is resolved
// once by NewAssembly; the resulting engine is immutable.
type Config struct {
	Model          flow.ModelType
	NQ             int // quadrature points per cell, default 2
	GroupFEM       bool
	LumpMassMatrix bool
	Stabilization  stabilization.Stabilization
	EOS            []eos.EOS               // one per phase
	VolumeFraction func(x float64) float64 // fixed vf1 profile when aA1 is not an unknown
}

// NewAssembly builds the assembly engine: DOF layout, quantity registry,
// ordered auxiliary lists and the kernel list. Auxiliary dependency ordering
// is validated here, so a quantity referencing a producer that never runs is
// a construction error, not a runtime surprise.
func NewAssembly(mesh *FEM1D.Mesh, cfg Config) (a *Assembly, err error) {
	if cfg.Stabilization == nil {
		cfg.Stabilization = stabilization.NoStabilization{}
	}
	if cfg.NQ == 0 {
		cfg.NQ = 2
	}
	if len(cfg.EOS) < cfg.Model.Phases() {
		err = fmt.Errorf("model %s needs %d equations of state, got %d",
			cfg.Model, cfg.Model.Phases(), len(cfg.EOS))
		return
	}

	a = &Assembly{
		Model:          cfg.Model,
		Mesh:           mesh,
		GroupFEM:       cfg.GroupFEM,
		LumpMassMatrix: cfg.LumpMassMatrix,
		needGradients:  cfg.Stabilization.NeedSolutionGradients(),
	}
	a.DoF = FEM1D.NewDoFHandler(mesh, cfg.Model, cfg.VolumeFraction)
	quad := FEM1D.NewQuadrature(cfg.NQ)
	a.FE = FEM1D.NewFEValues(quad, a.DoF)
	a.Reg = flow.NewRegistry()

	a.registerPrimaries()
	nPrimary := a.Reg.Len()

	base := a.createBaseAuxQuantities(cfg.EOS)
	a.nBaseAux = len(base)
	a.auxList = append(base, cfg.Stabilization.CreateAuxQuantities(a.Reg, a.Model)...)
	if a.GroupFEM {
		a.createGroupFEMAuxQuantities(base)
	}
	a.createKernels(cfg.Stabilization)

	if err = a.validateAuxOrder(a.auxList, nPrimary); err != nil {
		return nil, err
	}
	if err = a.validateAuxOrder(a.nodalAuxList, nPrimary); err != nil {
		return nil, err
	}

	a.elemData = flow.NewElemData(a.Reg, quad.NQ)
	a.nodalData = flow.NewElemData(a.Reg, a.DoF.NDoFPerCellPerVar)
	a.onesQ = onesOf(quad.NQ)
	a.ones2 = onesOf(a.DoF.NDoFPerCellPerVar)
	a.ones1 = onesOf(1)
	a.rCell = make([]float64, a.DoF.NDoFPerCell)
	a.jCell = utils.NewMatrix(a.DoF.NDoFPerCell, a.DoF.NDoFPerCell)
	a.bindExtraction()
	return
}

func (a *Assembly) registerPrimaries() {
	for _, v := range a.Model.Variables() {
		a.qty[v] = a.Reg.Register(v.String())
	}
	if a.Model != flow.TwoPhase {
		a.qty[flow.AA1] = a.Reg.Register(flow.AA1.String())
	}
	a.area = a.Reg.Register(flow.AreaName)
	a.gradArea = a.Reg.Register(flow.AreaGradientName)
	if a.Model.Phases() == 2 {
		a.grad[flow.AA1] = a.Reg.Register(flow.GradientName(flow.AA1))
	}
	if a.needGradients {
		for _, v := range a.Model.Variables() {
			a.grad[v] = a.Reg.Register(flow.GradientName(v))
		}
	}
}

func (a *Assembly) createBaseAuxQuantities(states []eos.EOS) (list []auxq.Quantity) {
	for phase := 0; phase < a.Model.Phases(); phase++ {
		list = append(list, auxq.NewVolumeFraction(a.Reg, phase))
	}
	for phase := 0; phase < a.Model.Phases(); phase++ {
		list = append(list,
			auxq.NewSpecificVolume(a.Reg, phase),
			auxq.NewVelocity(a.Reg, phase),
			auxq.NewSpecificTotalEnergy(a.Reg, phase),
			auxq.NewSpecificInternalEnergy(a.Reg, phase),
			auxq.NewPressure(a.Reg, phase, states[phase]),
			auxq.NewSoundSpeed(a.Reg, phase, states[phase]))
	}
	if a.Model.PhaseInteraction() {
		list = append(list,
			auxq.NewInterfacialVelocity(a.Reg),
			auxq.NewInterfacialPressure(a.Reg))
	}
	return
}

// createGroupFEMAuxQuantities builds the nodal flux list and its interpolated
// counterparts. Each flux declares the explicit root-variable set that keys
// its derivative entries in the elemental context.
func (a *Assembly) createGroupFEMAuxQuantities(base []auxq.Quantity) {
	a.nodalAuxList = append(a.nodalAuxList, base...)
	for phase := 0; phase < a.Model.Phases(); phase++ {
		a.nodalAuxList = append(a.nodalAuxList,
			auxq.NewMassFlux(a.Reg, phase),
			auxq.NewMomentumFlux(a.Reg, phase),
			auxq.NewEnergyFlux(a.Reg, phase))
		a.interpAuxList = append(a.interpAuxList,
			auxq.NewInterpolatedAux(a.Reg, flow.ARhoA(phase), a.massRootDeps(phase)),
			auxq.NewInterpolatedAux(a.Reg, flow.ARhoUA(phase), a.fullRootDeps(phase)),
			auxq.NewInterpolatedAux(a.Reg, flow.ARhoEA(phase), a.fullRootDeps(phase)))
	}
}

func (a *Assembly) massRootDeps(phase int) []flow.VariableID {
	return []flow.VariableID{flow.ARhoUA(phase)}
}

func (a *Assembly) fullRootDeps(phase int) (deps []flow.VariableID) {
	if a.Model == flow.TwoPhase {
		deps = append(deps, flow.AA1)
	}
	deps = append(deps, flow.ARhoA(phase), flow.ARhoUA(phase), flow.ARhoEA(phase))
	return
}

func (a *Assembly) createKernels(stab stabilization.Stabilization) {
	for phase := 0; phase < a.Model.Phases(); phase++ {
		a.kernelList = append(a.kernelList, a.createAdvectionKernels(phase)...)
	}
	if a.Mesh.Gravity != 0 {
		for phase := 0; phase < a.Model.Phases(); phase++ {
			a.kernelList = append(a.kernelList,
				kernels.NewMomentumGravity(a.Reg, a.DoF, phase),
				kernels.NewEnergyGravity(a.Reg, a.DoF, phase))
		}
	}
	if a.meshHasWallHeat() {
		for phase := 0; phase < a.Model.Phases(); phase++ {
			a.kernelList = append(a.kernelList, kernels.NewEnergyWallHeat(a.DoF, phase))
		}
	}
	if a.Model.PhaseInteraction() {
		a.kernelList = append(a.kernelList, kernels.NewVolumeFractionAdvection(a.Reg, a.DoF))
		for phase := 0; phase < 2; phase++ {
			a.kernelList = append(a.kernelList,
				kernels.NewMomentumVolumeFractionGradient(a.Reg, a.DoF, phase),
				kernels.NewEnergyVolumeFractionGradient(a.Reg, a.DoF, phase))
		}
	}
	a.kernelList = append(a.kernelList, stab.CreateKernels(a.Reg, a.DoF, a.Model)...)
}

// createAdvectionKernels picks between direct physical-variable kernels and,
// in group-FEM mode, interpolated-flux kernels consuming the precomputed
// nodal fluxes. The area gradient force is not a divergence term and is kept
// in both modes.
func (a *Assembly) createAdvectionKernels(phase int) (list []kernels.Kernel) {
	if a.GroupFEM {
		list = append(list,
			kernels.NewInterpolatedAdvection(a.Reg, a.DoF, flow.ARhoA(phase), a.massRootDeps(phase)),
			kernels.NewInterpolatedAdvection(a.Reg, a.DoF, flow.ARhoUA(phase), a.fullRootDeps(phase)),
			kernels.NewInterpolatedAdvection(a.Reg, a.DoF, flow.ARhoEA(phase), a.fullRootDeps(phase)),
			kernels.NewMomentumAreaGradient(a.Reg, a.DoF, phase))
		return
	}
	list = append(list,
		kernels.NewMassAdvection(a.Reg, a.DoF, phase),
		kernels.NewMomentumAdvection(a.Reg, a.DoF, phase),
		kernels.NewMomentumAreaGradient(a.Reg, a.DoF, phase),
		kernels.NewEnergyAdvection(a.Reg, a.DoF, phase))
	return
}

func (a *Assembly) meshHasWallHeat() bool {
	for i := range a.Mesh.Segments {
		if a.Mesh.Segments[i].HT.HTCWall != 0 {
			return true
		}
	}
	return false
}

// validateAuxOrder checks that every declared dependency is either a primary
// extracted quantity or produced by an earlier list entry.
func (a *Assembly) validateAuxOrder(list []auxq.Quantity, nPrimary int) error {
	available := make(map[flow.QuantityID]bool)
	for _, q := range list {
		for _, dep := range q.Dependencies() {
			if int(dep) < nPrimary || available[dep] {
				continue
			}
			return fmt.Errorf("auxiliary quantity %q depends on %q, which is not computed before it",
				q.Name(), a.Reg.Name(dep))
		}
		available[q.Variable()] = true
	}
	return nil
}

func onesOf(n int) (ones []float64) {
	ones = make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	return
}
