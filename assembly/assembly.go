// Package assembly builds the global residual vector, Jacobian matrix and
// mass matrix of the 1D finite element discretization. Assembly is additive:
// every cell, boundary condition and junction scatter-adds into shared global
// structures, and repeated calls with the same solution are bitwise
// reproducible.
package assembly

import (
	"github.com/james-bowman/sparse"

	"github.com/notargets/semflow/FEM1D"
	"github.com/notargets/semflow/auxq"
	"github.com/notargets/semflow/bc"
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/kernels"
	"github.com/notargets/semflow/utils"
)

// Assembly is the assembly engine. All lists and closures are bound by
// NewAssembly and immutable afterwards; the per-cell contexts are owned by
// the engine and overwritten cell by cell.
type Assembly struct {
	Model flow.ModelType
	Mesh  *FEM1D.Mesh
	DoF   *FEM1D.DoFHandler
	FE    *FEM1D.FEValues
	Reg   *flow.Registry

	GroupFEM       bool
	LumpMassMatrix bool

	auxList       []auxq.Quantity
	nBaseAux      int // leading auxList entries valid in node contexts
	nodalAuxList  []auxq.Quantity
	interpAuxList []*auxq.InterpolatedAux
	kernelList    []kernels.Kernel
	bcs           []bc.BoundaryCondition
	junctions     []bc.Junction

	needGradients bool

	// primary quantity slots, indexed by VariableID; area/grad area besides
	qty      [flow.NumVariables]flow.QuantityID
	grad     [flow.NumVariables]flow.QuantityID
	area     flow.QuantityID
	gradArea flow.QuantityID

	extractCell  cellExtractor
	extractNode  bc.NodeExtractor
	extractNodal nodalExtractor

	elemData  *flow.ElemData
	nodalData *flow.ElemData
	onesQ     []float64 // unit self-derivatives, quadrature-point length
	ones2     []float64 // node-pair length
	ones1     []float64 // single-node length

	rCell []float64
	jCell utils.Matrix

	// transient state, set by PerformTransientSetup
	massMatrix utils.Matrix
	massCSR    *sparse.CSR
}

// SetConstraints installs the boundary conditions and junctions. BCs must be
// constructed before junctions so their DOFs are already claimed in the
// handler's ledger when junction rows are applied.
func (a *Assembly) SetConstraints(bcs []bc.BoundaryCondition, junctions []bc.Junction) {
	a.bcs = bcs
	a.junctions = junctions
}

// NodeExtractor exposes the bound single-node extraction closure for
// boundary conditions that evaluate the interior state.
func (a *Assembly) NodeExtractor() bc.NodeExtractor { return a.extractNode }

// BaseAuxList exposes the ordered auxiliary list evaluated in node contexts.
func (a *Assembly) BaseAuxList() []auxq.Quantity { return a.nodeAuxList() }

func (a *Assembly) nodeAuxList() []auxq.Quantity {
	// stabilization additions sit at the tail of auxList and are elemental
	// only; the node list is the leading base segment
	return a.auxList[:a.nBaseAux]
}

// AssembleSteadyStateSystemWithoutConstraints computes the steady residual
// and Jacobian of the unconstrained weak form: volumetric terms cell by cell,
// then weak boundary conditions, then weak junction couplings.
func (a *Assembly) AssembleSteadyStateSystemWithoutConstraints(U []float64) (r []float64, J utils.Matrix) {
	r = make([]float64, a.DoF.NDoF)
	J = utils.NewMatrix(a.DoF.NDoF, a.DoF.NDoF)
	a.addVolumetricTerms(U, r, J)
	for _, b := range a.bcs {
		b.ApplyWeakBC(U, r, J)
	}
	for _, j := range a.junctions {
		j.ApplyWeaklyToNonlinearSystem(U, r, J)
	}
	return
}

func (a *Assembly) addVolumetricTerms(U []float64, r []float64, J utils.Matrix) {
	var (
		d  = a.elemData
		nd = a.nodalData
	)
	for e := 0; e < a.DoF.NCells; e++ {
		seg := a.Mesh.SegmentOf(e)
		d.Phi = a.FE.Phi()
		d.GradPhi = a.FE.GradPhi(e)
		d.JxW = a.FE.JxW(e)
		d.Dx = a.DoF.H[e]
		d.G = a.Mesh.GravityProjection(e)
		d.TWall = seg.HT.TWall
		d.HTCWall = seg.HT.HTCWall
		d.PHeat = seg.HT.PHeat

		a.extractCell(U, e, d)
		if a.GroupFEM {
			a.extractNodal(U, e, nd)
			for _, q := range a.nodalAuxList {
				q.Compute(nd)
			}
			for _, q := range a.interpAuxList {
				q.Compute(nd, d)
			}
		}
		for _, q := range a.auxList {
			q.Compute(d)
		}

		a.zeroLocal()
		for _, k := range a.kernelList {
			k.Apply(d, a.rCell, a.jCell)
		}
		a.DoF.AggregateLocalCellVector(r, a.rCell, e)
		a.DoF.AggregateLocalCellMatrix(J, a.jCell, e)
	}
}

func (a *Assembly) zeroLocal() {
	for i := range a.rCell {
		a.rCell[i] = 0
	}
	data := a.jCell.Data()
	for i := range data {
		data[i] = 0
	}
}

// ComputeMassMatrix assembles the global mass matrix: one block per phase
// conserved variable, plus the volume fraction block when aA1 is an unknown.
// Lumping moves each row's off-diagonal mass onto the diagonal, which keeps
// the row sums of the consistent matrix.
func (a *Assembly) ComputeMassMatrix() (M utils.Matrix) {
	M = utils.NewMatrix(a.DoF.NDoF, a.DoF.NDoF)
	mCell := utils.NewMatrix(a.DoF.NDoFPerCell, a.DoF.NDoFPerCell)
	for e := 0; e < a.DoF.NCells; e++ {
		data := mCell.Data()
		for i := range data {
			data[i] = 0
		}
		jxw := a.FE.JxW(e)
		for phase := 0; phase < a.Model.Phases(); phase++ {
			a.addMassMatrixPhase(mCell, jxw, phase)
		}
		if a.Model == flow.TwoPhase {
			a.addMassMatrixVolumeFraction(mCell, jxw)
		}
		a.DoF.AggregateLocalCellMatrix(M, mCell, e)
	}
	return
}

func (a *Assembly) addMassMatrixPhase(mCell utils.Matrix, jxw []float64, phase int) {
	for _, v := range []flow.VariableID{flow.ARhoA(phase), flow.ARhoUA(phase), flow.ARhoEA(phase)} {
		a.addMassMatrixBlock(mCell, jxw, a.DoF.VariableIndex(v))
	}
}

func (a *Assembly) addMassMatrixVolumeFraction(mCell utils.Matrix, jxw []float64) {
	a.addMassMatrixBlock(mCell, jxw, a.DoF.VariableIndex(flow.AA1))
}

func (a *Assembly) addMassMatrixBlock(mCell utils.Matrix, jxw []float64, varIndex int) {
	var (
		phi = a.FE.Phi()
		nn  = a.DoF.NDoFPerCellPerVar
	)
	for q := range jxw {
		for k := 0; k < nn; k++ {
			ik := a.DoF.I(k, varIndex)
			for l := 0; l < nn; l++ {
				m := phi.At(k, q) * phi.At(l, q) * jxw[q]
				if a.LumpMassMatrix {
					mCell.AddAt(ik, ik, m)
				} else {
					mCell.AddAt(ik, a.DoF.I(l, varIndex), m)
				}
			}
		}
	}
}

// PerformTransientSetup computes and caches the mass matrix, both dense and
// as CSR for the transient mat-vec. The cached matrix is read-only for the
// rest of the run.
func (a *Assembly) PerformTransientSetup() {
	a.massMatrix = a.ComputeMassMatrix()
	a.massMatrix.SetReadOnly("massMatrix")
	a.massCSR = utils.DenseToCSR(a.massMatrix)
}

// AssembleTransientSystem returns M*(U - UOld) and the cached mass matrix.
// No constraints are applied; callers apply them separately.
func (a *Assembly) AssembleTransientSystem(U, UOld []float64) (b []float64, M utils.Matrix) {
	dU := make([]float64, len(U))
	for i := range dU {
		dU[i] = U[i] - UOld[i]
	}
	b = utils.CSRMulVec(a.massCSR, dU)
	M = a.massMatrix
	return
}

// ApplyConstraintsToNonlinearSystem applies the strong constraints to a
// Newton iteration's residual and Jacobian, boundary conditions first so
// their rows win over junction rows.
func (a *Assembly) ApplyConstraintsToNonlinearSystem(U []float64, r []float64, J utils.Matrix) {
	for _, b := range a.bcs {
		b.ApplyStrongBCNonlinearSystem(U, r, J)
	}
	for _, j := range a.junctions {
		j.ApplyStronglyToNonlinearSystem(U, r, J)
	}
}

// ApplyConstraintsToLinearSystemMatrix applies the matrix part of the strong
// constraints. The result does not depend on the solution, so callers cache
// it once per discretization; the application is idempotent.
func (a *Assembly) ApplyConstraintsToLinearSystemMatrix(A utils.Matrix) {
	for _, b := range a.bcs {
		b.ApplyStrongBCLinearSystemMatrix(A)
	}
	for _, j := range a.junctions {
		j.ApplyStronglyToLinearSystemMatrix(A)
	}
}

// ApplyConstraintsToLinearSystemRHSVector applies the RHS part of the strong
// constraints; re-evaluated whenever the solution or time changes.
func (a *Assembly) ApplyConstraintsToLinearSystemRHSVector(U []float64, b []float64) {
	for _, c := range a.bcs {
		c.ApplyStrongBCLinearSystemRHSVector(U, b)
	}
	for _, j := range a.junctions {
		j.ApplyStronglyToLinearSystemRHSVector(U, b)
	}
}
