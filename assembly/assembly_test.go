package assembly

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/semflow/FEM1D"
	"github.com/notargets/semflow/bc"
	"github.com/notargets/semflow/eos"
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/stabilization"
)

func pipeSegment(nCells int) FEM1D.Segment {
	return FEM1D.UniformSegment("pipe", 0, 1, nCells, 1.5)
}

func taperedSegment(nCells int) FEM1D.Segment {
	seg := pipeSegment(nCells)
	seg.Area = func(x float64) float64 { return 1.5 + 0.2*x }
	seg.AreaGradient = func(x float64) float64 { return 0.2 }
	return seg
}

func idealGases(n int) (states []eos.EOS) {
	for i := 0; i < n; i++ {
		states = append(states, eos.IdealGas{Gamma: 1.4})
	}
	return
}

// smoothState builds a spatially varying, physically sensible solution.
func smoothState(dof *FEM1D.DoFHandler) (U []float64) {
	U = make([]float64, dof.NDoF)
	for node := 0; node < dof.NNodes; node++ {
		x := dof.Mesh.XNode[node]
		set := func(v flow.VariableID, val float64) {
			if vi := dof.VariableIndex(v); vi >= 0 {
				U[dof.GlobalDoF(node, vi)] = val
			}
		}
		set(flow.AA1, (0.6+0.05*x)*dof.A[node])
		set(flow.ARhoA1, 1.2+0.1*x)
		set(flow.ARhoUA1, 0.3+0.05*x)
		set(flow.ARhoEA1, 2.8+0.1*x)
		set(flow.ARhoA2, 0.7+0.05*x)
		set(flow.ARhoUA2, -0.2-0.05*x)
		set(flow.ARhoEA2, 1.9+0.1*x)
	}
	return
}

func uniformState(dof *FEM1D.DoFHandler) (U []float64) {
	U = make([]float64, dof.NDoF)
	for node := 0; node < dof.NNodes; node++ {
		set := func(v flow.VariableID, val float64) {
			if vi := dof.VariableIndex(v); vi >= 0 {
				U[dof.GlobalDoF(node, vi)] = val
			}
		}
		set(flow.AA1, 0.6*dof.A[node])
		set(flow.ARhoA1, 1.2)
		set(flow.ARhoUA1, 0.3)
		set(flow.ARhoEA1, 2.8)
		set(flow.ARhoA2, 0.7)
		set(flow.ARhoUA2, -0.2)
		set(flow.ARhoEA2, 1.9)
	}
	return
}

// checkJacobian verifies the assembled Jacobian column by column against a
// central finite difference of the residual.
func checkJacobian(t *testing.T, asm *Assembly, U []float64, tol float64) {
	var (
		_, J = asm.AssembleSteadyStateSystemWithoutConstraints(U)
		h    = 1.e-5 // keeps FD roundoff below tolerance when sources inflate the residual
	)
	for j := 0; j < asm.DoF.NDoF; j++ {
		Up := append([]float64{}, U...)
		Um := append([]float64{}, U...)
		Up[j] += h
		Um[j] -= h
		rp, _ := asm.AssembleSteadyStateSystemWithoutConstraints(Up)
		rm, _ := asm.AssembleSteadyStateSystemWithoutConstraints(Um)
		for i := range rp {
			fd := (rp[i] - rm[i]) / (2 * h)
			if !nearRel(J.At(i, j), fd, tol) {
				fmt.Printf("J[%d,%d] = %v, FD = %v\n", i, j, J.At(i, j), fd)
			}
			assert.True(t, nearRel(J.At(i, j), fd, tol))
		}
	}
}

func TestJacobianOnePhase(t *testing.T) {
	mesh := FEM1D.NewMesh([]FEM1D.Segment{taperedSegment(3)}, 0)
	asm, err := NewAssembly(mesh, Config{
		Model: flow.OnePhase,
		EOS:   idealGases(1),
	})
	require.NoError(t, err)
	U := smoothState(asm.DoF)

	// weak outlet BC included: its Jacobian must be exact too
	outlet := bc.NewOutletBC(asm.Reg, asm.DoF, mesh.LastNode(0), 1, 0.9,
		asm.NodeExtractor(), asm.BaseAuxList())
	asm.SetConstraints([]bc.BoundaryCondition{outlet}, nil)

	checkJacobian(t, asm, U, 1.e-6)
}

func TestJacobianTwoPhase(t *testing.T) {
	seg := taperedSegment(3)
	seg.HT = FEM1D.HeatTransferData{TWall: 500, HTCWall: 100, PHeat: 0.3}
	mesh := FEM1D.NewMesh([]FEM1D.Segment{seg}, 9.81)
	asm, err := NewAssembly(mesh, Config{
		Model:         flow.TwoPhase,
		Stabilization: stabilization.LaxFriedrichs{},
		EOS:           idealGases(2),
	})
	require.NoError(t, err)
	checkJacobian(t, asm, smoothState(asm.DoF), 1.e-6)
}

func TestJacobianGroupFEM(t *testing.T) {
	mesh := FEM1D.NewMesh([]FEM1D.Segment{taperedSegment(3)}, 0)
	asm, err := NewAssembly(mesh, Config{
		Model:    flow.TwoPhase,
		GroupFEM: true,
		EOS:      idealGases(2),
	})
	require.NoError(t, err)
	checkJacobian(t, asm, smoothState(asm.DoF), 1.e-6)
}

func TestJacobianNonInteractingWithJunction(t *testing.T) {
	segA := pipeSegment(2)
	segB := pipeSegment(2)
	segB.XMin = 1
	mesh := FEM1D.NewMesh([]FEM1D.Segment{segA, segB}, 0)
	asm, err := NewAssembly(mesh, Config{
		Model:          flow.TwoPhaseNonInteracting,
		EOS:            idealGases(2),
		VolumeFraction: func(x float64) float64 { return 0.6 },
	})
	require.NoError(t, err)

	jct := bc.NewContinuityJunction(asm.DoF, mesh.LastNode(0), mesh.FirstNode(1))
	jct.Penalty = 2.5
	asm.SetConstraints(nil, []bc.Junction{jct})

	U := smoothState(asm.DoF)
	checkJacobian(t, asm, U, 1.e-6)

	// without phase interaction the Jacobian is block diagonal across phases
	_, J := asm.AssembleSteadyStateSystemWithoutConstraints(U)
	dof := asm.DoF
	for n1 := 0; n1 < dof.NNodes; n1++ {
		for n2 := 0; n2 < dof.NNodes; n2++ {
			for vi1 := 0; vi1 < 3; vi1++ {
				for vi2 := 3; vi2 < 6; vi2++ {
					assert.Equal(t, 0., J.At(dof.GlobalDoF(n1, vi1), dof.GlobalDoF(n2, vi2)))
					assert.Equal(t, 0., J.At(dof.GlobalDoF(n1, vi2), dof.GlobalDoF(n2, vi1)))
				}
			}
		}
	}
}

func TestAssemblyDeterminism(t *testing.T) {
	mesh := FEM1D.NewMesh([]FEM1D.Segment{taperedSegment(4)}, 9.81)
	asm, err := NewAssembly(mesh, Config{
		Model:         flow.TwoPhase,
		Stabilization: stabilization.LaxFriedrichs{},
		EOS:           idealGases(2),
	})
	require.NoError(t, err)
	U := smoothState(asm.DoF)
	r1, J1 := asm.AssembleSteadyStateSystemWithoutConstraints(U)
	r2, J2 := asm.AssembleSteadyStateSystemWithoutConstraints(U)
	assert.Equal(t, r1, r2)
	assert.True(t, J1.Equal(J2))
}

func TestGroupFEMEquivalenceOnUniformState(t *testing.T) {
	mesh := FEM1D.NewMesh([]FEM1D.Segment{pipeSegment(4)}, 0)
	cfg := Config{Model: flow.TwoPhase, EOS: idealGases(2)}
	direct, err := NewAssembly(mesh, cfg)
	require.NoError(t, err)
	cfg.GroupFEM = true
	group, err := NewAssembly(mesh, cfg)
	require.NoError(t, err)

	// with a uniform state and constant area the interpolated fluxes are the
	// pointwise fluxes, so the residuals agree to roundoff
	U := uniformState(direct.DoF)
	rd, _ := direct.AssembleSteadyStateSystemWithoutConstraints(U)
	rg, _ := group.AssembleSteadyStateSystemWithoutConstraints(U)
	for i := range rd {
		assert.True(t, math.Abs(rd[i]-rg[i]) < 1.e-12)
	}
}

func TestMassMatrix(t *testing.T) {
	mesh := FEM1D.NewMesh([]FEM1D.Segment{pipeSegment(3)}, 0)
	cfg := Config{Model: flow.TwoPhase, EOS: idealGases(2)}
	consistent, err := NewAssembly(mesh, cfg)
	require.NoError(t, err)
	cfg.LumpMassMatrix = true
	lumped, err := NewAssembly(mesh, cfg)
	require.NoError(t, err)

	Mc := consistent.ComputeMassMatrix()
	Ml := lumped.ComputeMassMatrix()
	ndof := consistent.DoF.NDoF
	{
		// lumping preserves row sums (mass conservation)
		for i := 0; i < ndof; i++ {
			var sc, sl float64
			for j := 0; j < ndof; j++ {
				sc += Mc.At(i, j)
				sl += Ml.At(i, j)
			}
			assert.True(t, nearRel(sc, sl, 1.e-13))
		}
	}
	{
		// lumped matrix is diagonal
		for i := 0; i < ndof; i++ {
			for j := 0; j < ndof; j++ {
				if i != j {
					assert.Equal(t, 0., Ml.At(i, j))
				}
			}
		}
	}
}

func TestMassMatrixSingleCellLumped(t *testing.T) {
	mesh := FEM1D.NewMesh([]FEM1D.Segment{pipeSegment(1)}, 0)
	asm, err := NewAssembly(mesh, Config{
		Model:          flow.OnePhase,
		LumpMassMatrix: true,
		EOS:            idealGases(1),
	})
	require.NoError(t, err)
	M := asm.ComputeMassMatrix()
	// one cell of size h: each diagonal entry is h/2
	for i := 0; i < asm.DoF.NDoF; i++ {
		assert.True(t, nearRel(M.At(i, i), 0.5*asm.DoF.H[0], 1.e-13))
	}
}

func TestTransientSystem(t *testing.T) {
	mesh := FEM1D.NewMesh([]FEM1D.Segment{pipeSegment(3)}, 0)
	asm, err := NewAssembly(mesh, Config{Model: flow.TwoPhase, EOS: idealGases(2)})
	require.NoError(t, err)
	asm.PerformTransientSetup()

	U := smoothState(asm.DoF)
	UOld := uniformState(asm.DoF)
	b, M := asm.AssembleTransientSystem(U, UOld)

	dU := make([]float64, len(U))
	for i := range dU {
		dU[i] = U[i] - UOld[i]
	}
	dense := M.MulVec(dU)
	for i := range b {
		assert.True(t, math.Abs(b[i]-dense[i]) < 1.e-13)
	}
	// the cached matrix is read only
	assert.Panics(t, func() { M.Set(0, 0, 1) })
}

func TestConstraints(t *testing.T) {
	segA := pipeSegment(2)
	segB := pipeSegment(2)
	segB.XMin = 1
	mesh := FEM1D.NewMesh([]FEM1D.Segment{segA, segB}, 0)
	asm, err := NewAssembly(mesh, Config{
		Model:          flow.TwoPhaseNonInteracting,
		EOS:            idealGases(2),
		VolumeFraction: func(x float64) float64 { return 0.6 },
	})
	require.NoError(t, err)
	var (
		dof   = asm.DoF
		nodeL = mesh.LastNode(0)
		nodeR = mesh.FirstNode(1)
	)
	// BC constructed first: it claims arhoA1 at the junction's right node
	dbc := bc.NewDirichletBC(dof, nodeR,
		bc.DirichletValue{Var: flow.ARhoA1, Value: bc.ConstantValue(1.25)})
	jct := bc.NewContinuityJunction(dof, nodeL, nodeR)
	asm.SetConstraints([]bc.BoundaryCondition{dbc}, []bc.Junction{jct})

	U := smoothState(dof)
	r, J := asm.AssembleSteadyStateSystemWithoutConstraints(U)
	asm.ApplyConstraintsToNonlinearSystem(U, r, J)

	var (
		viMass = dof.VariableIndex(flow.ARhoA1)
		viMom  = dof.VariableIndex(flow.ARhoUA1)
		iMassR = dof.GlobalDoF(nodeR, viMass)
		iMomR  = dof.GlobalDoF(nodeR, viMom)
		iMassL = dof.GlobalDoF(nodeL, viMass)
		iMomL  = dof.GlobalDoF(nodeL, viMom)
	)
	{
		// the BC row won: identity row with the Dirichlet residual
		assert.Equal(t, 1., J.At(iMassR, iMassR))
		assert.Equal(t, 0., J.At(iMassR, iMassL))
		assert.True(t, nearRel(r[iMassR], U[iMassR]-1.25, 1.e-13))
	}
	{
		// unclaimed variables got the junction equality row
		assert.Equal(t, 1., J.At(iMomR, iMomR))
		assert.Equal(t, -1., J.At(iMomR, iMomL))
		assert.True(t, nearRel(r[iMomR], U[iMomR]-U[iMomL], 1.e-13))
	}
	{
		// matrix-only application is idempotent
		A1 := J.Copy()
		asm.ApplyConstraintsToLinearSystemMatrix(A1)
		A2 := A1.Copy()
		asm.ApplyConstraintsToLinearSystemMatrix(A2)
		assert.True(t, A1.Equal(A2))
	}
	{
		// RHS-only application pins the Dirichlet value and zeroes the
		// junction rows
		b := make([]float64, dof.NDoF)
		for i := range b {
			b[i] = 7
		}
		asm.ApplyConstraintsToLinearSystemRHSVector(U, b)
		assert.Equal(t, 1.25, b[iMassR])
		assert.Equal(t, 0., b[iMomR])
		assert.Equal(t, 7., b[iMomL])
	}
}

func TestBuilderValidation(t *testing.T) {
	mesh := FEM1D.NewMesh([]FEM1D.Segment{pipeSegment(2)}, 0)
	_, err := NewAssembly(mesh, Config{Model: flow.TwoPhase, EOS: idealGases(1)})
	assert.Error(t, err)
}

func nearRel(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
