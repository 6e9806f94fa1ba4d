/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"math"
	"sort"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/semflow/FEM1D"
	"github.com/notargets/semflow/InputParameters"
	"github.com/notargets/semflow/assembly"
	"github.com/notargets/semflow/bc"
	"github.com/notargets/semflow/eos"
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/stabilization"
	"github.com/notargets/semflow/utils"
)

var log = logrus.New()

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Assemble and solve a flow problem from a YAML input file",
	Long: `
Builds the finite element discretization described by the input file and runs
either a steady Newton iteration or a backward Euler transient,

semflow run -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		inputFile, err := cmd.Flags().GetString("inputFile")
		if err != nil {
			panic(err)
		}
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		ip := processRunInput(inputFile)
		sim, err := setupSimulation(ip)
		if err != nil {
			log.Fatal(err)
		}
		if err = sim.Run(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("inputFile", "I", "", "YAML input file describing the problem")
	runCmd.Flags().Bool("profile", false, "write a CPU profile to the working directory")
}

func processRunInput(inputFile string) (ip *InputParameters.InputParameters1D) {
	if len(inputFile) == 0 {
		log.Fatal("must supply an input file (-I, --inputFile) in YAML format")
	}
	data, err := ioutil.ReadFile(inputFile)
	if err != nil {
		log.Fatalf("unable to read input file %s: %s", inputFile, err)
	}
	ip = &InputParameters.InputParameters1D{MaxIterations: 20, Tolerance: 1.e-8}
	if err = ip.Parse(data); err != nil {
		log.Fatalf("unable to parse input file %s: %s", inputFile, err)
	}
	ip.Print()
	return
}

// Simulation owns the built discretization and the evolving solution.
type Simulation struct {
	IP   *InputParameters.InputParameters1D
	Mesh *FEM1D.Mesh
	Asm  *assembly.Assembly
	U    []float64
}

func setupSimulation(ip *InputParameters.InputParameters1D) (sim *Simulation, err error) {
	model, err := flow.ParseModelType(ip.Model)
	if err != nil {
		return
	}
	stab, err := parseStabilization(ip.Stabilization)
	if err != nil {
		return
	}
	states, err := parseEOS(ip.Phases, model.Phases())
	if err != nil {
		return
	}
	segments := make([]FEM1D.Segment, len(ip.Segments))
	for i, sp := range ip.Segments {
		seg := FEM1D.UniformSegment(sp.Name, sp.XMin, sp.Length, sp.NCells, sp.Area)
		if sp.Orientation != 0 {
			seg.Orientation = sp.Orientation
		}
		seg.HT = FEM1D.HeatTransferData{TWall: sp.TWall, HTCWall: sp.HTCWall, PHeat: sp.PHeat}
		segments[i] = seg
	}
	mesh := FEM1D.NewMesh(segments, ip.Gravity)

	var vf1 func(x float64) float64
	if v, ok := ip.IC["vf1"]; ok {
		vf1 = func(x float64) float64 { return v }
	}
	asm, err := assembly.NewAssembly(mesh, assembly.Config{
		Model:          model,
		NQ:             ip.NQ,
		GroupFEM:       ip.GroupFEM,
		LumpMassMatrix: ip.LumpMassMatrix,
		Stabilization:  stab,
		EOS:            states,
		VolumeFraction: vf1,
	})
	if err != nil {
		return
	}
	sim = &Simulation{
		IP:   ip,
		Mesh: mesh,
		Asm:  asm,
	}
	if sim.U, err = sim.initialCondition(); err != nil {
		return nil, err
	}
	if err = sim.createConstraints(); err != nil {
		return nil, err
	}
	return
}

func parseStabilization(name string) (stab stabilization.Stabilization, err error) {
	switch name {
	case "", "None":
		stab = stabilization.NoStabilization{}
	case "LaxFriedrichs":
		stab = stabilization.LaxFriedrichs{}
	default:
		err = fmt.Errorf("unknown stabilization: %q", name)
	}
	return
}

func parseEOS(phases []InputParameters.PhaseParameters, nPhases int) (states []eos.EOS, err error) {
	if len(phases) < nPhases {
		err = fmt.Errorf("input declares %d phases, model needs %d", len(phases), nPhases)
		return
	}
	for _, ph := range phases[:nPhases] {
		switch ph.EOS {
		case "", "IdealGas":
			states = append(states, eos.IdealGas{Gamma: ph.Gamma})
		case "StiffenedGas":
			states = append(states, eos.StiffenedGas{Gamma: ph.Gamma, PInf: ph.PInf})
		default:
			err = fmt.Errorf("unknown EOS: %q", ph.EOS)
			return
		}
	}
	return
}

// initialCondition builds a uniform initial solution from the per-variable
// values of the IC block. aA1 is seeded from vf1 and the nodal area.
func (sim *Simulation) initialCondition() (U []float64, err error) {
	var (
		dof = sim.Asm.DoF
	)
	U = make([]float64, dof.NDoF)
	for _, v := range dof.Model.Variables() {
		if v == flow.AA1 {
			vf1, ok := sim.IP.IC["vf1"]
			if !ok {
				return nil, fmt.Errorf("IC must set vf1 for the %s model", dof.Model)
			}
			for node := 0; node < dof.NNodes; node++ {
				U[dof.GlobalDoF(node, dof.VariableIndex(v))] = vf1 * dof.A[node]
			}
			continue
		}
		val, ok := sim.IP.IC[v.String()]
		if !ok {
			return nil, fmt.Errorf("IC must set %s", v)
		}
		for node := 0; node < dof.NNodes; node++ {
			U[dof.GlobalDoF(node, dof.VariableIndex(v))] = val
		}
	}
	return
}

// createConstraints builds BCs from the input's BC block and continuity
// junctions between consecutive segments. BCs are constructed first so their
// DOFs are claimed before any junction row is applied.
func (sim *Simulation) createConstraints() (err error) {
	var (
		ip   = sim.IP
		dof  = sim.Asm.DoF
		bcs  []bc.BoundaryCondition
		jcts []bc.Junction
	)
	names := make([]string, 0, len(ip.BCs))
	for name := range ip.BCs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		params := ip.BCs[name]
		switch name {
		case "Inlet":
			values := make([]bc.DirichletValue, 0, len(params))
			keys := make([]string, 0, len(params))
			for k := range params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				v, perr := flow.ParseVariable(k)
				if perr != nil {
					return perr
				}
				values = append(values, bc.DirichletValue{Var: v, Value: bc.ConstantValue(params[k])})
			}
			bcs = append(bcs, bc.NewDirichletBC(dof, sim.Mesh.FirstNode(0), values...))
		case "Outlet":
			p, ok := params["p"]
			if !ok {
				return fmt.Errorf("Outlet BC must set p")
			}
			node := sim.Mesh.LastNode(len(sim.Mesh.Segments) - 1)
			bcs = append(bcs, bc.NewOutletBC(sim.Asm.Reg, dof, node, 1, p,
				sim.Asm.NodeExtractor(), sim.Asm.BaseAuxList()))
		default:
			return fmt.Errorf("unknown BC: %q", name)
		}
	}
	for i := 0; i+1 < len(sim.Mesh.Segments); i++ {
		jcts = append(jcts, bc.NewContinuityJunction(dof, sim.Mesh.LastNode(i), sim.Mesh.FirstNode(i+1)))
	}
	sim.Asm.SetConstraints(bcs, jcts)
	return
}

// Run executes a backward Euler transient when DT is set, otherwise a steady
// Newton iteration.
func (sim *Simulation) Run() (err error) {
	if sim.IP.DT > 0 {
		return sim.runTransient()
	}
	return sim.runSteady()
}

func (sim *Simulation) runSteady() (err error) {
	var (
		asm = sim.Asm
		ip  = sim.IP
	)
	log.WithField("ndof", asm.DoF.NDoF).Info("starting steady Newton iteration")
	for it := 0; it < ip.MaxIterations; it++ {
		r, J := asm.AssembleSteadyStateSystemWithoutConstraints(sim.U)
		asm.ApplyConstraintsToNonlinearSystem(sim.U, r, J)
		norm := l2norm(r)
		log.WithFields(logrus.Fields{"iteration": it, "residual": norm}).Info("newton step")
		if norm < ip.Tolerance {
			return nil
		}
		var dU []float64
		if dU, err = solveDense(J, negate(r)); err != nil {
			return fmt.Errorf("newton linear solve failed at iteration %d: %w", it, err)
		}
		for i := range sim.U {
			sim.U[i] += dU[i]
		}
	}
	return fmt.Errorf("newton iteration did not converge in %d iterations", ip.MaxIterations)
}

func (sim *Simulation) runTransient() (err error) {
	var (
		asm  = sim.Asm
		ip   = sim.IP
		dt   = ip.DT
		UOld = make([]float64, len(sim.U))
	)
	asm.PerformTransientSetup()
	log.WithFields(logrus.Fields{"ndof": asm.DoF.NDoF, "dt": dt}).Info("starting backward Euler transient")
	for t := 0.0; t < ip.FinalTime; t += dt {
		copy(UOld, sim.U)
		converged := false
		for it := 0; it < ip.MaxIterations; it++ {
			b, M := asm.AssembleTransientSystem(sim.U, UOld)
			r, J := asm.AssembleSteadyStateSystemWithoutConstraints(sim.U)
			F := make([]float64, len(b))
			for i := range F {
				F[i] = b[i] + dt*r[i]
			}
			Jt := M.Copy()
			jtd, jd := Jt.Data(), J.Data()
			for i := range jtd {
				jtd[i] += dt * jd[i]
			}
			asm.ApplyConstraintsToNonlinearSystem(sim.U, F, Jt)
			if l2norm(F) < ip.Tolerance {
				converged = true
				break
			}
			var dU []float64
			if dU, err = solveDense(Jt, negate(F)); err != nil {
				return fmt.Errorf("transient linear solve failed at t = %g: %w", t, err)
			}
			for i := range sim.U {
				sim.U[i] += dU[i]
			}
		}
		if !converged {
			return fmt.Errorf("newton iteration did not converge at t = %g", t)
		}
		log.WithField("t", t+dt).Debug("step complete")
	}
	log.Info("transient complete")
	return
}

func solveDense(A utils.Matrix, rhs []float64) (x []float64, err error) {
	var xv mat.VecDense
	if err = xv.SolveVec(A.M, mat.NewVecDense(len(rhs), rhs)); err != nil {
		return
	}
	x = xv.RawVector().Data
	return
}

func l2norm(v []float64) (norm float64) {
	for _, val := range v {
		norm += val * val
	}
	return math.Sqrt(norm)
}

func negate(v []float64) (r []float64) {
	r = make([]float64, len(v))
	for i, val := range v {
		r[i] = -val
	}
	return
}
