package FEM1D

import (
	"github.com/james-bowman/sparse"

	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/utils"
)

// DoFHandler maps (node, variable) pairs onto global degree of freedom
// indices and scatter-adds cell-local contributions into global structures.
// Variables are blocked per node in the order given by the model, so indices
// are unique and contiguous per variable block.
type DoFHandler struct {
	Model flow.ModelType
	Mesh  *Mesh

	NVars             int
	NNodes, NCells    int
	NDoF              int
	NDoFPerCell       int
	NDoFPerCellPerVar int
	H                 []float64 // cell sizes, aliases Mesh.H
	A                 []float64 // nodal cross-section areas
	varIndex          [flow.NumVariables]int
	vf1               func(x float64) float64 // fixed profile for models without a volume fraction DOF
	constrained       map[int]bool
	NodeConnectivity  *sparse.CSR
}

// NewDoFHandler lays out DOFs for the given mesh and model. For models
// without phase interaction, vf1 supplies the fixed phase 1 volume fraction
// profile; pass nil for the 1-phase model (vf1 is identically one).
func NewDoFHandler(mesh *Mesh, model flow.ModelType, vf1 func(x float64) float64) (d *DoFHandler) {
	if vf1 == nil {
		vf1 = func(x float64) float64 { return 1 }
	}
	d = &DoFHandler{
		Model:             model,
		Mesh:              mesh,
		NNodes:            mesh.NNodes,
		NCells:            mesh.NCells,
		NDoFPerCellPerVar: 2,
		H:                 mesh.H,
		vf1:               vf1,
		constrained:       make(map[int]bool),
	}
	for i := range d.varIndex {
		d.varIndex[i] = -1
	}
	for i, v := range model.Variables() {
		d.varIndex[v] = i
	}
	d.NVars = len(model.Variables())
	d.NDoF = d.NNodes * d.NVars
	d.NDoFPerCell = d.NDoFPerCellPerVar * d.NVars

	d.A = make([]float64, d.NNodes)
	for e := 0; e < d.NCells; e++ {
		seg := mesh.SegmentOf(e)
		n0 := mesh.CellNode[e]
		d.A[n0] = seg.Area(mesh.XNode[n0])
		d.A[n0+1] = seg.Area(mesh.XNode[n0+1])
	}
	d.NodeConnectivity = mesh.nodeConnectivity()
	return
}

// nodeConnectivity assembles the node adjacency graph through shared cells,
// built sparse (DOK) and compressed to CSR. Solvers use it to size fill-in.
func (m *Mesh) nodeConnectivity() *sparse.CSR {
	conn := utils.NewDOK(m.NNodes, m.NNodes)
	for e := 0; e < m.NCells; e++ {
		n0 := m.CellNode[e]
		conn.Set(n0, n0, 1)
		conn.Set(n0, n0+1, 1)
		conn.Set(n0+1, n0, 1)
		conn.Set(n0+1, n0+1, 1)
	}
	return conn.ToCSR()
}

// VariableIndex returns the per-node block index of variable v, or -1 when
// the model does not carry it.
func (d *DoFHandler) VariableIndex(v flow.VariableID) int { return d.varIndex[v] }

// I maps a local node and a variable block index to the cell-local DOF index.
func (d *DoFHandler) I(kLocal, varIndex int) int { return kLocal*d.NVars + varIndex }

// GlobalNode returns the global node of local node kLocal of cell e.
func (d *DoFHandler) GlobalNode(e, kLocal int) int { return d.Mesh.CellNode[e] + kLocal }

// GlobalDoF returns the global DOF index of a variable block at a node.
func (d *DoFHandler) GlobalDoF(node, varIndex int) int { return node*d.NVars + varIndex }

// CellDoF maps a cell-local DOF index to its global DOF index.
func (d *DoFHandler) CellDoF(e, iLocal int) int {
	kLocal := iLocal / d.NVars
	varIndex := iLocal % d.NVars
	return d.GlobalDoF(d.GlobalNode(e, kLocal), varIndex)
}

// AggregateLocalCellVector scatter-adds a cell-local vector into the global
// vector. DOFs shared between adjacent cells accumulate from both.
func (d *DoFHandler) AggregateLocalCellVector(r, rCell []float64, e int) {
	for iLocal, val := range rCell {
		r[d.CellDoF(e, iLocal)] += val
	}
}

// AggregateLocalCellMatrix scatter-adds a cell-local matrix into the global
// matrix.
func (d *DoFHandler) AggregateLocalCellMatrix(J utils.Matrix, jCell utils.Matrix, e int) {
	var (
		n = d.NDoFPerCell
	)
	for iLocal := 0; iLocal < n; iLocal++ {
		ig := d.CellDoF(e, iLocal)
		for jLocal := 0; jLocal < n; jLocal++ {
			if val := jCell.At(iLocal, jLocal); val != 0 {
				J.AddAt(ig, d.CellDoF(e, jLocal), val)
			}
		}
	}
}

// AA1 returns the phase 1 volume fraction times area at a node. For the
// TwoPhase model this is a DOF read; otherwise it comes from the fixed
// profile.
func (d *DoFHandler) AA1(U []float64, node int) float64 {
	if d.Model == flow.TwoPhase {
		return U[d.GlobalDoF(node, d.varIndex[flow.AA1])]
	}
	return d.vf1(d.Mesh.XNode[node]) * d.A[node]
}

// NodalAA1 fills the per-node aA1 values of cell e.
func (d *DoFHandler) NodalAA1(U []float64, e int, out []float64) {
	for k := 0; k < d.NDoFPerCellPerVar; k++ {
		out[k] = d.AA1(U, d.GlobalNode(e, k))
	}
}

// MarkConstrained records a DOF as strongly constrained by a boundary
// condition; junctions skip such rows (boundary conditions take precedence).
func (d *DoFHandler) MarkConstrained(i int) { d.constrained[i] = true }

func (d *DoFHandler) IsConstrained(i int) bool { return d.constrained[i] }
