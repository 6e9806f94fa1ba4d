package bc

import (
	"github.com/notargets/semflow/FEM1D"
	"github.com/notargets/semflow/auxq"
	"github.com/notargets/semflow/flow"
	"github.com/notargets/semflow/utils"
)

// NodeExtractor populates a single-node evaluation context from the global
// solution. The assembly builder supplies its model-bound extraction closure,
// so a BC can never invoke the wrong phase variant.
type NodeExtractor func(U []float64, node int, d *flow.ElemData)

// OutletBC imposes a specified outlet pressure weakly through the boundary
// flux term of the weak form. The interior state at the boundary node is
// extracted and its auxiliaries evaluated per application; the exact Jacobian
// comes from the node derivative context.
type OutletBC struct {
	dof     *FEM1D.DoFHandler
	node    int
	nrm     float64 // outward normal, +1 at a right end, -1 at a left end
	pOut    float64
	phases  int
	extract NodeExtractor
	auxList []auxq.Quantity
	d       *flow.ElemData

	area   flow.QuantityID
	arhouA [2]flow.QuantityID
	arhoEA [2]flow.QuantityID
	u      [2]flow.QuantityID
	vf     [2]flow.QuantityID
}

func NewOutletBC(reg *flow.Registry, dof *FEM1D.DoFHandler, node int, nrm, pOut float64,
	extract NodeExtractor, auxList []auxq.Quantity) (b *OutletBC) {
	b = &OutletBC{
		dof:     dof,
		node:    node,
		nrm:     nrm,
		pOut:    pOut,
		phases:  dof.Model.Phases(),
		extract: extract,
		auxList: auxList,
		d:       flow.NewElemData(reg, 1),
		area:    reg.MustID(flow.AreaName),
	}
	for phase := 0; phase < b.phases; phase++ {
		b.arhouA[phase] = reg.MustID(flow.ARhoUA(phase).String())
		b.arhoEA[phase] = reg.MustID(flow.ARhoEA(phase).String())
		b.u[phase] = reg.MustID(flow.VelocityName(phase))
		b.vf[phase] = reg.MustID(flow.VolumeFractionName(phase))
	}
	return
}

func (b *OutletBC) Name() string { return "OutletBC" }

func (b *OutletBC) ApplyWeakBC(U, r []float64, J utils.Matrix) {
	b.extract(U, b.node, b.d)
	for _, a := range b.auxList {
		a.Compute(b.d)
	}
	var (
		d    = b.d
		area = d.Value(b.area)[0]
	)
	for phase := 0; phase < b.phases; phase++ {
		var (
			arhouA = d.Value(b.arhouA[phase])[0]
			arhoEA = d.Value(b.arhoEA[phase])[0]
			u      = d.Value(b.u[phase])[0]
			vf     = d.Value(b.vf[phase])[0]
			pA     = b.pOut * area
		)
		b.addBoundaryFlux(r, J, flow.ARhoA(phase), arhouA,
			nodeTerm{b.arhouA[phase], 1})
		b.addBoundaryFlux(r, J, flow.ARhoUA(phase), arhouA*u+vf*pA,
			nodeTerm{b.arhouA[phase], u},
			nodeTerm{b.u[phase], arhouA},
			nodeTerm{b.vf[phase], pA})
		b.addBoundaryFlux(r, J, flow.ARhoEA(phase), u*(arhoEA+vf*pA),
			nodeTerm{b.arhoEA[phase], u},
			nodeTerm{b.u[phase], arhoEA + vf*pA},
			nodeTerm{b.vf[phase], u * pA})
	}
}

// nodeTerm is one chain-rule term at the single boundary node.
type nodeTerm struct {
	dep  flow.QuantityID
	coef float64
}

func (b *OutletBC) addBoundaryFlux(r []float64, J utils.Matrix, eqVar flow.VariableID, F float64, terms ...nodeTerm) {
	row := b.dof.GlobalDoF(b.node, b.dof.VariableIndex(eqVar))
	r[row] += b.nrm * F
	for v := flow.VariableID(0); v < flow.NumVariables; v++ {
		var dF float64
		present := false
		for _, t := range terms {
			if dep, ok := b.d.DerivOK(t.dep, v); ok {
				dF += t.coef * dep[0]
				present = true
			}
		}
		if !present {
			continue
		}
		col := b.dof.GlobalDoF(b.node, b.dof.VariableIndex(v))
		J.AddAt(row, col, b.nrm*dF)
	}
}

func (b *OutletBC) ApplyStrongBCNonlinearSystem(U, r []float64, J utils.Matrix) {}
func (b *OutletBC) ApplyStrongBCLinearSystemMatrix(A utils.Matrix)              {}
func (b *OutletBC) ApplyStrongBCLinearSystemRHSVector(U, b2 []float64)          {}
