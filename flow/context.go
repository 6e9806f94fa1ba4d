package flow

import (
	"fmt"

	"github.com/notargets/semflow/utils"
)

// ElemData is the per-cell evaluation context shared by local solution
// extraction, auxiliary quantities and kernels. Quantity values and their
// partial derivatives with respect to the root primary variables are stored
// in slots indexed by QuantityID; all arrays are indexed by quadrature point,
// or by local node during the group-FEM nodal pass.
//
// The context is allocated once per assembly call and overwritten cell by
// cell; every writer fully rewrites its slots, so no clearing is needed
// between cells.
type ElemData struct {
	Reg *Registry
	N   int // points per array: quadrature points, or local nodes (nodal pass)

	// Shared geometric/thermal fields for the current cell.
	Phi, GradPhi utils.Matrix
	JxW          []float64
	Dx           float64 // cell size
	G            float64 // gravity projected on the segment orientation
	TWall        float64
	HTCWall      float64
	PHeat        float64

	val [][]float64
	der [][]float64 // slot (q, v) at int(q)*int(NumVariables)+int(v)
}

func NewElemData(reg *Registry, n int) (d *ElemData) {
	d = &ElemData{
		Reg: reg,
		N:   n,
		val: make([][]float64, reg.Len()),
		der: make([][]float64, reg.Len()*int(NumVariables)),
	}
	return
}

func (d *ElemData) Len() int { return d.N }

// Value returns the array of quantity q. A nil slot means q was declared as a
// dependency but never computed: a fatal configuration error.
func (d *ElemData) Value(q QuantityID) (vals []float64) {
	vals = d.val[q]
	if vals == nil {
		err := fmt.Errorf("quantity %q was never computed in this context", d.Reg.Name(q))
		panic(err)
	}
	return
}

func (d *ElemData) SetValue(q QuantityID, vals []float64) {
	d.val[q] = vals
}

// ValueAlloc returns the storage for quantity q, allocating it on first use.
// The caller overwrites every entry.
func (d *ElemData) ValueAlloc(q QuantityID) (vals []float64) {
	if d.val[q] == nil {
		d.val[q] = make([]float64, d.N)
	}
	vals = d.val[q]
	return
}

func (d *ElemData) derSlot(q QuantityID, v VariableID) int {
	return int(q)*int(NumVariables) + int(v)
}

// Deriv returns d(q)/d(v). A nil slot is a configuration error: a kernel or
// auxiliary read a derivative that no upstream quantity produced.
func (d *ElemData) Deriv(q QuantityID, v VariableID) (vals []float64) {
	vals = d.der[d.derSlot(q, v)]
	if vals == nil {
		err := fmt.Errorf("derivative d(%s)/d(%s) was never computed in this context", d.Reg.Name(q), v)
		panic(err)
	}
	return
}

// DerivOK is the tolerant lookup used by chain-rule propagation: an absent
// entry means the partial derivative is identically zero.
func (d *ElemData) DerivOK(q QuantityID, v VariableID) (vals []float64, ok bool) {
	vals = d.der[d.derSlot(q, v)]
	ok = vals != nil
	return
}

func (d *ElemData) SetDeriv(q QuantityID, v VariableID, vals []float64) {
	d.der[d.derSlot(q, v)] = vals
}

// DerivAlloc returns the storage for d(q)/d(v), allocating on first use.
func (d *ElemData) DerivAlloc(q QuantityID, v VariableID) (vals []float64) {
	slot := d.derSlot(q, v)
	if d.der[slot] == nil {
		d.der[slot] = make([]float64, d.N)
	}
	vals = d.der[slot]
	return
}

// ChainTerm is one term of a chain-rule sum: Coef holds the point values of
// the partial derivative of the output with respect to Dep.
type ChainTerm struct {
	Dep  QuantityID
	Coef []float64
}

// Chain applies the chain rule through the derivative entries of the listed
// dependencies, producing the derivatives of out with respect to every root
// primary variable any dependency depends on:
//
//	d(out)/d(root) = sum_k Coef_k * d(Dep_k)/d(root)
//
// Root variables for which no dependency carries an entry are left absent
// (identically zero).
func (d *ElemData) Chain(out QuantityID, terms ...ChainTerm) {
	for v := VariableID(0); v < NumVariables; v++ {
		present := false
		for _, t := range terms {
			if _, ok := d.DerivOK(t.Dep, v); ok {
				present = true
				break
			}
		}
		if !present {
			continue
		}
		dv := d.DerivAlloc(out, v)
		for i := range dv {
			dv[i] = 0
		}
		for _, t := range terms {
			if dep, ok := d.DerivOK(t.Dep, v); ok {
				for i := range dv {
					dv[i] += t.Coef[i] * dep[i]
				}
			}
		}
	}
}
