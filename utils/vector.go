package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V        *mat.VecDense
	readOnly bool
	name     string
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var v *mat.VecDense
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v\n", n, len(dataO[0]))
			panic(err)
		}
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	R = Vector{
		v,
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Len, AtVec and T minimally satisfy the mat.Vector interface.
func (v Vector) Len() int            { return v.V.Len() }
func (v Vector) AtVec(i int) float64 { return v.V.AtVec(i) }
func (v Vector) T() mat.Matrix       { return v.V.T() }

func (v Vector) Data() []float64 {
	return v.V.RawVector().Data
}

func (v *Vector) SetReadOnly(name ...string) Vector {
	if len(name) != 0 {
		v.name = name[0]
	}
	v.readOnly = true
	return *v
}

func (v Vector) Copy() (R Vector) {
	var (
		data  = v.V.RawVector().Data
		dataR = make([]float64, v.Len())
	)
	copy(dataR, data)
	R = NewVector(v.Len(), dataR)
	return
}

func (v Vector) Set(val float64) Vector { // Changes receiver
	v.checkWritable()
	var (
		data = v.V.RawVector().Data
	)
	for i := range data {
		data[i] = val
	}
	return v
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	v.checkWritable()
	var (
		data = v.V.RawVector().Data
	)
	for i := range data {
		data[i] *= a
	}
	return v
}

func (v Vector) Add(a Vector) Vector { // Changes receiver
	v.checkWritable()
	var (
		data  = v.V.RawVector().Data
		dataA = a.V.RawVector().Data
	)
	for i := range data {
		data[i] += dataA[i]
	}
	return v
}

func (v Vector) Subtract(a Vector) Vector { // Changes receiver
	v.checkWritable()
	var (
		data  = v.V.RawVector().Data
		dataA = a.V.RawVector().Data
	)
	for i := range data {
		data[i] -= dataA[i]
	}
	return v
}

func (v Vector) Min() (min float64) {
	var (
		data = v.V.RawVector().Data
	)
	min = data[0]
	for _, val := range data {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	var (
		data = v.V.RawVector().Data
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}

func (v Vector) Sum() (sum float64) {
	for _, val := range v.V.RawVector().Data {
		sum += val
	}
	return
}

func (v Vector) Print(msgI ...string) (o string) {
	var (
		msg = ""
	)
	if len(msgI) != 0 {
		msg = msgI[0]
	}
	o = fmt.Sprintf("%s = \n%8.5f\n", msg, mat.Formatted(v.V, mat.Squeeze()))
	return
}

func (v Vector) checkWritable() {
	if v.readOnly {
		err := fmt.Errorf("attempt to write to a read only vector named: \"%v\"", v.name)
		panic(err)
	}
}

// ConstArray returns a slice of length n filled with val.
func ConstArray(val float64, n int) (r []float64) {
	r = make([]float64, n)
	for i := range r {
		r[i] = val
	}
	return
}

func POW(x float64, p int) (r float64) {
	r = 1
	for i := 0; i < p; i++ {
		r *= x
	}
	return
}
