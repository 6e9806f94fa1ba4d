// Package flow holds the variable and quantity bookkeeping shared by the
// auxiliary quantities, kernels and the assembly engine of the 1D
// compressible two-phase flow model.
package flow

import "fmt"

// ModelType selects the active phase model.
type ModelType uint8

const (
	OnePhase ModelType = iota
	TwoPhaseNonInteracting
	TwoPhase
)

var modelNames = []string{"OnePhase", "TwoPhaseNonInteracting", "TwoPhase"}

func (m ModelType) String() string { return modelNames[m] }

func ParseModelType(s string) (m ModelType, err error) {
	for i, name := range modelNames {
		if s == name {
			return ModelType(i), nil
		}
	}
	err = fmt.Errorf("unknown model type: %q", s)
	return
}

// Phases returns the number of phases carried by the model.
func (m ModelType) Phases() int {
	if m == OnePhase {
		return 1
	}
	return 2
}

// PhaseInteraction reports whether the volume fraction is an unknown coupled
// through interfacial exchange terms.
func (m ModelType) PhaseInteraction() bool { return m == TwoPhase }

// VariableID enumerates the root primary variables of the two-phase model.
// Derivative entries in the evaluation context are always taken with respect
// to these.
type VariableID int

const (
	AA1 VariableID = iota // volume fraction times area, phase 1
	ARhoA1
	ARhoUA1
	ARhoEA1
	ARhoA2
	ARhoUA2
	ARhoEA2
	NumVariables
)

var variableNames = []string{"aA1", "arhoA1", "arhouA1", "arhoEA1", "arhoA2", "arhouA2", "arhoEA2"}

func (v VariableID) String() string { return variableNames[v] }

// ParseVariable resolves a primary variable by name.
func ParseVariable(s string) (v VariableID, err error) {
	for i, name := range variableNames {
		if s == name {
			return VariableID(i), nil
		}
	}
	err = fmt.Errorf("unknown variable: %q", s)
	return
}

// Per-phase accessors for the conserved variables.
func ARhoA(phase int) VariableID  { return ARhoA1 + VariableID(3*phase) }
func ARhoUA(phase int) VariableID { return ARhoUA1 + VariableID(3*phase) }
func ARhoEA(phase int) VariableID { return ARhoEA1 + VariableID(3*phase) }

// Variables returns the solved-for variables of the model, in DOF order.
func (m ModelType) Variables() (vars []VariableID) {
	if m == TwoPhase {
		vars = append(vars, AA1)
	}
	for phase := 0; phase < m.Phases(); phase++ {
		vars = append(vars, ARhoA(phase), ARhoUA(phase), ARhoEA(phase))
	}
	return
}
