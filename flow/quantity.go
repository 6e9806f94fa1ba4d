package flow

import (
	"fmt"
	"strconv"
)

// QuantityID is an index into the per-cell evaluation context. IDs are
// allocated once at configuration time by a Registry; a lookup of a name that
// was never registered is a configuration error.
type QuantityID int

// Registry maps quantity names to context slots. It is built once during
// discretization setup and read-only thereafter.
type Registry struct {
	names []string
	ids   map[string]QuantityID
}

func NewRegistry() (r *Registry) {
	r = &Registry{
		ids: make(map[string]QuantityID),
	}
	return
}

// Register allocates a slot for name, returning the existing slot if the name
// is already known.
func (r *Registry) Register(name string) (q QuantityID) {
	if q, ok := r.ids[name]; ok {
		return q
	}
	q = QuantityID(len(r.names))
	r.names = append(r.names, name)
	r.ids[name] = q
	return
}

func (r *Registry) ID(name string) (q QuantityID, ok bool) {
	q, ok = r.ids[name]
	return
}

// MustID resolves a quantity name registered during setup. A miss means the
// configuration declared a dependency on a quantity that is never computed.
func (r *Registry) MustID(name string) (q QuantityID) {
	q, ok := r.ids[name]
	if !ok {
		err := fmt.Errorf("quantity %q is not registered: dependency on a quantity that is never computed", name)
		panic(err)
	}
	return
}

func (r *Registry) Name(q QuantityID) string { return r.names[q] }
func (r *Registry) Len() int                 { return len(r.names) }

// Quantity name builders. Phases are numbered from 0 internally but named
// from 1, following the variable naming of the flow model.
func phaseSuffix(phase int) string { return strconv.Itoa(phase + 1) }

func VolumeFractionName(phase int) string { return "vf" + phaseSuffix(phase) }
func SpecificVolumeName(phase int) string { return "v" + phaseSuffix(phase) }
func VelocityName(phase int) string       { return "u" + phaseSuffix(phase) }
func TotalEnergyName(phase int) string    { return "E" + phaseSuffix(phase) }
func InternalEnergyName(phase int) string { return "e" + phaseSuffix(phase) }
func PressureName(phase int) string       { return "p" + phaseSuffix(phase) }
func SoundSpeedName(phase int) string     { return "c" + phaseSuffix(phase) }

const (
	AreaName                = "A"
	AreaGradientName        = "grad_A"
	InterfacialVelocityName = "uI"
	InterfacialPressureName = "pI"
)

// GradientName names the interpolated gradient of a primary variable.
func GradientName(v VariableID) string { return "grad_" + v.String() }

// FluxName names the inviscid flux of a conserved variable; used by the
// group-FEM nodal flux quantities and their interpolated counterparts.
func FluxName(v VariableID) string { return "inviscflux_" + v.String() }

// ViscousCoefficientName names the stabilization viscous coefficient applied
// to a conserved variable.
func ViscousCoefficientName(v VariableID) string { return "visccoef_" + v.String() }
