package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParameters1D struct {
	Title          string                        `yaml:"Title"`
	Model          string                        `yaml:"Model"` // OnePhase, TwoPhaseNonInteracting, TwoPhase
	GroupFEM       bool                          `yaml:"GroupFEM"`
	LumpMassMatrix bool                          `yaml:"LumpMassMatrix"`
	Stabilization  string                        `yaml:"Stabilization"` // None or LaxFriedrichs
	NQ             int                           `yaml:"QuadraturePoints"`
	Gravity        float64                       `yaml:"Gravity"`
	Phases         []PhaseParameters             `yaml:"Phases"`
	Segments       []SegmentParameters           `yaml:"Segments"`
	IC             map[string]float64            `yaml:"IC"`  // uniform initial value per variable name
	BCs            map[string]map[string]float64 `yaml:"BCs"` // first key is BC name/type, second is parameter name
	MaxIterations  int                           `yaml:"MaxIterations"`
	Tolerance      float64                       `yaml:"Tolerance"`
	FinalTime      float64                       `yaml:"FinalTime"`
	DT             float64                       `yaml:"DT"`
}

type PhaseParameters struct {
	EOS   string  `yaml:"EOS"` // IdealGas or StiffenedGas
	Gamma float64 `yaml:"Gamma"`
	PInf  float64 `yaml:"PInf"`
}

type SegmentParameters struct {
	Name        string  `yaml:"Name"`
	XMin        float64 `yaml:"XMin"`
	Length      float64 `yaml:"Length"`
	NCells      int     `yaml:"NCells"`
	Orientation float64 `yaml:"Orientation"`
	Area        float64 `yaml:"Area"`
	TWall       float64 `yaml:"TWall"`
	HTCWall     float64 `yaml:"HTCWall"`
	PHeat       float64 `yaml:"PHeat"`
}

func (ip *InputParameters1D) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters1D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Model\n", ip.Model)
	fmt.Printf("[%v]\t\t\t= GroupFEM\n", ip.GroupFEM)
	fmt.Printf("[%v]\t\t\t= LumpMassMatrix\n", ip.LumpMassMatrix)
	fmt.Printf("[%s]\t\t= Stabilization\n", ip.Stabilization)
	fmt.Printf("%8.5f\t\t= Gravity\n", ip.Gravity)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	for i, ph := range ip.Phases {
		fmt.Printf("Phases[%d] = %+v\n", i+1, ph)
	}
	for _, seg := range ip.Segments {
		fmt.Printf("Segments[%s] = %+v\n", seg.Name, seg)
	}
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
