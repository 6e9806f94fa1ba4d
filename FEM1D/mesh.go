package FEM1D

// HeatTransferData carries the wall heat transfer parameters of a segment.
type HeatTransferData struct {
	TWall   float64 // wall temperature
	HTCWall float64 // wall heat transfer coefficient
	PHeat   float64 // heated perimeter
}

// Segment is one straight run of the 1D flow network. Nodes are local to the
// segment; junctions couple end nodes of different segments.
type Segment struct {
	Name         string
	XMin, Length float64
	NCells       int
	Orientation  float64 // ±1, direction of the local x axis
	Area         func(x float64) float64
	AreaGradient func(x float64) float64
	HT           HeatTransferData
}

// UniformSegment builds a constant-area segment.
func UniformSegment(name string, xMin, length float64, nCells int, area float64) Segment {
	return Segment{
		Name:         name,
		XMin:         xMin,
		Length:       length,
		NCells:       nCells,
		Orientation:  1,
		Area:         func(x float64) float64 { return area },
		AreaGradient: func(x float64) float64 { return 0 },
	}
}

// Mesh is an ordered collection of segments with cells and nodes numbered
// globally, segments first-to-last.
type Mesh struct {
	Segments []Segment
	Gravity  float64 // gravitational acceleration magnitude

	NCells, NNodes int
	ElemToSeg      []int     // cell -> owning segment
	CellNode       []int     // cell -> first global node
	H              []float64 // cell sizes
	XNode          []float64 // global node coordinates
}

func NewMesh(segments []Segment, gravity float64) (m *Mesh) {
	m = &Mesh{
		Segments: segments,
		Gravity:  gravity,
	}
	for iSeg, seg := range segments {
		h := seg.Length / float64(seg.NCells)
		firstNode := m.NNodes
		for e := 0; e < seg.NCells; e++ {
			m.ElemToSeg = append(m.ElemToSeg, iSeg)
			m.CellNode = append(m.CellNode, firstNode+e)
			m.H = append(m.H, h)
		}
		for k := 0; k <= seg.NCells; k++ {
			m.XNode = append(m.XNode, seg.XMin+float64(k)*h)
		}
		m.NCells += seg.NCells
		m.NNodes += seg.NCells + 1
	}
	return
}

// SegmentOf returns the segment owning cell e.
func (m *Mesh) SegmentOf(e int) *Segment { return &m.Segments[m.ElemToSeg[e]] }

// GravityProjection is the gravity component along the segment of cell e.
func (m *Mesh) GravityProjection(e int) float64 {
	return m.SegmentOf(e).Orientation * m.Gravity
}

// FirstNode and LastNode give the global end nodes of a segment; junction
// constructors use them to couple segments.
func (m *Mesh) FirstNode(iSeg int) (node int) {
	for i := 0; i < iSeg; i++ {
		node += m.Segments[i].NCells + 1
	}
	return
}

func (m *Mesh) LastNode(iSeg int) int {
	return m.FirstNode(iSeg) + m.Segments[iSeg].NCells
}
