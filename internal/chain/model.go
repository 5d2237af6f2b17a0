package chain

import (
	"fmt"
	"math"

	"github.com/san-kum/kinesim/internal/dynamo"
)

const (
	DefaultCount      = 14
	DefaultLength     = 22.5
	DefaultRadius     = 15.0
	DefaultMaxBendDeg = 20.0
)

// DefaultRadiusScale is the per-node body profile of the fish preset, one
// entry per node of a DefaultCount chain.
var DefaultRadiusScale = []float64{1, 1.65, 2, 2, 1.75, 1.5, 1.25, 1, 0.75, 0.5, 0.25, 0.25, 0.25, 0.75}

type Node struct {
	Pos    dynamo.Vec
	Pinned bool
	Radius float64
}

type Kind int

const (
	Distance Kind = iota
	Bend
)

func (k Kind) String() string {
	if k == Bend {
		return "bend"
	}
	return "distance"
}

// Constraint references nodes by index. Distance uses A and B = A+1; Bend
// uses the consecutive triple A, B, C.
type Constraint struct {
	Kind     Kind
	A, B, C  int
	Length   float64
	MaxAngle float64
}

// Spec describes a chain. Lengths, when set, is the full per-segment table;
// otherwise every segment is Length except the last len(TailLengths), which
// take their values from TailLengths.
type Spec struct {
	Count       int       `yaml:"count"`
	Length      float64   `yaml:"length"`
	Lengths     []float64 `yaml:"lengths,omitempty"`
	TailLengths []float64 `yaml:"tail_lengths,omitempty"`
	Radius      float64   `yaml:"radius"`
	RadiusScale []float64 `yaml:"radius_scale,omitempty"`
	MaxBendDeg  float64   `yaml:"max_bend_deg"`
	PinnedHead  bool      `yaml:"pinned_head"`
}

func DefaultSpec() Spec {
	return Spec{
		Count:       DefaultCount,
		Length:      DefaultLength,
		TailLengths: []float64{DefaultLength / 2, DefaultLength / 2},
		Radius:      DefaultRadius,
		RadiusScale: DefaultRadiusScale,
		MaxBendDeg:  DefaultMaxBendDeg,
		PinnedHead:  true,
	}
}

// SegmentLengths expands the spec into Count-1 rest lengths.
func (s Spec) SegmentLengths() ([]float64, error) {
	if s.Count < 2 {
		return nil, dynamo.Invalid("chain", "count", s.Count, "must be at least 2")
	}
	n := s.Count - 1
	if len(s.Lengths) > 0 {
		if len(s.Lengths) != n {
			return nil, dynamo.Invalid("chain", "lengths", len(s.Lengths), "must have count-1 entries")
		}
		out := make([]float64, n)
		copy(out, s.Lengths)
		return out, checkLengths(out)
	}
	if len(s.TailLengths) > n {
		return nil, dynamo.Invalid("chain", "tail_lengths", len(s.TailLengths), "longer than the chain")
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Length
	}
	copy(out[n-len(s.TailLengths):], s.TailLengths)
	return out, checkLengths(out)
}

func checkLengths(lengths []float64) error {
	for i, l := range lengths {
		if !(l > 0) || math.IsInf(l, 0) {
			return dynamo.Invalid("chain", fmt.Sprintf("lengths[%d]", i), l, "must be positive and finite")
		}
	}
	return nil
}

func (s Spec) Validate() error {
	if _, err := s.SegmentLengths(); err != nil {
		return err
	}
	if s.MaxBendDeg <= 0 || s.MaxBendDeg > 180 {
		return dynamo.Invalid("chain", "max_bend_deg", s.MaxBendDeg, "must be in (0,180]")
	}
	if s.Radius < 0 {
		return dynamo.Invalid("chain", "radius", s.Radius, "must not be negative")
	}
	if len(s.RadiusScale) != 0 && len(s.RadiusScale) != s.Count {
		return dynamo.Invalid("chain", "radius_scale", len(s.RadiusScale), "must be empty or have one entry per node")
	}
	return nil
}

// Model is an index-addressed arena of nodes plus the constraints generated
// from its spec. Rest lengths never change after construction.
type Model struct {
	nodes       []Node
	lengths     []float64
	constraints []Constraint
	maxBend     float64
}

// New lays the chain out straight from origin along dir.
func New(spec Spec, origin, dir dynamo.Vec) (*Model, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	lengths, _ := spec.SegmentLengths()

	m := &Model{
		nodes:   make([]Node, spec.Count),
		lengths: lengths,
		maxBend: dynamo.Rad(spec.MaxBendDeg),
	}
	for i := range m.nodes {
		scale := 1.0
		if i < len(spec.RadiusScale) {
			scale = spec.RadiusScale[i]
		}
		m.nodes[i].Radius = spec.Radius * scale
	}
	m.nodes[0].Pinned = spec.PinnedHead

	for i, l := range lengths {
		m.constraints = append(m.constraints, Constraint{Kind: Distance, A: i, B: i + 1, Length: l})
	}
	for i := 1; i < spec.Count-1; i++ {
		m.constraints = append(m.constraints, Constraint{Kind: Bend, A: i - 1, B: i, C: i + 1, MaxAngle: m.maxBend})
	}

	m.Layout(origin, dir)
	return m, nil
}

// Layout places every node at rest length along a straight line.
func (m *Model) Layout(origin, dir dynamo.Vec) {
	if dir.LengthSq() == 0 {
		dir = dynamo.V(0, 1)
	}
	dir = dir.Normalize()
	p := origin
	m.nodes[0].Pos = p
	for i, l := range m.lengths {
		p = p.Add(dir.Mult(l))
		m.nodes[i+1].Pos = p
	}
}

func (m *Model) Len() int              { return len(m.nodes) }
func (m *Model) Node(i int) Node       { return m.nodes[i] }
func (m *Model) MaxBend() float64      { return m.maxBend }
func (m *Model) Segment(i int) float64 { return m.lengths[i] }

func (m *Model) SetPosition(i int, p dynamo.Vec) { m.nodes[i].Pos = p }
func (m *Model) Pin(i int, pinned bool)          { m.nodes[i].Pinned = pinned }

func (m *Model) Positions() []dynamo.Vec {
	return m.AppendPositions(make([]dynamo.Vec, 0, len(m.nodes)))
}

// AppendPositions appends the node positions to dst.
func (m *Model) AppendPositions(dst []dynamo.Vec) []dynamo.Vec {
	for _, n := range m.nodes {
		dst = append(dst, n.Pos)
	}
	return dst
}

func (m *Model) Lengths() []float64 {
	out := make([]float64, len(m.lengths))
	copy(out, m.lengths)
	return out
}

func (m *Model) Constraints() []Constraint {
	out := make([]Constraint, len(m.constraints))
	copy(out, m.constraints)
	return out
}

// TotalLength is the sum of the rest lengths.
func (m *Model) TotalLength() float64 {
	total := 0.0
	for _, l := range m.lengths {
		total += l
	}
	return total
}

// LengthError is the largest relative deviation of a segment from its rest length.
func (m *Model) LengthError() float64 {
	return LengthError(m.Positions(), m.lengths)
}

// MaxTurn is the largest absolute turn angle at an interior node, in radians.
func (m *Model) MaxTurn() float64 {
	return MaxTurn(m.Positions())
}

// LengthError compares consecutive point distances against rest lengths.
func LengthError(points []dynamo.Vec, lengths []float64) float64 {
	worst := 0.0
	for i := 0; i+1 < len(points) && i < len(lengths); i++ {
		d := points[i].Distance(points[i+1])
		worst = math.Max(worst, math.Abs(d-lengths[i])/lengths[i])
	}
	return worst
}

func MaxTurn(points []dynamo.Vec) float64 {
	worst := 0.0
	for i := 1; i+1 < len(points); i++ {
		a1 := dynamo.Heading(points[i-1], points[i])
		a2 := dynamo.Heading(points[i], points[i+1])
		worst = math.Max(worst, math.Abs(dynamo.NormalizeAngle(a2-a1)))
	}
	return worst
}

