package ik

import (
	"math"

	"github.com/jakecoffman/cp/v2"

	"github.com/san-kum/kinesim/internal/chain"
	"github.com/san-kum/kinesim/internal/dynamo"
)

const (
	DefaultSegment       = 80.0
	DefaultReachFraction = 0.95
	DefaultBaseOffset    = 0.1
)

// LegSpec describes a three-segment limb with lengths 2L, 1.5L and L, and a
// leader segment of 2L that steers the first joint. MaxJointDeg of zero
// leaves the middle joint unconstrained.
type LegSpec struct {
	Segment       float64 `yaml:"segment"`
	ReachFraction float64 `yaml:"reach_fraction"`
	Iterations    int     `yaml:"iterations"`
	Bias          float64 `yaml:"bias"`
	BaseOffset    float64 `yaml:"base_offset"`
	TieBreak      string  `yaml:"tie_break"`
	MaxJointDeg   float64 `yaml:"max_joint_deg"`
}

func DefaultLegSpec() LegSpec {
	return LegSpec{
		Segment:       DefaultSegment,
		ReachFraction: DefaultReachFraction,
		Iterations:    DefaultIterations,
		Bias:          DefaultBias,
		BaseOffset:    DefaultBaseOffset,
		TieBreak:      "lower",
	}
}

func (s LegSpec) Validate() error {
	switch {
	case s.Segment <= 0:
		return dynamo.Invalid("ik", "segment", s.Segment, "must be positive")
	case s.ReachFraction <= 0 || s.ReachFraction > 1:
		return dynamo.Invalid("ik", "reach_fraction", s.ReachFraction, "must be in (0,1]")
	case s.Iterations < 1:
		return dynamo.Invalid("ik", "iterations", s.Iterations, "must be at least 1")
	case s.Bias < 0:
		return dynamo.Invalid("ik", "bias", s.Bias, "must not be negative")
	case s.BaseOffset < 0:
		return dynamo.Invalid("ik", "base_offset", s.BaseOffset, "must not be negative")
	case s.MaxJointDeg < 0 || s.MaxJointDeg > 180:
		return dynamo.Invalid("ik", "max_joint_deg", s.MaxJointDeg, "must be in [0,180]")
	}
	if _, err := ParseTieBreak(s.TieBreak); err != nil {
		return dynamo.Invalid("ik", "tie_break", s.TieBreak, "is not a known policy")
	}
	return nil
}

// Leg owns a four-node chain whose node 0 is the pinned base. Solve writes
// the joint positions back into that chain and keeps nothing else between
// calls except the leader tip.
type Leg struct {
	spec     LegSpec
	model    *chain.Model
	leader   dynamo.Vec
	leaderL  float64
	maxReach float64
	maxJoint float64
	policy   TieBreak
	side     Side
}

func NewLeg(spec LegSpec, base dynamo.Vec) (*Leg, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	policy, _ := ParseTieBreak(spec.TieBreak)

	l := spec.Segment
	model, err := chain.New(chain.Spec{
		Count:      4,
		Lengths:    []float64{2 * l, 1.5 * l, l},
		MaxBendDeg: 180,
		PinnedHead: true,
	}, base, dynamo.V(1, 0))
	if err != nil {
		return nil, err
	}

	leg := &Leg{
		spec:     spec,
		model:    model,
		leaderL:  2 * l,
		maxReach: model.TotalLength() * spec.ReachFraction,
		maxJoint: dynamo.Rad(spec.MaxJointDeg),
		policy:   policy,
		side:     Starboard,
	}
	leg.leader = model.Node(3).Pos.Add(dynamo.V(leg.leaderL, 0))
	return leg, nil
}

func (g *Leg) Model() *chain.Model  { return g.model }
func (g *Leg) Base() dynamo.Vec     { return g.model.Node(0).Pos }
func (g *Leg) Leader() dynamo.Vec   { return g.leader }
func (g *Leg) Side() Side           { return g.side }
func (g *Leg) MaxReach() float64    { return g.maxReach }
func (g *Leg) Joints() []dynamo.Vec { return g.model.Positions() }
func (g *Leg) End() dynamo.Vec      { return g.model.Node(3).Pos }
func (g *Leg) SetBase(p dynamo.Vec) { g.model.SetPosition(0, p) }
func (g *Leg) Lengths() []float64   { return g.model.Lengths() }
func (g *Leg) SetPolicy(p TieBreak) { g.policy = p }

// Solve reaches for target and returns the clamped target actually used.
//
// The first joint comes from a solve of the first segment paired with the
// leader. The remaining two segments are solved from bases offset slightly to
// either side of the leader line and the tie-break picks one.
func (g *Leg) Solve(target dynamo.Vec) dynamo.Vec {
	base := g.Base()
	lengths := g.model.Lengths()
	target = ClampTarget(base, target, g.maxReach)

	lead := Solve(g.request(base, target, lengths[0], g.leaderL), g.policy)
	j1 := lead.Elbow
	g.leader = lead.End

	heading := dynamo.Heading(j1, g.leader)
	port := SolveSide(g.request(j1.Add(cp.ForAngle(heading+math.Pi/2).Mult(g.spec.BaseOffset)), target, lengths[1], lengths[2]), Port)
	star := SolveSide(g.request(j1.Add(cp.ForAngle(heading-math.Pi/2).Mult(g.spec.BaseOffset)), target, lengths[1], lengths[2]), Starboard)
	chosen := g.policy(port, star)
	g.side = chosen.Side

	j2 := pull(j1, chosen.Elbow, lengths[1])
	end := pull(j2, chosen.End, lengths[2])

	if g.maxJoint > 0 {
		parent := dynamo.Heading(base, j1)
		if turn, clamped := dynamo.ClampTurn(dynamo.Heading(j1, j2)-parent, g.maxJoint); clamped {
			j2 = j1.Add(cp.ForAngle(parent + turn).Mult(lengths[1]))
			end = pull(j2, target, lengths[2])
		}
	}

	g.model.SetPosition(1, j1)
	g.model.SetPosition(2, j2)
	g.model.SetPosition(3, end)
	return target
}

func (g *Leg) request(base, target dynamo.Vec, l1, l2 float64) Request {
	return Request{
		Base:       base,
		Target:     target,
		L1:         l1,
		L2:         l2,
		Iterations: g.spec.Iterations,
		Bias:       g.spec.Bias,
	}
}

// SegmentAngles reports each segment's heading in degrees, counter-clockwise
// as seen on screen from the +x axis, in [0, 360).
func (g *Leg) SegmentAngles() []float64 {
	pts := g.model.Positions()
	out := make([]float64, len(pts)-1)
	for i := range out {
		a := math.Mod(-dynamo.Deg(dynamo.Heading(pts[i], pts[i+1])), 360)
		if a < 0 {
			a += 360
		}
		out[i] = a
	}
	return out
}
