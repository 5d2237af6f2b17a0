package target

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/kinesim/internal/dynamo"
)

type FootState int

const (
	Grounded FootState = iota
	Airborne
	Repositioning
)

func (s FootState) String() string {
	switch s {
	case Grounded:
		return "grounded"
	case Airborne:
		return "airborne"
	}
	return "repositioning"
}

// Foot is one leg tip of a crawler. Offset is its rest position along x
// relative to the body centre.
type Foot struct {
	Pos    dynamo.Vec
	Vel    dynamo.Vec
	State  FootState
	Offset float64
	Steps  int
}

// GaitConfig describes a crawler body hovering on a spring above the ground
// while its feet step to keep up.
type GaitConfig struct {
	StartX         float64   `yaml:"start_x"`
	Speed          float64   `yaml:"speed"`
	HoverHeight    float64   `yaml:"hover_height"`
	HoverFrequency float64   `yaml:"hover_frequency"`
	HoverDamping   float64   `yaml:"hover_damping"`
	FPS            int       `yaml:"fps"`
	FootOffsets    []float64 `yaml:"foot_offsets"`
	LeadThreshold  float64   `yaml:"lead_threshold"`
	TrailThreshold float64   `yaml:"trail_threshold"`
	Spacing        float64   `yaml:"spacing"`
	ArcHeight      float64   `yaml:"arc_height"`
	DropSpeed      float64   `yaml:"drop_speed"`
	Gravity        float64   `yaml:"gravity"`
	Damping        float64   `yaml:"damping"`
	Bounce         float64   `yaml:"bounce"`
	BodyHeight     float64   `yaml:"body_height"`
}

// The hover spring defaults approximate a per-tick spring constant of 0.1
// with a 0.9 velocity decay at 60 ticks per second.
func DefaultGaitConfig() GaitConfig {
	return GaitConfig{
		StartX:         400,
		Speed:          2,
		HoverHeight:    50,
		HoverFrequency: 19,
		HoverDamping:   0.17,
		FPS:            60,
		FootOffsets:    []float64{-20, -10, 20},
		LeadThreshold:  15,
		TrailThreshold: 25,
		Spacing:        20,
		ArcHeight:      30,
		DropSpeed:      4,
		Gravity:        0.5,
		Damping:        0.8,
		Bounce:         0.1,
		BodyHeight:     20,
	}
}

func (c GaitConfig) Validate() error {
	switch {
	case len(c.FootOffsets) == 0:
		return dynamo.Invalid("target", "foot_offsets", 0, "need at least one foot")
	case c.FPS < 1:
		return dynamo.Invalid("target", "fps", c.FPS, "must be at least 1")
	case c.HoverFrequency <= 0:
		return dynamo.Invalid("target", "hover_frequency", c.HoverFrequency, "must be positive")
	case c.HoverDamping < 0:
		return dynamo.Invalid("target", "hover_damping", c.HoverDamping, "must not be negative")
	case c.Damping < 0 || c.Damping > 1:
		return dynamo.Invalid("target", "damping", c.Damping, "must be in [0,1]")
	case c.LeadThreshold <= 0 || c.TrailThreshold <= 0:
		return dynamo.Invalid("target", "lead_threshold/trail_threshold", [2]float64{c.LeadThreshold, c.TrailThreshold}, "must be positive")
	}
	return nil
}

// Gait is a crawler walking across the terrain at constant speed. Next
// advances it one tick and returns the body centre, so a chain can trail it.
type Gait struct {
	cfg    GaitConfig
	spring harmonica.Spring
	body   dynamo.Vec
	bodyV  float64
	tilt   float64
	feet   []Foot
	primed bool
}

func NewGait(cfg GaitConfig) (*Gait, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Gait{
		cfg:    cfg,
		spring: harmonica.NewSpring(harmonica.FPS(cfg.FPS), cfg.HoverFrequency, cfg.HoverDamping),
		body:   dynamo.V(cfg.StartX, 0),
		feet:   make([]Foot, len(cfg.FootOffsets)),
	}
	for i, off := range cfg.FootOffsets {
		g.feet[i] = Foot{Offset: off, State: Airborne}
	}
	return g, nil
}

func (g *Gait) Body() dynamo.Vec { return g.body }
func (g *Gait) Tilt() float64    { return g.tilt }

func (g *Gait) Feet() []Foot {
	out := make([]Foot, len(g.feet))
	copy(out, g.feet)
	return out
}

// FootPositions satisfies the frame feet reporter used by sim.
func (g *Gait) FootPositions() []dynamo.Vec {
	out := make([]dynamo.Vec, len(g.feet))
	for i, f := range g.feet {
		out[i] = f.Pos
	}
	return out
}

func (g *Gait) Next(_ int, q dynamo.HeightQuery) dynamo.Vec {
	if !g.primed {
		g.prime(q)
	}
	g.body.X += g.cfg.Speed

	rest := q.QueryHeight(g.body.X).Height - g.cfg.HoverHeight
	g.body.Y, g.bodyV = g.spring.Update(g.body.Y, g.bodyV, rest)

	for i := range g.feet {
		g.stepFoot(&g.feet[i], q)
	}
	g.tilt = g.computeTilt()
	return g.body
}

func (g *Gait) prime(q dynamo.HeightQuery) {
	g.body.Y = q.QueryHeight(g.body.X).Height - g.cfg.HoverHeight
	for i := range g.feet {
		f := &g.feet[i]
		f.Pos = dynamo.V(g.body.X+f.Offset, g.body.Y+g.cfg.BodyHeight/2)
	}
	g.primed = true
}

// stepFoot runs one transition of the foot state machine. A foot that has
// fallen too far behind its rest spot, measured along the direction of
// travel, is lifted and dropped ahead; otherwise it falls under gravity and
// settles on the ground.
func (g *Gait) stepFoot(f *Foot, q dynamo.HeightQuery) {
	ideal := g.body.X + f.Offset
	dir := 1.0
	if g.cfg.Speed < 0 {
		dir = -1
	}
	threshold := g.cfg.TrailThreshold
	if f.Offset > 0 {
		threshold = g.cfg.LeadThreshold
	}

	if (f.Pos.X-ideal)*dir < -threshold {
		x := ideal + dir*g.cfg.Spacing*3
		f.Pos = dynamo.V(x, q.QueryHeight(x).Height-g.cfg.ArcHeight*1.5)
		f.Vel = dynamo.V(0, g.cfg.DropSpeed)
		f.State = Repositioning
		f.Steps++
		return
	}

	f.Vel.Y += g.cfg.Gravity
	f.Pos = f.Pos.Add(f.Vel)
	ground := q.QueryHeight(f.Pos.X).Height
	if f.Pos.Y > ground {
		f.Pos.Y = ground
		f.Vel.Y *= -g.cfg.Bounce
		f.State = Grounded
	} else {
		f.State = Airborne
	}
	f.Vel = f.Vel.Mult(g.cfg.Damping)
}

// computeTilt averages the rear feet against the front feet and takes half
// the resulting angle.
func (g *Gait) computeTilt() float64 {
	var rear, front dynamo.Vec
	var nr, nf float64
	for _, f := range g.feet {
		if f.Offset < 0 {
			rear = rear.Add(f.Pos)
			nr++
		} else {
			front = front.Add(f.Pos)
			nf++
		}
	}
	if nr == 0 || nf == 0 {
		return 0
	}
	rear = rear.Mult(1 / nr)
	front = front.Mult(1 / nf)
	return math.Atan2(front.Y-rear.Y, front.X-rear.X) * 0.5
}
