package rigid

import (
	"github.com/jakecoffman/cp/v2"

	"github.com/san-kum/kinesim/internal/dynamo"
)

const (
	DefaultWidth             = 80.0
	DefaultHeight            = 40.0
	DefaultMass              = 1.0
	DefaultRestitution       = 0.1
	DefaultFriction          = 0.8
	DefaultMinBounceSpeed    = 0.5
	DefaultGravity           = 0.5
	DefaultLinearDamping     = 0.98
	DefaultAngularDamping    = 0.95
	DefaultIterations        = 10
	DefaultHardImpact        = 10.0
	DefaultHardImpactDamping = 0.8

	// DefaultFrictionImpulseScale is the normal impulse at which friction
	// reaches full strength.
	DefaultFrictionImpulseScale = 10.0
)

// Config covers the box, the per-tick integration and the contact solver.
// Velocities are in units per tick; gravity is added to vy every tick.
type Config struct {
	Width             float64 `yaml:"width"`
	Height            float64 `yaml:"height"`
	Mass              float64 `yaml:"mass"`
	Restitution       float64 `yaml:"restitution"`
	Friction          float64 `yaml:"friction"`
	MinBounceSpeed    float64 `yaml:"min_bounce_speed"`
	Gravity           float64 `yaml:"gravity"`
	LinearDamping     float64 `yaml:"linear_damping"`
	AngularDamping    float64 `yaml:"angular_damping"`
	Iterations        int     `yaml:"iterations"`
	HardImpact        float64 `yaml:"hard_impact"`
	HardImpactDamping float64 `yaml:"hard_impact_damping"`

	FrictionImpulseScale float64 `yaml:"friction_impulse_scale"`
}

func DefaultConfig() Config {
	return Config{
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		Mass:              DefaultMass,
		Restitution:       DefaultRestitution,
		Friction:          DefaultFriction,
		MinBounceSpeed:    DefaultMinBounceSpeed,
		Gravity:           DefaultGravity,
		LinearDamping:     DefaultLinearDamping,
		AngularDamping:    DefaultAngularDamping,
		Iterations:        DefaultIterations,
		HardImpact:        DefaultHardImpact,
		HardImpactDamping: DefaultHardImpactDamping,

		FrictionImpulseScale: DefaultFrictionImpulseScale,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return dynamo.Invalid("body", "width/height", [2]float64{c.Width, c.Height}, "must be positive")
	case c.Mass <= 0:
		return dynamo.Invalid("body", "mass", c.Mass, "must be positive")
	case c.Restitution < 0 || c.Restitution > 1:
		return dynamo.Invalid("body", "restitution", c.Restitution, "must be in [0,1]")
	case c.Friction < 0:
		return dynamo.Invalid("body", "friction", c.Friction, "must not be negative")
	case c.FrictionImpulseScale <= 0:
		return dynamo.Invalid("body", "friction_impulse_scale", c.FrictionImpulseScale, "must be positive")
	case c.MinBounceSpeed < 0:
		return dynamo.Invalid("body", "min_bounce_speed", c.MinBounceSpeed, "must not be negative")
	case c.LinearDamping <= 0 || c.LinearDamping > 1:
		return dynamo.Invalid("body", "linear_damping", c.LinearDamping, "must be in (0,1]")
	case c.AngularDamping <= 0 || c.AngularDamping > 1:
		return dynamo.Invalid("body", "angular_damping", c.AngularDamping, "must be in (0,1]")
	case c.Iterations < 1:
		return dynamo.Invalid("body", "iterations", c.Iterations, "must be at least 1")
	case c.HardImpactDamping <= 0 || c.HardImpactDamping > 1:
		return dynamo.Invalid("body", "hard_impact_damping", c.HardImpactDamping, "must be in (0,1]")
	}
	return nil
}

// MomentForBox is the moment of inertia of a solid w x h box about its centre.
func MomentForBox(m, w, h float64) float64 {
	return m * (w*w + h*h) / 12
}

// Body is a rectangle moving in the plane. Pos is the centre; Angle rotates
// the box in screen space.
type Body struct {
	Pos    dynamo.Vec
	Angle  float64
	Vel    dynamo.Vec
	AngVel float64

	cfg     Config
	inertia float64
	grabbed bool
}

func New(cfg Config, pos dynamo.Vec) (*Body, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Body{
		Pos:     pos,
		cfg:     cfg,
		inertia: MomentForBox(cfg.Mass, cfg.Width, cfg.Height),
	}, nil
}

func (b *Body) Config() Config   { return b.cfg }
func (b *Body) Mass() float64    { return b.cfg.Mass }
func (b *Body) Inertia() float64 { return b.inertia }
func (b *Body) Grabbed() bool    { return b.grabbed }

// Corners returns the four box corners, starting bottom-right at zero angle
// and winding through bottom-left, top-left and top-right.
func (b *Body) Corners() [4]dynamo.Vec {
	hw, hh := b.cfg.Width/2, b.cfg.Height/2
	rot := cp.ForAngle(b.Angle)
	local := [4]dynamo.Vec{{X: hw, Y: hh}, {X: -hw, Y: hh}, {X: -hw, Y: -hh}, {X: hw, Y: -hh}}
	var out [4]dynamo.Vec
	for i, l := range local {
		out[i] = b.Pos.Add(l.Rotate(rot))
	}
	return out
}

// Integrate applies gravity and damping and advances the pose by one tick.
// A grabbed body does not move.
func (b *Body) Integrate() {
	if b.grabbed {
		return
	}
	b.Vel.Y += b.cfg.Gravity
	b.Vel = b.Vel.Mult(b.cfg.LinearDamping)
	b.AngVel *= b.cfg.AngularDamping

	b.Pos = b.Pos.Add(b.Vel)
	b.Angle += b.AngVel
}

// Grab teleports the body and holds it there with zero velocity until Release.
func (b *Body) Grab(pos dynamo.Vec) {
	b.grabbed = true
	b.Pos = pos
	b.Vel = dynamo.Vec{}
	b.AngVel = 0
}

func (b *Body) Release() { b.grabbed = false }

func (b *Body) KineticEnergy() float64 {
	return 0.5*b.cfg.Mass*b.Vel.LengthSq() + 0.5*b.inertia*b.AngVel*b.AngVel
}

func (b *Body) State() dynamo.BodyState {
	return dynamo.BodyState{
		Pos:     b.Pos,
		Angle:   b.Angle,
		Vel:     b.Vel,
		AngVel:  b.AngVel,
		Corners: b.Corners(),
		Energy:  b.KineticEnergy(),
		Grabbed: b.grabbed,
	}
}

// velocityAt is the velocity of the body point at offset r from the centre.
func (b *Body) velocityAt(r dynamo.Vec) dynamo.Vec {
	return b.Vel.Add(r.Perp().Mult(b.AngVel))
}

func (b *Body) applyImpulse(j, r dynamo.Vec) {
	b.Vel = b.Vel.Add(j.Mult(1 / b.cfg.Mass))
	b.AngVel += r.Cross(j) / b.inertia
}

func (b *Body) normalizeAngle() {
	b.Angle = dynamo.NormalizeAngle(b.Angle)
}
