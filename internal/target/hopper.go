package target

import (
	"math"

	"github.com/jakecoffman/cp/v2"

	"github.com/san-kum/kinesim/internal/dynamo"
)

type HopState int

const (
	HopGrounded HopState = iota
	HopAirborne
	HopJumping
)

func (s HopState) String() string {
	switch s {
	case HopGrounded:
		return "grounded"
	case HopAirborne:
		return "airborne"
	}
	return "jumping"
}

// HopConfig drives a point that slides along the ground away from an anchor
// and hops back toward it once it strays past LiftThreshold.
type HopConfig struct {
	StartX        float64 `yaml:"start_x"`
	StartY        float64 `yaml:"start_y"`
	LiftThreshold float64 `yaml:"lift_threshold"`
	LandDistance  float64 `yaml:"land_distance"`
	LiftHeight    float64 `yaml:"lift_height"`
	JumpTicks     int     `yaml:"jump_ticks"`
	Gravity       float64 `yaml:"gravity"`
	Friction      float64 `yaml:"friction"`
	Drift         float64 `yaml:"drift"`
	MinX          float64 `yaml:"min_x"`
	MaxX          float64 `yaml:"max_x"`
}

func DefaultHopConfig() HopConfig {
	return HopConfig{
		StartX:        450,
		StartY:        400,
		LiftThreshold: 269,
		LandDistance:  120,
		LiftHeight:    75,
		JumpTicks:     45,
		Gravity:       0.5,
		Friction:      0.95,
		Drift:         1,
		MinX:          0,
		MaxX:          1200,
	}
}

func (c HopConfig) Validate() error {
	switch {
	case c.LiftThreshold <= 0:
		return dynamo.Invalid("target", "lift_threshold", c.LiftThreshold, "must be positive")
	case c.LandDistance < 0 || c.LandDistance >= c.LiftThreshold:
		return dynamo.Invalid("target", "land_distance", c.LandDistance, "must be in [0, lift_threshold)")
	case c.JumpTicks < 1:
		return dynamo.Invalid("target", "jump_ticks", c.JumpTicks, "must be at least 1")
	case c.MaxX <= c.MinX:
		return dynamo.Invalid("target", "max_x", c.MaxX, "must exceed min_x")
	}
	return nil
}

type Hopper struct {
	cfg    HopConfig
	anchor dynamo.Vec
	pos    dynamo.Vec
	vel    dynamo.Vec
	state  HopState

	jumpStart int
	from, to  dynamo.Vec
	jumps     int
}

func NewHopper(cfg HopConfig, anchor dynamo.Vec) (*Hopper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Hopper{
		cfg:    cfg,
		anchor: anchor,
		pos:    dynamo.V(cfg.StartX, cfg.StartY),
		state:  HopAirborne,
	}, nil
}

func (h *Hopper) State() HopState        { return h.state }
func (h *Hopper) Pos() dynamo.Vec        { return h.pos }
func (h *Hopper) Jumps() int             { return h.jumps }
func (h *Hopper) SetAnchor(a dynamo.Vec) { h.anchor = a }
func (h *Hopper) Anchor() dynamo.Vec     { return h.anchor }

func (h *Hopper) Next(tick int, q dynamo.HeightQuery) dynamo.Vec {
	if h.state != HopJumping && h.pos.Distance(h.anchor) > h.cfg.LiftThreshold {
		h.startJump(tick)
	}

	if h.state == HopJumping {
		h.jump(tick)
	} else {
		h.fall(q)
	}

	if h.pos.X < h.cfg.MinX {
		h.pos.X, h.vel.X = h.cfg.MinX, 0
	} else if h.pos.X > h.cfg.MaxX {
		h.pos.X, h.vel.X = h.cfg.MaxX, 0
	}
	return h.pos
}

func (h *Hopper) startJump(tick int) {
	heading := h.pos.Sub(h.anchor).ToAngle()
	h.state = HopJumping
	h.jumpStart = tick
	h.from = h.pos
	h.to = dynamo.V(h.anchor.X+cp.ForAngle(heading).X*h.cfg.LandDistance, h.pos.Y-h.cfg.LiftHeight)
	h.jumps++
}

// jump eases y with sin² and x with smoothstep, then drops the point into
// free fall at the landing spot.
func (h *Hopper) jump(tick int) {
	progress := float64(tick-h.jumpStart) / float64(h.cfg.JumpTicks)
	if progress >= 1 {
		h.pos = h.to
		h.vel = dynamo.Vec{}
		h.state = HopAirborne
		return
	}
	sy := math.Sin(progress * math.Pi / 2)
	yp := sy * sy
	xp := progress * progress * (3 - 2*progress)
	h.pos = dynamo.V(
		h.from.X+(h.to.X-h.from.X)*xp,
		h.from.Y+(h.to.Y-h.from.Y)*yp,
	)
}

func (h *Hopper) fall(q dynamo.HeightQuery) {
	h.vel.Y += h.cfg.Gravity
	ground := q.QueryHeight(h.pos.X).Height
	if h.pos.Y < ground {
		h.state = HopAirborne
		h.pos = h.pos.Add(h.vel)
		return
	}

	h.state = HopGrounded
	h.pos.X += h.cfg.Drift
	h.pos.Y = q.QueryHeight(h.pos.X).Height
	h.vel.X = h.cfg.Drift * h.cfg.Friction
	if h.vel.Y > 0 {
		h.vel.Y = 0
	}
}
