package ik

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp/v2"

	"github.com/san-kum/kinesim/internal/dynamo"
)

const (
	DefaultIterations = 10
	DefaultBias       = 0.1
	epsilon           = 1e-9
)

// Side selects the elbow branch. Port bends toward +90° of the base-to-elbow
// heading, Starboard toward -90°.
type Side int

const (
	Port      Side = 1
	Starboard Side = -1
)

func (s Side) String() string {
	if s == Port {
		return "port"
	}
	return "starboard"
}

func (s Side) offset() float64 { return float64(s) * math.Pi / 2 }

// Request is a single two-segment solve. MaxReach of zero means L1+L2.
type Request struct {
	Base       dynamo.Vec
	Target     dynamo.Vec
	L1, L2     float64
	Iterations int
	Bias       float64
	MaxReach   float64
}

func NewRequest(base, target dynamo.Vec, l1, l2 float64) Request {
	return Request{
		Base:       base,
		Target:     target,
		L1:         l1,
		L2:         l2,
		Iterations: DefaultIterations,
		Bias:       DefaultBias,
	}
}

func (r Request) reach() float64 {
	if r.MaxReach > 0 {
		return r.MaxReach
	}
	return r.L1 + r.L2
}

type Result struct {
	Side   Side
	Elbow  dynamo.Vec
	End    dynamo.Vec
	Target dynamo.Vec
}

// Miss is the distance from the end effector to the (clamped) target.
func (r Result) Miss() float64 { return r.End.Distance(r.Target) }

// ClampTarget pulls target onto the circle of radius maxReach around base
// when it lies outside it.
func ClampTarget(base, target dynamo.Vec, maxReach float64) dynamo.Vec {
	d := target.Sub(base)
	if d.Length() <= maxReach {
		return target
	}
	return base.Add(cp.ForAngle(d.ToAngle()).Mult(maxReach))
}

// SolveSide runs FABRIK on one elbow branch. The chain starts straight along
// +x; each iteration reaches forward to the target, back to the base, and
// then pushes the elbow sideways by Bias. A last backward pass leaves both
// segments at their exact lengths.
func SolveSide(req Request, side Side) Result {
	target := ClampTarget(req.Base, req.Target, req.reach())
	base := req.Base
	elbow := base.Add(dynamo.V(req.L1, 0))
	end := elbow.Add(dynamo.V(req.L2, 0))

	for i := 0; i < req.Iterations; i++ {
		end = target
		elbow = pull(end, elbow, req.L2)

		elbow = pull(base, elbow, req.L1)
		end = pull(elbow, end, req.L2)

		heading := elbow.Sub(base).ToAngle()
		elbow = elbow.Add(cp.ForAngle(heading + side.offset()).Mult(req.Bias))
	}

	elbow = pull(base, elbow, req.L1)
	end = pull(elbow, end, req.L2)
	return Result{Side: side, Elbow: elbow, End: end, Target: target}
}

// Solve runs both branches and returns the one chosen by policy.
func Solve(req Request, policy TieBreak) Result {
	if policy == nil {
		policy = PreferLower
	}
	return policy(SolveSide(req, Port), SolveSide(req, Starboard))
}

// pull places p at distance length from anchor, keeping its direction.
func pull(anchor, p dynamo.Vec, length float64) dynamo.Vec {
	d := p.Sub(anchor)
	l := d.Length()
	if l < epsilon {
		return anchor.Add(dynamo.V(length, 0))
	}
	return anchor.Add(d.Mult(length / l))
}

// TieBreak picks between the port and starboard solutions. Policies must be
// pure functions of their arguments.
type TieBreak func(port, starboard Result) Result

// PreferLower keeps the solution whose joints sit lower on screen (larger
// summed y). Equal sums resolve to starboard.
func PreferLower(port, starboard Result) Result {
	if port.Elbow.Y+port.End.Y > starboard.Elbow.Y+starboard.End.Y {
		return port
	}
	return starboard
}

// PreferUpper is the mirror of PreferLower. Equal sums resolve to port.
func PreferUpper(port, starboard Result) Result {
	if starboard.Elbow.Y+starboard.End.Y < port.Elbow.Y+port.End.Y {
		return starboard
	}
	return port
}

// PreferSide always returns the given branch.
func PreferSide(s Side) TieBreak {
	return func(port, starboard Result) Result {
		if s == Port {
			return port
		}
		return starboard
	}
}

// ParseTieBreak maps a configuration name to a policy.
func ParseTieBreak(name string) (TieBreak, error) {
	switch name {
	case "", "lower":
		return PreferLower, nil
	case "upper":
		return PreferUpper, nil
	case "port":
		return PreferSide(Port), nil
	case "starboard":
		return PreferSide(Starboard), nil
	}
	return nil, fmt.Errorf("tie_break %q: %w", name, dynamo.ErrUnknownKind)
}
