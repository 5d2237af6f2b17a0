package optim

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/kinesim/internal/config"
	"github.com/san-kum/kinesim/internal/dynamo"
)

// Setter writes one tunable value into a config.
type Setter func(cfg *config.Config, v float64)

func round(v float64) int { return int(math.Round(v)) }

// setChainCount drops a radius profile that no longer fits the chain.
func setChainCount(c *config.Config, v float64) {
	c.Chain.Count = round(v)
	if len(c.Chain.RadiusScale) != c.Chain.Count {
		c.Chain.RadiusScale = nil
	}
}

var params = map[string]Setter{
	"chain.count":            setChainCount,
	"chain.length":           func(c *config.Config, v float64) { c.Chain.Length = v },
	"chain.max_bend_deg":     func(c *config.Config, v float64) { c.Chain.MaxBendDeg = v },
	"solver.iterations":      func(c *config.Config, v float64) { c.Solver.Iterations = round(v) },
	"ik.segment":             func(c *config.Config, v float64) { c.IK.Segment = v },
	"ik.iterations":          func(c *config.Config, v float64) { c.IK.Iterations = round(v) },
	"ik.max_joint_deg":       func(c *config.Config, v float64) { c.IK.MaxJointDeg = v },
	"body.mass":              func(c *config.Config, v float64) { c.Body.Mass = v },
	"body.friction":          func(c *config.Config, v float64) { c.Body.Friction = v },
	"body.restitution":       func(c *config.Config, v float64) { c.Body.Restitution = v },
	"body.iterations":        func(c *config.Config, v float64) { c.Body.Iterations = round(v) },
	"body.angle":             func(c *config.Config, v float64) { c.Body.Angle = v },
	"body.y":                 func(c *config.Config, v float64) { c.Body.Y = v },
	"terrain.bias":           func(c *config.Config, v float64) { c.Terrain.Bias = v },
	"terrain.wave_amplitude": func(c *config.Config, v float64) { c.Terrain.WaveAmplitude = v },
	"gait.speed":             func(c *config.Config, v float64) { c.Target.Gait.Speed = v },
	"hop.lift_height":        func(c *config.Config, v float64) { c.Target.Hop.LiftHeight = v },
	"path.speed":             func(c *config.Config, v float64) { c.Target.Path.Speed = v },
}

// Lookup returns the setter for a dotted parameter name.
func Lookup(name string) (Setter, error) {
	s, ok := params[name]
	if !ok {
		return nil, fmt.Errorf("parameter %q: %w", name, dynamo.ErrUnknownKind)
	}
	return s, nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply copies base and writes every named value into the copy. Slices in
// the copy are shared with base; setters may replace a slice but never
// write into one.
func Apply(base *config.Config, values map[string]float64) (*config.Config, error) {
	c := *base
	for name, v := range values {
		set, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		set(&c, v)
	}
	return &c, nil
}
