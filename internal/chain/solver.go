package chain

import (
	"github.com/jakecoffman/cp/v2"

	"github.com/san-kum/kinesim/internal/dynamo"
)

const (
	DefaultIterations = 10
	DefaultEpsilon    = 1e-9
)

type SolverConfig struct {
	Iterations     int     `yaml:"iterations"`
	ProjectLengths bool    `yaml:"project_lengths"`
	Epsilon        float64 `yaml:"epsilon"`
}

func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Iterations:     DefaultIterations,
		ProjectLengths: true,
		Epsilon:        DefaultEpsilon,
	}
}

func (c SolverConfig) Validate() error {
	if c.Iterations < 0 {
		return dynamo.Invalid("solver", "iterations", c.Iterations, "must not be negative")
	}
	if c.Epsilon <= 0 {
		return dynamo.Invalid("solver", "epsilon", c.Epsilon, "must be positive")
	}
	return nil
}

// Stats reports what a relaxation did. Skipped counts constraint visits
// dropped because a segment had collapsed below epsilon.
type Stats struct {
	Skipped int
	Clamped int
}

// Solver relaxes distance and bend constraints with Gauss-Seidel sweeps.
// It holds no per-chain state and can be shared by rigs on one goroutine.
type Solver struct {
	cfg SolverConfig
}

func NewSolver(cfg SolverConfig) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{cfg: cfg}, nil
}

func (s *Solver) Config() SolverConfig { return s.cfg }

// Relax moves a pinned head to head and runs the configured number of
// rounds. Each round is a forward then backward distance sweep followed by a
// bend sweep from head to tail.
func (s *Solver) Relax(m *Model, head dynamo.Vec) Stats {
	var st Stats
	if m.nodes[0].Pinned {
		m.nodes[0].Pos = head
	}

	var dist, bend []Constraint
	for _, c := range m.constraints {
		if c.Kind == Distance {
			dist = append(dist, c)
		} else {
			bend = append(bend, c)
		}
	}

	for it := 0; it < s.cfg.Iterations; it++ {
		for i := 0; i < len(dist); i++ {
			s.distance(m, dist[i], &st)
		}
		for i := len(dist) - 1; i >= 0; i-- {
			s.distance(m, dist[i], &st)
		}
		for _, c := range bend {
			s.bend(m, c, &st)
		}
	}

	if s.cfg.ProjectLengths {
		s.project(m, &st)
	}
	return st
}

func (s *Solver) distance(m *Model, c Constraint, st *Stats) {
	a, b := &m.nodes[c.A], &m.nodes[c.B]
	delta := b.Pos.Sub(a.Pos)
	d := delta.Length()
	if d < s.cfg.Epsilon {
		st.Skipped++
		return
	}
	offset := delta.Mult((c.Length - d) / d / 2)
	if !a.Pinned {
		a.Pos = a.Pos.Sub(offset)
	}
	if !b.Pinned {
		b.Pos = b.Pos.Add(offset)
	}
}

// bend swings the downstream node around the middle one when the turn
// exceeds the limit. The segment keeps its current length.
func (s *Solver) bend(m *Model, c Constraint, st *Stats) {
	prev, cur, next := m.nodes[c.A].Pos, m.nodes[c.B].Pos, &m.nodes[c.C]
	d1 := cur.Sub(prev)
	d2 := next.Pos.Sub(cur)
	l2 := d2.Length()
	if d1.Length() < s.cfg.Epsilon || l2 < s.cfg.Epsilon {
		st.Skipped++
		return
	}
	a1 := d1.ToAngle()
	turn, clamped := dynamo.ClampTurn(d2.ToAngle()-a1, c.MaxAngle)
	if !clamped || next.Pinned {
		return
	}
	next.Pos = cur.Add(cp.ForAngle(a1 + turn).Mult(l2))
	st.Clamped++
}

// project walks from the head and shifts every downstream node by the
// accumulated length correction, so each segment keeps its direction and
// reaches its rest length exactly. The shift restarts at pinned nodes.
func (s *Solver) project(m *Model, st *Stats) {
	before := m.Positions()
	shift := dynamo.Vec{}
	for i, l := range m.lengths {
		b := &m.nodes[i+1]
		if b.Pinned {
			shift = dynamo.Vec{}
			continue
		}
		delta := before[i+1].Sub(before[i])
		if d := delta.Length(); d >= s.cfg.Epsilon {
			shift = shift.Add(delta.Mult((l - d) / d))
		} else {
			st.Skipped++
		}
		b.Pos = before[i+1].Add(shift)
	}
}
