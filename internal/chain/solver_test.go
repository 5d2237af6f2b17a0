package chain

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/kinesim/internal/dynamo"
)

func newChain(t *testing.T, spec Spec) *Model {
	t.Helper()
	m, err := New(spec, dynamo.V(400, 200), dynamo.V(0, 1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func newSolver(t *testing.T, cfg SolverConfig) *Solver {
	t.Helper()
	s, err := NewSolver(cfg)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	return s
}

func ellipse(tick int) dynamo.Vec {
	th := float64(tick) * 0.02 * math.Pi
	return dynamo.V(400+300*math.Cos(th), 300+200*math.Sin(th))
}

func TestNewBuildsConstraints(t *testing.T) {
	m := newChain(t, DefaultSpec())
	if m.Len() != DefaultCount {
		t.Fatalf("expected %d nodes, got %d", DefaultCount, m.Len())
	}
	var dist, bend int
	for _, c := range m.Constraints() {
		switch c.Kind {
		case Distance:
			dist++
			if c.B != c.A+1 {
				t.Errorf("distance constraint %d-%d not consecutive", c.A, c.B)
			}
		case Bend:
			bend++
		}
	}
	if dist != DefaultCount-1 || bend != DefaultCount-2 {
		t.Errorf("got %d distance and %d bend constraints", dist, bend)
	}
	if got := m.Segment(DefaultCount - 2); got != DefaultLength/2 {
		t.Errorf("tail segment length %f, want %f", got, DefaultLength/2)
	}
	if !m.Node(0).Pinned {
		t.Error("head should be pinned")
	}
	if m.LengthError() > 1e-12 {
		t.Errorf("straight layout has length error %g", m.LengthError())
	}
}

func TestRelaxFollowsPath(t *testing.T) {
	m := newChain(t, DefaultSpec())
	s := newSolver(t, DefaultSolverConfig())
	limit := m.MaxBend() + 1e-9

	for tick := 0; tick < 600; tick++ {
		head := ellipse(tick)
		s.Relax(m, head)

		if got := m.Node(0).Pos; got != head {
			t.Fatalf("tick %d: pinned head at %v, want %v", tick, got, head)
		}
		if e := m.LengthError(); e > 0.01 {
			t.Fatalf("tick %d: length error %.4f exceeds 1%%", tick, e)
		}
		if a := m.MaxTurn(); a > limit {
			t.Fatalf("tick %d: turn %.3f deg exceeds limit", tick, dynamo.Deg(a))
		}
	}
}

func TestRelaxStationaryTargetWithoutProjection(t *testing.T) {
	m := newChain(t, DefaultSpec())
	cfg := DefaultSolverConfig()
	cfg.ProjectLengths = false
	s := newSolver(t, cfg)

	head := dynamo.V(300, 120)
	for i := 0; i < 200; i++ {
		s.Relax(m, head)
	}
	if e := m.LengthError(); e > 0.01 {
		t.Errorf("length error %.4f after settling", e)
	}
	if a := m.MaxTurn(); a > m.MaxBend()+1e-9 {
		t.Errorf("turn %.3f deg exceeds limit", dynamo.Deg(a))
	}
}

func TestRelaxClampsSharpBend(t *testing.T) {
	spec := DefaultSpec()
	spec.Count = 3
	spec.TailLengths = nil
	spec.RadiusScale = nil
	m := newChain(t, spec)
	s := newSolver(t, DefaultSolverConfig())

	// Fold the tail back on itself.
	m.SetPosition(2, m.Node(1).Pos.Add(dynamo.V(DefaultLength, 0)))
	st := s.Relax(m, m.Node(0).Pos)

	if st.Clamped == 0 {
		t.Error("expected at least one bend clamp")
	}
	if a := m.MaxTurn(); a > m.MaxBend()+1e-9 {
		t.Errorf("turn %.3f deg exceeds %.1f", dynamo.Deg(a), DefaultMaxBendDeg)
	}
}

func TestRelaxCoincidentNodes(t *testing.T) {
	m := newChain(t, DefaultSpec())
	s := newSolver(t, DefaultSolverConfig())
	p := dynamo.V(10, 10)
	for i := 0; i < m.Len(); i++ {
		m.SetPosition(i, p)
	}

	st := s.Relax(m, p)
	if st.Skipped == 0 {
		t.Error("expected skipped constraints for collapsed chain")
	}
	for i, q := range m.Positions() {
		if !dynamo.Finite(q) {
			t.Fatalf("node %d is not finite: %v", i, q)
		}
	}
}

func TestRelaxRespectsPins(t *testing.T) {
	m := newChain(t, DefaultSpec())
	s := newSolver(t, DefaultSolverConfig())
	mid := m.Len() / 2
	m.Pin(mid, true)
	fixed := m.Node(mid).Pos

	for tick := 0; tick < 50; tick++ {
		s.Relax(m, ellipse(tick))
		if got := m.Node(mid).Pos; got != fixed {
			t.Fatalf("pinned node moved to %v", got)
		}
	}
}

func TestSpecValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"single node", func(s *Spec) { s.Count = 1 }},
		{"zero length", func(s *Spec) { s.Length = 0 }},
		{"table mismatch", func(s *Spec) { s.Lengths = []float64{1, 2} }},
		{"tail too long", func(s *Spec) { s.Count = 2; s.TailLengths = []float64{1, 1} }},
		{"negative tail", func(s *Spec) { s.TailLengths = []float64{-1} }},
		{"no bend", func(s *Spec) { s.MaxBendDeg = 0 }},
		{"radius profile too long", func(s *Spec) { s.RadiusScale = append(DefaultRadiusScale[:len(DefaultRadiusScale):len(DefaultRadiusScale)], 1) }},
		{"radius profile too short", func(s *Spec) { s.Count = 20 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := DefaultSpec()
			tt.mutate(&spec)
			_, err := New(spec, dynamo.Vec{}, dynamo.V(1, 0))
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if len(DefaultRadiusScale) != DefaultCount {
		t.Errorf("default radius profile has %d entries for %d nodes", len(DefaultRadiusScale), DefaultCount)
	}

	if _, err := NewSolver(SolverConfig{Iterations: -1, Epsilon: 1}); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for negative iterations, got %v", err)
	}
}

func BenchmarkRelax(b *testing.B) {
	m, _ := New(DefaultSpec(), dynamo.V(400, 200), dynamo.V(0, 1))
	s, _ := NewSolver(DefaultSolverConfig())
	for i := 0; i < b.N; i++ {
		s.Relax(m, ellipse(i))
	}
}
