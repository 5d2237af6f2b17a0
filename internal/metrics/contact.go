package metrics

import (
	"math"

	"github.com/san-kum/kinesim/internal/dynamo"
)

// Penetration is the deepest any body corner has been below the terrain
// after resolution.
type Penetration struct {
	name    string
	terrain dynamo.Terrain
	worst   float64
}

func NewPenetration(t dynamo.Terrain) *Penetration {
	return &Penetration{name: "penetration", terrain: t}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(f *dynamo.Frame) {
	if f.Body == nil {
		return
	}
	for _, c := range f.Body.Corners {
		p.worst = math.Max(p.worst, c.Y-p.terrain.Sample(c.X).Height)
	}
}

func (p *Penetration) Value() float64 { return p.worst }
func (p *Penetration) Reset()         { p.worst = 0 }

// SettleTick reports the first tick from which the body stays below the
// speed threshold until the end of the run, or -1 if it never settles.
// A grabbed body is never settled.
type SettleTick struct {
	name      string
	threshold float64
	since     int
}

func NewSettleTick(threshold float64) *SettleTick {
	return &SettleTick{name: "settle_tick", threshold: threshold, since: -1}
}

func (s *SettleTick) Name() string { return s.name }

func (s *SettleTick) Observe(f *dynamo.Frame) {
	b := f.Body
	if b == nil {
		return
	}
	still := !b.Grabbed && b.Vel.Length() < s.threshold && math.Abs(b.AngVel) < s.threshold
	switch {
	case !still:
		s.since = -1
	case s.since < 0:
		s.since = f.Tick
	}
}

func (s *SettleTick) Value() float64 { return float64(s.since) }
func (s *SettleTick) Reset()         { s.since = -1 }
