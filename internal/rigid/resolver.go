package rigid

import (
	"math"

	"github.com/san-kum/kinesim/internal/dynamo"
)

// Report summarises one Resolve call.
type Report struct {
	Contacts    int
	MaxImpulse  float64
	Hard        bool
	Penetration float64
}

type contact struct {
	r, n, t      dynamo.Vec
	nMass, tMass float64
	bounce       float64
	slip         float64
	jnAcc        float64
}

// Resolver pushes a body out of the terrain with sequential impulses.
// Restitution and friction come from the body; iteration count and the hard
// impact rule come from the resolver's own config. Each
// penetrating corner that is moving into the ground becomes a contact. The
// contacts are iterated with accumulated, clamped normal impulses, then each
// gets one friction impulse of -slip*friction*min(1, jn/FrictionImpulseScale),
// where slip is the corner's tangential velocity before the impact. Overlap
// is then removed geometrically.
//
// The contact buffer is reused between calls, so a Resolver belongs to one
// goroutine.
type Resolver struct {
	cfg      Config
	contacts []contact
}

func NewResolver(cfg Config) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{cfg: cfg, contacts: make([]contact, 0, 4)}, nil
}

// Step integrates the body and resolves terrain contact.
func (s *Resolver) Step(b *Body, t dynamo.Terrain) Report {
	b.Integrate()
	return s.Resolve(b, t)
}

func (s *Resolver) Resolve(b *Body, t dynamo.Terrain) Report {
	var rep Report
	if b.grabbed {
		return rep
	}

	s.collect(b, t)
	rep.Contacts = len(s.contacts)

	for it := 0; it < s.cfg.Iterations; it++ {
		for i := range s.contacts {
			c := &s.contacts[i]
			vn := b.velocityAt(c.r).Dot(c.n)
			jn := -(c.bounce + vn) * c.nMass
			old := c.jnAcc
			c.jnAcc = math.Max(old+jn, 0)
			b.applyImpulse(c.n.Mult(c.jnAcc-old), c.r)
		}
	}
	for i := range s.contacts {
		c := &s.contacts[i]
		jt := frictionImpulse(c.slip, b.cfg.Friction, c.jnAcc, b.cfg.FrictionImpulseScale)
		// never push the corner past zero slip
		stop := -b.velocityAt(c.r).Dot(c.t) * c.tMass
		if stop >= 0 {
			jt = clamp(jt, 0, stop)
		} else {
			jt = clamp(jt, stop, 0)
		}
		b.applyImpulse(c.t.Mult(jt), c.r)
	}

	for _, c := range s.contacts {
		rep.MaxImpulse = math.Max(rep.MaxImpulse, c.jnAcc)
	}
	if rep.MaxImpulse > s.cfg.HardImpact {
		rep.Hard = true
		b.Vel = b.Vel.Mult(s.cfg.HardImpactDamping)
		b.AngVel *= s.cfg.HardImpactDamping
	}

	s.separate(b, t)
	b.normalizeAngle()

	for _, p := range b.Corners() {
		rep.Penetration = math.Max(rep.Penetration, p.Y-t.Sample(p.X).Height)
	}
	rep.Penetration = math.Max(rep.Penetration, 0)
	return rep
}

func (s *Resolver) collect(b *Body, t dynamo.Terrain) {
	s.contacts = s.contacts[:0]
	invMass := 1 / b.cfg.Mass
	for _, p := range b.Corners() {
		g := t.Sample(p.X)
		if p.Y <= g.Height {
			continue
		}
		n := surfaceNormal(g.Slope)
		r := p.Sub(b.Pos)
		vn := b.velocityAt(r).Dot(n)
		if vn >= 0 {
			continue
		}

		bounce := 0.0
		if math.Abs(vn) > b.cfg.MinBounceSpeed {
			bounce = b.cfg.Restitution * vn
		}
		tan := n.Perp()
		slip := b.velocityAt(r).Dot(tan)
		rn := r.Cross(n)
		rt := r.Cross(tan)
		s.contacts = append(s.contacts, contact{
			r:      r,
			n:      n,
			t:      tan,
			nMass:  1 / (invMass + rn*rn/b.inertia),
			tMass:  1 / (invMass + rt*rt/b.inertia),
			bounce: bounce,
			slip:   slip,
		})
	}
}

// separate walks the corners in order and moves the body out along the
// local surface normal by each remaining overlap.
func (s *Resolver) separate(b *Body, t dynamo.Terrain) {
	for i := 0; i < 4; i++ {
		p := b.Corners()[i]
		g := t.Sample(p.X)
		if p.Y <= g.Height {
			continue
		}
		depth := (p.Y - g.Height) * math.Cos(g.Slope)
		b.Pos = b.Pos.Add(surfaceNormal(g.Slope).Mult(depth))
	}
}

// surfaceNormal points out of the ground (up on screen) for a surface with
// the given slope.
func surfaceNormal(slope float64) dynamo.Vec {
	return dynamo.V(math.Sin(slope), -math.Cos(slope))
}

// frictionImpulse grows with the normal impulse until jn reaches scale.
func frictionImpulse(slip, mu, jn, scale float64) float64 {
	return -slip * mu * math.Min(1, jn/scale)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
