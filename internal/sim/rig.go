package sim

import (
	"github.com/san-kum/kinesim/internal/chain"
	"github.com/san-kum/kinesim/internal/dynamo"
	"github.com/san-kum/kinesim/internal/ik"
	"github.com/san-kum/kinesim/internal/rigid"
)

// Rig bundles the solvers that react to a target. Every part is optional
// except the terrain. A rig is driven from a single goroutine.
type Rig struct {
	terrain  dynamo.Terrain
	chain    *chain.Model
	solver   *chain.Solver
	leg      *ik.Leg
	body     *rigid.Body
	resolver *rigid.Resolver

	// the body is held at the target until this tick
	grabUntil int
}

func NewRig(t dynamo.Terrain) *Rig {
	return &Rig{terrain: t}
}

func (r *Rig) WithChain(m *chain.Model, s *chain.Solver) *Rig {
	r.chain, r.solver = m, s
	return r
}

func (r *Rig) WithLeg(l *ik.Leg) *Rig {
	r.leg = l
	return r
}

// WithBody adds a rigid body. For the first grabTicks ticks the body is
// held at the target, then released.
func (r *Rig) WithBody(b *rigid.Body, res *rigid.Resolver, grabTicks int) *Rig {
	r.body, r.resolver, r.grabUntil = b, res, grabTicks
	return r
}

func (r *Rig) Terrain() dynamo.Terrain { return r.terrain }
func (r *Rig) Chain() *chain.Model     { return r.chain }
func (r *Rig) Leg() *ik.Leg            { return r.leg }
func (r *Rig) Body() *rigid.Body       { return r.body }

func (r *Rig) QueryHeight(x float64) dynamo.Sample {
	return r.terrain.Sample(x)
}

// Advance runs one tick toward target and returns a frame that owns its data.
func (r *Rig) Advance(target dynamo.Vec, tick int) dynamo.Frame {
	var f dynamo.Frame
	r.AdvanceInto(&f, target, tick)
	return f
}

// AdvanceInto is Advance writing into f, reusing its slices.
func (r *Rig) AdvanceInto(f *dynamo.Frame, target dynamo.Vec, tick int) {
	f.Tick = tick
	f.Target = target
	f.Nodes = f.Nodes[:0]
	f.Joints = f.Joints[:0]
	f.Feet = f.Feet[:0]
	f.Skipped = 0

	if r.chain != nil {
		st := r.solver.Relax(r.chain, target)
		f.Skipped = st.Skipped
		f.Nodes = r.chain.AppendPositions(f.Nodes)
	}

	if r.leg != nil {
		r.leg.Solve(target)
		f.Joints = r.leg.Model().AppendPositions(f.Joints)
	}

	if r.body == nil {
		f.Body = nil
		return
	}
	switch {
	case tick < r.grabUntil:
		r.body.Grab(target)
	case r.body.Grabbed():
		r.body.Release()
	}
	rep := r.resolver.Step(r.body, r.terrain)
	st := r.body.State()
	st.Contacts = rep.Contacts
	st.MaxImpulse = rep.MaxImpulse
	if f.Body == nil {
		f.Body = &dynamo.BodyState{}
	}
	*f.Body = st
}
