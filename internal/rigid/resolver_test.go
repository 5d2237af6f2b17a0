package rigid_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kinesim/internal/dynamo"
	"github.com/san-kum/kinesim/internal/rigid"
	"github.com/san-kum/kinesim/internal/terrain"
)

// incline is a straight ramp through (0, 500).
type incline struct{ angle float64 }

func (s incline) Sample(x float64) dynamo.Sample {
	return dynamo.Sample{Height: 500 + math.Tan(s.angle)*x, Slope: s.angle}
}

// cornerResponse is the single-corner response on flat ground: a normal
// impulse with restitution, then friction -vt*mu*min(1, jn/scale) from the
// tangential velocity before the impact.
func cornerResponse(b *rigid.Body, cfg rigid.Config, corner dynamo.Vec) (dynamo.Vec, float64) {
	r := corner.Sub(b.Pos)
	n := dynamo.V(0, -1)
	t := n.Perp()
	v := b.Vel.Add(r.Perp().Mult(b.AngVel))

	vn := v.Dot(n)
	bounce := 0.0
	if math.Abs(vn) > cfg.MinBounceSpeed {
		bounce = cfg.Restitution * vn
	}
	rn := r.Cross(n)
	jn := -(bounce + vn) / (1/cfg.Mass + rn*rn/b.Inertia())
	jt := -v.Dot(t) * cfg.Friction * math.Min(1, jn/cfg.FrictionImpulseScale)

	j := n.Mult(jn).Add(t.Mult(jt))
	return b.Vel.Add(j.Mult(1 / cfg.Mass)), b.AngVel + r.Cross(j)/b.Inertia()
}

func newBody(pos dynamo.Vec) (*rigid.Body, *rigid.Resolver) {
	cfg := rigid.DefaultConfig()
	b, err := rigid.New(cfg, pos)
	Expect(err).NotTo(HaveOccurred())
	r, err := rigid.NewResolver(cfg)
	Expect(err).NotTo(HaveOccurred())
	return b, r
}

var _ = Describe("Resolver", func() {
	DescribeTable("a dropped box comes to rest",
		func(ground dynamo.Terrain, angle float64) {
			b, r := newBody(dynamo.V(400, 380))
			b.Angle = angle

			for tick := 0; tick < 300; tick++ {
				rep := r.Step(b, ground)
				Expect(rep.Penetration).To(BeNumerically("<", 1e-6), "tick %d", tick)
				Expect(dynamo.Finite(b.Pos)).To(BeTrue())
			}

			Expect(b.Vel.Length()).To(BeNumerically("<", 0.01))
			Expect(math.Abs(b.AngVel)).To(BeNumerically("<", 0.01))
			Expect(b.Angle).To(BeNumerically(">", -math.Pi))
			Expect(b.Angle).To(BeNumerically("<=", math.Pi))
		},
		Entry("flat", terrain.NewFlat(500), 0.0),
		Entry("flat, tilted", terrain.NewFlat(500), 0.2),
		Entry("flat, steeply tilted", terrain.NewFlat(500), 0.7),
		Entry("flat, upended", terrain.NewFlat(500), -1.2),
	)

	DescribeTable("a box on an incline slides downhill on the surface",
		func(angle float64) {
			ground := incline{dynamo.Rad(angle)}
			b, r := newBody(dynamo.V(400, 380))

			for tick := 0; tick < 300; tick++ {
				rep := r.Step(b, ground)
				Expect(rep.Penetration).To(BeNumerically("<", 1e-6), "tick %d", tick)
				Expect(dynamo.Finite(b.Pos)).To(BeTrue())
			}

			Expect(b.Pos.X).To(BeNumerically(">", 500))
			Expect(math.Abs(b.AngVel)).To(BeNumerically("<", 0.01))
		},
		Entry("5 degrees", 5.0),
		Entry("15 degrees", 15.0),
	)

	It("rests on its face at half height above flat ground", func() {
		b, r := newBody(dynamo.V(400, 380))
		for tick := 0; tick < 300; tick++ {
			r.Step(b, terrain.NewFlat(500))
		}
		Expect(b.Pos.Y).To(BeNumerically("~", 480, 0.01))
		Expect(b.Angle).To(BeNumerically("~", 0, 1e-3))
	})

	It("does not bounce below the minimum bounce speed", func() {
		b, r := newBody(dynamo.V(400, 480.1))
		b.Vel = dynamo.V(0, 0.3)
		rep := r.Resolve(b, terrain.NewFlat(500))

		Expect(rep.Contacts).To(Equal(2))
		Expect(b.Vel.Y).To(BeNumerically("~", 0, 0.01))
		Expect(b.Pos.Y).To(BeNumerically("~", 480, 1e-9))
	})

	It("bounces with restitution above the minimum speed", func() {
		b, r := newBody(dynamo.V(400, 480.1))
		b.Vel = dynamo.V(0, 5)
		rep := r.Resolve(b, terrain.NewFlat(500))

		Expect(rep.Hard).To(BeFalse())
		Expect(b.Vel.Y).To(BeNumerically("~", -0.5, 0.01))
	})

	It("damps a hard impact", func() {
		b, r := newBody(dynamo.V(400, 480.1))
		b.Vel = dynamo.V(0, 20)
		rep := r.Resolve(b, terrain.NewFlat(500))

		Expect(rep.Hard).To(BeTrue())
		Expect(rep.MaxImpulse).To(BeNumerically(">", 10))
		Expect(b.Vel.Y).To(BeNumerically("~", -1.6, 0.01))
	})

	It("stops a sliding box with friction", func() {
		b, r := newBody(dynamo.V(400, 480))
		b.Vel = dynamo.V(3, 0)
		for tick := 0; tick < 300; tick++ {
			r.Step(b, terrain.NewFlat(500))
		}
		Expect(math.Abs(b.Vel.X)).To(BeNumerically("<", 0.01))
		Expect(b.Pos.X).To(BeNumerically(">", 400))
	})

	It("scales friction on a light corner contact by its normal impulse", func() {
		cfg := rigid.DefaultConfig()
		b, r := newBody(dynamo.V(400, 0))
		b.Angle = 0.2
		c := b.Corners()[0]
		b.Pos.Y = 500.1 - (c.Y - b.Pos.Y)
		b.Vel = dynamo.V(4, 1)
		wantVel, wantAng := cornerResponse(b, cfg, b.Corners()[0])

		rep := r.Resolve(b, terrain.NewFlat(500))

		Expect(rep.Contacts).To(Equal(1))
		Expect(rep.Hard).To(BeFalse())
		Expect(b.Vel.X).To(BeNumerically("~", wantVel.X, 1e-9))
		Expect(b.Vel.Y).To(BeNumerically("~", wantVel.Y, 1e-9))
		Expect(b.AngVel).To(BeNumerically("~", wantAng, 1e-9))
		Expect(b.Vel.X).To(BeNumerically("~", 3.877, 1e-3))
	})

	It("applies no friction to a corner that lands without slip", func() {
		b, r := newBody(dynamo.V(400, 480.1))
		b.Vel = dynamo.V(0, 5)
		r.Resolve(b, terrain.NewFlat(500))

		Expect(b.Vel.X).To(BeNumerically("~", 0, 1e-9))
		Expect(b.AngVel).To(BeNumerically("~", 0, 1e-6))
	})

	It("ignores contacts that are already separating", func() {
		b, r := newBody(dynamo.V(400, 481))
		b.Vel = dynamo.V(0, -2)
		rep := r.Resolve(b, terrain.NewFlat(500))

		Expect(rep.Contacts).To(Equal(0))
		Expect(b.Vel.Y).To(Equal(-2.0))
		Expect(b.Pos.Y).To(BeNumerically("~", 480, 1e-9))
	})
})

var _ = Describe("Body", func() {
	It("uses the box moment of inertia", func() {
		b, _ := newBody(dynamo.V(0, 0))
		Expect(b.Inertia()).To(BeNumerically("~", (80*80+40*40)/12.0, 1e-9))
	})

	It("places corners around the centre", func() {
		b, _ := newBody(dynamo.V(100, 100))
		c := b.Corners()
		Expect(c[0]).To(Equal(dynamo.V(140, 120)))
		Expect(c[2]).To(Equal(dynamo.V(60, 80)))

		b.Angle = math.Pi / 2
		c = b.Corners()
		Expect(c[0].X).To(BeNumerically("~", 80, 1e-9))
		Expect(c[0].Y).To(BeNumerically("~", 140, 1e-9))
	})

	It("holds still while grabbed", func() {
		b, r := newBody(dynamo.V(400, 380))
		b.Vel = dynamo.V(5, 5)
		b.Grab(dynamo.V(200, 300))

		rep := r.Step(b, terrain.NewFlat(500))
		Expect(rep).To(Equal(rigid.Report{}))
		Expect(b.Pos).To(Equal(dynamo.V(200, 300)))
		Expect(b.Vel).To(Equal(dynamo.Vec{}))

		b.Release()
		r.Step(b, terrain.NewFlat(500))
		Expect(b.Pos.Y).To(BeNumerically(">", 300))
	})

	It("rejects invalid configuration", func() {
		cfg := rigid.DefaultConfig()
		cfg.Mass = 0
		_, err := rigid.New(cfg, dynamo.Vec{})
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())

		cfg = rigid.DefaultConfig()
		cfg.Iterations = 0
		_, err = rigid.NewResolver(cfg)
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())

		cfg = rigid.DefaultConfig()
		cfg.FrictionImpulseScale = 0
		_, err = rigid.NewResolver(cfg)
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
	})
})
