package ik_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kinesim/internal/dynamo"
	"github.com/san-kum/kinesim/internal/ik"
)

var _ = Describe("Leg", func() {
	var leg *ik.Leg

	BeforeEach(func() {
		var err error
		leg, err = ik.NewLeg(ik.DefaultLegSpec(), dynamo.V(0, 0))
		Expect(err).NotTo(HaveOccurred())
	})

	It("uses the 2L/1.5L/L segment table", func() {
		Expect(leg.Lengths()).To(Equal([]float64{160, 120, 80}))
		Expect(leg.MaxReach()).To(BeNumerically("~", 342, 1e-9))
	})

	DescribeTable("reaching targets inside its range",
		func(x, y float64) {
			target := dynamo.V(x, y)
			used := leg.Solve(target)

			Expect(used).To(Equal(target))
			Expect(leg.End().Distance(target)).To(BeNumerically("<", 0.5))
			Expect(leg.Model().LengthError()).To(BeNumerically("<", 1e-9))
			Expect(leg.Base()).To(Equal(dynamo.V(0, 0)))
		},
		Entry("below right", 200.0, 100.0),
		Entry("above right", 250.0, -50.0),
		Entry("steep", 100.0, 150.0),
		Entry("behind", -150.0, 80.0),
	)

	It("clamps far targets to its reach", func() {
		used := leg.Solve(dynamo.V(1000, 0))
		Expect(used.Length()).To(BeNumerically("~", leg.MaxReach(), 1e-9))
		Expect(leg.End().Length()).To(BeNumerically("<=", 360+1e-9))
	})

	It("keeps the middle joint within its limit when configured", func() {
		spec := ik.DefaultLegSpec()
		spec.MaxJointDeg = 30
		limited, err := ik.NewLeg(spec, dynamo.V(0, 0))
		Expect(err).NotTo(HaveOccurred())

		limited.Solve(dynamo.V(100, 150))
		pts := limited.Joints()
		parent := dynamo.Heading(pts[0], pts[1])
		turn := dynamo.NormalizeAngle(dynamo.Heading(pts[1], pts[2]) - parent)
		Expect(turn).To(BeNumerically("<=", dynamo.Rad(30)+1e-9))
		Expect(turn).To(BeNumerically(">=", -dynamo.Rad(30)-1e-9))
	})

	It("reports segment angles in [0, 360)", func() {
		leg.Solve(dynamo.V(200, 100))
		for _, a := range leg.SegmentAngles() {
			Expect(a).To(BeNumerically(">=", 0))
			Expect(a).To(BeNumerically("<", 360))
		}
	})

	It("rejects invalid specs", func() {
		spec := ik.DefaultLegSpec()
		spec.Segment = 0
		_, err := ik.NewLeg(spec, dynamo.V(0, 0))
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())

		spec = ik.DefaultLegSpec()
		spec.TieBreak = "sideways"
		_, err = ik.NewLeg(spec, dynamo.V(0, 0))
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
	})
})
