package ik_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kinesim/internal/dynamo"
	"github.com/san-kum/kinesim/internal/ik"
)

var _ = Describe("Two-segment solver", func() {
	base := dynamo.V(0, 0)

	Context("with a target beyond reach", func() {
		It("clamps the target and stays within L1+L2", func() {
			req := ik.NewRequest(base, dynamo.V(1000, 0), 50, 40)
			res := ik.Solve(req, ik.PreferLower)

			Expect(res.Target.X).To(BeNumerically("~", 90, 1e-9))
			Expect(res.Target.Y).To(BeNumerically("~", 0, 1e-9))
			Expect(res.End.Length()).To(BeNumerically("<=", 90+1e-9))
			Expect(res.End.X).To(BeNumerically(">", 89))
		})
	})

	Context("with a reachable target", func() {
		It("lands near the target with exact segment lengths", func() {
			for _, side := range []ik.Side{ik.Port, ik.Starboard} {
				res := ik.SolveSide(ik.NewRequest(base, dynamo.V(60, 0), 50, 40), side)

				Expect(res.Miss()).To(BeNumerically("<", 0.5))
				Expect(res.Elbow.Distance(base)).To(BeNumerically("~", 50, 1e-9))
				Expect(res.End.Distance(res.Elbow)).To(BeNumerically("~", 40, 1e-9))
			}
		})

		It("bends the two branches to opposite sides", func() {
			req := ik.NewRequest(base, dynamo.V(60, 0), 50, 40)
			port := ik.SolveSide(req, ik.Port)
			star := ik.SolveSide(req, ik.Starboard)

			Expect(port.Elbow.Y).To(BeNumerically(">", 20))
			Expect(star.Elbow.Y).To(BeNumerically("<", -20))
		})

		It("picks the lower elbow on screen by default", func() {
			res := ik.Solve(ik.NewRequest(base, dynamo.V(60, 0), 50, 40), nil)
			Expect(res.Side).To(Equal(ik.Port))
			Expect(res.Elbow.Y).To(BeNumerically(">", 0))
		})

		It("honours the upper policy", func() {
			res := ik.Solve(ik.NewRequest(base, dynamo.V(60, 0), 50, 40), ik.PreferUpper)
			Expect(res.Side).To(Equal(ik.Starboard))
		})
	})

	It("is deterministic", func() {
		req := ik.NewRequest(dynamo.V(13.5, -7), dynamo.V(71, 22), 50, 40)
		a := ik.Solve(req, ik.PreferLower)
		b := ik.Solve(req, ik.PreferLower)
		Expect(a).To(Equal(b))
	})

	It("survives a target on top of the base", func() {
		res := ik.Solve(ik.NewRequest(base, base, 50, 40), nil)
		Expect(dynamo.Finite(res.Elbow)).To(BeTrue())
		Expect(dynamo.Finite(res.End)).To(BeTrue())
	})

	DescribeTable("policy names",
		func(name string, ok bool) {
			_, err := ik.ParseTieBreak(name)
			if ok {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(errors.Is(err, dynamo.ErrUnknownKind)).To(BeTrue())
			}
		},
		Entry("default", "", true),
		Entry("lower", "lower", true),
		Entry("upper", "upper", true),
		Entry("port", "port", true),
		Entry("starboard", "starboard", true),
		Entry("unknown", "sideways", false),
	)
})
