package pendulum

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chaoslab/internal/integrators"
)

type driftTrace struct {
	deviations []float64
}

func (d driftTrace) maxOver(from, to int) float64 {
	m := 0.0
	for _, v := range d.deviations[from:to] {
		m = math.Max(m, v)
	}
	return m
}

func (d driftTrace) max() float64 { return d.maxOver(0, len(d.deviations)) }

func traceEnergy(method integrators.Method, h, duration float64) driftTrace {
	p, err := New(1, 1, 1, 1, 0.5, 0.5)
	Expect(err).NotTo(HaveOccurred())

	ref := p.PotentialEnergyMax()
	var trace driftTrace
	for t := 0.0; t < duration; t += h {
		Expect(p.Step(h, method)).To(Succeed())
		trace.deviations = append(trace.deviations, math.Abs(p.TotalEnergy()-ref))
	}
	return trace
}

var _ = Describe("Energy drift", Ordered, func() {
	const (
		h        = 0.01
		duration = 10.0
	)

	var euler, semi, rk4 driftTrace

	BeforeAll(func() {
		euler = traceEnergy(integrators.Euler, h, duration)
		semi = traceEnergy(integrators.SemiImplicitEuler, h, duration)
		rk4 = traceEnergy(integrators.RK4, h, duration)
	})

	It("grows without bound under explicit Euler", func() {
		n := len(euler.deviations)
		Expect(euler.deviations[n-1]).To(BeNumerically(">", euler.deviations[n/2-1]))
	})

	It("orders the methods by accuracy", func() {
		Expect(euler.max()).To(BeNumerically(">", semi.max()))
		Expect(semi.max()).To(BeNumerically(">", rk4.max()))
	})

	It("stays bounded under semi-implicit Euler", func() {
		n := len(semi.deviations)
		first := semi.maxOver(0, n/2)
		second := semi.maxOver(n/2, n)
		Expect(second).To(BeNumerically("<", 3*first))
	})

	It("keeps RK4 close to the initial energy", func() {
		p, err := New(1, 1, 1, 1, 0.5, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(rk4.max()).To(BeNumerically("<", 1e-3*p.PotentialEnergyMax()))
	})
})
