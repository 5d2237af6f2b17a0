package metrics

import (
	"math"

	"github.com/san-kum/kinesim/internal/dynamo"
)

// KineticEnergy is the mean kinetic energy of the rigid body over the run.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f *dynamo.Frame) {
	if f.Body == nil {
		return
	}
	e.total += f.Body.Energy
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// PeakImpulse is the largest accumulated normal impulse of any contact.
type PeakImpulse struct {
	name string
	peak float64
}

func NewPeakImpulse() *PeakImpulse {
	return &PeakImpulse{name: "peak_impulse"}
}

func (p *PeakImpulse) Name() string { return p.name }

func (p *PeakImpulse) Observe(f *dynamo.Frame) {
	if f.Body != nil {
		p.peak = math.Max(p.peak, f.Body.MaxImpulse)
	}
}

func (p *PeakImpulse) Value() float64 { return p.peak }
func (p *PeakImpulse) Reset()         { p.peak = 0 }
