package metrics

import (
	"math"

	"github.com/san-kum/kinesim/internal/chain"
	"github.com/san-kum/kinesim/internal/dynamo"
)

// LengthError tracks the worst relative segment length error seen.
type LengthError struct {
	name    string
	lengths []float64
	joints  bool
	worst   float64
}

// NewLengthError measures the chain nodes of each frame against lengths.
func NewLengthError(lengths []float64) *LengthError {
	return &LengthError{name: "length_error", lengths: lengths}
}

// NewJointLengthError measures the leg joints instead of the chain nodes.
func NewJointLengthError(lengths []float64) *LengthError {
	return &LengthError{name: "joint_length_error", lengths: lengths, joints: true}
}

func (m *LengthError) Name() string { return m.name }

func (m *LengthError) Observe(f *dynamo.Frame) {
	pts := f.Nodes
	if m.joints {
		pts = f.Joints
	}
	m.worst = math.Max(m.worst, chain.LengthError(pts, m.lengths))
}

func (m *LengthError) Value() float64 { return m.worst }
func (m *LengthError) Reset()         { m.worst = 0 }

// MaxBend is the largest interior turn angle of the chain, in degrees.
type MaxBend struct {
	name  string
	worst float64
}

func NewMaxBend() *MaxBend {
	return &MaxBend{name: "max_bend_deg"}
}

func (m *MaxBend) Name() string { return m.name }

func (m *MaxBend) Observe(f *dynamo.Frame) {
	m.worst = math.Max(m.worst, dynamo.Deg(chain.MaxTurn(f.Nodes)))
}

func (m *MaxBend) Value() float64 { return m.worst }
func (m *MaxBend) Reset()         { m.worst = 0 }

// Reach is the mean distance between the leg's end effector and the target.
type Reach struct {
	name    string
	sum     float64
	samples int
}

func NewReach() *Reach {
	return &Reach{name: "reach_miss"}
}

func (r *Reach) Name() string { return r.name }

func (r *Reach) Observe(f *dynamo.Frame) {
	if len(f.Joints) == 0 {
		return
	}
	r.sum += f.Joints[len(f.Joints)-1].Distance(f.Target)
	r.samples++
}

func (r *Reach) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.sum / float64(r.samples)
}

func (r *Reach) Reset() {
	r.sum = 0
	r.samples = 0
}
