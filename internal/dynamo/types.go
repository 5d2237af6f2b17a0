package dynamo

import (
	"math"

	"github.com/jakecoffman/cp/v2"
)

// Vec is a 2-D point or direction in screen space (+y down).
type Vec = cp.Vector

func V(x, y float64) Vec { return Vec{X: x, Y: y} }

// Finite reports whether both components are neither NaN nor Inf.
func Finite(v Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Sample is a terrain reading: surface y and slope angle in radians.
type Sample struct {
	Height float64
	Slope  float64
}

type Terrain interface {
	Sample(x float64) Sample
}

// HeightQuery is the read-only terrain view handed to target suppliers.
type HeightQuery interface {
	QueryHeight(x float64) Sample
}

// TargetSupplier produces the point a rig chases on a given tick.
type TargetSupplier interface {
	Next(tick int, q HeightQuery) Vec
}

type BodyState struct {
	Pos        Vec
	Angle      float64
	Vel        Vec
	AngVel     float64
	Corners    [4]Vec
	Energy     float64
	Contacts   int
	MaxImpulse float64
	Grabbed    bool
}

// Frame is the snapshot a rig emits after one tick. Slices are owned by the frame.
type Frame struct {
	Tick    int
	Target  Vec
	Nodes   []Vec
	Joints  []Vec
	Feet    []Vec
	Body    *BodyState
	Skipped int
}

func (f *Frame) Clone() Frame {
	c := *f
	c.Nodes = cloneVecs(f.Nodes)
	c.Joints = cloneVecs(f.Joints)
	c.Feet = cloneVecs(f.Feet)
	if f.Body != nil {
		b := *f.Body
		c.Body = &b
	}
	return c
}

func cloneVecs(v []Vec) []Vec {
	if v == nil {
		return nil
	}
	out := make([]Vec, len(v))
	copy(out, v)
	return out
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(f *Frame)
}
