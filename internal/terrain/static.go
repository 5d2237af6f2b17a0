package terrain

import (
	"math"
	"sort"

	"github.com/san-kum/kinesim/internal/dynamo"
)

// Flat is level ground at a fixed y.
type Flat struct {
	Y float64
}

func NewFlat(y float64) Flat { return Flat{Y: y} }

func (f Flat) Sample(float64) dynamo.Sample {
	return dynamo.Sample{Height: f.Y}
}

// Polyline is a piecewise-linear profile through points ordered by x.
// Repeated x values form vertical steps; a query exactly on a step reads the
// segment that ends there. Beyond either end the profile continues level.
type Polyline struct {
	points []dynamo.Vec
}

func NewPolyline(points []dynamo.Vec) (*Polyline, error) {
	if len(points) < 2 {
		return nil, dynamo.Invalid("terrain", "points", len(points), "polyline needs at least 2 points")
	}
	for i := 1; i < len(points); i++ {
		if points[i].X < points[i-1].X {
			return nil, dynamo.Invalid("terrain", "points", i, "x must not decrease")
		}
	}
	pts := make([]dynamo.Vec, len(points))
	copy(pts, points)
	return &Polyline{points: pts}, nil
}

func (p *Polyline) Points() []dynamo.Vec {
	out := make([]dynamo.Vec, len(p.points))
	copy(out, p.points)
	return out
}

func (p *Polyline) Sample(x float64) dynamo.Sample {
	pts := p.points
	if x <= pts[0].X {
		return dynamo.Sample{Height: pts[0].Y}
	}
	last := pts[len(pts)-1]
	if x > last.X {
		return dynamo.Sample{Height: last.Y}
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].X >= x })
	a, b := pts[i-1], pts[i]
	dx := b.X - a.X
	if dx == 0 {
		return dynamo.Sample{Height: a.Y}
	}
	dy := b.Y - a.Y
	t := (x - a.X) / dx
	return dynamo.Sample{Height: a.Y + t*dy, Slope: math.Atan2(dy, dx)}
}

// DemoPolyline is a ramp, a plateau and a five step staircase resting on
// ground level groundY.
func DemoPolyline(groundY float64) *Polyline {
	pts := []dynamo.Vec{
		{X: 0, Y: groundY},
		{X: 200, Y: groundY - 100},
		{X: 400, Y: groundY},
		{X: 800, Y: groundY},
		{X: 880, Y: groundY - 16},
		{X: 960, Y: groundY - 16},
		{X: 960, Y: groundY - 32},
		{X: 1040, Y: groundY - 32},
		{X: 1040, Y: groundY - 48},
		{X: 1120, Y: groundY - 48},
		{X: 1120, Y: groundY - 64},
		{X: 1200, Y: groundY - 64},
	}
	p, _ := NewPolyline(pts)
	return p
}
