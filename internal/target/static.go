package target

import "github.com/san-kum/kinesim/internal/dynamo"

// Static always returns the same point.
type Static dynamo.Vec

func (s Static) Next(int, dynamo.HeightQuery) dynamo.Vec { return dynamo.Vec(s) }

// Waypoints moves linearly between points, spending Hold ticks on each leg,
// and loops.
type Waypoints struct {
	Points []dynamo.Vec
	Hold   int
}

func NewWaypoints(points []dynamo.Vec, hold int) (*Waypoints, error) {
	if len(points) == 0 {
		return nil, dynamo.Invalid("target", "waypoints", 0, "need at least one point")
	}
	if hold < 1 {
		return nil, dynamo.Invalid("target", "hold", hold, "must be at least 1")
	}
	pts := make([]dynamo.Vec, len(points))
	copy(pts, points)
	return &Waypoints{Points: pts, Hold: hold}, nil
}

func (w *Waypoints) Next(tick int, _ dynamo.HeightQuery) dynamo.Vec {
	n := len(w.Points)
	if tick < 0 {
		tick = 0
	}
	leg := (tick / w.Hold) % n
	t := float64(tick%w.Hold) / float64(w.Hold)
	return w.Points[leg].Lerp(w.Points[(leg+1)%n], t)
}
