package analysis

import "github.com/san-kum/kinesim/internal/dynamo"

// LateralSwing is the signed distance of a node from the line through the
// head along the first segment, one value per frame. Positive is to the
// right of the heading as seen on screen, where y grows downward. Negative
// node indices count from the tail.
func LateralSwing(frames []dynamo.Frame, node int) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		i := node
		if i < 0 {
			i += len(f.Nodes)
		}
		if len(f.Nodes) < 2 || i < 0 || i >= len(f.Nodes) {
			continue
		}
		head := f.Nodes[0]
		axis := head.Sub(f.Nodes[1])
		if axis.LengthSq() == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, axis.Normalize().Cross(f.Nodes[i].Sub(head)))
	}
	return out
}

// ReachMiss is the distance from the leg's end effector to the target.
func ReachMiss(frames []dynamo.Frame) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if len(f.Joints) == 0 {
			continue
		}
		out = append(out, f.Joints[len(f.Joints)-1].Distance(f.Target))
	}
	return out
}

// BodyEnergy is the rigid body's kinetic energy per frame.
func BodyEnergy(frames []dynamo.Frame) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if f.Body != nil {
			out = append(out, f.Body.Energy)
		}
	}
	return out
}

// BodyHeight is the rigid body's y per frame.
func BodyHeight(frames []dynamo.Frame) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if f.Body != nil {
			out = append(out, f.Body.Pos.Y)
		}
	}
	return out
}

// SampleInterval is the tick spacing of recorded frames, 1 when unknown.
func SampleInterval(frames []dynamo.Frame) float64 {
	if len(frames) < 2 || frames[1].Tick <= frames[0].Tick {
		return 1
	}
	return float64(frames[1].Tick - frames[0].Tick)
}
