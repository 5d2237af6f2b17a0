package dynamo

import (
	"math"

	"github.com/jakecoffman/cp/v2"
)

// NormalizeAngle maps a into (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// ClampTurn limits a turn angle to [-max, max]. The second result reports
// whether the input was outside the limit.
func ClampTurn(diff, max float64) (float64, bool) {
	diff = NormalizeAngle(diff)
	if math.Abs(diff) <= max {
		return diff, false
	}
	if diff < 0 {
		return -max, true
	}
	return max, true
}

// RotateAbout rotates p around pivot by angle radians.
func RotateAbout(p, pivot Vec, angle float64) Vec {
	return p.Sub(pivot).Rotate(cp.ForAngle(angle)).Add(pivot)
}

// Heading returns the angle of the segment a->b.
func Heading(a, b Vec) float64 {
	return b.Sub(a).ToAngle()
}

func Deg(rad float64) float64 { return rad * 180 / math.Pi }
func Rad(deg float64) float64 { return deg * math.Pi / 180 }

