package viz

import (
	"math"

	"github.com/san-kum/kinesim/internal/dynamo"
)

// Viewport maps screen-space world coordinates onto canvas sub-pixels.
// World y grows downward like canvas rows, so no flip is needed.
type Viewport struct {
	Center dynamo.Vec
	Scale  float64 // sub-pixels per world unit
	W, H   int     // canvas size in sub-pixels
}

// NewViewport fits worldWidth units across a canvas of cols x rows cells.
func NewViewport(cols, rows int, worldWidth float64, center dynamo.Vec) Viewport {
	w := cols * 2
	return Viewport{Center: center, Scale: float64(w) / worldWidth, W: w, H: rows * 4}
}

func (v Viewport) ToCanvas(p dynamo.Vec) (int, int) {
	x := (p.X-v.Center.X)*v.Scale + float64(v.W)/2
	y := (p.Y-v.Center.Y)*v.Scale + float64(v.H)/2
	return int(math.Round(x)), int(math.Round(y))
}

// WorldX is the world x under canvas column sx.
func (v Viewport) WorldX(sx int) float64 {
	return v.Center.X + (float64(sx)-float64(v.W)/2)/v.Scale
}

// Follow scrolls horizontally so p stays within margin world units of the
// centre. The vertical centre is left alone.
func (v *Viewport) Follow(p dynamo.Vec, margin float64) {
	switch d := p.X - v.Center.X; {
	case d > margin:
		v.Center.X = p.X - margin
	case d < -margin:
		v.Center.X = p.X + margin
	}
}
