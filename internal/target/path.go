package target

import (
	"math"

	"github.com/san-kum/kinesim/internal/dynamo"
)

const DefaultPathSpeed = 0.002

type PathConfig struct {
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Speed   float64 `yaml:"speed"`
}

func DefaultPathConfig() PathConfig {
	return PathConfig{CenterX: 400, CenterY: 300, Width: 600, Height: 340, Speed: DefaultPathSpeed}
}

func (c PathConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return dynamo.Invalid("target", "width/height", [2]float64{c.Width, c.Height}, "must be positive")
	}
	return nil
}

// Path traces a lopsided ellipse, r = 1 + sin(θ)/4, one loop per 1/Speed
// ticks.
type Path struct {
	cfg    PathConfig
	offset float64
}

func NewPath(cfg PathConfig) (*Path, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Path{cfg: cfg}, nil
}

// Position maps phase t (one loop per unit) to a point on the path.
func (p *Path) Position(t float64) dynamo.Vec {
	theta := t * 2 * math.Pi
	r := 1 + math.Sin(theta)/4
	return dynamo.V(
		p.cfg.CenterX+p.cfg.Width/2*r*math.Cos(theta),
		p.cfg.CenterY+p.cfg.Height/2*r*math.Sin(theta),
	)
}

func (p *Path) Phase(tick int) float64 {
	t := p.offset + float64(tick)*p.cfg.Speed
	return t - math.Floor(t)
}

func (p *Path) Next(tick int, _ dynamo.HeightQuery) dynamo.Vec {
	return p.Position(p.Phase(tick))
}

// Resume re-enters the path at the sampled phase closest to from, so that
// switching back to path following at tick does not jump.
func (p *Path) Resume(from dynamo.Vec, tick int) {
	best, bestDist := 0.0, math.Inf(1)
	for i := 0; i < 100; i++ {
		t := float64(i) / 100
		if d := p.Position(t).Distance(from); d < bestDist {
			best, bestDist = t, d
		}
	}
	p.offset = best - float64(tick)*p.cfg.Speed
}
