package terrain

import (
	"math"

	"github.com/san-kum/kinesim/internal/dynamo"
)

const (
	DefaultExtent          = 600.0
	DefaultStartFraction   = 0.5
	DefaultPull            = 0.1
	DefaultNoise           = 0.5
	DefaultMaxStep         = 1.0
	DefaultMinFraction     = 0.1
	DefaultMaxFraction     = 0.9
	DefaultWindow          = 800
	DefaultCheckpointEvery = 256
	DefaultWaveFrequency   = 0.001

	// checkpointWindows is how many windows either side of the last query
	// keep their checkpoints.
	checkpointWindows = 4
)

// Config parameterizes the height recurrence. Extent is the vertical span
// the profile lives in (the viewport height); Window is the number of
// samples kept on either side of the last query.
type Config struct {
	Extent          float64 `yaml:"extent"`
	StartFraction   float64 `yaml:"start_fraction"`
	Bias            float64 `yaml:"bias"`
	WaveAmplitude   float64 `yaml:"wave_amplitude"`
	WaveFrequency   float64 `yaml:"wave_frequency"`
	Pull            float64 `yaml:"pull"`
	Noise           float64 `yaml:"noise"`
	MaxStep         float64 `yaml:"max_step"`
	MinFraction     float64 `yaml:"min_fraction"`
	MaxFraction     float64 `yaml:"max_fraction"`
	Window          int     `yaml:"window"`
	CheckpointEvery int     `yaml:"checkpoint_every"`
	Seed            int64   `yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Extent:          DefaultExtent,
		StartFraction:   DefaultStartFraction,
		WaveFrequency:   DefaultWaveFrequency,
		Pull:            DefaultPull,
		Noise:           DefaultNoise,
		MaxStep:         DefaultMaxStep,
		MinFraction:     DefaultMinFraction,
		MaxFraction:     DefaultMaxFraction,
		Window:          DefaultWindow,
		CheckpointEvery: DefaultCheckpointEvery,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Extent <= 0:
		return dynamo.Invalid("terrain", "extent", c.Extent, "must be positive")
	case c.MaxStep <= 0:
		return dynamo.Invalid("terrain", "max_step", c.MaxStep, "must be positive")
	case c.Pull < 0 || c.Pull > 1:
		return dynamo.Invalid("terrain", "pull", c.Pull, "must be in [0,1]")
	case c.Noise < 0:
		return dynamo.Invalid("terrain", "noise", c.Noise, "must not be negative")
	case c.MinFraction < 0 || c.MaxFraction > 1 || c.MinFraction >= c.MaxFraction:
		return dynamo.Invalid("terrain", "min_fraction/max_fraction", [2]float64{c.MinFraction, c.MaxFraction}, "must satisfy 0 <= min < max <= 1")
	case c.StartFraction < c.MinFraction || c.StartFraction > c.MaxFraction:
		return dynamo.Invalid("terrain", "start_fraction", c.StartFraction, "must lie between min and max fraction")
	case c.Bias < -1 || c.Bias > 1:
		return dynamo.Invalid("terrain", "bias", c.Bias, "must be in [-1,1]")
	case c.Window < 2:
		return dynamo.Invalid("terrain", "window", c.Window, "must be at least 2")
	case c.CheckpointEvery < 1:
		return dynamo.Invalid("terrain", "checkpoint_every", c.CheckpointEvery, "must be at least 1")
	}
	return nil
}

// HeightField is a procedural ground profile. h(0) is fixed and every other
// sample is derived from its neighbour toward the origin, so the value at a
// given x depends only on the configuration.
//
// Samples are cached around the most recent query; evicted samples are
// rebuilt from the nearest cached sample or checkpoint and come back
// bit-identical. Checkpoints are kept near the last query, plus the nearest
// one between the origin and that region. Not safe for concurrent use.
type HeightField struct {
	cfg         Config
	seedOffset  float64
	cache       map[int]float64
	checkpoints map[int]float64
	evictions   int
}

func New(cfg Config) (*HeightField, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HeightField{
		cfg:         cfg,
		seedOffset:  float64(cfg.Seed) * 12.9898,
		cache:       make(map[int]float64),
		checkpoints: make(map[int]float64),
	}, nil
}

func (h *HeightField) Config() Config { return h.cfg }

// HeightAt returns the surface y at integer x.
func (h *HeightField) HeightAt(x int) float64 {
	if v, ok := h.cache[x]; ok {
		return v
	}
	v := h.fold(x)
	h.cache[x] = v
	h.evict(x)
	h.trimCheckpoints(x)
	return v
}

// Sample interpolates linearly between the two integer samples around x and
// reports the slope of that span.
func (h *HeightField) Sample(x float64) dynamo.Sample {
	x0 := math.Floor(x)
	i := int(x0)
	h0 := h.HeightAt(i)
	h1 := h.HeightAt(i + 1)
	t := x - x0
	return dynamo.Sample{
		Height: h0 + (h1-h0)*t,
		Slope:  math.Atan2(h1-h0, 1),
	}
}

// Len is the number of cached samples.
func (h *HeightField) Len() int { return len(h.cache) }

// Checkpoints is the number of retained sparse samples used for rebuilds.
func (h *HeightField) Checkpoints() int { return len(h.checkpoints) }

// Evictions counts eviction sweeps since construction.
func (h *HeightField) Evictions() int { return h.evictions }

func (h *HeightField) origin() float64 {
	return h.cfg.Extent * h.cfg.StartFraction
}

// fold walks from x toward the origin until it finds a known sample, then
// applies the recurrence outward again.
func (h *HeightField) fold(x int) float64 {
	if x == 0 {
		return h.origin()
	}
	dir := 1
	if x < 0 {
		dir = -1
	}

	start, prev := 0, h.origin()
	for i := x - dir; i != 0; i -= dir {
		if v, ok := h.cache[i]; ok {
			start, prev = i, v
			break
		}
		if i%h.cfg.CheckpointEvery == 0 {
			if v, ok := h.checkpoints[i]; ok {
				start, prev = i, v
				break
			}
		}
	}

	for i := start + dir; ; i += dir {
		prev = h.step(i, prev)
		if i%h.cfg.CheckpointEvery == 0 {
			h.checkpoints[i] = prev
		}
		if i == x {
			return prev
		}
		if abs(i-x) <= h.cfg.Window {
			h.cache[i] = prev
		}
	}
}

func (h *HeightField) step(x int, prev float64) float64 {
	c := h.cfg
	target := c.Extent * (0.5 + h.bias(x)*0.3)
	change := h.noise(x)*c.Noise + (target-prev)*c.Pull
	change = clamp(change, -c.MaxStep, c.MaxStep)
	return clamp(prev+change, c.MinFraction*c.Extent, c.MaxFraction*c.Extent)
}

func (h *HeightField) bias(x int) float64 {
	b := h.cfg.Bias
	if h.cfg.WaveAmplitude != 0 {
		b += h.cfg.WaveAmplitude * math.Sin(float64(x)*h.cfg.WaveFrequency)
	}
	return clamp(b, -1, 1)
}

// noise is a hash of x in [-1, 1).
func (h *HeightField) noise(x int) float64 {
	v := math.Sin(float64(x)*0.5+h.seedOffset) * 10000
	return (v-math.Floor(v))*2 - 1
}

func (h *HeightField) evict(x int) {
	if len(h.cache) <= 2*h.cfg.Window {
		return
	}
	for k := range h.cache {
		if abs(k-x) > h.cfg.Window {
			delete(h.cache, k)
		}
	}
	h.evictions++
}

func (h *HeightField) checkpointLimit() int {
	return 2*checkpointWindows*h.cfg.Window/h.cfg.CheckpointEvery + 2
}

// trimCheckpoints drops checkpoints far from x. The farthest one still on
// the origin side of x survives so a jump back toward the origin does not
// restart at h(0).
func (h *HeightField) trimCheckpoints(x int) {
	if len(h.checkpoints) <= h.checkpointLimit() {
		return
	}
	span := checkpointWindows * h.cfg.Window
	anchor, found := 0, false
	for k := range h.checkpoints {
		if abs(k-x) <= span || k*x <= 0 || abs(k) >= abs(x) {
			continue
		}
		if !found || abs(k) > abs(anchor) {
			anchor, found = k, true
		}
	}
	for k := range h.checkpoints {
		if abs(k-x) > span && (!found || k != anchor) {
			delete(h.checkpoints, k)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
