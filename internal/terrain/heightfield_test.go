package terrain

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/kinesim/internal/dynamo"
)

func newField(t *testing.T, mutate func(*Config)) *HeightField {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	h, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func TestHeightFieldOrigin(t *testing.T) {
	h := newField(t, nil)
	if got := h.HeightAt(0); got != DefaultExtent*DefaultStartFraction {
		t.Errorf("expected h(0)=%f, got %f", DefaultExtent*DefaultStartFraction, got)
	}
}

func TestHeightFieldContinuity(t *testing.T) {
	h := newField(t, func(c *Config) { c.WaveAmplitude = 0.6 })
	lo, hi := DefaultMinFraction*DefaultExtent, DefaultMaxFraction*DefaultExtent

	prev := h.HeightAt(-3000)
	for x := -2999; x <= 3000; x++ {
		cur := h.HeightAt(x)
		if d := math.Abs(cur - prev); d > DefaultMaxStep+1e-12 {
			t.Fatalf("step at x=%d is %f, exceeds %f", x, d, DefaultMaxStep)
		}
		if cur < lo || cur > hi {
			t.Fatalf("height %f at x=%d outside [%f,%f]", cur, x, lo, hi)
		}
		prev = cur
	}
}

func TestHeightFieldRepeatable(t *testing.T) {
	a := newField(t, nil)
	b := newField(t, nil)

	want := make(map[int]float64)
	for _, x := range []int{5, 900, 4000, -1200, 17} {
		want[x] = a.HeightAt(x)
	}

	// Walk b far away so that everything it saw early is evicted.
	for x := 0; x < 20000; x += 7 {
		b.HeightAt(x)
	}
	if b.Evictions() == 0 {
		t.Fatal("expected evictions")
	}
	for x, w := range want {
		if got := b.HeightAt(x); got != w {
			t.Errorf("h(%d): got %v after eviction, want %v", x, got, w)
		}
	}
	for x, w := range want {
		if got := a.HeightAt(x); got != w {
			t.Errorf("h(%d) changed on second query: %v vs %v", x, got, w)
		}
	}
}

func TestHeightFieldCacheBounded(t *testing.T) {
	h := newField(t, func(c *Config) { c.Window = 100 })
	for x := 0; x < 50000; x++ {
		h.HeightAt(x)
		if h.Len() > 2*100+1 {
			t.Fatalf("cache size %d exceeds bound at x=%d", h.Len(), x)
		}
	}
}

func TestHeightFieldCheckpointsBounded(t *testing.T) {
	h := newField(t, func(c *Config) { c.Window = 100 })
	limit := h.checkpointLimit()
	for x := 0; x <= 200000; x++ {
		h.HeightAt(x)
		if h.Checkpoints() > limit {
			t.Fatalf("%d checkpoints exceed bound %d at x=%d", h.Checkpoints(), limit, x)
		}
	}

	fresh := newField(t, func(c *Config) { c.Window = 100 })
	for _, x := range []int{1000, 150000, 199990} {
		if got, want := h.HeightAt(x), fresh.HeightAt(x); got != want {
			t.Errorf("height at %d after long sweep = %v, want %v", x, got, want)
		}
	}
	if h.Checkpoints() > limit {
		t.Errorf("%d checkpoints after jumping back, bound %d", h.Checkpoints(), limit)
	}
}

func TestHeightFieldFarJumpTrimsCheckpoints(t *testing.T) {
	h := newField(t, func(c *Config) { c.Window = 100 })
	want := h.HeightAt(2000000)
	if h.Checkpoints() > h.checkpointLimit() {
		t.Fatalf("%d checkpoints after far jump, bound %d", h.Checkpoints(), h.checkpointLimit())
	}
	h.HeightAt(-500)
	h.HeightAt(1999000)
	h.cache = make(map[int]float64)
	if got := h.HeightAt(2000000); got != want {
		t.Errorf("rebuilt height = %v, want %v", got, want)
	}
}

func TestHeightFieldSeed(t *testing.T) {
	a := newField(t, nil)
	b := newField(t, func(c *Config) { c.Seed = 7 })
	same := 0
	for x := 1; x <= 200; x++ {
		if a.HeightAt(x) == b.HeightAt(x) {
			same++
		}
	}
	if same == 200 {
		t.Error("different seeds produced identical profiles")
	}
}

func TestHeightFieldBiasTarget(t *testing.T) {
	h := newField(t, func(c *Config) {
		c.Bias = 1
		c.Noise = 0
	})
	// With no noise the profile settles at Extent*(0.5+0.3).
	got := h.HeightAt(2000)
	want := DefaultExtent * 0.8
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("expected settled height %f, got %f", want, got)
	}
}

func TestHeightFieldSample(t *testing.T) {
	h := newField(t, nil)
	h0, h1 := h.HeightAt(10), h.HeightAt(11)
	s := h.Sample(10.25)
	if want := h0 + (h1-h0)*0.25; math.Abs(s.Height-want) > 1e-12 {
		t.Errorf("interpolated height %f, want %f", s.Height, want)
	}
	if want := math.Atan2(h1-h0, 1); s.Slope != want {
		t.Errorf("slope %f, want %f", s.Slope, want)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero extent", func(c *Config) { c.Extent = 0 }},
		{"negative step", func(c *Config) { c.MaxStep = -1 }},
		{"pull above one", func(c *Config) { c.Pull = 1.5 }},
		{"inverted bounds", func(c *Config) { c.MinFraction, c.MaxFraction = 0.9, 0.1 }},
		{"start outside bounds", func(c *Config) { c.StartFraction = 0.95 }},
		{"tiny window", func(c *Config) { c.Window = 1 }},
		{"bias out of range", func(c *Config) { c.Bias = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func BenchmarkHeightFieldScroll(b *testing.B) {
	h, _ := New(DefaultConfig())
	for i := 0; i < b.N; i++ {
		h.Sample(float64(i) * 0.75)
	}
}
