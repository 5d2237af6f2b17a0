package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/kinesim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scene != DefaultScene {
		t.Errorf("expected scene %s, got %s", DefaultScene, cfg.Scene)
	}
	if cfg.Ticks <= 0 {
		t.Error("ticks should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinesim.yaml")
	cfg := GetPreset("tentacle", "default")
	cfg.Seed = 7
	cfg.Body.Friction = 0.3

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Scene != "tentacle" || loaded.Seed != 7 {
		t.Errorf("scene/seed not restored: %s/%d", loaded.Scene, loaded.Seed)
	}
	if loaded.Body.Friction != 0.3 {
		t.Errorf("inline body field not restored: %f", loaded.Body.Friction)
	}
	if len(loaded.Target.Waypoints) != 4 || loaded.Target.Waypoints[2] != dynamo.V(550, 400) {
		t.Errorf("waypoints not restored: %v", loaded.Target.Waypoints)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	doc := "scene: drop\nbody:\n  mass: 3\nterrain:\n  kind: flat\n  flat_y: 450\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Body.Mass != 3 || cfg.Body.Width != DefaultConfig().Body.Width {
		t.Errorf("expected mass 3 and default width, got %f/%f", cfg.Body.Mass, cfg.Body.Width)
	}
	if cfg.Terrain.Kind != TerrainFlat || cfg.Terrain.FlatY != 450 {
		t.Errorf("terrain not decoded: %+v", cfg.Terrain)
	}
	if cfg.Terrain.Extent != DefaultConfig().Terrain.Extent {
		t.Errorf("inline terrain default lost: %f", cfg.Terrain.Extent)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("ticks: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty scene", func(c *Config) { c.Scene = "" }},
		{"zero ticks", func(c *Config) { c.Ticks = 0 }},
		{"negative record interval", func(c *Config) { c.RecordEvery = -1 }},
		{"short chain", func(c *Config) { c.Chain.Count = 1 }},
		{"length table mismatch", func(c *Config) { c.Chain.Lengths = []float64{1, 2} }},
		{"negative segment", func(c *Config) { c.Chain.Length = -3 }},
		{"zero solver iterations", func(c *Config) { c.Solver.Iterations = 0 }},
		{"unknown tie break", func(c *Config) { c.IK.TieBreak = "sideways" }},
		{"zero mass", func(c *Config) { c.Body.Mass = 0 }},
		{"negative grab", func(c *Config) { c.Body.GrabTicks = -1 }},
		{"unknown terrain", func(c *Config) { c.Terrain.Kind = "lava" }},
		{"zero extent", func(c *Config) { c.Terrain.Extent = 0 }},
		{"unknown target", func(c *Config) { c.Target.Kind = "mouse" }},
		{"empty waypoints", func(c *Config) {
			c.Target.Kind = TargetWaypoints
			c.Target.Waypoints = nil
		}},
		{"zero hold", func(c *Config) {
			c.Target.Kind = TargetWaypoints
			c.Target.Waypoints = []dynamo.Vec{{}}
			c.Target.Hold = 0
		}},
		{"flat path", func(c *Config) {
			c.Target.Kind = TargetPath
			c.Target.Path.Height = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("leg", "upper")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Scene != "leg" || cfg.IK.TieBreak != "upper" || cfg.Target.Kind != TargetHop {
		t.Errorf("preset not applied: %+v", cfg.IK)
	}

	// presets hand out fresh copies
	cfg.Chain.Count = 99
	if GetPreset("leg", "upper").Chain.Count == 99 {
		t.Error("preset shares state between calls")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("fish", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "default") != nil {
		t.Error("expected nil for nonexistent scene")
	}
}

func TestPresetsValid(t *testing.T) {
	for _, scene := range Scenes() {
		for _, name := range ListPresets(scene) {
			t.Run(scene+"/"+name, func(t *testing.T) {
				if err := GetPreset(scene, name).Validate(); err != nil {
					t.Errorf("invalid preset: %v", err)
				}
			})
		}
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("drop")
	if len(presets) == 0 || presets[0] != "bouncy" {
		t.Errorf("expected sorted presets, got %v", presets)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent scene")
	}
}
