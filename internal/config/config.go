package config

import (
	"fmt"
	"os"

	"github.com/san-kum/kinesim/internal/chain"
	"github.com/san-kum/kinesim/internal/dynamo"
	"github.com/san-kum/kinesim/internal/ik"
	"github.com/san-kum/kinesim/internal/rigid"
	"github.com/san-kum/kinesim/internal/target"
	"github.com/san-kum/kinesim/internal/terrain"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScene     = "fish"
	DefaultTicks     = 600
	DefaultFlatY     = 500.0
	DefaultBodyX     = 400.0
	DefaultBodyY     = 150.0
	DefaultGrabTicks = 60
	DefaultHold      = 120
)

// Terrain kinds.
const (
	TerrainHeightField = "heightfield"
	TerrainFlat        = "flat"
	TerrainPolyline    = "polyline"
)

// Target kinds. An empty kind lets the scene choose.
const (
	TargetPath      = "path"
	TargetHop       = "hop"
	TargetGait      = "gait"
	TargetStatic    = "static"
	TargetWaypoints = "waypoints"
)

type Config struct {
	Scene       string             `yaml:"scene"`
	Seed        int64              `yaml:"seed"`
	Ticks       int                `yaml:"ticks"`
	RecordEvery int                `yaml:"record_every"`
	Chain       chain.Spec         `yaml:"chain"`
	Solver      chain.SolverConfig `yaml:"solver"`
	IK          ik.LegSpec         `yaml:"ik"`
	Body        BodyConfig         `yaml:"body"`
	Terrain     TerrainConfig      `yaml:"terrain"`
	Target      TargetConfig       `yaml:"target"`
}

// BodyConfig places the rigid body. It is held at the target for GrabTicks
// ticks before it is dropped.
type BodyConfig struct {
	rigid.Config `yaml:",inline"`
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	Angle        float64 `yaml:"angle"`
	GrabTicks    int     `yaml:"grab_ticks"`
}

// TerrainConfig selects the ground. The height field seed is taken from the
// top-level seed.
type TerrainConfig struct {
	Kind           string `yaml:"kind"`
	terrain.Config `yaml:",inline"`
	FlatY          float64 `yaml:"flat_y"`
}

type TargetConfig struct {
	Kind      string            `yaml:"kind"`
	Path      target.PathConfig `yaml:"path"`
	Hop       target.HopConfig  `yaml:"hop"`
	Gait      target.GaitConfig `yaml:"gait"`
	Point     dynamo.Vec        `yaml:"point"`
	Waypoints []dynamo.Vec      `yaml:"waypoints,omitempty"`
	Hold      int               `yaml:"hold"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:  DefaultScene,
		Ticks:  DefaultTicks,
		Chain:  chain.DefaultSpec(),
		Solver: chain.DefaultSolverConfig(),
		IK:     ik.DefaultLegSpec(),
		Body: BodyConfig{
			Config:    rigid.DefaultConfig(),
			X:         DefaultBodyX,
			Y:         DefaultBodyY,
			GrabTicks: DefaultGrabTicks,
		},
		Terrain: TerrainConfig{
			Kind:   TerrainHeightField,
			Config: terrain.DefaultConfig(),
			FlatY:  DefaultFlatY,
		},
		Target: TargetConfig{
			Path:  target.DefaultPathConfig(),
			Hop:   target.DefaultHopConfig(),
			Gait:  target.DefaultGaitConfig(),
			Point: dynamo.V(DefaultBodyX, DefaultBodyY),
			Hold:  DefaultHold,
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes a YAML file over cfg, so keys missing from the file keep
// the values already in cfg.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every section, including the ones the scene does not use,
// so a file stays valid when the scene is switched.
func (c *Config) Validate() error {
	if c.Scene == "" {
		return dynamo.Invalid("config", "scene", c.Scene, "must be set")
	}
	if c.Ticks <= 0 {
		return dynamo.Invalid("config", "ticks", c.Ticks, "must be positive")
	}
	if c.RecordEvery < 0 {
		return dynamo.Invalid("config", "record_every", c.RecordEvery, "must not be negative")
	}

	checks := []func() error{
		c.Chain.Validate,
		c.Solver.Validate,
		c.IK.Validate,
		c.Body.Config.Validate,
		c.Terrain.validate,
		c.Target.validate,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	if c.Body.GrabTicks < 0 {
		return dynamo.Invalid("body", "grab_ticks", c.Body.GrabTicks, "must not be negative")
	}
	return nil
}

func (t TerrainConfig) validate() error {
	switch t.Kind {
	case TerrainHeightField:
		return t.Config.Validate()
	case TerrainFlat, TerrainPolyline:
		return nil
	default:
		return dynamo.Invalid("terrain", "kind", t.Kind, "is not heightfield, flat or polyline")
	}
}

func (t TargetConfig) validate() error {
	switch t.Kind {
	case "", TargetStatic:
		return nil
	case TargetPath:
		return t.Path.Validate()
	case TargetHop:
		return t.Hop.Validate()
	case TargetGait:
		return t.Gait.Validate()
	case TargetWaypoints:
		if len(t.Waypoints) == 0 {
			return dynamo.Invalid("target", "waypoints", 0, "need at least one point")
		}
		if t.Hold < 1 {
			return dynamo.Invalid("target", "hold", t.Hold, "must be at least 1")
		}
		return nil
	default:
		return dynamo.Invalid("target", "kind", t.Kind, "is not a known target")
	}
}
