package config

import (
	"sort"

	"github.com/san-kum/kinesim/internal/dynamo"
)

// Presets maps scene -> preset name -> overrides applied on top of
// DefaultConfig. Every scene has a "default" preset.
var Presets = map[string]map[string]func(*Config){
	"fish": {
		"default": func(c *Config) {},
		"eel": func(c *Config) {
			c.Chain.Count = 24
			c.Chain.Length = 15
			c.Chain.TailLengths = []float64{7.5, 7.5}
			c.Chain.RadiusScale = nil
			c.Chain.Radius = 8
			c.Target.Path.Speed = 0.004
		},
		"stiff": func(c *Config) {
			c.Chain.MaxBendDeg = 8
		},
		"fast": func(c *Config) {
			c.Target.Path.Speed = 0.01
		},
	},
	"tentacle": {
		"default": tentacle,
		"loose": func(c *Config) {
			tentacle(c)
			c.Chain.MaxBendDeg = 60
			c.Solver.Iterations = 3
		},
	},
	"leg": {
		"default": func(c *Config) {
			c.Target.Kind = TargetHop
		},
		"upper": func(c *Config) {
			c.Target.Kind = TargetHop
			c.IK.TieBreak = "upper"
		},
		"limited": func(c *Config) {
			c.Target.Kind = TargetHop
			c.IK.MaxJointDeg = 120
		},
		"still": func(c *Config) {
			c.Target.Kind = TargetStatic
			c.Target.Point = dynamo.V(520, 280)
		},
	},
	"crawler": {
		"default": crawler,
		"hills": func(c *Config) {
			crawler(c)
			c.Terrain.WaveAmplitude = 0.8
			c.Terrain.WaveFrequency = 0.004
		},
		"rough": func(c *Config) {
			crawler(c)
			c.Terrain.Noise = 2
			c.Terrain.MaxStep = 4
		},
	},
	"drop": {
		"default": func(c *Config) {
			c.Target.Kind = TargetStatic
		},
		"tilted": func(c *Config) {
			c.Target.Kind = TargetStatic
			c.Body.GrabTicks = 0
			c.Body.Angle = 0.7
		},
		"bouncy": func(c *Config) {
			c.Target.Kind = TargetStatic
			c.Target.Point = dynamo.V(DefaultBodyX, 100)
			c.Body.Restitution = 0.6
		},
		"slippery": func(c *Config) {
			c.Target.Kind = TargetStatic
			c.Target.Point = dynamo.V(250, 300)
			c.Body.Friction = 0.05
			c.Terrain.Kind = TerrainPolyline
		},
		"stairs": func(c *Config) {
			c.Target.Kind = TargetStatic
			c.Target.Point = dynamo.V(1000, 300)
			c.Terrain.Kind = TerrainPolyline
		},
	},
}

func tentacle(c *Config) {
	c.Chain.Count = 10
	c.Chain.Length = 30
	c.Chain.TailLengths = nil
	c.Chain.RadiusScale = nil
	c.Chain.Radius = 6
	c.Chain.MaxBendDeg = 30
	c.Target.Kind = TargetWaypoints
	c.Target.Waypoints = []dynamo.Vec{
		dynamo.V(250, 150), dynamo.V(550, 150),
		dynamo.V(550, 400), dynamo.V(250, 400),
	}
}

func crawler(c *Config) {
	c.Target.Kind = TargetGait
	c.Chain.Count = 8
	c.Chain.Length = 12
	c.Chain.TailLengths = nil
	c.Chain.RadiusScale = nil
	c.Chain.Radius = 5
	c.Chain.MaxBendDeg = 25
	c.Terrain.Bias = 0.3
}

// GetPreset returns a fresh config for the named preset, or nil when the
// scene or preset is unknown.
func GetPreset(scene, preset string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	apply, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scene = scene
	apply(cfg)
	return cfg
}

// ListPresets returns the preset names of a scene in sorted order.
func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scenes lists the scenes that have presets.
func Scenes() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
