package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/kinesim/internal/chain"
	"github.com/san-kum/kinesim/internal/config"
	"github.com/san-kum/kinesim/internal/dynamo"
	"github.com/san-kum/kinesim/internal/ik"
	"github.com/san-kum/kinesim/internal/metrics"
	"github.com/san-kum/kinesim/internal/rigid"
	"github.com/san-kum/kinesim/internal/sim"
	"github.com/san-kum/kinesim/internal/target"
	"github.com/san-kum/kinesim/internal/terrain"
)

// SettleSpeed is the body speed below which the settle metric counts the
// body as resting.
const SettleSpeed = 0.01

type scene struct {
	description string
	target      string
	build       func(cfg *config.Config, t dynamo.Terrain) (*sim.Rig, dynamo.TargetSupplier, error)
}

type Registry struct {
	scenes map[string]scene
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]scene)}

	r.scenes["fish"] = scene{
		description: "chain following a looping path",
		target:      config.TargetPath,
		build:       buildChain,
	}
	r.scenes["tentacle"] = scene{
		description: "chain following waypoints",
		target:      config.TargetWaypoints,
		build:       buildChain,
	}
	r.scenes["leg"] = scene{
		description: "three-segment leg reaching for a hopping target",
		target:      config.TargetHop,
		build:       buildLeg,
	}
	r.scenes["crawler"] = scene{
		description: "crawler gait over the height field with a trailing tail",
		target:      config.TargetGait,
		build:       buildCrawler,
	}
	r.scenes["drop"] = scene{
		description: "rigid box held, then dropped onto the terrain",
		target:      config.TargetStatic,
		build:       buildDrop,
	}
	return r
}

// Build validates cfg and assembles the simulator for its scene with the
// default metrics attached.
func (r *Registry) Build(cfg *config.Config) (*sim.Simulator, error) {
	sc, ok := r.scenes[cfg.Scene]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q: %w", cfg.Scene, dynamo.ErrUnknownKind)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ground, err := NewTerrain(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Target.Kind == "" {
		c := *cfg
		c.Target.Kind = sc.target
		cfg = &c
	}

	rig, supplier, err := sc.build(cfg, ground)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", cfg.Scene, err)
	}

	s := sim.New(rig, supplier)
	for _, m := range r.DefaultMetrics(rig) {
		s.AddMetric(m)
	}
	return s, nil
}

// Factory returns a sim.Factory that builds cfg with the seed replaced.
func (r *Registry) Factory(cfg *config.Config) sim.Factory {
	return func(seed int64) (*sim.Simulator, error) {
		c := *cfg
		c.Seed = seed
		return r.Build(&c)
	}
}

func (r *Registry) ListScenes() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Describe(name string) string {
	return r.scenes[name].description
}

// DefaultMetrics picks metrics for whichever parts the rig has.
func (r *Registry) DefaultMetrics(rig *sim.Rig) []dynamo.Metric {
	var ms []dynamo.Metric
	if m := rig.Chain(); m != nil {
		ms = append(ms, metrics.NewLengthError(m.Lengths()), metrics.NewMaxBend())
	}
	if l := rig.Leg(); l != nil {
		ms = append(ms, metrics.NewReach(), metrics.NewJointLengthError(l.Lengths()))
	}
	if rig.Body() != nil {
		ms = append(ms,
			metrics.NewKineticEnergy(),
			metrics.NewPeakImpulse(),
			metrics.NewPenetration(rig.Terrain()),
			metrics.NewSettleTick(SettleSpeed),
		)
	}
	return ms
}

// NewTerrain builds the ground described by cfg. The height field is
// seeded with the run seed.
func NewTerrain(cfg *config.Config) (dynamo.Terrain, error) {
	switch cfg.Terrain.Kind {
	case config.TerrainHeightField:
		tc := cfg.Terrain.Config
		tc.Seed = cfg.Seed
		return terrain.New(tc)
	case config.TerrainFlat:
		return terrain.NewFlat(cfg.Terrain.FlatY), nil
	case config.TerrainPolyline:
		return terrain.DemoPolyline(cfg.Terrain.FlatY), nil
	default:
		return nil, fmt.Errorf("terrain %q: %w", cfg.Terrain.Kind, dynamo.ErrUnknownKind)
	}
}

// newSupplier builds the configured target. anchor is where a hopper
// measures its distance from.
func newSupplier(cfg *config.Config, anchor dynamo.Vec) (dynamo.TargetSupplier, error) {
	tc := cfg.Target
	switch tc.Kind {
	case config.TargetPath:
		return target.NewPath(tc.Path)
	case config.TargetHop:
		return target.NewHopper(tc.Hop, anchor)
	case config.TargetGait:
		return target.NewGait(tc.Gait)
	case config.TargetStatic:
		return target.Static(tc.Point), nil
	case config.TargetWaypoints:
		return target.NewWaypoints(tc.Waypoints, tc.Hold)
	default:
		return nil, fmt.Errorf("target %q: %w", tc.Kind, dynamo.ErrUnknownKind)
	}
}

func buildChain(cfg *config.Config, t dynamo.Terrain) (*sim.Rig, dynamo.TargetSupplier, error) {
	supplier, err := newSupplier(cfg, dynamo.Vec{})
	if err != nil {
		return nil, nil, err
	}
	head := supplier.Next(0, sim.NewRig(t))
	m, err := chain.New(cfg.Chain, head, dynamo.V(-1, 0))
	if err != nil {
		return nil, nil, err
	}
	// reading the head position advanced stateful suppliers; start over
	if supplier, err = newSupplier(cfg, dynamo.Vec{}); err != nil {
		return nil, nil, err
	}
	solver, err := chain.NewSolver(cfg.Solver)
	if err != nil {
		return nil, nil, err
	}
	return sim.NewRig(t).WithChain(m, solver), supplier, nil
}

func buildLeg(cfg *config.Config, t dynamo.Terrain) (*sim.Rig, dynamo.TargetSupplier, error) {
	x := cfg.Body.X
	base := dynamo.V(x, t.Sample(x).Height-2.5*cfg.IK.Segment)
	leg, err := ik.NewLeg(cfg.IK, base)
	if err != nil {
		return nil, nil, err
	}
	supplier, err := newSupplier(cfg, base)
	if err != nil {
		return nil, nil, err
	}
	return sim.NewRig(t).WithLeg(leg), supplier, nil
}

func buildCrawler(cfg *config.Config, t dynamo.Terrain) (*sim.Rig, dynamo.TargetSupplier, error) {
	supplier, err := newSupplier(cfg, dynamo.Vec{})
	if err != nil {
		return nil, nil, err
	}
	x := cfg.Target.Gait.StartX
	origin := dynamo.V(x, t.Sample(x).Height-cfg.Target.Gait.HoverHeight)
	m, err := chain.New(cfg.Chain, origin, dynamo.V(-1, 0))
	if err != nil {
		return nil, nil, err
	}
	solver, err := chain.NewSolver(cfg.Solver)
	if err != nil {
		return nil, nil, err
	}
	return sim.NewRig(t).WithChain(m, solver), supplier, nil
}

func buildDrop(cfg *config.Config, t dynamo.Terrain) (*sim.Rig, dynamo.TargetSupplier, error) {
	b, err := rigid.New(cfg.Body.Config, dynamo.V(cfg.Body.X, cfg.Body.Y))
	if err != nil {
		return nil, nil, err
	}
	b.Angle = cfg.Body.Angle
	res, err := rigid.NewResolver(cfg.Body.Config)
	if err != nil {
		return nil, nil, err
	}
	supplier, err := newSupplier(cfg, dynamo.Vec{})
	if err != nil {
		return nil, nil, err
	}
	return sim.NewRig(t).WithBody(b, res, cfg.Body.GrabTicks), supplier, nil
}
