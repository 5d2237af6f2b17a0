package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/kinesim/internal/chain"
	"github.com/san-kum/kinesim/internal/dynamo"
	"github.com/san-kum/kinesim/internal/ik"
	"github.com/san-kum/kinesim/internal/rigid"
	"github.com/san-kum/kinesim/internal/target"
	"github.com/san-kum/kinesim/internal/terrain"
)

func fishSim(t *testing.T, seed int64) *Simulator {
	t.Helper()
	cfg := terrain.DefaultConfig()
	cfg.Seed = seed
	field, err := terrain.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	m, err := chain.New(chain.DefaultSpec(), dynamo.V(400, 200), dynamo.V(0, 1))
	if err != nil {
		t.Fatal(err)
	}
	s, err := chain.NewSolver(chain.DefaultSolverConfig())
	if err != nil {
		t.Fatal(err)
	}
	path, err := target.NewPath(target.DefaultPathConfig())
	if err != nil {
		t.Fatal(err)
	}
	return New(NewRig(field).WithChain(m, s), path)
}

func buildCrawler(seed int64) (*Simulator, error) {
	cfg := terrain.DefaultConfig()
	cfg.Seed = seed
	field, err := terrain.New(cfg)
	if err != nil {
		return nil, err
	}
	gait, err := target.NewGait(target.DefaultGaitConfig())
	if err != nil {
		return nil, err
	}
	rb, err := rigid.New(rigid.DefaultConfig(), dynamo.V(400, 100))
	if err != nil {
		return nil, err
	}
	res, err := rigid.NewResolver(rigid.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return New(NewRig(field).WithBody(rb, res, 0), gait), nil
}

func crawlerSim(t *testing.T, seed int64) *Simulator {
	t.Helper()
	sim, err := buildCrawler(seed)
	if err != nil {
		t.Fatal(err)
	}
	return sim
}

func TestSimulatorRun(t *testing.T) {
	sim := fishSim(t, 0)
	result, err := sim.Run(context.Background(), Config{Ticks: 120})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Frames) != 120 || result.TicksRun != 120 {
		t.Fatalf("expected 120 frames, got %d (ticks %d)", len(result.Frames), result.TicksRun)
	}
	last := result.Last()
	if last.Tick != 119 {
		t.Errorf("last tick %d", last.Tick)
	}
	if len(last.Nodes) != chain.DefaultCount {
		t.Errorf("expected %d nodes, got %d", chain.DefaultCount, len(last.Nodes))
	}
	if last.Nodes[0] != last.Target {
		t.Errorf("head %v should sit on target %v", last.Nodes[0], last.Target)
	}
}

func TestSimulatorRecordEvery(t *testing.T) {
	result, err := fishSim(t, 0).Run(context.Background(), Config{Ticks: 100, RecordEvery: 10})
	if err != nil {
		t.Fatal(err)
	}
	// ticks 0,10,...,90 plus the final tick
	if len(result.Frames) != 11 {
		t.Errorf("expected 11 recorded frames, got %d", len(result.Frames))
	}
	if result.Last().Tick != 99 {
		t.Errorf("final frame should be tick 99, got %d", result.Last().Tick)
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	a, err := crawlerSim(t, 3).Run(context.Background(), Config{Ticks: 200})
	if err != nil {
		t.Fatal(err)
	}
	b, err := crawlerSim(t, 3).Run(context.Background(), Config{Ticks: 200})
	if err != nil {
		t.Fatal(err)
	}
	if i := FirstDivergence(a, b); i != -1 {
		t.Fatalf("runs diverge at frame %d", i)
	}

	c, err := crawlerSim(t, 4).Run(context.Background(), Config{Ticks: 200})
	if err != nil {
		t.Fatal(err)
	}
	if FirstDivergence(a, c) == -1 {
		t.Error("different terrain seeds produced identical runs")
	}
}

func TestSimulatorReportsFeet(t *testing.T) {
	result, err := crawlerSim(t, 0).Run(context.Background(), Config{Ticks: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(result.Last().Feet); got != 3 {
		t.Errorf("expected 3 feet, got %d", got)
	}
	if result.Last().Body == nil {
		t.Error("expected body state")
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := fishSim(t, 0)
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero ticks", Config{Ticks: 0}},
		{"negative ticks", Config{Ticks: -5}},
		{"negative record interval", Config{Ticks: 10, RecordEvery: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sim.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	if _, err := New(nil, target.Static{}).Run(context.Background(), Config{Ticks: 1}); err == nil {
		t.Error("expected error for missing rig")
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := fishSim(t, 0).Run(ctx, Config{Ticks: 100})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.TicksRun != 0 {
		t.Errorf("expected no ticks, got %d", result.TicksRun)
	}
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string            { return "count" }
func (c *countMetric) Observe(f *dynamo.Frame) { c.count++ }
func (c *countMetric) Value() float64          { return float64(c.count) }
func (c *countMetric) Reset()                  { c.count = 0 }

func TestSimulatorMetrics(t *testing.T) {
	sim := fishSim(t, 0)
	metric := &countMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), Config{Ticks: 25})
	if err != nil {
		t.Fatal(err)
	}
	if result.Metrics["count"] != 25 {
		t.Errorf("expected 25 observations, got %v", result.Metrics["count"])
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	sim := fishSim(t, 0)
	calls := 0
	err := sim.RunWithCallback(context.Background(), Config{Ticks: 100}, func(f *dynamo.Frame) bool {
		calls++
		return f.Tick < 9
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 10 {
		t.Errorf("expected 10 callbacks, got %d", calls)
	}
}

func TestRigGrabThenDrop(t *testing.T) {
	rb, _ := rigid.New(rigid.DefaultConfig(), dynamo.V(0, 0))
	res, _ := rigid.NewResolver(rigid.DefaultConfig())
	rig := NewRig(terrain.NewFlat(500)).WithBody(rb, res, 20)
	hold := dynamo.V(400, 380)

	for tick := 0; tick < 20; tick++ {
		f := rig.Advance(hold, tick)
		if f.Body.Pos != hold || !f.Body.Grabbed {
			t.Fatalf("tick %d: body should be held at %v, got %v", tick, hold, f.Body.Pos)
		}
	}
	var f dynamo.Frame
	for tick := 20; tick < 320; tick++ {
		f = rig.Advance(hold, tick)
	}
	if f.Body.Grabbed {
		t.Error("body should be released")
	}
	if f.Body.Pos.Y < 479 || f.Body.Vel.Length() > 0.01 {
		t.Errorf("body should rest on the ground, got pos %v vel %v", f.Body.Pos, f.Body.Vel)
	}
}

func TestRigLegReach(t *testing.T) {
	leg, err := ik.NewLeg(ik.DefaultLegSpec(), dynamo.V(400, 300))
	if err != nil {
		t.Fatal(err)
	}
	rig := NewRig(terrain.NewFlat(500)).WithLeg(leg)
	f := rig.Advance(dynamo.V(550, 450), 0)
	if len(f.Joints) != 4 {
		t.Fatalf("expected 4 joints, got %d", len(f.Joints))
	}
	if d := f.Joints[3].Distance(dynamo.V(550, 450)); d > 0.5 {
		t.Errorf("end effector misses target by %f", d)
	}
}
