package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/kinesim/internal/dynamo"
)

type Simulator struct {
	rig       *Rig
	supplier  dynamo.TargetSupplier
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(rig *Rig, supplier dynamo.TargetSupplier) *Simulator {
	return &Simulator{
		rig:       rig,
		supplier:  supplier,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Rig() *Rig                       { return s.rig }
func (s *Simulator) Supplier() dynamo.TargetSupplier { return s.supplier }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}

	every := max(cfg.RecordEvery, 1)
	result := &Result{
		Frames:  make([]dynamo.Frame, 0, cfg.Ticks/every+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for tick := 0; tick < cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		f := s.step(tick)
		result.TicksRun++
		result.Skipped += f.Skipped

		if tick%every == 0 || tick == cfg.Ticks-1 {
			result.Frames = append(result.Frames, f)
		}
	}

	s.collect(result)
	return result, nil
}

// RunWithCallback advances until the tick budget is spent or callback
// returns false. The frame passed to callback is reused on the next tick.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(*dynamo.Frame) bool) error {
	if err := s.validate(cfg); err != nil {
		return err
	}

	var f dynamo.Frame
	for tick := 0; tick < cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.stepInto(&f, tick)
		if !callback(&f) {
			return nil
		}
	}
	return nil
}

// Step advances one tick outside of Run, for interactive drivers. Ticks must
// be passed in increasing order starting at zero.
func (s *Simulator) Step(tick int) dynamo.Frame { return s.step(tick) }

func (s *Simulator) step(tick int) dynamo.Frame {
	var f dynamo.Frame
	s.stepInto(&f, tick)
	return f
}

func (s *Simulator) stepInto(f *dynamo.Frame, tick int) {
	target := s.supplier.Next(tick, s.rig)
	s.rig.AdvanceInto(f, target, tick)
	if fr, ok := s.supplier.(FootReporter); ok {
		f.Feet = append(f.Feet[:0], fr.FootPositions()...)
	}

	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, obs := range s.observers {
		obs.OnTick(f)
	}
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// MetricValues reads every metric's current value.
func (s *Simulator) MetricValues() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Simulator) validate(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d", cfg.RecordEvery)
	}
	if s.rig == nil || s.rig.terrain == nil {
		return fmt.Errorf("simulator needs a rig with terrain")
	}
	if s.supplier == nil {
		return fmt.Errorf("simulator needs a target supplier")
	}
	return nil
}
