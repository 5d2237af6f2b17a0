package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/kinesim/internal/config"
	"github.com/san-kum/kinesim/internal/dynamo"
	"github.com/san-kum/kinesim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	simulator *sim.Simulator
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	return &Experiment{cfg: cfg, registry: registry}
}

// Setup builds the scene. Extra observers are attached after the default
// metrics.
func (e *Experiment) Setup(observers ...dynamo.Observer) error {
	s, err := e.registry.Build(e.cfg)
	if err != nil {
		return err
	}
	for _, o := range observers {
		s.AddObserver(o)
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, sim.Config{
		Ticks:       e.cfg.Ticks,
		RecordEvery: e.cfg.RecordEvery,
	})
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
