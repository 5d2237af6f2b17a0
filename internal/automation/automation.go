package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/kinesim/internal/config"
	"github.com/san-kum/kinesim/internal/dynamo"
	"github.com/san-kum/kinesim/internal/experiment"
	"github.com/san-kum/kinesim/internal/optim"
	"github.com/san-kum/kinesim/internal/sim"
	"github.com/san-kum/kinesim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario
type ScenarioStep struct {
	Scene       string             `yaml:"scene"`
	Preset      string             `yaml:"preset"`
	Ticks       int                `yaml:"ticks"`
	RecordEvery int                `yaml:"record_every"`
	Seed        int64              `yaml:"seed"`
	Params      map[string]float64 `yaml:"params"`
	Save        bool               `yaml:"save"`
}

// StepResult pairs a finished step with its stored run, if any.
type StepResult struct {
	Step   ScenarioStep
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves the step into a scene config: preset, then the step's
// own ticks, seed and params.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Scene = s.Scene
	if s.Preset != "" {
		cfg = config.GetPreset(s.Scene, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %s/%s: %w", s.Scene, s.Preset, dynamo.ErrUnknownKind)
		}
	}
	if s.Ticks > 0 {
		cfg.Ticks = s.Ticks
	}
	if s.RecordEvery > 0 {
		cfg.RecordEvery = s.RecordEvery
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	return optim.Apply(cfg, s.Params)
}

// RunScenario executes all steps in a scenario. Steps marked save are
// written to store, which may be nil when nothing is saved.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("running step", "step", i+1, "of", len(scenario.Steps), "scene", step.Scene)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, registry)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if step.Save {
			if store == nil {
				return results, fmt.Errorf("step %d: no store to save to", i+1)
			}
			if sr.RunID, err = store.Save(cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs a scene across evenly spaced values of one parameter
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Final      *dynamo.Frame
	Err        error
}

// RunSweep executes a parameter sweep. A value that fails validation is
// reported in its SweepResult rather than stopping the sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, dynamo.Invalid("sweep", "steps", sweep.NumSteps, "must be at least 1")
	}
	if _, err := optim.Lookup(sweep.ParamName); err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		sr := SweepResult{ParamValue: paramVal}

		cfg, err := optim.Apply(sweep.Base, map[string]float64{sweep.ParamName: paramVal})
		if err != nil {
			return nil, err
		}

		exp := experiment.New(cfg, registry)
		if err := exp.Setup(); err != nil {
			sr.Err = err
			results = append(results, sr)
			continue
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}
		sr.Metrics = result.Metrics
		sr.Final = result.Last()
		results = append(results, sr)

		log.Debug("sweep", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloConfig drops a body from randomly perturbed poses.
type MonteCarloConfig struct {
	Base              *config.Config
	Perturbation      float64 // max offset of the start position
	AnglePerturbation float64 // max offset of the start angle, radians
	NumTrials         int
	MaxPenetration    float64
	Seed              int64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID     int
	Start       dynamo.Vec
	Angle       float64
	SettleTick  int
	Penetration float64
	Stable      bool // settled without sinking past MaxPenetration
}

// RunMonteCarlo executes multiple trials with random perturbations
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		c := *cfg.Base
		c.Body.X += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		c.Body.Y += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		c.Body.Angle += (rng.Float64() - 0.5) * 2 * cfg.AnglePerturbation

		exp := experiment.New(&c, registry)
		if err := exp.Setup(); err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		if exp.GetSimulator().Rig().Body() == nil {
			return nil, fmt.Errorf("scene %s has no body", c.Scene)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		settle := int(result.Metrics["settle_tick"])
		pen := result.Metrics["penetration"]
		stable := settle >= 0 && pen <= cfg.MaxPenetration
		if last := result.Last(); last == nil || !dynamo.Finite(last.Body.Pos) {
			stable = false
		}

		results = append(results, MonteCarloResult{
			TrialID:     trial,
			Start:       dynamo.V(c.Body.X, c.Body.Y),
			Angle:       c.Body.Angle,
			SettleTick:  settle,
			Penetration: pen,
			Stable:      stable,
		})

		if (trial+1)%10 == 0 {
			log.Info("monte carlo", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo runs
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
