// Package sweep runs one batch per value of a swept simulation parameter.
package sweep

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/idhash"
	"bankroll-lab/internal/observability"
	"bankroll-lab/internal/simulation"
	"bankroll-lab/internal/strategy"
)

// Step limits accepted for a sweep.
const (
	MinSteps = 2
	MaxSteps = 100
)

// Sweep errors. All wrap domain.ErrConfiguration.
var (
	ErrUnknownParameter = fmt.Errorf("%w: unknown sweep parameter", domain.ErrConfiguration)
	ErrInvalidSteps     = fmt.Errorf("%w: sweep steps out of range", domain.ErrConfiguration)
	ErrInvalidRange     = fmt.Errorf("%w: sweep end must be greater than start", domain.ErrConfiguration)
)

// Options contains configuration shared by every point of a sweep.
type Options struct {
	Registry *strategy.Registry     // resolves custom strategies
	Workers  int                    // per batch, see simulation.RunnerOptions
	Seed     uint64                 // 0 picks a random seed
	Logger   *zerolog.Logger        // optional
	Metrics  *observability.Metrics // optional
}

// Validate checks a sweep specification.
func Validate(spec domain.SweepSpec) error {
	switch spec.Parameter {
	case domain.SweepParamBetFraction, domain.SweepParamInitialBankroll:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParameter, spec.Parameter)
	}
	if spec.Steps < MinSteps || spec.Steps > MaxSteps {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidSteps, spec.Steps, MinSteps, MaxSteps)
	}
	if !(spec.Start < spec.End) {
		return fmt.Errorf("%w (start %g, end %g)", ErrInvalidRange, spec.Start, spec.End)
	}
	return nil
}

// Linspace returns steps evenly spaced values over [start, end].
// The last value is exactly end.
func Linspace(start, end float64, steps int) []float64 {
	if steps <= 0 {
		return nil
	}
	out := make([]float64, steps)
	if steps == 1 {
		out[0] = start
		return out
	}

	delta := (end - start) / float64(steps-1)
	for i := range out {
		out[i] = start + float64(i)*delta
	}
	out[steps-1] = end
	return out
}

// Run evaluates settings once per swept value. Each point runs
// max(1, settings.NumSimulations/spec.Steps) trials; all other
// settings are kept.
func Run(ctx context.Context, settings domain.SimulationSettings, spec domain.SweepSpec, opts Options) (*domain.SweepResult, error) {
	if err := Validate(spec); err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	log := logger.With().Str("component", "sweep").Str("parameter", spec.Parameter).Logger()

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64() | 1
	}

	result := &domain.SweepResult{
		Parameter:    spec.Parameter,
		Seed:         seed,
		SweepResults: make([]domain.SweepPoint, 0, spec.Steps),
	}
	perPoint := max(1, settings.NumSimulations/spec.Steps)

	for i, value := range Linspace(spec.Start, spec.End, spec.Steps) {
		point := settings
		point.NumSimulations = perPoint
		point.Sweep = nil
		switch spec.Parameter {
		case domain.SweepParamBetFraction:
			point.BetFraction = value
		case domain.SweepParamInitialBankroll:
			point.InitialBankroll = value
		}

		cfg, factory, err := simulation.FromSettings(point, opts.Registry, logger)
		if err != nil {
			return nil, fmt.Errorf("sweep point %d (%s=%g): %w", i, spec.Parameter, value, err)
		}

		runner, err := simulation.NewRunner(simulation.RunnerOptions{
			Config:      cfg,
			NewStrategy: factory,
			ScenarioID:  idhash.ComputeScenarioID(point),
			Workers:     opts.Workers,
			Seed:        seed,
			Logger:      &logger,
			Metrics:     opts.Metrics,
		})
		if err != nil {
			return nil, err
		}

		batch, err := runner.Run(ctx)
		if err != nil {
			return nil, err
		}

		result.SweepResults = append(result.SweepResults, domain.SweepPoint{
			ParamValue:          value,
			NumSimulations:      batch.NumSimulations,
			MeanFinalBankroll:   batch.MeanFinalBankroll,
			MedianFinalBankroll: batch.MedianFinalBankroll,
			StdFinalBankroll:    batch.StdFinalBankroll,
			ProbabilityOfRuin:   batch.ProbabilityOfRuin,
			MeanMaxDrawdown:     batch.MeanMaxDrawdown,
		})
		opts.Metrics.RecordSweepPoint()

		log.Info().
			Int("point", i).
			Float64("value", value).
			Float64("mean_final_bankroll", batch.MeanFinalBankroll).
			Float64("probability_of_ruin", batch.ProbabilityOfRuin).
			Msg("sweep point finished")
	}

	return result, nil
}
