package verification

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/idhash"
	"bankroll-lab/internal/simulation"
	"bankroll-lab/internal/strategy"
)

var (
	// ErrScenarioMismatch is returned when the stored result was produced
	// by a different scenario than the one supplied for replay.
	ErrScenarioMismatch = errors.New("stored result belongs to a different scenario")

	// ErrMissingSeed is returned when the stored result carries no seed.
	ErrMissingSeed = errors.New("stored result has no seed")
)

// ReplayVerifier re-runs batches from their scenario and seed.
type ReplayVerifier struct {
	settings domain.SimulationSettings
	registry *strategy.Registry
	workers  int
	logger   zerolog.Logger
}

// ReplayVerifierOptions contains configuration for creating a ReplayVerifier.
type ReplayVerifierOptions struct {
	Settings domain.SimulationSettings
	Registry *strategy.Registry // resolves custom strategies
	Workers  int                // results do not depend on it
	Logger   *zerolog.Logger
}

// NewReplayVerifier creates a new ReplayVerifier.
func NewReplayVerifier(opts ReplayVerifierOptions) *ReplayVerifier {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &ReplayVerifier{
		settings: opts.Settings,
		registry: opts.Registry,
		workers:  opts.Workers,
		logger:   logger.With().Str("component", "verification").Logger(),
	}
}

// Verify replays stored with its seed and compares all statistics.
func (v *ReplayVerifier) Verify(ctx context.Context, stored *domain.BatchResult) (*VerificationResult, error) {
	if stored.Seed == 0 {
		return nil, ErrMissingSeed
	}

	scenarioID := idhash.ComputeScenarioID(v.settings)
	if stored.ScenarioID != "" && stored.ScenarioID != scenarioID {
		return nil, fmt.Errorf("%w: stored %s, supplied %s", ErrScenarioMismatch, stored.ScenarioID, scenarioID)
	}

	cfg, factory, err := simulation.FromSettings(v.settings, v.registry, v.logger)
	if err != nil {
		return nil, err
	}

	runner, err := simulation.NewRunner(simulation.RunnerOptions{
		Config:      cfg,
		NewStrategy: factory,
		ScenarioID:  scenarioID,
		Workers:     v.workers,
		Seed:        stored.Seed,
		Logger:      &v.logger,
	})
	if err != nil {
		return nil, err
	}

	replayed, err := runner.Run(ctx)
	if err != nil {
		return nil, err
	}

	divergences := CompareBatchResults(stored, replayed)
	result := &VerificationResult{
		RunID:         stored.RunID,
		ReplayedRunID: replayed.RunID,
		Seed:          stored.Seed,
		Match:         len(divergences) == 0,
		Divergences:   divergences,
	}

	v.logger.Info().
		Str("run_id", stored.RunID).
		Bool("match", result.Match).
		Int("divergences", len(divergences)).
		Msg("batch verified")

	return result, nil
}
