package simulation

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"bankroll-lab/internal/distribution"
	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/strategy"
)

// Config errors. All wrap domain.ErrConfiguration.
var (
	ErrInvalidInitialBankroll = fmt.Errorf("%w: initial bankroll must be a finite value > 0", domain.ErrConfiguration)
	ErrInvalidNumRounds       = fmt.Errorf("%w: number of rounds must be >= 0", domain.ErrConfiguration)
	ErrInvalidNumSimulations  = fmt.Errorf("%w: number of simulations must be >= 1", domain.ErrConfiguration)
	ErrInvalidBetFraction     = fmt.Errorf("%w: bet fraction must be in [0, 1]", domain.ErrConfiguration)
	ErrMissingDistribution    = fmt.Errorf("%w: outcome distribution is required", domain.ErrConfiguration)
	ErrMissingStrategy        = fmt.Errorf("%w: strategy factory is required", domain.ErrConfiguration)
)

// Config holds the immutable parameters of a batch.
// Distribution is shared read-only by all trials.
type Config struct {
	InitialBankroll float64
	NumRounds       int
	NumSimulations  int
	Distribution    *distribution.Distribution
}

// Validate checks the run parameters.
func (c Config) Validate() error {
	if math.IsNaN(c.InitialBankroll) || math.IsInf(c.InitialBankroll, 0) || c.InitialBankroll <= 0 {
		return fmt.Errorf("%w (got %g)", ErrInvalidInitialBankroll, c.InitialBankroll)
	}
	if c.NumRounds < 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidNumRounds, c.NumRounds)
	}
	if c.NumSimulations < 1 {
		return fmt.Errorf("%w (got %d)", ErrInvalidNumSimulations, c.NumSimulations)
	}
	if c.Distribution == nil {
		return ErrMissingDistribution
	}
	return nil
}

// FromSettings builds the batch Config and strategy Factory described by
// stored settings. An empty strategy type selects fixed_fraction.
// registry resolves custom strategies and may be nil otherwise.
func FromSettings(settings domain.SimulationSettings, registry *strategy.Registry, logger zerolog.Logger) (Config, strategy.Factory, error) {
	bf := settings.BetFraction
	if math.IsNaN(bf) || bf < 0 || bf > 1 {
		return Config{}, nil, fmt.Errorf("%w (got %g)", ErrInvalidBetFraction, bf)
	}

	dist, err := distribution.New(settings.Outcomes)
	if err != nil {
		return Config{}, nil, err
	}

	cfg := Config{
		InitialBankroll: settings.InitialBankroll,
		NumRounds:       settings.NumRounds,
		NumSimulations:  settings.NumSimulations,
		Distribution:    dist,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}

	strategyType := settings.Strategy
	if strategyType == "" {
		strategyType = domain.StrategyTypeFixedFraction
	}
	strategyCfg := strategy.ConfigFromBetFraction(strategyType, bf, settings.CustomStrategy)
	strategyCfg = strategy.ApplyParams(strategyCfg, settings.StrategyParams)

	factory, err := strategy.FromConfig(strategyCfg, dist, registry, logger)
	if err != nil {
		return Config{}, nil, err
	}

	return cfg, factory, nil
}
