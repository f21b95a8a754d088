package strategy

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"bankroll-lab/internal/distribution"
	"bankroll-lab/internal/domain"
)

// Factory errors. All wrap domain.ErrConfiguration.
var (
	ErrUnknownStrategyType    = fmt.Errorf("%w: unknown strategy type", domain.ErrConfiguration)
	ErrMissingFraction        = fmt.Errorf("%w: fixed_fraction requires Fraction", domain.ErrConfiguration)
	ErrMissingFractionCap     = fmt.Errorf("%w: kelly_criterion requires FractionCap", domain.ErrConfiguration)
	ErrMissingDistribution    = fmt.Errorf("%w: kelly_criterion requires a distribution", domain.ErrConfiguration)
	ErrMissingBaseFraction    = fmt.Errorf("%w: martingale requires BaseFraction", domain.ErrConfiguration)
	ErrMissingMaxFraction     = fmt.Errorf("%w: martingale requires MaxFraction", domain.ErrConfiguration)
	ErrUnknownCustomStrategy  = fmt.Errorf("%w: custom strategy not registered", domain.ErrConfiguration)
	errCustomRegistryRequired = errors.New("custom strategy requires a registry")
)

// FromConfig validates cfg and returns a Factory producing fresh
// instances of the configured strategy.
// Returns clear errors for missing/invalid params.
func FromConfig(cfg domain.StrategyConfig, dist *distribution.Distribution, registry *Registry, logger zerolog.Logger) (Factory, error) {
	switch cfg.StrategyType {
	case domain.StrategyTypeFixedFraction:
		return fromFixedFractionConfig(cfg)
	case domain.StrategyTypeKellyCriterion:
		return fromKellyConfig(cfg, dist)
	case domain.StrategyTypeMartingale:
		return fromMartingaleConfig(cfg)
	case domain.StrategyTypeCustom:
		return fromCustomConfig(cfg, registry, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategyType, cfg.StrategyType)
	}
}

// fromFixedFractionConfig creates a FixedFractionStrategy factory from config.
func fromFixedFractionConfig(cfg domain.StrategyConfig) (Factory, error) {
	if cfg.Fraction == nil {
		return nil, ErrMissingFraction
	}

	fraction := *cfg.Fraction
	return func() Strategy { return NewFixedFractionStrategy(fraction) }, nil
}

// fromKellyConfig creates a KellyCriterionStrategy factory from config.
func fromKellyConfig(cfg domain.StrategyConfig, dist *distribution.Distribution) (Factory, error) {
	if cfg.FractionCap == nil {
		return nil, ErrMissingFractionCap
	}
	if dist == nil {
		return nil, ErrMissingDistribution
	}

	fractionCap := *cfg.FractionCap
	return func() Strategy { return NewKellyCriterionStrategy(dist, fractionCap) }, nil
}

// fromMartingaleConfig creates a MartingaleStrategy factory from config.
func fromMartingaleConfig(cfg domain.StrategyConfig) (Factory, error) {
	if cfg.BaseFraction == nil {
		return nil, ErrMissingBaseFraction
	}
	if cfg.MaxFraction == nil {
		return nil, ErrMissingMaxFraction
	}

	base, maxFraction := *cfg.BaseFraction, *cfg.MaxFraction
	return func() Strategy { return NewMartingaleStrategy(base, maxFraction) }, nil
}

// fromCustomConfig creates a CustomStrategy factory from config.
func fromCustomConfig(cfg domain.StrategyConfig, registry *Registry, logger zerolog.Logger) (Factory, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, errCustomRegistryRequired)
	}

	fn, ok := registry.Lookup(cfg.CustomName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCustomStrategy, cfg.CustomName)
	}

	// Validate once so the factory itself cannot fail.
	if _, err := NewCustomStrategy(cfg.CustomName, fn, logger); err != nil {
		return nil, err
	}

	name := cfg.CustomName
	return func() Strategy {
		s, _ := NewCustomStrategy(name, fn, logger)
		return s
	}, nil
}

// ConfigFromBetFraction derives a StrategyConfig from the single
// bet_fraction setting of a stored simulation:
//   - fixed_fraction: Fraction = betFraction
//   - kelly_criterion: FractionCap = betFraction
//   - martingale: BaseFraction = betFraction/10, MaxFraction = betFraction
//   - custom: CustomName = customName
func ConfigFromBetFraction(strategyType string, betFraction float64, customName string) domain.StrategyConfig {
	cfg := domain.StrategyConfig{StrategyType: strategyType}

	switch strategyType {
	case domain.StrategyTypeFixedFraction:
		cfg.Fraction = &betFraction
	case domain.StrategyTypeKellyCriterion:
		cfg.FractionCap = &betFraction
	case domain.StrategyTypeMartingale:
		base := betFraction / 10
		cfg.BaseFraction = &base
		cfg.MaxFraction = &betFraction
	case domain.StrategyTypeCustom:
		cfg.CustomName = customName
	}

	return cfg
}

// ApplyParams overrides derived parameters with explicit ones.
func ApplyParams(cfg domain.StrategyConfig, params *domain.StrategyParams) domain.StrategyConfig {
	if params == nil {
		return cfg
	}
	if params.Fraction != nil {
		cfg.Fraction = params.Fraction
	}
	if params.FractionCap != nil {
		cfg.FractionCap = params.FractionCap
	}
	if params.BaseFraction != nil {
		cfg.BaseFraction = params.BaseFraction
	}
	if params.MaxFraction != nil {
		cfg.MaxFraction = params.MaxFraction
	}
	return cfg
}
