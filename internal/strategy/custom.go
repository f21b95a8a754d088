package strategy

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"bankroll-lab/internal/domain"
)

// ErrStrategyEvaluation is wrapped by every custom strategy failure.
var ErrStrategyEvaluation = errors.New("strategy evaluation failed")

// Func is a user supplied bet sizing function.
// It must treat history as read-only and be free of side effects.
type Func func(bankroll float64, round int, history []domain.RoundRecord) (float64, error)

// CustomStrategy wraps a Func. Failures (returned errors, panics,
// non-finite results) are replaced by domain.FallbackBetFraction and
// never reach the trial.
type CustomStrategy struct {
	Name string

	fn        Func
	logger    zerolog.Logger
	fallbacks int
}

// NewCustomStrategy creates a CustomStrategy. fn must not be nil.
func NewCustomStrategy(name string, fn Func, logger zerolog.Logger) (*CustomStrategy, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: custom strategy %q has no bet function", domain.ErrConfiguration, name)
	}
	return &CustomStrategy{
		Name:   name,
		fn:     fn,
		logger: logger.With().Str("strategy", name).Logger(),
	}, nil
}

// ID returns the strategy identifier.
func (s *CustomStrategy) ID() string {
	return "CUSTOM_" + s.Name
}

// Evaluate calls the wrapped function. Returns an error wrapping
// ErrStrategyEvaluation if it fails, panics or returns NaN/Inf.
func (s *CustomStrategy) Evaluate(bankroll float64, round int, history []domain.RoundRecord) (fraction float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			fraction = 0
			err = fmt.Errorf("%w: panic: %v", ErrStrategyEvaluation, r)
		}
	}()

	fraction, err = s.fn(bankroll, round, history)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStrategyEvaluation, err)
	}
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		return 0, fmt.Errorf("%w: non-finite fraction %v", ErrStrategyEvaluation, fraction)
	}
	return fraction, nil
}

// BetFraction returns the wrapped function's result, or
// domain.FallbackBetFraction if evaluation fails.
func (s *CustomStrategy) BetFraction(bankroll float64, round int, history []domain.RoundRecord) float64 {
	fraction, err := s.Evaluate(bankroll, round, history)
	if err != nil {
		s.fallbacks++
		s.logger.Warn().
			Err(err).
			Int("round", round).
			Float64("fallback_fraction", domain.FallbackBetFraction).
			Msg("custom bet function failed, using fallback fraction")
		return domain.FallbackBetFraction
	}
	return fraction
}

// Fallbacks returns how many times the fallback fraction was used since
// the instance was created. Not cleared by Reset.
func (s *CustomStrategy) Fallbacks() int {
	return s.fallbacks
}

// Reset is a no-op: Func is stateless by contract.
func (s *CustomStrategy) Reset() {}

// FallbackCounter is implemented by strategies that substitute a
// fallback fraction on failure.
type FallbackCounter interface {
	Fallbacks() int
}

// Ensure CustomStrategy implements Strategy
var (
	_ Strategy        = (*CustomStrategy)(nil)
	_ FallbackCounter = (*CustomStrategy)(nil)
)
