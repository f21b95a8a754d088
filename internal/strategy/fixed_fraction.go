package strategy

import (
	"fmt"

	"bankroll-lab/internal/domain"
)

// FixedFractionStrategy bets the same fraction of bankroll every round.
type FixedFractionStrategy struct {
	Fraction float64 // clamped to [0, 1]
}

// NewFixedFractionStrategy creates a FixedFractionStrategy, clamping fraction to [0, 1].
func NewFixedFractionStrategy(fraction float64) *FixedFractionStrategy {
	return &FixedFractionStrategy{Fraction: clamp01(fraction)}
}

// ID returns the strategy identifier including parameters.
func (s *FixedFractionStrategy) ID() string {
	return fmt.Sprintf("FIXED_FRACTION_%g", s.Fraction)
}

// BetFraction returns the fixed fraction.
func (s *FixedFractionStrategy) BetFraction(_ float64, _ int, _ []domain.RoundRecord) float64 {
	return s.Fraction
}

// Reset is a no-op: the strategy is stateless.
func (s *FixedFractionStrategy) Reset() {}

// Ensure FixedFractionStrategy implements Strategy
var _ Strategy = (*FixedFractionStrategy)(nil)
