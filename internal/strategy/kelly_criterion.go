package strategy

import (
	"fmt"

	"bankroll-lab/internal/distribution"
	"bankroll-lab/internal/domain"
)

// KellyCriterionStrategy bets the growth-optimal fraction for the payout
// distribution, limited by FractionCap.
//   - EV = sum(p_i * m_i), Var = sum(p_i * (m_i - EV)^2)
//   - fraction = min((EV - 1) / Var, FractionCap)
//   - 0 when EV <= 1 (no edge) or Var == 0
type KellyCriterionStrategy struct {
	FractionCap   float64 // clamped to [0, 1]
	ExpectedValue float64
	Variance      float64

	fraction float64
}

// NewKellyCriterionStrategy creates a KellyCriterionStrategy for dist.
// The fraction depends only on dist, so it is computed once here.
func NewKellyCriterionStrategy(dist *distribution.Distribution, fractionCap float64) *KellyCriterionStrategy {
	s := &KellyCriterionStrategy{
		FractionCap:   clamp01(fractionCap),
		ExpectedValue: dist.ExpectedValue(),
		Variance:      dist.Variance(),
	}
	s.fraction = kellyFraction(s.ExpectedValue, s.Variance, s.FractionCap)
	return s
}

func kellyFraction(ev, variance, fractionCap float64) float64 {
	if ev <= 1.0 {
		return 0
	}
	if variance <= 0 {
		return 0
	}
	return min((ev-1)/variance, fractionCap)
}

// ID returns the strategy identifier including parameters.
func (s *KellyCriterionStrategy) ID() string {
	return fmt.Sprintf("KELLY_CRITERION_cap%g", s.FractionCap)
}

// BetFraction returns the Kelly fraction.
func (s *KellyCriterionStrategy) BetFraction(_ float64, _ int, _ []domain.RoundRecord) float64 {
	return s.fraction
}

// Reset is a no-op: the strategy is stateless.
func (s *KellyCriterionStrategy) Reset() {}

// Ensure KellyCriterionStrategy implements Strategy
var _ Strategy = (*KellyCriterionStrategy)(nil)
