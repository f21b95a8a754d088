package strategy

import (
	"fmt"
	"math"

	"bankroll-lab/internal/domain"
)

// MartingaleStrategy doubles the bet fraction after every non-winning round.
//
// A round counts as won when the current bankroll exceeds the previous
// round's pre-bet bankroll (BankrollBefore of the last history record).
// Ties count as losses.
type MartingaleStrategy struct {
	BaseFraction float64 // clamped to [0, 1]
	MaxFraction  float64 // clamped to [BaseFraction, 1]

	consecutiveLosses int
}

// NewMartingaleStrategy creates a MartingaleStrategy.
func NewMartingaleStrategy(baseFraction, maxFraction float64) *MartingaleStrategy {
	base := clamp01(baseFraction)
	return &MartingaleStrategy{
		BaseFraction: base,
		MaxFraction:  max(base, min(1.0, maxFraction)),
	}
}

// ID returns the strategy identifier including parameters.
func (s *MartingaleStrategy) ID() string {
	return fmt.Sprintf("MARTINGALE_base%g_max%g", s.BaseFraction, s.MaxFraction)
}

// BetFraction returns BaseFraction after a win (and on round 0),
// otherwise min(BaseFraction * 2^losses, MaxFraction).
func (s *MartingaleStrategy) BetFraction(bankroll float64, round int, history []domain.RoundRecord) float64 {
	if round == 0 || len(history) == 0 {
		s.consecutiveLosses = 0
		return s.BaseFraction
	}

	last := history[len(history)-1]
	if bankroll > last.BankrollBefore {
		s.consecutiveLosses = 0
		return s.BaseFraction
	}

	s.consecutiveLosses++
	fraction := s.BaseFraction * math.Pow(2, float64(s.consecutiveLosses))
	return min(fraction, s.MaxFraction)
}

// ConsecutiveLosses returns the current loss streak.
func (s *MartingaleStrategy) ConsecutiveLosses() int {
	return s.consecutiveLosses
}

// Reset clears the loss counter.
func (s *MartingaleStrategy) Reset() {
	s.consecutiveLosses = 0
}

// Ensure MartingaleStrategy implements Strategy
var _ Strategy = (*MartingaleStrategy)(nil)
