package strategy

import (
	"bankroll-lab/internal/domain"
)

// Strategy computes the fraction of bankroll to bet each round.
type Strategy interface {
	// BetFraction is called once per round, before the outcome is drawn.
	// history holds the rounds already played in the current trial and
	// must not be modified. The result may lie outside [0, 1]; the trial
	// runner clamps it.
	BetFraction(bankroll float64, round int, history []domain.RoundRecord) float64

	// Reset clears trial-scoped state. Called once at the start of every trial.
	Reset()

	// ID returns strategy identifier (includes parameters).
	ID() string
}

// Factory returns a fresh Strategy instance with independent state.
// Concurrently running trials never share an instance.
type Factory func() Strategy

// clamp01 restricts f to [0, 1].
func clamp01(f float64) float64 {
	return max(0.0, min(1.0, f))
}
