package simulation

import (
	"math"

	"bankroll-lab/internal/distribution"
	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/strategy"
)

// RunTrial plays cfg.NumRounds rounds with strat, drawing outcomes from src.
// strat.Reset is called before the first round. The trial stops early
// once the bankroll is at or below domain.RuinThreshold; the remaining
// trajectory points are 0.
func RunTrial(cfg Config, strat strategy.Strategy, src distribution.Source) *domain.TrialResult {
	strat.Reset()

	bankroll := cfg.InitialBankroll
	history := make([]domain.RoundRecord, 0, cfg.NumRounds)
	trajectory := make([]float64, 1, cfg.NumRounds+1)
	trajectory[0] = bankroll

	maxBankroll := bankroll
	minSinceMax := bankroll
	maxDrawdown := 0.0

	for round := 0; round < cfg.NumRounds; round++ {
		if domain.IsRuined(bankroll) {
			// Backing array is zeroed up to NumRounds+1.
			trajectory = trajectory[:cfg.NumRounds+1]
			break
		}

		fraction := clampFraction(strat.BetFraction(bankroll, round, history))
		bet := bankroll * fraction

		idx, multiplier := cfg.Distribution.Sample(src)
		next := max(0, bankroll-bet+bet*multiplier)

		history = append(history, domain.RoundRecord{
			Round:          round,
			BankrollBefore: bankroll,
			BetAmount:      bet,
			BetFraction:    fraction,
			OutcomeIndex:   idx,
			Multiplier:     multiplier,
			BankrollAfter:  next,
		})

		// Drawdown only moves when a new trough below the post-peak minimum appears.
		if next > maxBankroll {
			maxBankroll = next
			minSinceMax = next
		} else if next < minSinceMax {
			minSinceMax = next
			maxDrawdown = max(maxDrawdown, (maxBankroll-minSinceMax)/maxBankroll)
		}

		bankroll = next
		trajectory = append(trajectory, bankroll)
	}

	return &domain.TrialResult{
		InitialBankroll: cfg.InitialBankroll,
		FinalBankroll:   bankroll,
		MaxBankroll:     maxBankroll,
		MaxDrawdown:     maxDrawdown,
		Ruined:          domain.IsRuined(bankroll),
		History:         history,
		Trajectory:      trajectory,
	}
}

// clampFraction restricts f to [0, 1]. NaN bets nothing.
func clampFraction(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return max(0, min(1, f))
}
