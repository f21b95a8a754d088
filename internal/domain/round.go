package domain

// RoundRecord represents one executed betting round.
// Records are append-only and ordered by Round; strategies receive them
// read-only as the history of the current trial.
type RoundRecord struct {
	Round          int     `json:"round"`
	BankrollBefore float64 `json:"bankroll_before"` // pre-bet bankroll
	BetAmount      float64 `json:"bet_amount"`
	BetFraction    float64 `json:"bet_fraction"` // clamped to [0, 1]
	OutcomeIndex   int     `json:"outcome_idx"`
	Multiplier     float64 `json:"multiplier"`
	BankrollAfter  float64 `json:"bankroll"` // never negative
}

// Won reports whether the round increased the bankroll.
func (r RoundRecord) Won() bool {
	return r.BankrollAfter > r.BankrollBefore
}
