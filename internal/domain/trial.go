package domain

// RuinThreshold is the bankroll at or below which a trial is considered ruined.
const RuinThreshold = 0.01

// TrialResult represents one complete run of num_rounds betting rounds.
type TrialResult struct {
	InitialBankroll float64       `json:"initial_bankroll"`
	FinalBankroll   float64       `json:"final_bankroll"`
	MaxBankroll     float64       `json:"max_bankroll"`
	MaxDrawdown     float64       `json:"max_drawdown"` // fraction of peak, 0 if never below a peak
	Ruined          bool          `json:"bankrupt"`
	History         []RoundRecord `json:"history"`

	// Trajectory holds the initial bankroll followed by the bankroll after
	// each round. Length is always num_rounds+1; rounds skipped after ruin
	// are padded with 0.
	Trajectory []float64 `json:"bankroll_over_time"`
}

// IsRuined reports whether bankroll is at or below RuinThreshold.
func IsRuined(bankroll float64) bool {
	return bankroll <= RuinThreshold
}
