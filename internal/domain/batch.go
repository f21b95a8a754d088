package domain

// RetainedTrials is the number of individual trials kept verbatim in a BatchResult.
const RetainedTrials = 10

// BatchResult represents aggregate statistics over all trials of a batch.
// Corresponds to the detailed_results document of a simulation run.
type BatchResult struct {
	RunID      string `json:"run_id"`
	ScenarioID string `json:"scenario_id,omitempty"`
	BatchID    string `json:"batch_id,omitempty"` // equal for batches that replay each other
	StrategyID string `json:"strategy_id"`
	Seed       uint64 `json:"seed"`

	NumSimulations  int     `json:"num_simulations"`
	NumRounds       int     `json:"num_rounds"`
	InitialBankroll float64 `json:"initial_bankroll"`

	// Final bankroll distribution
	MeanFinalBankroll   float64 `json:"mean_final_bankroll"`
	MedianFinalBankroll float64 `json:"median_final_bankroll"`
	StdFinalBankroll    float64 `json:"std_final_bankroll"` // population std
	MinFinalBankroll    float64 `json:"min_final_bankroll"`
	MaxFinalBankroll    float64 `json:"max_final_bankroll"`

	// Ruin
	ProbabilityOfRuin float64 `json:"probability_of_ruin"`

	// Drawdown distribution (per-trial max drawdown)
	MeanMaxDrawdown   float64 `json:"mean_max_drawdown"`
	MedianMaxDrawdown float64 `json:"median_max_drawdown"`
	MaxMaxDrawdown    float64 `json:"max_max_drawdown"`

	// Element-wise trajectory statistics, each of length num_rounds+1
	MeanTrajectory []float64 `json:"mean_trajectory"`
	Percentile10   []float64 `json:"percentile_10"`
	Percentile90   []float64 `json:"percentile_90"`

	// First RetainedTrials trials by trial index
	IndividualResults []*TrialResult `json:"individual_results"`

	StrategyFallbacks int     `json:"strategy_fallbacks"` // custom strategy failures replaced by FallbackBetFraction
	ElapsedSeconds    float64 `json:"elapsed_time"`
}
