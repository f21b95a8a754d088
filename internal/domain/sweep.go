package domain

// Sweep parameter constants
const (
	SweepParamBetFraction     = "bet_fraction"
	SweepParamInitialBankroll = "initial_bankroll"
)

// SweepSpec describes a one-dimensional parameter sweep.
// Steps values are spaced evenly over [Start, End] inclusive.
type SweepSpec struct {
	Parameter string  `json:"parameter" yaml:"parameter"`
	Start     float64 `json:"start" yaml:"start"`
	End       float64 `json:"end" yaml:"end"`
	Steps     int     `json:"steps" yaml:"steps"`
}

// SweepPoint holds summary statistics of one batch in a sweep.
type SweepPoint struct {
	ParamValue          float64 `json:"param_value"`
	NumSimulations      int     `json:"num_simulations"`
	MeanFinalBankroll   float64 `json:"mean_final_bankroll"`
	MedianFinalBankroll float64 `json:"median_final_bankroll"`
	StdFinalBankroll    float64 `json:"std_final_bankroll"`
	ProbabilityOfRuin   float64 `json:"probability_of_ruin"`
	MeanMaxDrawdown     float64 `json:"mean_max_drawdown"`
}

// SweepResult holds one SweepPoint per swept value, in sweep order.
// Every point replays the same random streams (Seed).
type SweepResult struct {
	Parameter    string       `json:"parameter"`
	Seed         uint64       `json:"seed"`
	SweepResults []SweepPoint `json:"sweep_results"`
}
