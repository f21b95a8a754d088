package domain

// SimulationSettings is the stored configuration of a simulation, as
// supplied by the caller (scenario file, form, database row).
// A single BetFraction drives every built-in strategy unless
// StrategyParams overrides it.
type SimulationSettings struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`

	InitialBankroll float64 `json:"initial_bankroll" yaml:"initial_bankroll"`
	NumRounds       int     `json:"num_rounds" yaml:"num_rounds"`
	NumSimulations  int     `json:"num_simulations" yaml:"num_simulations"`
	BetFraction     float64 `json:"bet_fraction" yaml:"bet_fraction"`

	Strategy       string          `json:"strategy" yaml:"strategy"`
	CustomStrategy string          `json:"custom_strategy,omitempty" yaml:"custom_strategy"`
	StrategyParams *StrategyParams `json:"strategy_params,omitempty" yaml:"strategy_params"`

	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`

	Sweep *SweepSpec `json:"sweep,omitempty" yaml:"sweep"`
}

// StrategyParams holds explicit strategy parameters. Nil fields fall back
// to values derived from SimulationSettings.BetFraction.
type StrategyParams struct {
	Fraction     *float64 `json:"fraction,omitempty" yaml:"fraction"`
	FractionCap  *float64 `json:"fraction_cap,omitempty" yaml:"fraction_cap"`
	BaseFraction *float64 `json:"base_fraction,omitempty" yaml:"base_fraction"`
	MaxFraction  *float64 `json:"max_fraction,omitempty" yaml:"max_fraction"`
}
