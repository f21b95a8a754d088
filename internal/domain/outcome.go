package domain

// Outcome is a named payout multiplier with its probability.
// A multiplier of 2.0 returns twice the stake, 0.0 loses the stake.
type Outcome struct {
	Name        string  `json:"name" yaml:"name"`
	Probability float64 `json:"probability" yaml:"probability"`
	Multiplier  float64 `json:"multiplier" yaml:"multiplier"`
}
