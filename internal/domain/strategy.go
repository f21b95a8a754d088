package domain

// FallbackBetFraction is bet in place of a custom strategy result that
// could not be evaluated.
const FallbackBetFraction = 0.01

// StrategyConfig represents betting strategy parameters.
type StrategyConfig struct {
	StrategyType string // "fixed_fraction" | "kelly_criterion" | "martingale" | "custom"

	// fixed_fraction parameters
	Fraction *float64

	// kelly_criterion parameters
	FractionCap *float64

	// martingale parameters
	BaseFraction *float64
	MaxFraction  *float64

	// custom parameters
	CustomName string // registry key of the custom bet function
}

// Strategy type constants
const (
	StrategyTypeFixedFraction  = "fixed_fraction"
	StrategyTypeKellyCriterion = "kelly_criterion"
	StrategyTypeMartingale     = "martingale"
	StrategyTypeCustom         = "custom"
)
