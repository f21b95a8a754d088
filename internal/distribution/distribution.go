// Package distribution provides a validated categorical distribution over
// payout multipliers and sampling from it.
package distribution

import (
	"fmt"
	"math"
	"sort"

	"bankroll-lab/internal/domain"
)

// Probability sum tolerance for rounding in user supplied tables.
const (
	MinProbabilitySum = 0.99
	MaxProbabilitySum = 1.01
)

// Distribution errors. All wrap domain.ErrConfiguration.
var (
	ErrNoOutcomes     = fmt.Errorf("%w: at least one outcome must be specified", domain.ErrConfiguration)
	ErrProbabilitySum = fmt.Errorf("%w: outcome probabilities must sum to 1", domain.ErrConfiguration)
	ErrInvalidOutcome = fmt.Errorf("%w: invalid outcome", domain.ErrConfiguration)
)

// Source provides uniform random values in [0, 1).
// *math/rand/v2.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Distribution is an immutable, ordered categorical distribution.
// Order only matters for tie-breaking in Sample.
type Distribution struct {
	outcomes []domain.Outcome
	bounds   []float64 // bounds[0] = 0, bounds[i+1] = bounds[i] + p_i
}

// New validates outcomes and builds a Distribution.
// Fails when outcomes is empty, when an outcome has probability outside
// [0, 1], a negative or non-finite multiplier, or when probabilities sum
// outside [MinProbabilitySum, MaxProbabilitySum].
func New(outcomes []domain.Outcome) (*Distribution, error) {
	if len(outcomes) == 0 {
		return nil, ErrNoOutcomes
	}

	owned := make([]domain.Outcome, len(outcomes))
	copy(owned, outcomes)

	bounds := make([]float64, len(owned)+1)
	for i, o := range owned {
		if err := validateOutcome(o); err != nil {
			return nil, fmt.Errorf("outcome %d (%q): %w", i, o.Name, err)
		}
		bounds[i+1] = bounds[i] + o.Probability
	}

	total := bounds[len(owned)]
	if total < MinProbabilitySum || total > MaxProbabilitySum {
		return nil, fmt.Errorf("%w (currently %g)", ErrProbabilitySum, total)
	}

	return &Distribution{outcomes: owned, bounds: bounds}, nil
}

func validateOutcome(o domain.Outcome) error {
	if math.IsNaN(o.Probability) || o.Probability < 0 || o.Probability > 1 {
		return fmt.Errorf("%w: probability %g not in [0, 1]", ErrInvalidOutcome, o.Probability)
	}
	if math.IsNaN(o.Multiplier) || math.IsInf(o.Multiplier, 0) || o.Multiplier < 0 {
		return fmt.Errorf("%w: multiplier %g must be a finite value >= 0", ErrInvalidOutcome, o.Multiplier)
	}
	return nil
}

// Len returns the number of outcomes.
func (d *Distribution) Len() int {
	return len(d.outcomes)
}

// At returns the outcome at index i.
func (d *Distribution) At(i int) domain.Outcome {
	return d.outcomes[i]
}

// Outcomes returns a copy of the outcomes in configured order.
func (d *Distribution) Outcomes() []domain.Outcome {
	out := make([]domain.Outcome, len(d.outcomes))
	copy(out, d.outcomes)
	return out
}

// ProbabilitySum returns the (unnormalized) sum of outcome probabilities.
func (d *Distribution) ProbabilitySum() float64 {
	return d.bounds[len(d.outcomes)]
}

// Sample draws an outcome index and its multiplier.
// Selects the smallest i with bounds[i] <= r < bounds[i+1]. When r falls
// past the last boundary (probabilities summing below 1) the last outcome
// is returned.
func (d *Distribution) Sample(src Source) (int, float64) {
	return d.pick(src.Float64())
}

func (d *Distribution) pick(r float64) (int, float64) {
	n := len(d.outcomes)
	// bounds is non-decreasing, so the first upper bound above r also has
	// its lower bound at or below r.
	i := sort.Search(n, func(i int) bool { return r < d.bounds[i+1] })
	if i == n {
		i = n - 1
	}
	return i, d.outcomes[i].Multiplier
}

// ExpectedValue returns sum(p_i * m_i).
func (d *Distribution) ExpectedValue() float64 {
	ev := 0.0
	for _, o := range d.outcomes {
		ev += o.Probability * o.Multiplier
	}
	return ev
}

// Variance returns sum(p_i * (m_i - EV)^2).
func (d *Distribution) Variance() float64 {
	ev := d.ExpectedValue()
	v := 0.0
	for _, o := range d.outcomes {
		diff := o.Multiplier - ev
		v += o.Probability * diff * diff
	}
	return v
}
