// Package verification checks that stored batch results replay exactly
// from their scenario and seed.
package verification

import (
	"fmt"
	"math"

	"bankroll-lab/internal/domain"
)

// FloatTolerance is the tolerance for float64 comparisons.
const FloatTolerance = 1e-7

// FieldDivergence represents a mismatch between stored and replayed values.
type FieldDivergence struct {
	Field    string `json:"field"`
	Expected any    `json:"expected"` // stored value
	Actual   any    `json:"actual"`   // replayed value
}

// VerificationResult contains the result of verifying a single batch.
type VerificationResult struct {
	RunID         string            `json:"run_id"`
	ReplayedRunID string            `json:"replayed_run_id"`
	Seed          uint64            `json:"seed"`
	Match         bool              `json:"match"` // true if all fields match
	Divergences   []FieldDivergence `json:"divergences,omitempty"`
}

// CompareBatchResults compares two batch results and returns divergences.
// Run identity (RunID, elapsed time) is not compared.
// Uses FloatTolerance for float64 comparisons.
func CompareBatchResults(stored, replayed *domain.BatchResult) []FieldDivergence {
	var divergences []FieldDivergence

	add := func(field string, expected, actual any) {
		divergences = append(divergences, FieldDivergence{Field: field, Expected: expected, Actual: actual})
	}

	// Identity must match exactly
	if stored.StrategyID != replayed.StrategyID {
		add("StrategyID", stored.StrategyID, replayed.StrategyID)
	}
	if stored.Seed != replayed.Seed {
		add("Seed", stored.Seed, replayed.Seed)
	}
	if stored.NumSimulations != replayed.NumSimulations {
		add("NumSimulations", stored.NumSimulations, replayed.NumSimulations)
	}
	if stored.NumRounds != replayed.NumRounds {
		add("NumRounds", stored.NumRounds, replayed.NumRounds)
	}
	if stored.StrategyFallbacks != replayed.StrategyFallbacks {
		add("StrategyFallbacks", stored.StrategyFallbacks, replayed.StrategyFallbacks)
	}

	scalars := []struct {
		field            string
		expected, actual float64
	}{
		{"InitialBankroll", stored.InitialBankroll, replayed.InitialBankroll},
		{"MeanFinalBankroll", stored.MeanFinalBankroll, replayed.MeanFinalBankroll},
		{"MedianFinalBankroll", stored.MedianFinalBankroll, replayed.MedianFinalBankroll},
		{"StdFinalBankroll", stored.StdFinalBankroll, replayed.StdFinalBankroll},
		{"MinFinalBankroll", stored.MinFinalBankroll, replayed.MinFinalBankroll},
		{"MaxFinalBankroll", stored.MaxFinalBankroll, replayed.MaxFinalBankroll},
		{"ProbabilityOfRuin", stored.ProbabilityOfRuin, replayed.ProbabilityOfRuin},
		{"MeanMaxDrawdown", stored.MeanMaxDrawdown, replayed.MeanMaxDrawdown},
		{"MedianMaxDrawdown", stored.MedianMaxDrawdown, replayed.MedianMaxDrawdown},
		{"MaxMaxDrawdown", stored.MaxMaxDrawdown, replayed.MaxMaxDrawdown},
	}
	for _, s := range scalars {
		if !floatEquals(s.expected, s.actual) {
			add(s.field, s.expected, s.actual)
		}
	}

	// Trajectories: report the first divergent point only
	series := []struct {
		field            string
		expected, actual []float64
	}{
		{"MeanTrajectory", stored.MeanTrajectory, replayed.MeanTrajectory},
		{"Percentile10", stored.Percentile10, replayed.Percentile10},
		{"Percentile90", stored.Percentile90, replayed.Percentile90},
	}
	for _, s := range series {
		if i, ok := firstDivergence(s.expected, s.actual); !ok {
			add(fmt.Sprintf("%s[%d]", s.field, i), valueAt(s.expected, i), valueAt(s.actual, i))
		}
	}

	if len(stored.IndividualResults) != len(replayed.IndividualResults) {
		add("IndividualResults", len(stored.IndividualResults), len(replayed.IndividualResults))
		return divergences
	}
	for t := range stored.IndividualResults {
		want, got := stored.IndividualResults[t], replayed.IndividualResults[t]
		if i, ok := firstDivergence(want.Trajectory, got.Trajectory); !ok {
			add(fmt.Sprintf("IndividualResults[%d].Trajectory[%d]", t, i), valueAt(want.Trajectory, i), valueAt(got.Trajectory, i))
		}
		if want.Ruined != got.Ruined {
			add(fmt.Sprintf("IndividualResults[%d].Ruined", t), want.Ruined, got.Ruined)
		}
	}

	return divergences
}

// firstDivergence returns the first index where a and b differ.
// ok is true when they match; a length mismatch diverges at the shorter length.
func firstDivergence(a, b []float64) (int, bool) {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if !floatEquals(a[i], b[i]) {
			return i, false
		}
	}
	if len(a) != len(b) {
		return n, false
	}
	return 0, true
}

func valueAt(s []float64, i int) any {
	if i < len(s) {
		return s[i]
	}
	return nil
}

// floatEquals compares two float64 values within FloatTolerance.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= FloatTolerance
}
