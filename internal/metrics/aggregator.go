package metrics

import (
	"errors"
	"fmt"

	"bankroll-lab/internal/domain"
)

// Aggregator errors
var (
	ErrIndexOutOfRange = errors.New("trial index out of range")
	ErrDuplicateTrial  = errors.New("trial index already recorded")
	ErrIncompleteBatch = errors.New("not all trials recorded")
	ErrNoTrials        = errors.New("batch must contain at least one trial")
)

// Aggregator collects trial results of one batch and computes batch
// statistics. Results are stored by trial index, so Add may be called
// concurrently for distinct indices and the result does not depend on
// completion order.
type Aggregator struct {
	numRounds int

	finals       []float64
	drawdowns    []float64
	ruined       []bool
	trajectories [][]float64
	recorded     []bool
	retained     []*domain.TrialResult
}

// NewAggregator creates an aggregator for numSimulations trials of numRounds rounds.
func NewAggregator(numSimulations, numRounds int) (*Aggregator, error) {
	if numSimulations < 1 {
		return nil, ErrNoTrials
	}

	return &Aggregator{
		numRounds:    numRounds,
		finals:       make([]float64, numSimulations),
		drawdowns:    make([]float64, numSimulations),
		ruined:       make([]bool, numSimulations),
		trajectories: make([][]float64, numSimulations),
		recorded:     make([]bool, numSimulations),
		retained:     make([]*domain.TrialResult, min(numSimulations, domain.RetainedTrials)),
	}, nil
}

// Add records the result of trial index.
// Only the first domain.RetainedTrials results are kept verbatim; for the
// rest only the values needed for statistics are kept.
func (a *Aggregator) Add(index int, r *domain.TrialResult) error {
	if index < 0 || index >= len(a.finals) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if a.recorded[index] {
		return fmt.Errorf("%w: %d", ErrDuplicateTrial, index)
	}
	if len(r.Trajectory) != a.numRounds+1 {
		return fmt.Errorf("%w: trial %d has %d points, want %d",
			ErrTrajectoryLength, index, len(r.Trajectory), a.numRounds+1)
	}

	a.finals[index] = r.FinalBankroll
	a.drawdowns[index] = r.MaxDrawdown
	a.ruined[index] = r.Ruined
	a.trajectories[index] = r.Trajectory
	if index < len(a.retained) {
		a.retained[index] = r
	}
	a.recorded[index] = true
	return nil
}

// Result computes the batch statistics. Every trial must have been added.
// Identification fields (RunID, StrategyID, Seed, InitialBankroll,
// StrategyFallbacks, ElapsedSeconds) are left for the caller.
func (a *Aggregator) Result() (*domain.BatchResult, error) {
	for i, ok := range a.recorded {
		if !ok {
			return nil, fmt.Errorf("%w: trial %d missing", ErrIncompleteBatch, i)
		}
	}

	traj, err := ComputeTrajectoryStats(a.trajectories)
	if err != nil {
		return nil, err
	}

	n := len(a.finals)
	finals := Summarize(a.finals)
	drawdowns := Summarize(a.drawdowns)

	retained := make([]*domain.TrialResult, len(a.retained))
	copy(retained, a.retained)

	return &domain.BatchResult{
		NumSimulations: n,
		NumRounds:      a.numRounds,

		MeanFinalBankroll:   finals.Mean,
		MedianFinalBankroll: finals.Median,
		StdFinalBankroll:    finals.Std,
		MinFinalBankroll:    finals.Min,
		MaxFinalBankroll:    finals.Max,

		ProbabilityOfRuin: computeRuinProbability(a.ruined),

		MeanMaxDrawdown:   drawdowns.Mean,
		MedianMaxDrawdown: drawdowns.Median,
		MaxMaxDrawdown:    drawdowns.Max,

		MeanTrajectory: traj.Mean,
		Percentile10:   traj.P10,
		Percentile90:   traj.P90,

		IndividualResults: retained,
	}, nil
}

// computeRuinProbability returns ruined trials / total trials.
func computeRuinProbability(ruined []bool) float64 {
	if len(ruined) == 0 {
		return 0
	}
	count := 0
	for _, r := range ruined {
		if r {
			count++
		}
	}
	return float64(count) / float64(len(ruined))
}
