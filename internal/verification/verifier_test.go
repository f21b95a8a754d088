package verification

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/idhash"
	"bankroll-lab/internal/simulation"
	"bankroll-lab/internal/strategy"
)

func makeSettings() domain.SimulationSettings {
	return domain.SimulationSettings{
		Name:            "coin",
		InitialBankroll: 100,
		NumRounds:       25,
		NumSimulations:  60,
		BetFraction:     0.2,
		Strategy:        domain.StrategyTypeMartingale,
		Outcomes: []domain.Outcome{
			{Name: "win", Probability: 0.5, Multiplier: 2},
			{Name: "lose", Probability: 0.5, Multiplier: 0},
		},
	}
}

// runStored produces a batch the way the CLI stores it: run, then JSON round trip.
func runStored(t *testing.T, settings domain.SimulationSettings, seed uint64) *domain.BatchResult {
	t.Helper()

	cfg, factory, err := simulation.FromSettings(settings, strategy.DefaultRegistry(), noLogger())
	require.NoError(t, err)
	runner, err := simulation.NewRunner(simulation.RunnerOptions{
		Config:      cfg,
		NewStrategy: factory,
		ScenarioID:  idhash.ComputeScenarioID(settings),
		Seed:        seed,
	})
	require.NoError(t, err)
	res, err := runner.Run(context.Background())
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	var stored domain.BatchResult
	require.NoError(t, json.Unmarshal(data, &stored))
	return &stored
}

func TestCompareBatchResults_ExactMatch(t *testing.T) {
	stored := runStored(t, makeSettings(), 9)
	replayed := runStored(t, makeSettings(), 9)

	assert.Empty(t, CompareBatchResults(stored, replayed))
}

func TestCompareBatchResults_WithinTolerance(t *testing.T) {
	stored := runStored(t, makeSettings(), 9)
	replayed := runStored(t, makeSettings(), 9)
	replayed.MeanFinalBankroll += FloatTolerance / 2

	assert.Empty(t, CompareBatchResults(stored, replayed))
}

func TestCompareBatchResults_Divergences(t *testing.T) {
	stored := runStored(t, makeSettings(), 9)
	replayed := runStored(t, makeSettings(), 9)

	replayed.StrategyID = "FIXED_FRACTION_0.2"
	replayed.ProbabilityOfRuin += 0.1
	replayed.MeanTrajectory[3] += 1
	replayed.IndividualResults[2].Trajectory = replayed.IndividualResults[2].Trajectory[:5]

	fields := make([]string, 0)
	for _, d := range CompareBatchResults(stored, replayed) {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{
		"StrategyID",
		"ProbabilityOfRuin",
		"MeanTrajectory[3]",
		"IndividualResults[2].Trajectory[5]",
	}, fields)
}

func TestCompareBatchResults_RetainedCountMismatch(t *testing.T) {
	stored := runStored(t, makeSettings(), 9)
	replayed := runStored(t, makeSettings(), 9)
	replayed.IndividualResults = replayed.IndividualResults[:3]

	divs := CompareBatchResults(stored, replayed)
	require.Len(t, divs, 1)
	assert.Equal(t, FieldDivergence{Field: "IndividualResults", Expected: 10, Actual: 3}, divs[0])
}

func TestReplayVerifier_Match(t *testing.T) {
	stored := runStored(t, makeSettings(), 1234)

	v := NewReplayVerifier(ReplayVerifierOptions{
		Settings: makeSettings(),
		Registry: strategy.DefaultRegistry(),
		Workers:  4,
	})
	res, err := v.Verify(context.Background(), stored)
	require.NoError(t, err)

	assert.True(t, res.Match, "divergences: %v", res.Divergences)
	assert.Equal(t, stored.RunID, res.RunID)
	assert.NotEqual(t, stored.RunID, res.ReplayedRunID)
	assert.Equal(t, uint64(1234), res.Seed)
}

func TestReplayVerifier_DetectsTampering(t *testing.T) {
	stored := runStored(t, makeSettings(), 1234)
	stored.MedianFinalBankroll *= 2
	stored.MedianFinalBankroll++

	res, err := NewReplayVerifier(ReplayVerifierOptions{Settings: makeSettings()}).Verify(context.Background(), stored)
	require.NoError(t, err)

	assert.False(t, res.Match)
	require.Len(t, res.Divergences, 1)
	assert.Equal(t, "MedianFinalBankroll", res.Divergences[0].Field)
}

func TestReplayVerifier_Errors(t *testing.T) {
	stored := runStored(t, makeSettings(), 77)

	other := makeSettings()
	other.NumRounds = 30
	_, err := NewReplayVerifier(ReplayVerifierOptions{Settings: other}).Verify(context.Background(), stored)
	assert.ErrorIs(t, err, ErrScenarioMismatch)

	stored.Seed = 0
	_, err = NewReplayVerifier(ReplayVerifierOptions{Settings: makeSettings()}).Verify(context.Background(), stored)
	assert.ErrorIs(t, err, ErrMissingSeed)
}

func noLogger() zerolog.Logger {
	return zerolog.Nop()
}
