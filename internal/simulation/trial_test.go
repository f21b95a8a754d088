package simulation

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankroll-lab/internal/distribution"
	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/strategy"
)

// scriptedSource returns vals in order, then repeats the last one.
type scriptedSource struct {
	vals []float64
	next int
}

func (s *scriptedSource) Float64() float64 {
	v := s.vals[min(s.next, len(s.vals)-1)]
	s.next++
	return v
}

// constStrategy returns the same raw fraction every round.
type constStrategy struct {
	fraction float64
	resets   int
}

func (s *constStrategy) BetFraction(float64, int, []domain.RoundRecord) float64 { return s.fraction }
func (s *constStrategy) Reset() { s.resets++ }
func (s *constStrategy) ID() string { return "CONST" }

func mustDistribution(t *testing.T, outcomes ...domain.Outcome) *distribution.Distribution {
	t.Helper()
	d, err := distribution.New(outcomes)
	require.NoError(t, err)
	return d
}

func coinFlip(t *testing.T) *distribution.Distribution {
	return mustDistribution(t,
		domain.Outcome{Name: "win", Probability: 0.5, Multiplier: 2},
		domain.Outcome{Name: "lose", Probability: 0.5, Multiplier: 0},
	)
}

func newTestConfig(dist *distribution.Distribution, rounds, sims int) Config {
	return Config{
		InitialBankroll: 100,
		NumRounds:       rounds,
		NumSimulations:  sims,
		Distribution:    dist,
	}
}

func TestRunTrial_ZeroFractionKeepsBankroll(t *testing.T) {
	cfg := newTestConfig(coinFlip(t), 50, 1)

	res := RunTrial(cfg, strategy.NewFixedFractionStrategy(0), rand.New(rand.NewPCG(1, 2)))

	require.Len(t, res.Trajectory, 51)
	for i, b := range res.Trajectory {
		assert.Equal(t, 100.0, b, "point %d", i)
	}
	assert.Len(t, res.History, 50)
	assert.Equal(t, 100.0, res.FinalBankroll)
	assert.Equal(t, 0.0, res.MaxDrawdown)
	assert.False(t, res.Ruined)
}

func TestRunTrial_EarlyRuinPadsTrajectory(t *testing.T) {
	dist := mustDistribution(t, domain.Outcome{Name: "bust", Probability: 1, Multiplier: 0})
	cfg := newTestConfig(dist, 10, 1)

	res := RunTrial(cfg, strategy.NewFixedFractionStrategy(1), rand.New(rand.NewPCG(1, 2)))

	require.Len(t, res.Trajectory, 11)
	assert.Equal(t, 100.0, res.Trajectory[0])
	for _, b := range res.Trajectory[1:] {
		assert.Equal(t, 0.0, b)
	}
	assert.Len(t, res.History, 1, "no rounds are recorded after ruin")
	assert.True(t, res.Ruined)
	assert.Equal(t, 1.0, res.MaxDrawdown)
	assert.Equal(t, 100.0, res.MaxBankroll)
}

func TestRunTrial_ZeroRounds(t *testing.T) {
	cfg := newTestConfig(coinFlip(t), 0, 1)

	res := RunTrial(cfg, strategy.NewFixedFractionStrategy(0.5), rand.New(rand.NewPCG(1, 2)))

	assert.Equal(t, []float64{100}, res.Trajectory)
	assert.Empty(t, res.History)
	assert.Equal(t, 100.0, res.FinalBankroll)
}

func TestRunTrial_NeverNegative(t *testing.T) {
	dist := mustDistribution(t,
		domain.Outcome{Name: "lose", Probability: 0.6, Multiplier: 0},
		domain.Outcome{Name: "win", Probability: 0.4, Multiplier: 2.5},
	)
	cfg := newTestConfig(dist, 200, 1)

	for stream := uint64(0); stream < 50; stream++ {
		res := RunTrial(cfg, strategy.NewFixedFractionStrategy(0.9), rand.New(rand.NewPCG(42, stream)))

		require.Len(t, res.Trajectory, 201)
		for _, b := range res.Trajectory {
			assert.GreaterOrEqual(t, b, 0.0)
		}
		for _, rec := range res.History {
			assert.GreaterOrEqual(t, rec.BankrollAfter, 0.0)
		}
	}
}

func TestRunTrial_ClampsFraction(t *testing.T) {
	dist := mustDistribution(t, domain.Outcome{Name: "double", Probability: 1, Multiplier: 2})

	tests := []struct {
		name     string
		raw      float64
		fraction float64
		final    float64
	}{
		{"above one", 5, 1, 200},
		{"negative", -0.3, 0, 100},
		{"nan", math.NaN(), 0, 100},
		{"in range", 0.25, 0.25, 125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(dist, 1, 1)
			res := RunTrial(cfg, &constStrategy{fraction: tt.raw}, &scriptedSource{vals: []float64{0.5}})

			require.Len(t, res.History, 1)
			assert.Equal(t, tt.fraction, res.History[0].BetFraction)
			assert.Equal(t, tt.final, res.FinalBankroll)
		})
	}
}

func TestRunTrial_RecordsRounds(t *testing.T) {
	cfg := newTestConfig(coinFlip(t), 2, 1)
	src := &scriptedSource{vals: []float64{0.1, 0.9}}

	res := RunTrial(cfg, strategy.NewFixedFractionStrategy(0.5), src)

	require.Len(t, res.History, 2)
	assert.Equal(t, domain.RoundRecord{
		Round: 0, BankrollBefore: 100, BetAmount: 50, BetFraction: 0.5,
		OutcomeIndex: 0, Multiplier: 2, BankrollAfter: 150,
	}, res.History[0])
	assert.Equal(t, domain.RoundRecord{
		Round: 1, BankrollBefore: 150, BetAmount: 75, BetFraction: 0.5,
		OutcomeIndex: 1, Multiplier: 0, BankrollAfter: 75,
	}, res.History[1])
	assert.Equal(t, []float64{100, 150, 75}, res.Trajectory)
}

func TestRunTrial_Drawdown(t *testing.T) {
	cfg := newTestConfig(coinFlip(t), 4, 1)
	// win, lose, win, lose: 150, 75, 112.5, 56.25
	src := &scriptedSource{vals: []float64{0.1, 0.9, 0.1, 0.9}}

	res := RunTrial(cfg, strategy.NewFixedFractionStrategy(0.5), src)

	assert.Equal(t, []float64{100, 150, 75, 112.5, 56.25}, res.Trajectory)
	assert.Equal(t, 150.0, res.MaxBankroll)
	assert.Equal(t, 0.625, res.MaxDrawdown)
	assert.False(t, res.Ruined)
}

func TestRunTrial_DrawdownResetsAtNewPeak(t *testing.T) {
	cfg := newTestConfig(coinFlip(t), 4, 1)
	// lose, win, win, lose: 50, 75, 112.5, 56.25
	src := &scriptedSource{vals: []float64{0.9, 0.1, 0.1, 0.9}}

	res := RunTrial(cfg, strategy.NewFixedFractionStrategy(0.5), src)

	assert.Equal(t, 112.5, res.MaxBankroll)
	assert.Equal(t, 0.5, res.MaxDrawdown)
}

func TestRunTrial_ResetsStrategy(t *testing.T) {
	cfg := newTestConfig(coinFlip(t), 3, 1)
	strat := &constStrategy{fraction: 0.1}

	RunTrial(cfg, strat, rand.New(rand.NewPCG(1, 1)))
	RunTrial(cfg, strat, rand.New(rand.NewPCG(1, 2)))

	assert.Equal(t, 2, strat.resets)
}

func TestRunTrial_MartingaleStateIsPerTrial(t *testing.T) {
	dist := mustDistribution(t, domain.Outcome{Name: "lose", Probability: 1, Multiplier: 0.5})
	cfg := newTestConfig(dist, 3, 1)
	strat := strategy.NewMartingaleStrategy(0.01, 0.04)

	first := RunTrial(cfg, strat, &scriptedSource{vals: []float64{0.5}})
	second := RunTrial(cfg, strat, &scriptedSource{vals: []float64{0.5}})

	fractions := func(r *domain.TrialResult) []float64 {
		out := make([]float64, len(r.History))
		for i, rec := range r.History {
			out[i] = rec.BetFraction
		}
		return out
	}
	assert.Equal(t, []float64{0.01, 0.02, 0.04}, fractions(first))
	assert.Equal(t, fractions(first), fractions(second))
}
