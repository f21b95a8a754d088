package idhash

import (
	"testing"

	"bankroll-lab/internal/domain"
)

func makeSettings() domain.SimulationSettings {
	return domain.SimulationSettings{
		Name:            "coin",
		InitialBankroll: 100,
		NumRounds:       50,
		NumSimulations:  1000,
		BetFraction:     0.05,
		Strategy:        domain.StrategyTypeKellyCriterion,
		Outcomes: []domain.Outcome{
			{Name: "win", Probability: 0.52, Multiplier: 2},
			{Name: "lose", Probability: 0.48, Multiplier: 0},
		},
	}
}

func TestComputeScenarioID(t *testing.T) {
	got := ComputeScenarioID(makeSettings())
	if len(got) != 64 {
		t.Errorf("ComputeScenarioID() length = %d, want 64", len(got))
	}

	// Verify determinism: same inputs should produce same output
	if got2 := ComputeScenarioID(makeSettings()); got != got2 {
		t.Errorf("ComputeScenarioID() not deterministic: %s != %s", got, got2)
	}
}

func TestComputeScenarioID_IgnoresPresentation(t *testing.T) {
	base := ComputeScenarioID(makeSettings())

	s := makeSettings()
	s.Name = "renamed"
	s.Description = "longer text"
	s.Sweep = &domain.SweepSpec{Parameter: domain.SweepParamBetFraction, Start: 0, End: 1, Steps: 5}

	if got := ComputeScenarioID(s); got != base {
		t.Errorf("presentation fields changed scenario_id: %s != %s", got, base)
	}
}

func TestComputeScenarioID_DifferentInputs(t *testing.T) {
	base := ComputeScenarioID(makeSettings())
	fractionCap := 0.1

	tests := []struct {
		name   string
		modify func(*domain.SimulationSettings)
	}{
		{"bankroll", func(s *domain.SimulationSettings) { s.InitialBankroll = 200 }},
		{"rounds", func(s *domain.SimulationSettings) { s.NumRounds = 51 }},
		{"simulations", func(s *domain.SimulationSettings) { s.NumSimulations = 999 }},
		{"bet fraction", func(s *domain.SimulationSettings) { s.BetFraction = 0.06 }},
		{"strategy", func(s *domain.SimulationSettings) { s.Strategy = domain.StrategyTypeMartingale }},
		{"params", func(s *domain.SimulationSettings) { s.StrategyParams = &domain.StrategyParams{FractionCap: &fractionCap} }},
		{"outcome order", func(s *domain.SimulationSettings) { s.Outcomes[0], s.Outcomes[1] = s.Outcomes[1], s.Outcomes[0] }},
		{"multiplier", func(s *domain.SimulationSettings) { s.Outcomes[0].Multiplier = 1.95 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := makeSettings()
			tt.modify(&s)
			if got := ComputeScenarioID(s); got == base {
				t.Errorf("ComputeScenarioID() unchanged after modifying %s", tt.name)
			}
		})
	}
}

func TestComputeBatchID(t *testing.T) {
	id1 := ComputeBatchID("scenario", "FIXED_FRACTION_0.1", 42)
	id2 := ComputeBatchID("scenario", "FIXED_FRACTION_0.1", 42)
	id3 := ComputeBatchID("scenario", "FIXED_FRACTION_0.1", 43)

	if len(id1) != 64 {
		t.Errorf("ComputeBatchID() length = %d, want 64", len(id1))
	}
	if id1 != id2 {
		t.Errorf("ComputeBatchID() not deterministic: %s != %s", id1, id2)
	}
	if id1 == id3 {
		t.Error("different seeds should produce different batch IDs")
	}
}
