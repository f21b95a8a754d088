// Package idhash computes deterministic identifiers for simulation inputs.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"bankroll-lab/internal/domain"
)

// ComputeScenarioID computes a deterministic scenario_id using SHA256.
// Formula: SHA256(initial_bankroll|num_rounds|num_simulations|bet_fraction|
// strategy|custom_strategy|params|outcome_1;...;outcome_n)
// where an outcome is name:probability:multiplier.
// Name, description and sweep settings do not take part.
// Returns hex-encoded hash (64 characters).
func ComputeScenarioID(s domain.SimulationSettings) string {
	outcomes := make([]string, len(s.Outcomes))
	for i, o := range s.Outcomes {
		outcomes[i] = fmt.Sprintf("%s:%s:%s", o.Name, formatFloat(o.Probability), formatFloat(o.Multiplier))
	}

	data := fmt.Sprintf("%s|%d|%d|%s|%s|%s|%s|%s",
		formatFloat(s.InitialBankroll),
		s.NumRounds,
		s.NumSimulations,
		formatFloat(s.BetFraction),
		s.Strategy,
		s.CustomStrategy,
		formatParams(s.StrategyParams),
		strings.Join(outcomes, ";"),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeBatchID computes a deterministic batch_id using SHA256.
// Formula: SHA256(scenario_id|strategy_id|seed)
// Batches with equal batch_id produce identical results.
func ComputeBatchID(scenarioID, strategyID string, seed uint64) string {
	data := fmt.Sprintf("%s|%s|%d", scenarioID, strategyID, seed)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

func formatParams(p *domain.StrategyParams) string {
	if p == nil {
		return ""
	}
	return strings.Join([]string{
		formatOptional(p.Fraction),
		formatOptional(p.FractionCap),
		formatOptional(p.BaseFraction),
		formatOptional(p.MaxFraction),
	}, ",")
}

func formatOptional(f *float64) string {
	if f == nil {
		return "-"
	}
	return formatFloat(*f)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
