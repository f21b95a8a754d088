package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankroll-lab/internal/config"
	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/verification"
)

const testScenario = `
name: test
initial_bankroll: 100
num_rounds: 20
num_simulations: 40
bet_fraction: 0.1
strategy: fixed_fraction
outcomes:
  - {name: win, probability: 0.5, multiplier: 2}
  - {name: lose, probability: 0.5, multiplier: 0}
sweep: {parameter: bet_fraction, start: 0.05, end: 0.2, steps: 4}
`

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd(config.Runtime{LogLevel: "error", Workers: 2})
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func writeScenario(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testScenario), 0o600))
	return path
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "result.json")
	prom := filepath.Join(dir, "metrics.prom")

	err := runCLI(t, "run", "--config", writeScenario(t, dir), "--output", out, "--seed", "42", "--metrics-file", prom)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var result domain.BatchResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, uint64(42), result.Seed)
	assert.Equal(t, 40, result.NumSimulations)
	assert.Equal(t, "FIXED_FRACTION_0.1", result.StrategyID)
	assert.Len(t, result.MeanTrajectory, 21)
	assert.Len(t, result.IndividualResults, domain.RetainedTrials)

	metrics, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "bankroll_lab_simulation_trials_total 40")
}

func TestRunCommand_Overrides(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "result.json")

	err := runCLI(t, "run", "-c", writeScenario(t, dir), "-o", out, "--seed", "1",
		"--strategy", "martingale", "--bet-fraction", "0.2")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var result domain.BatchResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "MARTINGALE_base0.02_max0.2", result.StrategyID)
}

func TestSweepCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "sweep.json")

	require.NoError(t, runCLI(t, "sweep", "--config", writeScenario(t, dir), "--output", out, "--seed", "5"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var result domain.SweepResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, domain.SweepParamBetFraction, result.Parameter)
	require.Len(t, result.SweepResults, 4)
	assert.Equal(t, 10, result.SweepResults[0].NumSimulations)
}

func TestCommands_Errors(t *testing.T) {
	dir := t.TempDir()

	assert.Error(t, runCLI(t, "run"), "--config is required")
	assert.ErrorIs(t, runCLI(t, "run", "--config", filepath.Join(dir, "missing.yaml")), os.ErrNotExist)

	noSweep := filepath.Join(dir, "nosweep.yaml")
	require.NoError(t, os.WriteFile(noSweep, []byte("name: x\ninitial_bankroll: 1\nnum_rounds: 1\nnum_simulations: 1\noutcomes: [{name: a, probability: 1, multiplier: 1}]\n"), 0o600))
	assert.ErrorIs(t, runCLI(t, "sweep", "--config", noSweep), errNoSweep)
}

func TestVerifyCommand(t *testing.T) {
	dir := t.TempDir()
	scenario := writeScenario(t, dir)
	stored := filepath.Join(dir, "result.json")
	report := filepath.Join(dir, "verify.json")

	require.NoError(t, runCLI(t, "run", "--config", scenario, "--output", stored, "--seed", "31"))
	require.NoError(t, runCLI(t, "verify", "--config", scenario, "--result", stored, "--output", report, "--workers", "3"))

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var res verification.VerificationResult
	require.NoError(t, json.Unmarshal(data, &res))
	assert.True(t, res.Match)
	assert.Equal(t, uint64(31), res.Seed)

	assert.ErrorIs(t, runCLI(t, "verify", "--config", scenario), errNoResult)
}

func TestRunCommand_TableFormat(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "result.txt")

	require.NoError(t, runCLI(t, "run", "-c", writeScenario(t, dir), "-o", out, "--seed", "2", "--format", "table"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Probability of ruin")
	assert.Contains(t, string(data), "Bankroll over time")

	assert.ErrorIs(t, runCLI(t, "run", "-c", writeScenario(t, dir), "--format", "xml"), errBadFormat)
}
