// Package reporting renders batch and sweep results as plain-text tables.
package reporting

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"bankroll-lab/internal/domain"
)

// trajectoryCheckpoints is the number of trajectory rows shown, including
// the first and last point.
const trajectoryCheckpoints = 5

// WriteBatchSummary writes the statistics of r as tables.
func WriteBatchSummary(w io.Writer, r *domain.BatchResult) error {
	if _, err := fmt.Fprintf(w, "Run %s (%s)\n\n", r.RunID, r.StrategyID); err != nil {
		return err
	}

	// Summary
	table := newTable(w, []string{"Metric", "Value"})
	table.AppendBulk([][]string{
		{"Simulations", strconv.Itoa(r.NumSimulations)},
		{"Rounds", strconv.Itoa(r.NumRounds)},
		{"Seed", strconv.FormatUint(r.Seed, 10)},
		{"Initial bankroll", money(r.InitialBankroll)},
		{"Mean final bankroll", money(r.MeanFinalBankroll)},
		{"Median final bankroll", money(r.MedianFinalBankroll)},
		{"Std final bankroll", money(r.StdFinalBankroll)},
		{"Min / max final bankroll", money(r.MinFinalBankroll) + " / " + money(r.MaxFinalBankroll)},
		{"Probability of ruin", pct(r.ProbabilityOfRuin)},
		{"Mean max drawdown", pct(r.MeanMaxDrawdown)},
		{"Median max drawdown", pct(r.MedianMaxDrawdown)},
		{"Worst max drawdown", pct(r.MaxMaxDrawdown)},
	})
	if r.StrategyFallbacks > 0 {
		table.Append([]string{"Strategy fallbacks", strconv.Itoa(r.StrategyFallbacks)})
	}
	table.Render()

	if len(r.MeanTrajectory) == 0 {
		return nil
	}

	// Trajectory
	if _, err := io.WriteString(w, "\nBankroll over time\n"); err != nil {
		return err
	}
	table = newTable(w, []string{"Round", "P10", "Mean", "P90"})
	for _, i := range checkpoints(len(r.MeanTrajectory), trajectoryCheckpoints) {
		table.Append([]string{
			strconv.Itoa(i),
			money(r.Percentile10[i]),
			money(r.MeanTrajectory[i]),
			money(r.Percentile90[i]),
		})
	}
	table.Render()
	return nil
}

// WriteSweepSummary writes one table row per sweep point.
func WriteSweepSummary(w io.Writer, r *domain.SweepResult) error {
	if _, err := fmt.Fprintf(w, "Sweep over %s (seed %d)\n\n", r.Parameter, r.Seed); err != nil {
		return err
	}

	table := newTable(w, []string{r.Parameter, "Simulations", "Mean", "Median", "Std", "Ruin", "Mean DD"})
	for _, p := range r.SweepResults {
		table.Append([]string{
			strconv.FormatFloat(p.ParamValue, 'g', 6, 64),
			strconv.Itoa(p.NumSimulations),
			money(p.MeanFinalBankroll),
			money(p.MedianFinalBankroll),
			money(p.StdFinalBankroll),
			pct(p.ProbabilityOfRuin),
			pct(p.MeanMaxDrawdown),
		})
	}
	table.Render()
	return nil
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

// checkpoints returns up to k indexes spread evenly over [0, n-1].
func checkpoints(n, k int) []int {
	if n <= k {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}

	out := make([]int, k)
	for j := range out {
		out[j] = j * (n - 1) / (k - 1)
	}
	return out
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func pct(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 2, 64) + "%"
}
