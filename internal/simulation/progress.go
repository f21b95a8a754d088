package simulation

// ProgressFunc receives the completed share of a batch in [0, 1).
// It is called synchronously from the goroutine running Runner.Run.
type ProgressFunc func(fraction float64)

// progressStep returns the reporting interval ceil(n/100), at least 1.
func progressStep(n int) int {
	return max(1, (n+99)/100)
}
