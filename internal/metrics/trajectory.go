package metrics

import (
	"errors"
	"fmt"
	"sort"
)

// ErrTrajectoryLength is returned when trajectories differ in length.
var ErrTrajectoryLength = errors.New("trajectories must have identical length")

// TrajectoryStats holds element-wise statistics across trajectories.
type TrajectoryStats struct {
	Mean []float64
	P10  []float64
	P90  []float64
}

// ComputeTrajectoryStats computes the element-wise mean, 10th and 90th
// percentile of equally long trajectories.
func ComputeTrajectoryStats(trajectories [][]float64) (*TrajectoryStats, error) {
	if len(trajectories) == 0 {
		return &TrajectoryStats{}, nil
	}

	length := len(trajectories[0])
	for i, tr := range trajectories {
		if len(tr) != length {
			return nil, fmt.Errorf("%w: trajectory %d has %d points, want %d", ErrTrajectoryLength, i, len(tr), length)
		}
	}

	out := &TrajectoryStats{
		Mean: make([]float64, length),
		P10:  make([]float64, length),
		P90:  make([]float64, length),
	}

	column := make([]float64, len(trajectories))
	for j := 0; j < length; j++ {
		for i, tr := range trajectories {
			column[i] = tr[j]
		}
		out.Mean[j] = computeMean(column)

		sort.Float64s(column)
		out.P10[j] = computePercentile(column, 0.10)
		out.P90[j] = computePercentile(column, 0.90)
	}

	return out, nil
}
