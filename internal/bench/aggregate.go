package bench

import (
	"fmt"

	"ecbench/internal/config"
)

// Aggregate collapses the per-cell trial sums of one buffer size into one
// rate per series.
//
// PolicyBest keeps, per series, the largest cell sum (never below zero) and
// divides it by runs. PolicyMean divides the grand total by runs times the
// number of cells.
func Aggregate(policy config.Policy, runs int, cellSums []Rates) (Rates, error) {
	if runs <= 0 {
		return Rates{}, fmt.Errorf("runs must be positive, got %d", runs)
	}

	switch policy {
	case config.PolicyBest, "":
		var best Rates
		for _, sum := range cellSums {
			best = best.Max(sum)
		}
		return best.Div(float64(runs)), nil

	case config.PolicyMean:
		if len(cellSums) == 0 {
			return Rates{}, nil
		}
		var total Rates
		for _, sum := range cellSums {
			total = total.Add(sum)
		}
		return total.Div(float64(runs * len(cellSums))), nil
	}
	return Rates{}, fmt.Errorf("unknown aggregation policy %q", policy)
}
