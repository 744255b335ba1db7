// Package summary aggregates a complete batch of simulation results
// into statistics and tier-threshold recommendations.
package summary

import (
	"errors"
	"sort"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/tiers"
)

// ErrEmptyBatch is returned when no results are available to
// aggregate. Rates and percentiles are undefined on zero trials, so
// this always fails rather than returning degenerate statistics.
var ErrEmptyBatch = errors.New("empty batch: no simulation results to summarize")

// Summarize computes the aggregate for a batch of trial results. The
// batch must be complete: the aggregator is a single synchronous pass
// and never sees partial runs. The output is a pure function of the
// inputs, so a reproducible batch yields a reproducible summary.
func Summarize(results []domain.SimulationResult, current domain.TierThresholds, cutoffs domain.TierCutoffs) (*domain.SimulationSummary, error) {
	if err := cutoffs.Validate(); err != nil {
		return nil, err
	}
	n := len(results)
	if n == 0 {
		return nil, ErrEmptyBatch
	}

	// Sort results deterministically by trial index. Percentile math
	// is order-insensitive but win/bonus attribution follows trials.
	sorted := make([]domain.SimulationResult, n)
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Trial < sorted[j].Trial
	})

	wins := 0
	for _, r := range sorted {
		if r.Won {
			wins++
		}
	}

	fps := make([]float64, n)
	for i, r := range sorted {
		fps[i] = r.TeamFP
	}
	sort.Float64s(fps)

	suggested, err := tiers.ThresholdsFrom(fps, cutoffs)
	if err != nil {
		return nil, err
	}

	return &domain.SimulationSummary{
		RunID:      sorted[0].RunID,
		RosterName: sorted[0].RosterName,
		TotalRuns:  n,
		Wins:       wins,
		Losses:     n - wins,
		WinRate:    float64(wins) / float64(n),
		FP: domain.FantasyPointStats{
			Min:    fps[0],
			Max:    fps[n-1],
			Mean:   computeMean(fps),
			Median: tiers.Percentile(fps, 0.50),
			P25:    tiers.Percentile(fps, 0.25),
			P75:    tiers.Percentile(fps, 0.75),
			P90:    tiers.Percentile(fps, 0.90),
			P95:    tiers.Percentile(fps, 0.95),
			P99:    tiers.Percentile(fps, 0.99),
		},
		Achievements: computeAchievementImpact(sorted),
		Recommendation: domain.ThresholdRecommendation{
			Current:   current,
			Suggested: suggested,
			Reasoning: buildReasoning(fps, current, suggested, cutoffs),
		},
	}, nil
}

// computeMean calculates the arithmetic mean.
func computeMean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeAchievementImpact aggregates bonus statistics, zeros included.
func computeAchievementImpact(results []domain.SimulationResult) domain.AchievementImpact {
	n := len(results)
	sum := 0.0
	max := 0.0
	withBonus := 0
	for _, r := range results {
		sum += r.AchievementBonus
		if r.AchievementBonus > max {
			max = r.AchievementBonus
		}
		if r.AchievementBonus > 0 {
			withBonus++
		}
	}
	return domain.AchievementImpact{
		AvgBonus:         sum / float64(n),
		MaxBonus:         max,
		PercentWithBonus: float64(withBonus) / float64(n),
	}
}
