// Package verification checks stored run batches for internal
// consistency and verifies that persisted summaries still match a
// recomputation from their trial results.
package verification

import (
	"fmt"
	"math"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/seed"
)

// FloatTolerance is the tolerance for float64 comparisons.
const FloatTolerance = 1e-9

// Divergence represents a mismatch between stored and recomputed values.
type Divergence struct {
	Field    string      // field name
	Expected interface{} // stored value
	Actual   interface{} // recomputed value
}

// BatchReport contains the result of verifying one stored run batch.
type BatchReport struct {
	RunID       string
	TotalTrials int
	Consistent  bool
	Divergences []Divergence
}

// VerifyBatch checks a stored run batch for internal consistency:
// every trial carries the batch's run ID and roster name, trial
// indices are contiguous from zero, and the per-trial seeds follow the
// derivation chain from the first trial's seed. Results must be
// ordered by trial, which is how the stores return them.
func VerifyBatch(results []*domain.SimulationResult) (*BatchReport, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("empty batch: nothing to verify")
	}

	report := &BatchReport{
		RunID:       results[0].RunID,
		TotalTrials: len(results),
	}
	baseSeed := results[0].Seed

	for i, r := range results {
		if r.Trial != i {
			report.Divergences = append(report.Divergences, Divergence{
				Field:    fmt.Sprintf("results[%d].Trial", i),
				Expected: i,
				Actual:   r.Trial,
			})
		}
		if r.RunID != report.RunID {
			report.Divergences = append(report.Divergences, Divergence{
				Field:    fmt.Sprintf("results[%d].RunID", i),
				Expected: report.RunID,
				Actual:   r.RunID,
			})
		}
		if r.RosterName != results[0].RosterName {
			report.Divergences = append(report.Divergences, Divergence{
				Field:    fmt.Sprintf("results[%d].RosterName", i),
				Expected: results[0].RosterName,
				Actual:   r.RosterName,
			})
		}
		if want := seed.ForTrial(baseSeed, i); r.Seed != want {
			report.Divergences = append(report.Divergences, Divergence{
				Field:    fmt.Sprintf("results[%d].Seed", i),
				Expected: want,
				Actual:   r.Seed,
			})
		}
		if r.AchievementBonus < 0 {
			report.Divergences = append(report.Divergences, Divergence{
				Field:    fmt.Sprintf("results[%d].AchievementBonus", i),
				Expected: "non-negative",
				Actual:   r.AchievementBonus,
			})
		}
	}

	report.Consistent = len(report.Divergences) == 0
	return report, nil
}

// CompareSummaries compares a stored summary against one recomputed
// from the same trial results. Float fields use FloatTolerance.
func CompareSummaries(stored, recomputed *domain.SimulationSummary) []Divergence {
	var divergences []Divergence

	addInt := func(field string, expected, actual int) {
		if expected != actual {
			divergences = append(divergences, Divergence{Field: field, Expected: expected, Actual: actual})
		}
	}
	addFloat := func(field string, expected, actual float64) {
		if !floatEquals(expected, actual) {
			divergences = append(divergences, Divergence{Field: field, Expected: expected, Actual: actual})
		}
	}

	if stored.RunID != recomputed.RunID {
		divergences = append(divergences, Divergence{Field: "RunID", Expected: stored.RunID, Actual: recomputed.RunID})
	}
	if stored.RosterName != recomputed.RosterName {
		divergences = append(divergences, Divergence{Field: "RosterName", Expected: stored.RosterName, Actual: recomputed.RosterName})
	}
	addInt("TotalRuns", stored.TotalRuns, recomputed.TotalRuns)
	addInt("Wins", stored.Wins, recomputed.Wins)
	addInt("Losses", stored.Losses, recomputed.Losses)
	addFloat("WinRate", stored.WinRate, recomputed.WinRate)

	addFloat("FP.Min", stored.FP.Min, recomputed.FP.Min)
	addFloat("FP.Max", stored.FP.Max, recomputed.FP.Max)
	addFloat("FP.Mean", stored.FP.Mean, recomputed.FP.Mean)
	addFloat("FP.Median", stored.FP.Median, recomputed.FP.Median)
	addFloat("FP.P25", stored.FP.P25, recomputed.FP.P25)
	addFloat("FP.P75", stored.FP.P75, recomputed.FP.P75)
	addFloat("FP.P90", stored.FP.P90, recomputed.FP.P90)
	addFloat("FP.P95", stored.FP.P95, recomputed.FP.P95)
	addFloat("FP.P99", stored.FP.P99, recomputed.FP.P99)

	addFloat("Achievements.AvgBonus", stored.Achievements.AvgBonus, recomputed.Achievements.AvgBonus)
	addFloat("Achievements.MaxBonus", stored.Achievements.MaxBonus, recomputed.Achievements.MaxBonus)
	addFloat("Achievements.PercentWithBonus", stored.Achievements.PercentWithBonus, recomputed.Achievements.PercentWithBonus)

	addFloat("Suggested.Orange", stored.Recommendation.Suggested.Orange, recomputed.Recommendation.Suggested.Orange)
	addFloat("Suggested.Purple", stored.Recommendation.Suggested.Purple, recomputed.Recommendation.Suggested.Purple)
	addFloat("Suggested.Blue", stored.Recommendation.Suggested.Blue, recomputed.Recommendation.Suggested.Blue)
	addFloat("Suggested.Green", stored.Recommendation.Suggested.Green, recomputed.Recommendation.Suggested.Green)

	return divergences
}

// floatEquals compares two float64 values within FloatTolerance.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= FloatTolerance
}
