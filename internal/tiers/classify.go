// Package tiers maps empirical distributions to categorical tiers.
package tiers

import (
	"fantasy-roster-lab/internal/domain"
)

// Classify assigns a tier to each position of a value slice sorted
// ascending. The percentile rank of a value is the fraction of the
// population strictly below it, so equal values always share a rank
// and therefore a tier, regardless of where they sat in the original
// input. Boundaries are measured from the top: a value lands in ORANGE
// when its rank is at or above 1-orange, and so on down to the
// implicit WHITE baseline.
func Classify(sortedValuesAscending []float64, cutoffs domain.TierCutoffs) ([]domain.Tier, error) {
	if err := cutoffs.Validate(); err != nil {
		return nil, err
	}

	n := len(sortedValuesAscending)
	out := make([]domain.Tier, n)
	if n == 0 {
		return out, nil
	}

	// below[i] = count of values strictly less than sortedValues[i].
	// Computed in one pass; runs of equal values keep the run-start count.
	below := 0
	for i := 0; i < n; i++ {
		if i > 0 && sortedValuesAscending[i] != sortedValuesAscending[i-1] {
			below = i
		}
		r := float64(below) / float64(n)
		out[i] = tierForRank(r, cutoffs)
	}

	return out, nil
}

// tierForRank maps a percentile rank (0 = lowest, 1 = highest) to a tier.
func tierForRank(r float64, c domain.TierCutoffs) domain.Tier {
	switch {
	case r >= 1-c.Orange:
		return domain.TierOrange
	case r >= 1-c.Purple:
		return domain.TierPurple
	case r >= 1-c.Blue:
		return domain.TierBlue
	case r >= 1-c.Green:
		return domain.TierGreen
	default:
		return domain.TierWhite
	}
}

// ThresholdsFrom extracts the concrete value at each cutoff boundary of
// a sorted ascending distribution, using the shared interpolation rule.
// The orange threshold is the value at the (1-orange) percentile.
func ThresholdsFrom(sortedValuesAscending []float64, cutoffs domain.TierCutoffs) (domain.TierThresholds, error) {
	if err := cutoffs.Validate(); err != nil {
		return domain.TierThresholds{}, err
	}

	return domain.TierThresholds{
		Orange: Percentile(sortedValuesAscending, 1-cutoffs.Orange),
		Purple: Percentile(sortedValuesAscending, 1-cutoffs.Purple),
		Blue:   Percentile(sortedValuesAscending, 1-cutoffs.Blue),
		Green:  Percentile(sortedValuesAscending, 1-cutoffs.Green),
	}, nil
}
