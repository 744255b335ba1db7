package tiers

// Percentile uses linear interpolation between the two nearest ranks.
// sorted must be pre-sorted ASC. p is a fraction (0.25 = 25th
// percentile). The same rule is used for summary statistics and for
// extracting suggested thresholds, so the two always agree.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	// Continuous 0-based rank
	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if lower < 0 {
		return sorted[0]
	}
	if upper >= n {
		return sorted[n-1]
	}

	// Linear interpolation
	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
