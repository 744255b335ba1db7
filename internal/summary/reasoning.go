package summary

import (
	"fmt"
	"sort"

	"fantasy-roster-lab/internal/domain"
)

// buildReasoning produces one deterministic line per tier explaining
// the suggested threshold move. Each line reports the direction and
// magnitude of the change plus how the current threshold performed in
// the batch: the fraction of simulated outcomes that cleared it versus
// the fraction the tier cutoff targets. fps must be sorted ascending.
func buildReasoning(fps []float64, current, suggested domain.TierThresholds, cutoffs domain.TierCutoffs) []string {
	rows := []struct {
		name       string
		cur, sug   float64
		targetFrac float64
	}{
		{"ORANGE", current.Orange, suggested.Orange, cutoffs.Orange},
		{"PURPLE", current.Purple, suggested.Purple, cutoffs.Purple},
		{"BLUE", current.Blue, suggested.Blue, cutoffs.Blue},
		{"GREEN", current.Green, suggested.Green, cutoffs.Green},
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		actual := fractionAbove(fps, row.cur)
		var verdict string
		switch {
		case row.sug > row.cur:
			verdict = fmt.Sprintf("raise from %.1f to %.1f (+%.1f)", row.cur, row.sug, row.sug-row.cur)
		case row.sug < row.cur:
			verdict = fmt.Sprintf("lower from %.1f to %.1f (-%.1f)", row.cur, row.sug, row.cur-row.sug)
		default:
			verdict = fmt.Sprintf("keep at %.1f", row.cur)
		}
		lines = append(lines, fmt.Sprintf(
			"%s: %s; %.1f%% of simulated scores cleared the current threshold, target is %.1f%%",
			row.name, verdict, actual*100, row.targetFrac*100,
		))
	}
	return lines
}

// fractionAbove reports the share of values strictly greater than x.
func fractionAbove(sorted []float64, x float64) float64 {
	idx := sort.SearchFloat64s(sorted, x)
	for idx < len(sorted) && sorted[idx] == x {
		idx++
	}
	return float64(len(sorted)-idx) / float64(len(sorted))
}
