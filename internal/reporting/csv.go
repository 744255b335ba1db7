package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders run summary rows as CSV string.
func RenderCSV(summaries []SummaryRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("run_id,roster_name,total_runs,wins,losses,win_rate,")
	sb.WriteString("mean_fp,median_fp,p90_fp,avg_bonus\n")

	// Rows
	for _, s := range summaries {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			s.RunID,
			s.RosterName,
			s.TotalRuns,
			s.Wins,
			s.Losses,
			s.WinRate,
			s.MeanFP,
			s.MedianFP,
			s.P90FP,
			s.AvgBonus,
		))
	}

	return sb.String()
}
