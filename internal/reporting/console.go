package reporting

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// RenderConsole writes the report to w as aligned tables for terminal
// consumption.
func RenderConsole(w io.Writer, r *Report) {
	fmt.Fprintf(w, "\nSimulation report — %d runs, %d rosters (generated %s)\n\n",
		r.RunCount, r.RosterCount, r.GeneratedAt.Format("2006-01-02 15:04:05"))

	if len(r.Summaries) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header("Run", "Roster", "Trials", "Wins", "WinRate", "Mean FP", "Median FP", "P90 FP", "Avg Bonus")
		for _, s := range r.Summaries {
			table.Append(
				s.RunID,
				s.RosterName,
				fmt.Sprintf("%d", s.TotalRuns),
				fmt.Sprintf("%d", s.Wins),
				fmt.Sprintf("%.4f", s.WinRate),
				fmt.Sprintf("%.2f", s.MeanFP),
				fmt.Sprintf("%.2f", s.MedianFP),
				fmt.Sprintf("%.2f", s.P90FP),
				fmt.Sprintf("%.2f", s.AvgBonus),
			)
		}
		table.Render()
	} else {
		fmt.Fprintln(w, "No run summaries available.")
	}

	for _, rec := range r.Recommendations {
		fmt.Fprintf(w, "\nThresholds for run %s:\n", rec.RunID)
		for _, line := range rec.Reasoning {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	if len(r.PlayerTiers) > 0 {
		fmt.Fprintln(w)
		table := tablewriter.NewWriter(w)
		table.Header("Player", "Team", "Pos", "Mean FP", "Tier")
		for _, p := range r.PlayerTiers {
			table.Append(
				p.Name,
				p.Team,
				string(p.Position),
				fmt.Sprintf("%.2f", p.MeanFP),
				string(p.Tier),
			)
		}
		table.Render()
	}
}
