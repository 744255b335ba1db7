package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Simulation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Runs: %d | Rosters: %d\n\n", r.RunCount, r.RosterCount))

	// Run Summaries
	sb.WriteString("## Run Summaries\n\n")
	if len(r.Summaries) > 0 {
		sb.WriteString("| Run | Roster | Trials | Wins | Losses | WinRate | Mean FP | Median FP | P90 FP | Avg Bonus |\n")
		sb.WriteString("|-----|--------|--------|------|--------|---------|---------|-----------|--------|----------|\n")
		for _, s := range r.Summaries {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %.4f | %.2f | %.2f | %.2f | %.2f |\n",
				s.RunID, s.RosterName, s.TotalRuns, s.Wins, s.Losses,
				s.WinRate, s.MeanFP, s.MedianFP, s.P90FP, s.AvgBonus))
		}
	} else {
		sb.WriteString("No run summaries available.\n")
	}
	sb.WriteString("\n")

	// Threshold Recommendations
	sb.WriteString("## Threshold Recommendations\n\n")
	if len(r.Recommendations) > 0 {
		for _, rec := range r.Recommendations {
			sb.WriteString(fmt.Sprintf("### Run %s\n\n", rec.RunID))
			sb.WriteString("| Tier | Current | Suggested |\n")
			sb.WriteString("|------|---------|----------|\n")
			sb.WriteString(fmt.Sprintf("| ORANGE | %.2f | %.2f |\n", rec.Current.Orange, rec.Suggested.Orange))
			sb.WriteString(fmt.Sprintf("| PURPLE | %.2f | %.2f |\n", rec.Current.Purple, rec.Suggested.Purple))
			sb.WriteString(fmt.Sprintf("| BLUE | %.2f | %.2f |\n", rec.Current.Blue, rec.Suggested.Blue))
			sb.WriteString(fmt.Sprintf("| GREEN | %.2f | %.2f |\n", rec.Current.Green, rec.Suggested.Green))
			sb.WriteString("\n")
			for _, line := range rec.Reasoning {
				sb.WriteString(fmt.Sprintf("- %s\n", line))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No recommendations available.\n\n")
	}

	// Player Tiers
	sb.WriteString("## Player Tiers\n\n")
	if len(r.PlayerTiers) > 0 {
		sb.WriteString("| Player | Team | Pos | Mean FP | Tier |\n")
		sb.WriteString("|--------|------|-----|---------|------|\n")
		for _, p := range r.PlayerTiers {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.2f | %s |\n",
				p.Name, p.Team, p.Position, p.MeanFP, p.Tier))
		}
	} else {
		sb.WriteString("No player tier data available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
