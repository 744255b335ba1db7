package reporting

import (
	"context"
	"sort"
	"time"

	"fantasy-roster-lab/internal/storage"
	"fantasy-roster-lab/internal/tiers"
)

// Generator produces reports from stored summaries.
type Generator struct {
	summaryStore storage.SummaryStore
	now          func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(summaryStore storage.SummaryStore) *Generator {
	return &Generator{
		summaryStore: summaryStore,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a report over every stored summary. playerTiers is
// the ranked pool from the most recent tiering pass; pass nil to omit
// the tier table.
func (g *Generator) Generate(ctx context.Context, playerTiers []tiers.PlayerTier) (*Report, error) {
	summaries, err := g.summaryStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].RosterName != summaries[j].RosterName {
			return summaries[i].RosterName < summaries[j].RosterName
		}
		return summaries[i].RunID < summaries[j].RunID
	})

	report := &Report{
		GeneratedAt: g.now(),
		RunCount:    len(summaries),
	}

	rosters := make(map[string]struct{})
	for _, s := range summaries {
		rosters[s.RosterName] = struct{}{}

		report.Summaries = append(report.Summaries, SummaryRow{
			RunID:      s.RunID,
			RosterName: s.RosterName,
			TotalRuns:  s.TotalRuns,
			Wins:       s.Wins,
			Losses:     s.Losses,
			WinRate:    s.WinRate,
			MeanFP:     s.FP.Mean,
			MedianFP:   s.FP.Median,
			P90FP:      s.FP.P90,
			AvgBonus:   s.Achievements.AvgBonus,
		})
		report.Recommendations = append(report.Recommendations, RecommendationSection{
			RunID:     s.RunID,
			Current:   s.Recommendation.Current,
			Suggested: s.Recommendation.Suggested,
			Reasoning: append([]string(nil), s.Recommendation.Reasoning...),
		})
	}
	report.RosterCount = len(rosters)

	for _, pt := range playerTiers {
		report.PlayerTiers = append(report.PlayerTiers, PlayerTierRow{
			PlayerID: pt.Player.ID,
			Name:     pt.Player.Name,
			Team:     pt.Player.Team,
			Position: pt.Player.Position,
			MeanFP:   pt.MeanFP,
			Tier:     pt.Tier,
		})
	}

	return report, nil
}
