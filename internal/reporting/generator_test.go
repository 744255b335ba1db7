package reporting

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/storage/memory"
	"fantasy-roster-lab/internal/tiers"
)

func storedSummary(runID, roster string, winRate float64) *domain.SimulationSummary {
	return &domain.SimulationSummary{
		RunID:      runID,
		RosterName: roster,
		TotalRuns:  100,
		Wins:       int(winRate * 100),
		Losses:     100 - int(winRate*100),
		WinRate:    winRate,
		FP: domain.FantasyPointStats{
			Mean: 54.2, Median: 53.5, P90: 78.5,
		},
		Achievements: domain.AchievementImpact{AvgBonus: 2.4},
		Recommendation: domain.ThresholdRecommendation{
			Current:   domain.TierThresholds{Orange: 75, Purple: 65, Blue: 52, Green: 40},
			Suggested: domain.TierThresholds{Orange: 78.5, Purple: 66, Blue: 53.5, Green: 41},
			Reasoning: []string{"ORANGE: raise from 75.0 to 78.5 (+3.5)"},
		},
	}
}

func seedSummaries(t *testing.T, store *memory.SummaryStore, summaries ...*domain.SimulationSummary) {
	t.Helper()
	ctx := context.Background()
	for _, s := range summaries {
		if err := store.Insert(ctx, s); err != nil {
			t.Fatalf("seed summary %s: %v", s.RunID, err)
		}
	}
}

func fixedClock() func() time.Time {
	at := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func samplePlayerTiers() []tiers.PlayerTier {
	return []tiers.PlayerTier{
		{
			Player: domain.Player{ID: "haaland-e", Name: "Erling Haaland", Team: "MCI", Position: domain.PositionForward},
			MeanFP: 8.4,
			Tier:   domain.TierOrange,
		},
		{
			Player: domain.Player{ID: "saka-b", Name: "Bukayo Saka", Team: "ARS", Position: domain.PositionMidfielder},
			MeanFP: 6.1,
			Tier:   domain.TierPurple,
		},
	}
}

func TestGeneratorOrdersSummaries(t *testing.T) {
	store := memory.NewSummaryStore()
	seedSummaries(t, store,
		storedSummary("run-2", "beta", 0.5),
		storedSummary("run-1", "alpha", 0.6),
		storedSummary("run-3", "alpha", 0.7),
	)

	gen := NewGenerator(store).WithClock(fixedClock())
	report, err := gen.Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.RunCount != 3 || report.RosterCount != 2 {
		t.Errorf("counts: runs=%d rosters=%d", report.RunCount, report.RosterCount)
	}
	order := []string{"run-1", "run-3", "run-2"}
	for i, want := range order {
		if report.Summaries[i].RunID != want {
			t.Errorf("position %d = %s, want %s", i, report.Summaries[i].RunID, want)
		}
		if report.Recommendations[i].RunID != want {
			t.Errorf("recommendation %d = %s, want %s", i, report.Recommendations[i].RunID, want)
		}
	}
}

func TestGeneratorDeterministicWithClock(t *testing.T) {
	store := memory.NewSummaryStore()
	seedSummaries(t, store, storedSummary("run-1", "alpha", 0.6))

	gen := NewGenerator(store).WithClock(fixedClock())

	first, err := gen.Generate(context.Background(), samplePlayerTiers())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := gen.Generate(context.Background(), samplePlayerTiers())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if RenderMarkdown(first) != RenderMarkdown(second) {
		t.Error("identical inputs rendered different markdown")
	}
}

func TestRenderMarkdownSections(t *testing.T) {
	store := memory.NewSummaryStore()
	seedSummaries(t, store, storedSummary("run-1", "alpha", 0.6))

	gen := NewGenerator(store).WithClock(fixedClock())
	report, err := gen.Generate(context.Background(), samplePlayerTiers())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	md := RenderMarkdown(report)
	for _, want := range []string{
		"# Simulation Report",
		"## Run Summaries",
		"| run-1 | alpha | 100 | 60 | 40 | 0.6000 |",
		"## Threshold Recommendations",
		"| ORANGE | 75.00 | 78.50 |",
		"- ORANGE: raise from 75.0 to 78.5 (+3.5)",
		"## Player Tiers",
		"| Erling Haaland | MCI | FWD | 8.40 | ORANGE |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdownEmptyReport(t *testing.T) {
	gen := NewGenerator(memory.NewSummaryStore()).WithClock(fixedClock())
	report, err := gen.Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	md := RenderMarkdown(report)
	if !strings.Contains(md, "No run summaries available.") {
		t.Error("missing empty-summaries placeholder")
	}
	if !strings.Contains(md, "No player tier data available.") {
		t.Error("missing empty-tiers placeholder")
	}
}

func TestRenderCSV(t *testing.T) {
	rows := []SummaryRow{
		{RunID: "run-1", RosterName: "alpha", TotalRuns: 100, Wins: 60, Losses: 40, WinRate: 0.6, MeanFP: 54.2, MedianFP: 53.5, P90FP: 78.5, AvgBonus: 2.4},
	}

	csv := RenderCSV(rows)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "run_id,roster_name,total_runs") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "run-1,alpha,100,60,40,0.600000") {
		t.Errorf("unexpected row: %s", lines[1])
	}
}

func TestRenderConsole(t *testing.T) {
	store := memory.NewSummaryStore()
	seedSummaries(t, store, storedSummary("run-1", "alpha", 0.6))

	gen := NewGenerator(store).WithClock(fixedClock())
	report, err := gen.Generate(context.Background(), samplePlayerTiers())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var buf bytes.Buffer
	RenderConsole(&buf, report)
	out := buf.String()

	for _, want := range []string{"run-1", "alpha", "Erling Haaland", "ORANGE: raise"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q", want)
		}
	}
}
