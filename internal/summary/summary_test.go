package summary

import (
	"errors"
	"math"
	"strings"
	"testing"

	"fantasy-roster-lab/internal/domain"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func fourTrialBatch() []domain.SimulationResult {
	return []domain.SimulationResult{
		{Trial: 0, RunID: "run-1", RosterName: "squad", TeamFP: 10, Won: false, AchievementBonus: 0},
		{Trial: 1, RunID: "run-1", RosterName: "squad", TeamFP: 20, Won: true, AchievementBonus: 5},
		{Trial: 2, RunID: "run-1", RosterName: "squad", TeamFP: 30, Won: true, AchievementBonus: 0},
		{Trial: 3, RunID: "run-1", RosterName: "squad", TeamFP: 40, Won: false, AchievementBonus: 3},
	}
}

func TestSummarizeEmptyBatch(t *testing.T) {
	_, err := Summarize(nil, domain.TierThresholds{}, domain.DefaultTierCutoffs())
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestSummarizeInvalidCutoffs(t *testing.T) {
	bad := domain.TierCutoffs{Orange: 0.5, Purple: 0.25, Blue: 0.6, Green: 0.8}
	_, err := Summarize(fourTrialBatch(), domain.TierThresholds{}, bad)
	if !errors.Is(err, domain.ErrInvalidCutoffs) {
		t.Fatalf("expected ErrInvalidCutoffs, got %v", err)
	}
}

func TestSummarizeWinRateAndStats(t *testing.T) {
	s, err := Summarize(fourTrialBatch(), domain.TierThresholds{}, domain.DefaultTierCutoffs())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if s.RunID != "run-1" || s.RosterName != "squad" {
		t.Fatalf("wrong identity: %q %q", s.RunID, s.RosterName)
	}
	if s.TotalRuns != 4 || s.Wins != 2 || s.Losses != 2 {
		t.Fatalf("wrong counts: total=%d wins=%d losses=%d", s.TotalRuns, s.Wins, s.Losses)
	}
	if !almostEqual(s.WinRate, 0.5) {
		t.Fatalf("win rate = %v, want 0.5", s.WinRate)
	}

	fp := s.FP
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"min", fp.Min, 10},
		{"max", fp.Max, 40},
		{"mean", fp.Mean, 25},
		{"median", fp.Median, 25},
		{"p25", fp.P25, 17.5},
		{"p75", fp.P75, 32.5},
		{"p90", fp.P90, 37},
		{"p95", fp.P95, 38.5},
		{"p99", fp.P99, 39.7},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestSummarizeAchievementImpact(t *testing.T) {
	s, err := Summarize(fourTrialBatch(), domain.TierThresholds{}, domain.DefaultTierCutoffs())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	a := s.Achievements
	if !almostEqual(a.AvgBonus, 2) {
		t.Errorf("avg bonus = %v, want 2", a.AvgBonus)
	}
	if !almostEqual(a.MaxBonus, 5) {
		t.Errorf("max bonus = %v, want 5", a.MaxBonus)
	}
	if !almostEqual(a.PercentWithBonus, 0.5) {
		t.Errorf("percent with bonus = %v, want 0.5", a.PercentWithBonus)
	}
}

func TestSummarizeSuggestedThresholds(t *testing.T) {
	s, err := Summarize(fourTrialBatch(), domain.TierThresholds{}, domain.DefaultTierCutoffs())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	sug := s.Recommendation.Suggested
	if !almostEqual(sug.Orange, 37) {
		t.Errorf("orange = %v, want 37", sug.Orange)
	}
	if !almostEqual(sug.Purple, 32.5) {
		t.Errorf("purple = %v, want 32.5", sug.Purple)
	}
	if !almostEqual(sug.Blue, 25) {
		t.Errorf("blue = %v, want 25", sug.Blue)
	}
	if !almostEqual(sug.Green, 17.5) {
		t.Errorf("green = %v, want 17.5", sug.Green)
	}
}

func TestSummarizeReasoningDeterministic(t *testing.T) {
	current := domain.TierThresholds{Orange: 30, Purple: 28, Blue: 25, Green: 17.5}

	first, err := Summarize(fourTrialBatch(), current, domain.DefaultTierCutoffs())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	second, err := Summarize(fourTrialBatch(), current, domain.DefaultTierCutoffs())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if len(first.Recommendation.Reasoning) != 4 {
		t.Fatalf("expected 4 reasoning lines, got %d", len(first.Recommendation.Reasoning))
	}
	for i := range first.Recommendation.Reasoning {
		if first.Recommendation.Reasoning[i] != second.Recommendation.Reasoning[i] {
			t.Fatalf("reasoning line %d differs across identical batches", i)
		}
	}

	orange := first.Recommendation.Reasoning[0]
	if !strings.HasPrefix(orange, "ORANGE: raise from 30.0 to 37.0 (+7.0)") {
		t.Errorf("unexpected orange reasoning: %q", orange)
	}
	if !strings.Contains(orange, "25.0% of simulated scores cleared the current threshold") {
		t.Errorf("missing clearance rate in: %q", orange)
	}
	if !strings.Contains(orange, "target is 10.0%") {
		t.Errorf("missing target rate in: %q", orange)
	}

	green := first.Recommendation.Reasoning[3]
	if !strings.HasPrefix(green, "GREEN: keep at 17.5") {
		t.Errorf("unexpected green reasoning: %q", green)
	}
}

func TestSummarizeOrderInsensitive(t *testing.T) {
	batch := fourTrialBatch()
	reversed := []domain.SimulationResult{batch[3], batch[2], batch[1], batch[0]}

	a, err := Summarize(batch, domain.TierThresholds{}, domain.DefaultTierCutoffs())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	b, err := Summarize(reversed, domain.TierThresholds{}, domain.DefaultTierCutoffs())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if a.WinRate != b.WinRate || a.FP != b.FP || a.RunID != b.RunID {
		t.Fatal("summary depends on result ordering")
	}
}
