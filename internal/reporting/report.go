package reporting

import (
	"time"

	"fantasy-roster-lab/internal/domain"
)

// Report is the rendered view of stored run summaries plus the player
// tier table of the current pool.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunCount    int
	RosterCount int

	// One row per stored run summary, sorted by roster then run id.
	Summaries []SummaryRow

	// Recommendations carries the per-run threshold reasoning in the
	// same order as Summaries.
	Recommendations []RecommendationSection

	// Player pool ranked best-first, empty when tiering was not run.
	PlayerTiers []PlayerTierRow
}

// SummaryRow is one line of the run summary table.
type SummaryRow struct {
	RunID      string
	RosterName string
	TotalRuns  int
	Wins       int
	Losses     int
	WinRate    float64
	MeanFP     float64
	MedianFP   float64
	P90FP      float64
	AvgBonus   float64
}

// RecommendationSection holds one run's threshold recommendation.
type RecommendationSection struct {
	RunID     string
	Current   domain.TierThresholds
	Suggested domain.TierThresholds
	Reasoning []string
}

// PlayerTierRow is one line of the player tier table.
type PlayerTierRow struct {
	PlayerID string
	Name     string
	Team     string
	Position domain.Position
	MeanFP   float64
	Tier     domain.Tier
}
