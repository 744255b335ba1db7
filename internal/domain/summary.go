package domain

// FantasyPointStats is the percentile block of a summary, computed
// over the sorted per-trial TeamFP values with linear interpolation
// between ranks.
type FantasyPointStats struct {
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	P25    float64
	P75    float64
	P90    float64
	P95    float64
	P99    float64
}

// AchievementImpact summarizes how achievement bonuses shaped a batch.
type AchievementImpact struct {
	AvgBonus         float64 // mean over all trials, zeros included
	MaxBonus         float64
	PercentWithBonus float64 // fraction of trials with bonus > 0
}

// ThresholdRecommendation compares current tier thresholds against
// thresholds suggested by the simulated distribution. Reasoning is a
// pure function of the inputs so a reproducible batch yields a
// byte-identical recommendation.
type ThresholdRecommendation struct {
	Current   TierThresholds
	Suggested TierThresholds
	Reasoning []string // one deterministic line per tier boundary
}

// SimulationSummary is the terminal artifact of a run batch: recomputed
// wholesale from a complete result set, never updated incrementally.
type SimulationSummary struct {
	RunID          string
	RosterName     string
	TotalRuns      int
	Wins           int
	Losses         int
	WinRate        float64
	FP             FantasyPointStats
	Achievements   AchievementImpact
	Recommendation ThresholdRecommendation
}
