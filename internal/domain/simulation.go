package domain

// SimulationResult is one trial's outcome. Created once by the
// simulation driver, consumed once by the summary aggregator, never
// mutated after creation.
type SimulationResult struct {
	Trial            int    // 0-based, unique within a run batch
	RunID            string // batch identifier
	Seed             uint32 // per-trial seed the resolver was invoked with
	RosterName       string
	TeamFP           float64 // summed fantasy points across resolutions
	Won              bool
	AchievementBonus float64 // >= 0, included in TeamFP
	Resolutions      []Resolution
}
