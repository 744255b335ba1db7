package domain

// Resolution is the outcome of one scoring event for one roster slot
// within a trial. The simulation driver treats resolutions as opaque:
// only the injected scorer and achievement evaluator interpret them.
type Resolution struct {
	PlayerID string
	Event    string  // event kind constant
	Count    int     // occurrences, e.g. 2 goals
	Points   float64 // point contribution already weighted (captain doubling applied)
}

// Resolution event kinds
const (
	EventAppearance = "APPEARANCE"
	EventGoal       = "GOAL"
	EventAssist     = "ASSIST"
	EventCleanSheet = "CLEAN_SHEET"
	EventSaves      = "SAVES"
	EventYellowCard = "YELLOW_CARD"
	EventRedCard    = "RED_CARD"
)
