package domain

// Position identifies a player's on-pitch role, which drives scoring.
type Position string

// Position constants
const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

// Player represents one entry in the player pool.
type Player struct {
	ID        string   // stable identifier from the processed dataset
	Name      string   // display name
	Team      string   // club short name
	Position  Position // GK | DEF | MID | FWD
	PhotoCode int      // headshot asset code, 0 if unmapped
}

// GameLog represents one historical appearance for a player.
// Logs are the sampling population for the empirical resolver and the
// eligibility unit for data filters.
type GameLog struct {
	PlayerID      string
	Season        int    // starting year, e.g. 2024 for 2024/25
	Competition   string // "EPL", "FA_CUP", ...
	Round         int    // matchday within season and competition
	Minutes       int
	Goals         int
	Assists       int
	CleanSheet    bool
	GoalsConceded int
	Saves         int
	YellowCards   int
	RedCards      int
}

// Competition constants
const (
	CompetitionEPL    = "EPL"
	CompetitionFACup  = "FA_CUP"
	CompetitionLeague = "LEAGUE_CUP"
)
