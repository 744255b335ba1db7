package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidFilters indicates an out-of-range data filter configuration.
var ErrInvalidFilters = errors.New("invalid data filters")

// DataFilters gate which players and game logs participate in any
// statistical computation. The data-loading layer applies them before
// the simulation core ever sees a player; the core itself consumes
// only the TierCutoffs field.
type DataFilters struct {
	MinMinutesPlayed     int          `yaml:"min_minutes_played" json:"minMinutesPlayed"`
	MinMatchesPlayed     int          `yaml:"min_matches_played" json:"minMatchesPlayed"`
	SeasonsIncluded      []int        `yaml:"seasons_included" json:"seasonsIncluded"`
	CompetitionsIncluded []string     `yaml:"competitions_included" json:"competitionsIncluded"`
	TierCutoffs          TierCutoffs  `yaml:"tier_cutoffs" json:"tierCutoffs"`
}

// Validate checks filter ranges and the embedded cutoffs.
func (f DataFilters) Validate() error {
	if f.MinMinutesPlayed < 0 {
		return fmt.Errorf("%w: min_minutes_played %d", ErrInvalidFilters, f.MinMinutesPlayed)
	}
	if f.MinMatchesPlayed < 0 {
		return fmt.Errorf("%w: min_matches_played %d", ErrInvalidFilters, f.MinMatchesPlayed)
	}
	return f.TierCutoffs.Validate()
}

// EligibleLog reports whether a single game log passes the season,
// competition, and minutes predicates.
func (f DataFilters) EligibleLog(log GameLog) bool {
	if log.Minutes < f.MinMinutesPlayed {
		return false
	}
	if len(f.SeasonsIncluded) > 0 && !containsInt(f.SeasonsIncluded, log.Season) {
		return false
	}
	if len(f.CompetitionsIncluded) > 0 && !containsString(f.CompetitionsIncluded, log.Competition) {
		return false
	}
	return true
}

// EligibleLogs returns the subset of logs passing EligibleLog, in input order.
func (f DataFilters) EligibleLogs(logs []GameLog) []GameLog {
	var out []GameLog
	for _, l := range logs {
		if f.EligibleLog(l) {
			out = append(out, l)
		}
	}
	return out
}

// EligiblePlayer reports whether a player has enough eligible logs to
// participate: at least MinMatchesPlayed logs pass the per-log filters.
func (f DataFilters) EligiblePlayer(logs []GameLog) bool {
	eligible := 0
	for _, l := range logs {
		if f.EligibleLog(l) {
			eligible++
		}
	}
	if eligible == 0 {
		return false
	}
	return eligible >= f.MinMatchesPlayed
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
