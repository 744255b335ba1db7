// Package scoring implements fantasy-point rules for scoring events.
package scoring

import (
	"fantasy-roster-lab/internal/domain"
)

// Scorer turns resolutions into fantasy points and judges wins. The
// simulation driver depends on this interface, not on the concrete
// rules, so the core stays decoupled from any one sport's scoring.
type Scorer interface {
	// Points returns the point contribution of a single resolution.
	Points(r domain.Resolution) float64

	// Won judges the win condition for a trial given its total
	// fantasy points and the resolutions that produced them.
	Won(teamFP float64, resolutions []domain.Resolution) bool
}

// FPLScorer scores resolutions with standard Fantasy Premier League
// rules and judges a win against a fixed benchmark score.
type FPLScorer struct {
	// BenchmarkFP is the score a trial must reach to count as won,
	// typically a league-average gameweek total.
	BenchmarkFP float64
}

// NewFPLScorer creates a scorer with the given win benchmark.
func NewFPLScorer(benchmarkFP float64) *FPLScorer {
	return &FPLScorer{BenchmarkFP: benchmarkFP}
}

var _ Scorer = (*FPLScorer)(nil)

// Points returns the resolution's precomputed contribution. Resolvers
// fill Points via EventPoints at resolution time, so captain doubling
// is already applied.
func (s *FPLScorer) Points(r domain.Resolution) float64 {
	return r.Points
}

// Won reports whether the team total reached the benchmark.
func (s *FPLScorer) Won(teamFP float64, _ []domain.Resolution) bool {
	return teamFP >= s.BenchmarkFP
}

// EventPoints returns the FPL point value for an event kind given the
// player's position and the occurrence count.
func EventPoints(pos domain.Position, event string, count int) float64 {
	switch event {
	case domain.EventAppearance:
		// count carries minutes played: 1 point under 60, 2 from 60 up
		if count >= 60 {
			return 2
		}
		if count > 0 {
			return 1
		}
		return 0
	case domain.EventGoal:
		return float64(count) * goalPoints(pos)
	case domain.EventAssist:
		return float64(count) * 3
	case domain.EventCleanSheet:
		return float64(count) * cleanSheetPoints(pos)
	case domain.EventSaves:
		// goalkeepers earn 1 point per 3 saves
		if pos == domain.PositionGoalkeeper {
			return float64(count / 3)
		}
		return 0
	case domain.EventYellowCard:
		return float64(count) * -1
	case domain.EventRedCard:
		return float64(count) * -3
	default:
		return 0
	}
}

func goalPoints(pos domain.Position) float64 {
	switch pos {
	case domain.PositionGoalkeeper, domain.PositionDefender:
		return 6
	case domain.PositionMidfielder:
		return 5
	default:
		return 4
	}
}

func cleanSheetPoints(pos domain.Position) float64 {
	switch pos {
	case domain.PositionGoalkeeper, domain.PositionDefender:
		return 4
	case domain.PositionMidfielder:
		return 1
	default:
		return 0
	}
}

// LogPoints scores a full historical game log. Used for player-pool
// tiering, where players are ranked by their mean per-match points.
func LogPoints(pos domain.Position, log domain.GameLog) float64 {
	total := EventPoints(pos, domain.EventAppearance, log.Minutes)
	total += EventPoints(pos, domain.EventGoal, log.Goals)
	total += EventPoints(pos, domain.EventAssist, log.Assists)
	if log.CleanSheet {
		total += EventPoints(pos, domain.EventCleanSheet, 1)
	}
	total += EventPoints(pos, domain.EventSaves, log.Saves)
	total += EventPoints(pos, domain.EventYellowCard, log.YellowCards)
	total += EventPoints(pos, domain.EventRedCard, log.RedCards)
	return total
}
