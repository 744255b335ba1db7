package scoring

import (
	"testing"

	"fantasy-roster-lab/internal/domain"
)

func TestEventPoints_Appearance(t *testing.T) {
	cases := []struct {
		minutes int
		want    float64
	}{
		{0, 0},
		{1, 1},
		{59, 1},
		{60, 2},
		{90, 2},
	}
	for _, c := range cases {
		got := EventPoints(domain.PositionMidfielder, domain.EventAppearance, c.minutes)
		if got != c.want {
			t.Errorf("appearance %d min = %v, want %v", c.minutes, got, c.want)
		}
	}
}

func TestEventPoints_GoalsByPosition(t *testing.T) {
	cases := []struct {
		pos  domain.Position
		want float64
	}{
		{domain.PositionGoalkeeper, 6},
		{domain.PositionDefender, 6},
		{domain.PositionMidfielder, 5},
		{domain.PositionForward, 4},
	}
	for _, c := range cases {
		got := EventPoints(c.pos, domain.EventGoal, 1)
		if got != c.want {
			t.Errorf("goal for %s = %v, want %v", c.pos, got, c.want)
		}
	}

	// Two goals double the value
	if got := EventPoints(domain.PositionForward, domain.EventGoal, 2); got != 8 {
		t.Errorf("two forward goals = %v, want 8", got)
	}
}

func TestEventPoints_CleanSheetAndSaves(t *testing.T) {
	if got := EventPoints(domain.PositionDefender, domain.EventCleanSheet, 1); got != 4 {
		t.Errorf("defender clean sheet = %v, want 4", got)
	}
	if got := EventPoints(domain.PositionMidfielder, domain.EventCleanSheet, 1); got != 1 {
		t.Errorf("midfielder clean sheet = %v, want 1", got)
	}
	if got := EventPoints(domain.PositionForward, domain.EventCleanSheet, 1); got != 0 {
		t.Errorf("forward clean sheet = %v, want 0", got)
	}

	// 7 saves → 2 points, and only for goalkeepers
	if got := EventPoints(domain.PositionGoalkeeper, domain.EventSaves, 7); got != 2 {
		t.Errorf("7 saves = %v, want 2", got)
	}
	if got := EventPoints(domain.PositionDefender, domain.EventSaves, 7); got != 0 {
		t.Errorf("defender saves = %v, want 0", got)
	}
}

func TestEventPoints_Cards(t *testing.T) {
	if got := EventPoints(domain.PositionMidfielder, domain.EventYellowCard, 2); got != -2 {
		t.Errorf("two yellows = %v, want -2", got)
	}
	if got := EventPoints(domain.PositionMidfielder, domain.EventRedCard, 1); got != -3 {
		t.Errorf("red card = %v, want -3", got)
	}
}

func TestLogPoints_FullLog(t *testing.T) {
	// MID, 90 min (2) + 1 goal (5) + 1 assist (3) + clean sheet (1) - 1 yellow (-1) = 10
	log := domain.GameLog{
		Minutes:     90,
		Goals:       1,
		Assists:     1,
		CleanSheet:  true,
		YellowCards: 1,
	}
	got := LogPoints(domain.PositionMidfielder, log)
	if got != 10 {
		t.Errorf("LogPoints = %v, want 10", got)
	}
}

func TestFPLScorer_Won(t *testing.T) {
	s := NewFPLScorer(50)

	if !s.Won(50, nil) {
		t.Error("teamFP equal to benchmark should win")
	}
	if s.Won(49.9, nil) {
		t.Error("teamFP below benchmark should lose")
	}
}

func TestFPLScorer_PointsPassthrough(t *testing.T) {
	s := NewFPLScorer(0)
	r := domain.Resolution{Event: domain.EventGoal, Count: 1, Points: 12}
	if got := s.Points(r); got != 12 {
		t.Errorf("Points = %v, want 12 (captain-weighted value carried on the resolution)", got)
	}
}
