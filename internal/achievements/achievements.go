// Package achievements evaluates bonus rules against trial resolutions.
package achievements

import (
	"errors"
	"fmt"

	"fantasy-roster-lab/internal/domain"
)

// Evaluator computes the achievement bonus for one trial. The result
// must be non-negative and a pure function of the resolution set.
type Evaluator interface {
	Bonus(resolutions []domain.Resolution) float64
}

// Rule kinds
const (
	RuleHatTrick        = "HAT_TRICK"         // any one player scores Threshold+ goals
	RuleTeamGoals       = "TEAM_GOALS"        // roster totals Threshold+ goals
	RuleCleanSheetSweep = "CLEAN_SHEET_SWEEP" // Threshold+ clean sheets across the roster
	RuleFullSquad       = "FULL_SQUAD"        // every slot records an appearance
)

// ErrUnknownRule is returned when a configured rule kind is not recognized.
var ErrUnknownRule = errors.New("unknown achievement rule")

// Rule is one configured achievement. Threshold semantics depend on
// the kind; Bonus is the points credited when the rule matches.
type Rule struct {
	Name      string  `yaml:"name"`
	Kind      string  `yaml:"kind"`
	Threshold int     `yaml:"threshold"`
	Bonus     float64 `yaml:"bonus"`
}

// RuleSet evaluates a list of rules, summing the bonuses of every rule
// that matches. Matching is pure: same resolutions, same bonus.
type RuleSet struct {
	rules []Rule
}

var _ Evaluator = (*RuleSet)(nil)

// NewRuleSet validates and builds a rule set. Rules with non-positive
// bonus are rejected so the evaluator can never drive a trial's bonus
// negative.
func NewRuleSet(rules []Rule) (*RuleSet, error) {
	for _, r := range rules {
		switch r.Kind {
		case RuleHatTrick, RuleTeamGoals, RuleCleanSheetSweep, RuleFullSquad:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownRule, r.Kind)
		}
		if r.Bonus <= 0 {
			return nil, fmt.Errorf("rule %q: bonus must be positive, got %v", r.Name, r.Bonus)
		}
	}
	return &RuleSet{rules: rules}, nil
}

// DefaultRules mirror the shipped configuration.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "hat-trick hero", Kind: RuleHatTrick, Threshold: 3, Bonus: 5},
		{Name: "goal rush", Kind: RuleTeamGoals, Threshold: 5, Bonus: 3},
		{Name: "the wall", Kind: RuleCleanSheetSweep, Threshold: 4, Bonus: 4},
	}
}

// Bonus sums the bonuses of all matching rules.
func (rs *RuleSet) Bonus(resolutions []domain.Resolution) float64 {
	goalsByPlayer := make(map[string]int)
	teamGoals := 0
	cleanSheets := 0
	appearances := make(map[string]bool)

	for _, r := range resolutions {
		switch r.Event {
		case domain.EventGoal:
			goalsByPlayer[r.PlayerID] += r.Count
			teamGoals += r.Count
		case domain.EventCleanSheet:
			cleanSheets += r.Count
		case domain.EventAppearance:
			if r.Count > 0 {
				appearances[r.PlayerID] = true
			}
		}
	}

	total := 0.0
	for _, rule := range rs.rules {
		if rs.matches(rule, goalsByPlayer, teamGoals, cleanSheets, appearances, resolutions) {
			total += rule.Bonus
		}
	}
	return total
}

func (rs *RuleSet) matches(rule Rule, goalsByPlayer map[string]int, teamGoals, cleanSheets int, appearances map[string]bool, resolutions []domain.Resolution) bool {
	switch rule.Kind {
	case RuleHatTrick:
		for _, g := range goalsByPlayer {
			if g >= rule.Threshold {
				return true
			}
		}
		return false
	case RuleTeamGoals:
		return teamGoals >= rule.Threshold
	case RuleCleanSheetSweep:
		return cleanSheets >= rule.Threshold
	case RuleFullSquad:
		players := make(map[string]bool)
		for _, r := range resolutions {
			players[r.PlayerID] = true
		}
		for id := range players {
			if !appearances[id] {
				return false
			}
		}
		return len(players) > 0
	default:
		return false
	}
}
