// Package resolve produces per-trial scoring outcomes for a roster.
package resolve

import (
	"errors"
	"fmt"
	"math/rand"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/scoring"
)

// Resolver produces the ordered resolutions for one trial. It must be
// a pure function of (roster, seed): identical inputs yield identical
// resolutions, which is what makes FIXED and SESSION batches
// reproducible. Any caching a resolver keeps internally is its own
// concern.
type Resolver interface {
	Resolve(roster *domain.Roster, seed uint32) ([]domain.Resolution, error)
}

// ErrNoGameLogs is returned when a roster player has no sampling population.
var ErrNoGameLogs = errors.New("no eligible game logs for player")

// EmpiricalResolver bootstrap-samples one historical game log per
// roster slot and emits that log's scoring events as resolutions.
// Logs are expected to be pre-filtered by the data-loading layer.
type EmpiricalResolver struct {
	logs map[string][]domain.GameLog
}

// NewEmpiricalResolver creates a resolver over a filtered log population.
func NewEmpiricalResolver(logs map[string][]domain.GameLog) *EmpiricalResolver {
	return &EmpiricalResolver{logs: logs}
}

var _ Resolver = (*EmpiricalResolver)(nil)

// Resolve samples one game log per slot, in roster order, using a
// generator seeded from the trial seed. Captain resolutions carry
// doubled point values.
func (r *EmpiricalResolver) Resolve(roster *domain.Roster, seed uint32) ([]domain.Resolution, error) {
	rng := rand.New(rand.NewSource(int64(seed)))

	var out []domain.Resolution
	for _, slot := range roster.Slots {
		population := r.logs[slot.Player.ID]
		if len(population) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoGameLogs, slot.Player.ID)
		}

		log := population[rng.Intn(len(population))]
		multiplier := 1.0
		if slot.Captain {
			multiplier = 2.0
		}
		out = append(out, logResolutions(slot.Player, log, multiplier)...)
	}
	return out, nil
}

// logResolutions expands one sampled game log into scoring-event
// resolutions with points weighted by the captain multiplier.
func logResolutions(p domain.Player, log domain.GameLog, multiplier float64) []domain.Resolution {
	var out []domain.Resolution

	add := func(event string, count int) {
		if count == 0 {
			return
		}
		out = append(out, domain.Resolution{
			PlayerID: p.ID,
			Event:    event,
			Count:    count,
			Points:   scoring.EventPoints(p.Position, event, count) * multiplier,
		})
	}

	add(domain.EventAppearance, log.Minutes)
	add(domain.EventGoal, log.Goals)
	add(domain.EventAssist, log.Assists)
	if log.CleanSheet {
		add(domain.EventCleanSheet, 1)
	}
	add(domain.EventSaves, log.Saves)
	add(domain.EventYellowCard, log.YellowCards)
	add(domain.EventRedCard, log.RedCards)

	return out
}
