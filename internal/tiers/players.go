package tiers

import (
	"sort"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/scoring"
)

// PlayerTier is one player's position in the tiered pool.
type PlayerTier struct {
	Player domain.Player
	MeanFP float64 // mean fantasy points per eligible game log
	Tier   domain.Tier
}

// TierPlayers ranks a player pool by mean fantasy points over their
// eligible game logs and assigns tiers with Classify. Players with no
// eligible logs are excluded. The returned slice is sorted by MeanFP
// descending, ties broken by player ID so output never depends on map
// iteration order.
func TierPlayers(players []domain.Player, logs map[string][]domain.GameLog, filters domain.DataFilters) ([]PlayerTier, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	var pool []PlayerTier
	for _, p := range players {
		playerLogs := filters.EligibleLogs(logs[p.ID])
		if len(playerLogs) == 0 || !filters.EligiblePlayer(logs[p.ID]) {
			continue
		}
		sum := 0.0
		for _, l := range playerLogs {
			sum += scoring.LogPoints(p.Position, l)
		}
		pool = append(pool, PlayerTier{Player: p, MeanFP: sum / float64(len(playerLogs))})
	}

	if len(pool) == 0 {
		return pool, nil
	}

	// Sort ascending by MeanFP (then ID) to line up with Classify,
	// which expects ascending values.
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].MeanFP != pool[j].MeanFP {
			return pool[i].MeanFP < pool[j].MeanFP
		}
		return pool[i].Player.ID < pool[j].Player.ID
	})

	values := make([]float64, len(pool))
	for i, pt := range pool {
		values[i] = pt.MeanFP
	}

	assigned, err := Classify(values, filters.TierCutoffs)
	if err != nil {
		return nil, err
	}
	for i := range pool {
		pool[i].Tier = assigned[i]
	}

	// Present best first.
	for i, j := 0, len(pool)-1; i < j; i, j = i+1, j-1 {
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool, nil
}
