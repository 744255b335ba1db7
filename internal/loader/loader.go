// Package loader reads the processed player dataset from disk and
// applies the configured eligibility filters.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"fantasy-roster-lab/internal/domain"
)

// ErrNoPlayers is returned when the dataset is empty or every player
// was filtered out.
var ErrNoPlayers = errors.New("no eligible players in dataset")

// playerRecord mirrors one entry of the processed players.json file.
type playerRecord struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Team      string          `json:"team"`
	Position  string          `json:"position"`
	PhotoCode int             `json:"photoCode"`
	GameLogs  []gameLogRecord `json:"gameLogs"`
}

type gameLogRecord struct {
	Season        int    `json:"season"`
	Competition   string `json:"competition"`
	Round         int    `json:"round"`
	Minutes       int    `json:"minutes"`
	Goals         int    `json:"goals"`
	Assists       int    `json:"assists"`
	CleanSheet    bool   `json:"cleanSheet"`
	GoalsConceded int    `json:"goalsConceded"`
	Saves         int    `json:"saves"`
	YellowCards   int    `json:"yellowCards"`
	RedCards      int    `json:"redCards"`
}

// Dataset is a loaded and filtered player pool with each player's
// eligible game logs.
type Dataset struct {
	Players []*domain.Player
	Logs    map[string][]domain.GameLog // keyed by player ID, filters applied
}

// Load reads the dataset at path and keeps only players that pass the
// filters; each kept player's log list is already reduced to its
// eligible subset.
func Load(path string, filters domain.DataFilters) (*Dataset, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %q: %w", path, err)
	}

	var records []playerRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse dataset %q: %w", path, err)
	}

	ds := &Dataset{
		Logs: make(map[string][]domain.GameLog),
	}
	for _, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("dataset %q: player without id", path)
		}

		logs := make([]domain.GameLog, 0, len(rec.GameLogs))
		for _, lr := range rec.GameLogs {
			logs = append(logs, domain.GameLog{
				PlayerID:      rec.ID,
				Season:        lr.Season,
				Competition:   lr.Competition,
				Round:         lr.Round,
				Minutes:       lr.Minutes,
				Goals:         lr.Goals,
				Assists:       lr.Assists,
				CleanSheet:    lr.CleanSheet,
				GoalsConceded: lr.GoalsConceded,
				Saves:         lr.Saves,
				YellowCards:   lr.YellowCards,
				RedCards:      lr.RedCards,
			})
		}

		if !filters.EligiblePlayer(logs) {
			continue
		}

		ds.Players = append(ds.Players, &domain.Player{
			ID:        rec.ID,
			Name:      rec.Name,
			Team:      rec.Team,
			Position:  domain.Position(rec.Position),
			PhotoCode: rec.PhotoCode,
		})
		ds.Logs[rec.ID] = filters.EligibleLogs(logs)
	}

	if len(ds.Players) == 0 {
		return nil, ErrNoPlayers
	}
	return ds, nil
}
