package storage

import (
	"context"

	"fantasy-roster-lab/internal/domain"
)

// PlayerStore provides access to players storage.
type PlayerStore interface {
	// Insert adds a new player. Returns ErrDuplicateKey if player_id exists.
	Insert(ctx context.Context, p *domain.Player) error

	// InsertBulk adds multiple players atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, players []*domain.Player) error

	// GetByID retrieves a player by ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, playerID string) (*domain.Player, error)

	// GetByPosition retrieves all players of a given position, ordered by ID ASC.
	GetByPosition(ctx context.Context, pos domain.Position) ([]*domain.Player, error)

	// GetAll retrieves the full player pool, ordered by ID ASC.
	GetAll(ctx context.Context) ([]*domain.Player, error)
}

// GameLogStore provides access to game_logs storage.
type GameLogStore interface {
	// Insert adds a new game log. Returns ErrDuplicateKey if
	// (player_id, season, competition, round) exists.
	Insert(ctx context.Context, l *domain.GameLog) error

	// InsertBulk adds multiple logs atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, logs []*domain.GameLog) error

	// GetByPlayerID retrieves all logs for a player, ordered by
	// season, competition, round ASC.
	GetByPlayerID(ctx context.Context, playerID string) ([]*domain.GameLog, error)

	// GetBySeasonRange retrieves logs for a player with season within
	// [start, end] (inclusive).
	GetBySeasonRange(ctx context.Context, playerID string, start, end int) ([]*domain.GameLog, error)

	// GetAll retrieves every stored log grouped per player.
	GetAll(ctx context.Context) (map[string][]*domain.GameLog, error)
}

// ResultStore provides access to trial_results storage. Trial results
// are append-only and written in bulk, one batch per run.
type ResultStore interface {
	// InsertBulk adds one complete run batch. Fails entire batch on
	// duplicate (run_id, trial).
	InsertBulk(ctx context.Context, results []*domain.SimulationResult) error

	// GetByRunID retrieves all results of a batch, ordered by trial ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.SimulationResult, error)

	// TeamFPsByRunID retrieves only the per-trial team scores of a
	// batch, ordered by trial ASC.
	TeamFPsByRunID(ctx context.Context, runID string) ([]float64, error)
}

// SummaryStore provides access to run_summaries storage.
type SummaryStore interface {
	// Insert adds a new summary. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, s *domain.SimulationSummary) error

	// GetByRunID retrieves a summary by its run ID. Returns ErrNotFound if not exists.
	GetByRunID(ctx context.Context, runID string) (*domain.SimulationSummary, error)

	// GetByRoster retrieves all summaries recorded for a roster name.
	GetByRoster(ctx context.Context, rosterName string) ([]*domain.SimulationSummary, error)

	// GetAll retrieves all summaries.
	GetAll(ctx context.Context) ([]*domain.SimulationSummary, error)
}
