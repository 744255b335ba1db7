package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/storage"
)

// GameLogStore implements storage.GameLogStore using PostgreSQL.
type GameLogStore struct {
	pool *Pool
}

// NewGameLogStore creates a new GameLogStore.
func NewGameLogStore(pool *Pool) *GameLogStore {
	return &GameLogStore{pool: pool}
}

// Compile-time interface check.
var _ storage.GameLogStore = (*GameLogStore)(nil)

const insertGameLogQuery = `
	INSERT INTO game_logs (
		player_id, season, competition, round, minutes, goals, assists,
		clean_sheet, goals_conceded, saves, yellow_cards, red_cards
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

const selectGameLogColumns = `
	SELECT player_id, season, competition, round, minutes, goals, assists,
	       clean_sheet, goals_conceded, saves, yellow_cards, red_cards
	FROM game_logs
`

// Insert adds a new game log. Returns ErrDuplicateKey if the composite key exists.
func (s *GameLogStore) Insert(ctx context.Context, l *domain.GameLog) error {
	if l == nil || l.PlayerID == "" || l.Competition == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertGameLogQuery, gameLogArgs(l)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert game log: %w", err)
	}
	return nil
}

// InsertBulk adds multiple logs atomically. Fails entire batch on any duplicate.
func (s *GameLogStore) InsertBulk(ctx context.Context, logs []*domain.GameLog) error {
	if len(logs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, l := range logs {
		if l == nil || l.PlayerID == "" || l.Competition == "" {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, insertGameLogQuery, gameLogArgs(l)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert game log in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByPlayerID retrieves all logs for a player, ordered by season,
// competition, round ASC.
func (s *GameLogStore) GetByPlayerID(ctx context.Context, playerID string) ([]*domain.GameLog, error) {
	query := selectGameLogColumns + `
		WHERE player_id = $1
		ORDER BY season ASC, competition ASC, round ASC
	`

	rows, err := s.pool.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("get game logs by player id: %w", err)
	}
	defer rows.Close()

	return scanGameLogs(rows)
}

// GetBySeasonRange retrieves logs for a player with season within [start, end] (inclusive).
func (s *GameLogStore) GetBySeasonRange(ctx context.Context, playerID string, start, end int) ([]*domain.GameLog, error) {
	query := selectGameLogColumns + `
		WHERE player_id = $1 AND season >= $2 AND season <= $3
		ORDER BY season ASC, competition ASC, round ASC
	`

	rows, err := s.pool.Query(ctx, query, playerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get game logs by season range: %w", err)
	}
	defer rows.Close()

	return scanGameLogs(rows)
}

// GetAll retrieves every stored log grouped per player.
func (s *GameLogStore) GetAll(ctx context.Context) (map[string][]*domain.GameLog, error) {
	query := selectGameLogColumns + `
		ORDER BY player_id ASC, season ASC, competition ASC, round ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all game logs: %w", err)
	}
	defer rows.Close()

	logs, err := scanGameLogs(rows)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*domain.GameLog)
	for _, l := range logs {
		grouped[l.PlayerID] = append(grouped[l.PlayerID], l)
	}
	return grouped, nil
}

func gameLogArgs(l *domain.GameLog) []any {
	return []any{
		l.PlayerID,
		l.Season,
		l.Competition,
		l.Round,
		l.Minutes,
		l.Goals,
		l.Assists,
		l.CleanSheet,
		l.GoalsConceded,
		l.Saves,
		l.YellowCards,
		l.RedCards,
	}
}

// scanGameLogs scans multiple rows into a slice of GameLog.
func scanGameLogs(rows pgx.Rows) ([]*domain.GameLog, error) {
	var logs []*domain.GameLog

	for rows.Next() {
		var l domain.GameLog

		err := rows.Scan(
			&l.PlayerID,
			&l.Season,
			&l.Competition,
			&l.Round,
			&l.Minutes,
			&l.Goals,
			&l.Assists,
			&l.CleanSheet,
			&l.GoalsConceded,
			&l.Saves,
			&l.YellowCards,
			&l.RedCards,
		)
		if err != nil {
			return nil, fmt.Errorf("scan game log row: %w", err)
		}

		logs = append(logs, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game log rows: %w", err)
	}

	return logs, nil
}
