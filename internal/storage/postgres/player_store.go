package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/storage"
)

// PlayerStore implements storage.PlayerStore using PostgreSQL.
type PlayerStore struct {
	pool *Pool
}

// NewPlayerStore creates a new PlayerStore.
func NewPlayerStore(pool *Pool) *PlayerStore {
	return &PlayerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PlayerStore = (*PlayerStore)(nil)

const insertPlayerQuery = `
	INSERT INTO players (
		player_id, name, team, position, photo_code
	) VALUES ($1, $2, $3, $4, $5)
`

// Insert adds a new player. Returns ErrDuplicateKey if player_id exists.
func (s *PlayerStore) Insert(ctx context.Context, p *domain.Player) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertPlayerQuery,
		p.ID,
		p.Name,
		p.Team,
		string(p.Position),
		p.PhotoCode,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

// InsertBulk adds multiple players atomically. Fails entire batch on any duplicate.
func (s *PlayerStore) InsertBulk(ctx context.Context, players []*domain.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range players {
		if p == nil || p.ID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, insertPlayerQuery,
			p.ID,
			p.Name,
			p.Team,
			string(p.Position),
			p.PhotoCode,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert player in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a player by ID. Returns ErrNotFound if not exists.
func (s *PlayerStore) GetByID(ctx context.Context, playerID string) (*domain.Player, error) {
	query := `
		SELECT player_id, name, team, position, photo_code
		FROM players
		WHERE player_id = $1
	`

	row := s.pool.QueryRow(ctx, query, playerID)
	p, err := scanPlayer(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get player by id: %w", err)
	}
	return p, nil
}

// GetByPosition retrieves all players of a given position, ordered by ID ASC.
func (s *PlayerStore) GetByPosition(ctx context.Context, pos domain.Position) ([]*domain.Player, error) {
	query := `
		SELECT player_id, name, team, position, photo_code
		FROM players
		WHERE position = $1
		ORDER BY player_id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(pos))
	if err != nil {
		return nil, fmt.Errorf("get players by position: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// GetAll retrieves the full player pool, ordered by ID ASC.
func (s *PlayerStore) GetAll(ctx context.Context) ([]*domain.Player, error) {
	query := `
		SELECT player_id, name, team, position, photo_code
		FROM players
		ORDER BY player_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all players: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// scanPlayer scans a single row into a Player.
func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	var positionStr string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Team,
		&positionStr,
		&p.PhotoCode,
	)
	if err != nil {
		return nil, err
	}

	p.Position = domain.Position(positionStr)
	return &p, nil
}

// scanPlayers scans multiple rows into a slice of Player.
func scanPlayers(rows pgx.Rows) ([]*domain.Player, error) {
	var players []*domain.Player

	for rows.Next() {
		var p domain.Player
		var positionStr string

		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Team,
			&positionStr,
			&p.PhotoCode,
		)
		if err != nil {
			return nil, fmt.Errorf("scan player row: %w", err)
		}

		p.Position = domain.Position(positionStr)
		players = append(players, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player rows: %w", err)
	}

	return players, nil
}
