package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/storage"
)

// ResultStore implements storage.ResultStore using ClickHouse. Trial
// results are high-volume append-only rows, a natural MergeTree fit.
// Per-slot resolutions are not persisted; only the scored outcome is.
type ResultStore struct {
	conn *Conn
}

// NewResultStore creates a new ResultStore.
func NewResultStore(conn *Conn) *ResultStore {
	return &ResultStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ResultStore = (*ResultStore)(nil)

// InsertBulk adds one complete run batch. Fails entire batch on
// duplicate (run_id, trial).
func (s *ResultStore) InsertBulk(ctx context.Context, results []*domain.SimulationResult) error {
	if len(results) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		runID string
		trial int
	}
	seen := make(map[key]struct{}, len(results))
	runIDs := make(map[string]struct{})
	for _, r := range results {
		if r == nil || r.RunID == "" || r.Trial < 0 {
			return storage.ErrInvalidInput
		}
		k := key{r.RunID, r.Trial}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
		runIDs[r.RunID] = struct{}{}
	}

	// MergeTree does not enforce uniqueness, so check against existing
	// rows before inserting. Batches are written once per run, so one
	// count per run id is enough.
	for runID := range runIDs {
		exists, err := s.exists(ctx, runID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trial_results (
			run_id, trial, seed, roster_name, team_fp, won, achievement_bonus
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range results {
		err = batch.Append(
			r.RunID, uint32(r.Trial), r.Seed,
			r.RosterName, r.TeamFP, r.Won, r.AchievementBonus,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves all results of a batch, ordered by trial ASC.
func (s *ResultStore) GetByRunID(ctx context.Context, runID string) ([]*domain.SimulationResult, error) {
	query := `
		SELECT run_id, trial, seed, roster_name, team_fp, won, achievement_bonus
		FROM trial_results
		WHERE run_id = ?
		ORDER BY trial ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// TeamFPsByRunID retrieves only the per-trial team scores of a batch,
// ordered by trial ASC.
func (s *ResultStore) TeamFPsByRunID(ctx context.Context, runID string) ([]float64, error) {
	query := `
		SELECT team_fp
		FROM trial_results
		WHERE run_id = ?
		ORDER BY trial ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query team fps: %w", err)
	}
	defer rows.Close()

	var fps []float64
	for rows.Next() {
		var fp float64
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan team fp row: %w", err)
		}
		fps = append(fps, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team fp rows: %w", err)
	}

	return fps, nil
}

// exists checks if any row for the run id exists.
func (s *ResultStore) exists(ctx context.Context, runID string) (bool, error) {
	query := `SELECT count(*) FROM trial_results WHERE run_id = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, runID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanResults scans multiple rows into a slice of SimulationResult.
func scanResults(rows driver.Rows) ([]*domain.SimulationResult, error) {
	var results []*domain.SimulationResult

	for rows.Next() {
		var r domain.SimulationResult
		var trial uint32

		err := rows.Scan(
			&r.RunID,
			&trial,
			&r.Seed,
			&r.RosterName,
			&r.TeamFP,
			&r.Won,
			&r.AchievementBonus,
		)
		if err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}

		r.Trial = int(trial)
		results = append(results, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}

	return results, nil
}
