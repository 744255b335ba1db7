package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/storage"
)

// SummaryStore implements storage.SummaryStore using PostgreSQL.
type SummaryStore struct {
	pool *Pool
}

// NewSummaryStore creates a new SummaryStore.
func NewSummaryStore(pool *Pool) *SummaryStore {
	return &SummaryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SummaryStore = (*SummaryStore)(nil)

const selectSummaryColumns = `
	SELECT run_id, roster_name, total_runs, wins, losses, win_rate,
	       fp_min, fp_max, fp_mean, fp_median, fp_p25, fp_p75, fp_p90, fp_p95, fp_p99,
	       avg_bonus, max_bonus, percent_with_bonus,
	       current_orange, current_purple, current_blue, current_green,
	       suggested_orange, suggested_purple, suggested_blue, suggested_green,
	       reasoning
	FROM run_summaries
`

// Insert adds a new summary. Returns ErrDuplicateKey if run_id exists.
func (s *SummaryStore) Insert(ctx context.Context, sum *domain.SimulationSummary) error {
	if sum == nil || sum.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO run_summaries (
			run_id, roster_name, total_runs, wins, losses, win_rate,
			fp_min, fp_max, fp_mean, fp_median, fp_p25, fp_p75, fp_p90, fp_p95, fp_p99,
			avg_bonus, max_bonus, percent_with_bonus,
			current_orange, current_purple, current_blue, current_green,
			suggested_orange, suggested_purple, suggested_blue, suggested_green,
			reasoning
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18,
			$19, $20, $21, $22,
			$23, $24, $25, $26,
			$27
		)
	`

	_, err := s.pool.Exec(ctx, query,
		sum.RunID,
		sum.RosterName,
		sum.TotalRuns,
		sum.Wins,
		sum.Losses,
		sum.WinRate,
		sum.FP.Min,
		sum.FP.Max,
		sum.FP.Mean,
		sum.FP.Median,
		sum.FP.P25,
		sum.FP.P75,
		sum.FP.P90,
		sum.FP.P95,
		sum.FP.P99,
		sum.Achievements.AvgBonus,
		sum.Achievements.MaxBonus,
		sum.Achievements.PercentWithBonus,
		sum.Recommendation.Current.Orange,
		sum.Recommendation.Current.Purple,
		sum.Recommendation.Current.Blue,
		sum.Recommendation.Current.Green,
		sum.Recommendation.Suggested.Orange,
		sum.Recommendation.Suggested.Purple,
		sum.Recommendation.Suggested.Blue,
		sum.Recommendation.Suggested.Green,
		sum.Recommendation.Reasoning,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

// GetByRunID retrieves a summary by its run ID. Returns ErrNotFound if not exists.
func (s *SummaryStore) GetByRunID(ctx context.Context, runID string) (*domain.SimulationSummary, error) {
	query := selectSummaryColumns + ` WHERE run_id = $1`

	row := s.pool.QueryRow(ctx, query, runID)
	sum, err := scanSummary(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get summary by run id: %w", err)
	}
	return sum, nil
}

// GetByRoster retrieves all summaries recorded for a roster name.
func (s *SummaryStore) GetByRoster(ctx context.Context, rosterName string) ([]*domain.SimulationSummary, error) {
	query := selectSummaryColumns + `
		WHERE roster_name = $1
		ORDER BY run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, rosterName)
	if err != nil {
		return nil, fmt.Errorf("get summaries by roster: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// GetAll retrieves all summaries.
func (s *SummaryStore) GetAll(ctx context.Context) ([]*domain.SimulationSummary, error) {
	query := selectSummaryColumns + ` ORDER BY run_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all summaries: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// scanSummary scans a single row into a SimulationSummary.
func scanSummary(row pgx.Row) (*domain.SimulationSummary, error) {
	var sum domain.SimulationSummary

	err := row.Scan(
		&sum.RunID,
		&sum.RosterName,
		&sum.TotalRuns,
		&sum.Wins,
		&sum.Losses,
		&sum.WinRate,
		&sum.FP.Min,
		&sum.FP.Max,
		&sum.FP.Mean,
		&sum.FP.Median,
		&sum.FP.P25,
		&sum.FP.P75,
		&sum.FP.P90,
		&sum.FP.P95,
		&sum.FP.P99,
		&sum.Achievements.AvgBonus,
		&sum.Achievements.MaxBonus,
		&sum.Achievements.PercentWithBonus,
		&sum.Recommendation.Current.Orange,
		&sum.Recommendation.Current.Purple,
		&sum.Recommendation.Current.Blue,
		&sum.Recommendation.Current.Green,
		&sum.Recommendation.Suggested.Orange,
		&sum.Recommendation.Suggested.Purple,
		&sum.Recommendation.Suggested.Blue,
		&sum.Recommendation.Suggested.Green,
		&sum.Recommendation.Reasoning,
	)
	if err != nil {
		return nil, err
	}

	return &sum, nil
}

// scanSummaries scans multiple rows into a slice of SimulationSummary.
func scanSummaries(rows pgx.Rows) ([]*domain.SimulationSummary, error) {
	var summaries []*domain.SimulationSummary

	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary rows: %w", err)
	}

	return summaries, nil
}
