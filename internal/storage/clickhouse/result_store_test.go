package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/storage"
)

func trialBatch(runID string, n int) []*domain.SimulationResult {
	batch := make([]*domain.SimulationResult, n)
	for i := 0; i < n; i++ {
		batch[i] = &domain.SimulationResult{
			Trial:            i,
			RunID:            runID,
			Seed:             uint32(1000 + i),
			RosterName:       "squad",
			TeamFP:           float64(10 * (i + 1)),
			Won:              i%2 == 0,
			AchievementBonus: float64(i),
		}
	}
	return batch
}

func TestResultStore_InsertBulkAndGetByRunID(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewResultStore(conn)

	err := store.InsertBulk(ctx, trialBatch("run-ch-1", 5))
	require.NoError(t, err)

	results, err := store.GetByRunID(ctx, "run-ch-1")
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, r := range results {
		assert.Equal(t, i, r.Trial)
		assert.Equal(t, uint32(1000+i), r.Seed)
		assert.Equal(t, "squad", r.RosterName)
		assert.Equal(t, float64(10*(i+1)), r.TeamFP)
		assert.Equal(t, i%2 == 0, r.Won)
	}
}

func TestResultStore_DuplicateRun(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewResultStore(conn)

	require.NoError(t, store.InsertBulk(ctx, trialBatch("run-ch-2", 3)))

	err := store.InsertBulk(ctx, trialBatch("run-ch-2", 3))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestResultStore_IntraBatchDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewResultStore(conn)

	batch := trialBatch("run-ch-3", 2)
	batch[1].Trial = batch[0].Trial

	err := store.InsertBulk(ctx, batch)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestResultStore_TeamFPsByRunID(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewResultStore(conn)

	require.NoError(t, store.InsertBulk(ctx, trialBatch("run-ch-4", 4)))

	fps, err := store.TeamFPsByRunID(ctx, "run-ch-4")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30, 40}, fps)
}

func TestResultStore_UnknownRunIsEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewResultStore(conn)

	results, err := store.GetByRunID(ctx, "nonexistent")
	require.NoError(t, err)
	assert.Empty(t, results)
}
