package memory

import (
	"context"
	"errors"
	"testing"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/storage"
)

func resultBatch(runID string, n int) []*domain.SimulationResult {
	batch := make([]*domain.SimulationResult, n)
	for i := 0; i < n; i++ {
		batch[i] = &domain.SimulationResult{
			Trial:      i,
			RunID:      runID,
			RosterName: "squad",
			TeamFP:     float64(10 * (i + 1)),
			Won:        i%2 == 0,
		}
	}
	return batch
}

func TestResultStore_InsertBulkAndGet(t *testing.T) {
	store := NewResultStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, resultBatch("run-1", 5)); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	results, err := store.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("Expected 5 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Trial != i {
			t.Errorf("Position %d holds trial %d", i, r.Trial)
		}
	}
}

func TestResultStore_DuplicateTrial(t *testing.T) {
	store := NewResultStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, resultBatch("run-1", 3)); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	// Re-inserting any overlapping trial fails the whole batch.
	err := store.InsertBulk(ctx, resultBatch("run-1", 1))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// A different run id is independent.
	if err := store.InsertBulk(ctx, resultBatch("run-2", 3)); err != nil {
		t.Errorf("Separate run rejected: %v", err)
	}
}

func TestResultStore_TeamFPsByRunID(t *testing.T) {
	store := NewResultStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, resultBatch("run-1", 4)); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	fps, err := store.TeamFPsByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("TeamFPsByRunID failed: %v", err)
	}
	want := []float64{10, 20, 30, 40}
	if len(fps) != len(want) {
		t.Fatalf("Expected %d scores, got %d", len(want), len(fps))
	}
	for i := range want {
		if fps[i] != want[i] {
			t.Errorf("Score %d = %v, want %v", i, fps[i], want[i])
		}
	}
}

func TestResultStore_UnknownRunIsEmpty(t *testing.T) {
	store := NewResultStore()
	ctx := context.Background()

	results, err := store.GetByRunID(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty result set, got %d", len(results))
	}
}

func TestResultStore_InvalidInput(t *testing.T) {
	store := NewResultStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.SimulationResult{{Trial: 0, RunID: ""}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty run id, got %v", err)
	}
}
