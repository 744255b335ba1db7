package memory

import (
	"context"
	"sort"
	"sync"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/storage"
)

// ResultStore is an in-memory implementation of storage.ResultStore.
type ResultStore struct {
	mu   sync.RWMutex
	data map[string]map[int]*domain.SimulationResult // run_id -> trial -> result
}

// NewResultStore creates a new in-memory trial result store.
func NewResultStore() *ResultStore {
	return &ResultStore{
		data: make(map[string]map[int]*domain.SimulationResult),
	}
}

// InsertBulk adds one complete run batch. Fails entire batch on
// duplicate (run_id, trial).
func (s *ResultStore) InsertBulk(_ context.Context, results []*domain.SimulationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type key struct {
		run   string
		trial int
	}
	seen := make(map[key]bool, len(results))
	for _, r := range results {
		if r == nil || r.RunID == "" || r.Trial < 0 {
			return storage.ErrInvalidInput
		}
		k := key{r.RunID, r.Trial}
		if seen[k] {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.data[r.RunID][r.Trial]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = true
	}

	for _, r := range results {
		if s.data[r.RunID] == nil {
			s.data[r.RunID] = make(map[int]*domain.SimulationResult)
		}
		resultCopy := *r
		s.data[r.RunID][r.Trial] = &resultCopy
	}
	return nil
}

// GetByRunID retrieves all results of a batch, ordered by trial ASC.
func (s *ResultStore) GetByRunID(_ context.Context, runID string) ([]*domain.SimulationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.data[runID]
	result := make([]*domain.SimulationResult, 0, len(batch))
	for _, r := range batch {
		resultCopy := *r
		result = append(result, &resultCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Trial < result[j].Trial
	})

	return result, nil
}

// TeamFPsByRunID retrieves only the per-trial team scores of a batch,
// ordered by trial ASC.
func (s *ResultStore) TeamFPsByRunID(ctx context.Context, runID string) ([]float64, error) {
	results, err := s.GetByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}

	fps := make([]float64, len(results))
	for i, r := range results {
		fps[i] = r.TeamFP
	}
	return fps, nil
}

// Verify interface compliance at compile time.
var _ storage.ResultStore = (*ResultStore)(nil)
