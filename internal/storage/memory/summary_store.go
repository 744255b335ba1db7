package memory

import (
	"context"
	"sort"
	"sync"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/storage"
)

// SummaryStore is an in-memory implementation of storage.SummaryStore.
type SummaryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SimulationSummary // keyed by run_id
}

// NewSummaryStore creates a new in-memory summary store.
func NewSummaryStore() *SummaryStore {
	return &SummaryStore{
		data: make(map[string]*domain.SimulationSummary),
	}
}

// Insert adds a new summary. Returns ErrDuplicateKey if run_id exists.
func (s *SummaryStore) Insert(_ context.Context, sum *domain.SimulationSummary) error {
	if sum == nil || sum.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sum.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[sum.RunID] = copySummary(sum)
	return nil
}

// GetByRunID retrieves a summary by its run ID. Returns ErrNotFound if not exists.
func (s *SummaryStore) GetByRunID(_ context.Context, runID string) (*domain.SimulationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copySummary(sum), nil
}

// GetByRoster retrieves all summaries recorded for a roster name.
func (s *SummaryStore) GetByRoster(_ context.Context, rosterName string) ([]*domain.SimulationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SimulationSummary
	for _, sum := range s.data {
		if sum.RosterName == rosterName {
			result = append(result, copySummary(sum))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].RunID < result[j].RunID
	})

	return result, nil
}

// GetAll retrieves all summaries.
func (s *SummaryStore) GetAll(_ context.Context) ([]*domain.SimulationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.SimulationSummary, 0, len(s.data))
	for _, sum := range s.data {
		result = append(result, copySummary(sum))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].RunID < result[j].RunID
	})

	return result, nil
}

// copySummary deep-copies a summary; Reasoning is the only slice field.
func copySummary(sum *domain.SimulationSummary) *domain.SimulationSummary {
	summaryCopy := *sum
	if sum.Recommendation.Reasoning != nil {
		summaryCopy.Recommendation.Reasoning = append([]string(nil), sum.Recommendation.Reasoning...)
	}
	return &summaryCopy
}

// Verify interface compliance at compile time.
var _ storage.SummaryStore = (*SummaryStore)(nil)
