package memory

import (
	"context"
	"sort"
	"sync"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/storage"
)

// PlayerStore is an in-memory implementation of storage.PlayerStore.
type PlayerStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Player // keyed by player_id
}

// NewPlayerStore creates a new in-memory player store.
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{
		data: make(map[string]*domain.Player),
	}
}

// Insert adds a new player. Returns ErrDuplicateKey if player_id exists.
func (s *PlayerStore) Insert(_ context.Context, p *domain.Player) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	playerCopy := *p
	s.data[p.ID] = &playerCopy
	return nil
}

// InsertBulk adds multiple players atomically. Fails entire batch on any duplicate.
func (s *PlayerStore) InsertBulk(_ context.Context, players []*domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate entire batch before mutating
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p == nil || p.ID == "" {
			return storage.ErrInvalidInput
		}
		if seen[p.ID] {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.data[p.ID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[p.ID] = true
	}

	for _, p := range players {
		playerCopy := *p
		s.data[p.ID] = &playerCopy
	}
	return nil
}

// GetByID retrieves a player by ID. Returns ErrNotFound if not exists.
func (s *PlayerStore) GetByID(_ context.Context, playerID string) (*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[playerID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	playerCopy := *p
	return &playerCopy, nil
}

// GetByPosition retrieves all players of a given position, ordered by ID ASC.
func (s *PlayerStore) GetByPosition(_ context.Context, pos domain.Position) ([]*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Player
	for _, p := range s.data {
		if p.Position == pos {
			playerCopy := *p
			result = append(result, &playerCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// GetAll retrieves the full player pool, ordered by ID ASC.
func (s *PlayerStore) GetAll(_ context.Context) ([]*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Player, 0, len(s.data))
	for _, p := range s.data {
		playerCopy := *p
		result = append(result, &playerCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.PlayerStore = (*PlayerStore)(nil)
