package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/storage"
)

// GameLogStore is an in-memory implementation of storage.GameLogStore.
type GameLogStore struct {
	mu   sync.RWMutex
	data map[string]*domain.GameLog // keyed by (player_id, season, competition, round)
}

// NewGameLogStore creates a new in-memory game log store.
func NewGameLogStore() *GameLogStore {
	return &GameLogStore{
		data: make(map[string]*domain.GameLog),
	}
}

func logKey(l *domain.GameLog) string {
	return fmt.Sprintf("%s|%d|%s|%d", l.PlayerID, l.Season, l.Competition, l.Round)
}

func validLog(l *domain.GameLog) bool {
	return l != nil && l.PlayerID != "" && l.Competition != ""
}

// Insert adds a new game log. Returns ErrDuplicateKey if the composite key exists.
func (s *GameLogStore) Insert(_ context.Context, l *domain.GameLog) error {
	if !validLog(l) {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := logKey(l)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	logCopy := *l
	s.data[key] = &logCopy
	return nil
}

// InsertBulk adds multiple logs atomically. Fails entire batch on any duplicate.
func (s *GameLogStore) InsertBulk(_ context.Context, logs []*domain.GameLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(logs))
	for _, l := range logs {
		if !validLog(l) {
			return storage.ErrInvalidInput
		}
		key := logKey(l)
		if seen[key] {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		seen[key] = true
	}

	for _, l := range logs {
		logCopy := *l
		s.data[logKey(l)] = &logCopy
	}
	return nil
}

// GetByPlayerID retrieves all logs for a player, ordered by season,
// competition, round ASC.
func (s *GameLogStore) GetByPlayerID(_ context.Context, playerID string) ([]*domain.GameLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.GameLog
	for _, l := range s.data {
		if l.PlayerID == playerID {
			logCopy := *l
			result = append(result, &logCopy)
		}
	}

	sortLogs(result)
	return result, nil
}

// GetBySeasonRange retrieves logs for a player with season within [start, end] (inclusive).
func (s *GameLogStore) GetBySeasonRange(_ context.Context, playerID string, start, end int) ([]*domain.GameLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.GameLog
	for _, l := range s.data {
		if l.PlayerID == playerID && l.Season >= start && l.Season <= end {
			logCopy := *l
			result = append(result, &logCopy)
		}
	}

	sortLogs(result)
	return result, nil
}

// GetAll retrieves every stored log grouped per player.
func (s *GameLogStore) GetAll(_ context.Context) (map[string][]*domain.GameLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]*domain.GameLog)
	for _, l := range s.data {
		logCopy := *l
		result[l.PlayerID] = append(result[l.PlayerID], &logCopy)
	}

	for _, logs := range result {
		sortLogs(logs)
	}
	return result, nil
}

func sortLogs(logs []*domain.GameLog) {
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].Season != logs[j].Season {
			return logs[i].Season < logs[j].Season
		}
		if logs[i].Competition != logs[j].Competition {
			return logs[i].Competition < logs[j].Competition
		}
		return logs[i].Round < logs[j].Round
	})
}

// Verify interface compliance at compile time.
var _ storage.GameLogStore = (*GameLogStore)(nil)
