package resolve

import (
	"fantasy-roster-lab/internal/domain"
)

// StubResolver returns scripted resolutions for tests. ResolveFunc, if
// set, overrides the canned output and can inject per-seed behavior or
// failures.
type StubResolver struct {
	Resolutions []domain.Resolution
	ResolveFunc func(roster *domain.Roster, seed uint32) ([]domain.Resolution, error)
	Calls       int
}

var _ Resolver = (*StubResolver)(nil)

// Resolve returns the scripted output.
func (s *StubResolver) Resolve(roster *domain.Roster, seed uint32) ([]domain.Resolution, error) {
	s.Calls++
	if s.ResolveFunc != nil {
		return s.ResolveFunc(roster, seed)
	}
	return s.Resolutions, nil
}
