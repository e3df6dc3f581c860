package collector

import (
	"context"
	"sync"

	"MarketBulletin/internal/model"
)

// StaticFetcher returns controllable fixed rows for development and testing.
// Errs are returned in order on successive calls before Rows is served.
type StaticFetcher struct {
	ID   string
	Rows []model.RawRow
	Errs []error

	mu    sync.Mutex
	calls int
}

func (s *StaticFetcher) Name() string { return s.ID }

func (s *StaticFetcher) Fetch(ctx context.Context, _ Query) ([]model.RawRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.calls <= len(s.Errs) {
		return nil, s.Errs[s.calls-1]
	}
	out := make([]model.RawRow, len(s.Rows))
	copy(out, s.Rows)
	return out, nil
}

// Calls returns how many times Fetch ran.
func (s *StaticFetcher) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
