// internal/oracle/static.go
package oracle

import (
	"context"
	"sync"
)

// Static replays a scripted sequence of counts, repeating the final
// value once the script is exhausted. Dry runs and tests use it in
// place of a live cache.
type Static struct {
	mu     sync.Mutex
	counts []int
	next   int
}

// NewStatic builds a scripted oracle. With no counts it always
// reports zero.
func NewStatic(counts ...int) *Static {
	return &Static{counts: counts}
}

// LiveCount returns the next scripted value.
func (s *Static) LiveCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.counts) == 0 {
		return 0, nil
	}
	if s.next >= len(s.counts) {
		return s.counts[len(s.counts)-1], nil
	}
	v := s.counts[s.next]
	s.next++
	return v, nil
}
