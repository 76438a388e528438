package refresh

import (
	"sync"
	"time"

	"github.com/0xmhha/landing-dashboard/pkg/parser"
)

// result is what one fetch produced.
type result struct {
	cycle   string
	records []parser.Record
	err     error
	at      time.Time
}

// slot holds the first fetch result until the controller picks it up.
// Once abandoned, later fills are reported as late.
type slot struct {
	mu        sync.Mutex
	filled    bool
	abandoned bool
	res       result
}

// fill stores res. It reports false when the waiter already gave up, in
// which case the caller must deliver res some other way.
func (s *slot) fill(res result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.abandoned {
		return false
	}
	s.res = res
	s.filled = true
	return true
}

// take returns the stored result if there is one.
func (s *slot) take() (result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.res, s.filled
}

// abandon stops waiting. A result stored since the last take is returned.
func (s *slot) abandon() (result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.abandoned = true
	return s.res, s.filled
}
