// Package clock is a small wall-clock snapshot helper used for session
// start bookkeeping.
package clock

import (
	"sync"
	"time"
)

// Stamp records one wall-clock instant. The zero value is usable; Mark must
// be called before Since returns a meaningful value.
type Stamp struct {
	mu sync.Mutex
	at time.Time
}

// Mark records the current wall-clock time.
func (s *Stamp) Mark() {
	s.mu.Lock()
	s.at = time.Now()
	s.mu.Unlock()
}

// MarkAt records the given instant; used by tests.
func (s *Stamp) MarkAt(t time.Time) {
	s.mu.Lock()
	s.at = t
	s.mu.Unlock()
}

// Time returns the last recorded instant, zero if never marked.
func (s *Stamp) Time() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.at
}

// Since returns the elapsed time since the last mark, 0 if never marked.
func (s *Stamp) Since() time.Duration {
	s.mu.Lock()
	at := s.at
	s.mu.Unlock()
	if at.IsZero() {
		return 0
	}
	return time.Since(at)
}
