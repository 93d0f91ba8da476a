package media

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/avkit/playbackd/internal/models"
)

// PositionTracker decides which whole-second position values are worth
// reporting, using direction-aware thresholds: at normal speed any change
// reports, while trick play reports only movement matching the direction.
type PositionTracker struct {
	mu   sync.Mutex
	last int64
}

// Reset pins the last-reported position, typically after a seek or start
// offset.
func (t *PositionTracker) Reset(sec int64) {
	t.mu.Lock()
	t.last = sec
	t.mu.Unlock()
}

// Update reports whether sec qualifies for notification in the given
// direction and, if so, records it as the last-reported value.
func (t *PositionTracker) Update(sec int64, dir Direction) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	var report bool
	switch dir {
	case DirForward:
		report = sec-t.last >= 1
	case DirRewind:
		report = t.last-sec >= 1
	default:
		report = sec != t.last
	}
	if report {
		t.last = sec
	}
	return report
}

// positionLoop samples the active session's position at a fixed interval
// and reports qualifying whole-second changes. Query failures are throttled
// to keep a sick pipeline from flooding the log.
func (m *Manager) positionLoop() {
	defer close(m.pollerDone)
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()
	warn := rate.NewLimiter(rate.Every(5*time.Second), 1)
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.pollPosition(warn)
		}
	}
}

func (m *Manager) pollPosition(warn *rate.Limiter) {
	s := m.activeSession()
	if s == nil {
		return
	}

	s.mu.Lock()
	ready := s.asyncReady
	playing := s.state == statePlaying
	dir := s.dir
	s.mu.Unlock()

	// Duration can become queryable before the first position tick.
	m.reportDuration(s)

	if !ready || !playing {
		return
	}

	pos, err := s.pipe.Position()
	if err != nil {
		if warn.Allow() {
			m.log.Warn("position query failed", "play_id", s.id, "error", err)
		}
		return
	}

	sec := int64(pos.Seconds())
	if !s.tracker.Update(sec, dir) {
		return
	}
	h, min, ss := models.Clock(sec)
	m.cfg.Notifier.PlayPosition(h, min, ss, s.id)
}
