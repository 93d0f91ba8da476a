package media

import (
	"github.com/avkit/playbackd/internal/engine"
	"github.com/avkit/playbackd/internal/models"
)

// translate drains one session's engine messages and turns them into client
// notifications. It runs for the life of the session and exits when the
// pipeline closes its message channel. Read-only engine queries are issued
// directly; mutations never happen here.
func (m *Manager) translate(s *session) {
	defer close(s.translatorDone)
	for msg := range s.pipe.Messages() {
		switch msg.Kind {
		case engine.MsgEOS:
			// Playback ran out; the session stays up until the caller
			// issues a stop.
			m.log.Info("end of stream", "play_id", s.id)
			m.cfg.Notifier.PlayEnded(s.id)

		case engine.MsgTags:
			if s.content == models.ContentAudio && msg.Tags != nil {
				m.mergeTags(s, msg.Tags)
			}

		case engine.MsgStateChanged:
			if msg.State != nil {
				m.onStateChanged(s, *msg.State)
			}

		case engine.MsgError:
			m.onEngineError(s, msg.Err)

		case engine.MsgAsyncDone:
			m.onAsyncDone(s)

		case engine.MsgDurationChanged:
			m.reportDuration(s)
		}
	}
}

func (m *Manager) onStateChanged(s *session, ch engine.StateChange) {
	switch {
	case ch.Old == engine.StatePaused && ch.New == engine.StatePlaying:
		s.mu.Lock()
		first := !s.started
		s.started = true
		s.state = statePlaying
		s.mu.Unlock()
		// Every pause-to-playing edge is acknowledged; only the duration
		// query is first-edge work.
		if first {
			m.log.Info("playback started", "play_id", s.id)
		} else {
			m.log.Info("playback resumed", "play_id", s.id)
		}
		m.cfg.Notifier.Playing(s.id)
		if first {
			m.reportDuration(s)
		}

	case ch.New == engine.StatePaused &&
		(ch.Old == engine.StatePlaying || ch.Old == engine.StateReady):
		s.mu.Lock()
		wasUserPause := s.userPause
		s.userPause = false
		if wasUserPause {
			s.state = statePaused
		}
		s.mu.Unlock()
		if wasUserPause {
			m.log.Info("playback paused", "play_id", s.id)
			m.cfg.Notifier.Paused(s.id)
		}

	case ch.New == engine.StateReady:
		s.mu.Lock()
		s.state = stateIdle
		s.mu.Unlock()
	}
}

func (m *Manager) onEngineError(s *session, err *engine.Error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	stopping := s.userStop
	s.mu.Unlock()
	if stopping {
		// Teardown shakes errors loose; none of them are the caller's
		// business.
		m.log.Debug("error during teardown suppressed",
			"play_id", s.id, "error", err.Message)
		return
	}
	m.reportError(err.Classify(), s.id)
}

func (m *Manager) onAsyncDone(s *session) {
	s.mu.Lock()
	s.asyncReady = true
	s.mu.Unlock()
	// Dual-display state is read live so a mid-session geometry change
	// takes effect on the next async completion.
	if !m.Video().DualEnabled {
		return
	}
	rate, err := s.pipe.SampleRate()
	if err != nil {
		m.log.Debug("samplerate query failed", "play_id", s.id, "error", err)
		return
	}
	m.cfg.Notifier.Samplerate(int32(rate), s.id)
}

// reportDuration queries and reports total duration once per session.
func (m *Manager) reportDuration(s *session) {
	s.mu.Lock()
	if s.gotDuration {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	d, err := s.pipe.Duration()
	if err != nil || d <= 0 {
		return
	}

	s.mu.Lock()
	if s.gotDuration {
		s.mu.Unlock()
		return
	}
	s.gotDuration = true
	s.mu.Unlock()

	h, min, sec := models.Clock(int64(d.Seconds()))
	m.log.Info("duration known", "play_id", s.id, "duration", d.Round(0))
	m.cfg.Notifier.Duration(h, min, sec, s.id)
}
