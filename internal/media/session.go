package media

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/avkit/playbackd/internal/clock"
	"github.com/avkit/playbackd/internal/engine"
	"github.com/avkit/playbackd/internal/models"
)

// sessionState is the explicit lifecycle state of the active session.
type sessionState int

const (
	stateIdle sessionState = iota
	stateStarting
	statePaused
	statePlaying
	stateStopping
	stateFailed
)

// Direction is the current playback direction for position reporting.
type Direction int

const (
	DirNormal Direction = iota
	DirForward
	DirRewind
)

// session is one active playback attempt bound to one engine pipeline.
// The manager's lifecycle lock owns creation and teardown; the translator
// and poller goroutines take only snapshot reads guarded by the session's
// own mutex.
type session struct {
	id      int32
	content models.ContentType
	pipe    engine.Pipeline

	// engMu serializes every engine mutation against the translator.
	engMu sync.Mutex

	mu          sync.Mutex
	state       sessionState
	dir         Direction
	userPause   bool
	userStop    bool
	started     bool
	gotDuration bool
	asyncReady  bool

	seekEnabled bool
	startOffset int64
	startedAt   clock.Stamp

	tracker        PositionTracker
	translatorDone chan struct{}
}

func (s *session) setUserPause(v bool) {
	s.mu.Lock()
	s.userPause = v
	s.mu.Unlock()
}

func (s *session) setDirection(d Direction) {
	s.mu.Lock()
	s.dir = d
	s.mu.Unlock()
}

// splitURI separates the scheme from the location at the first "://". Paths
// without a scheme are treated as plain files.
func splitURI(path string) (scheme, location string) {
	if i := strings.Index(path, "://"); i > 0 {
		return path[:i], path[i+len("://"):]
	}
	return "", path
}

// startSession builds and starts a session for req. Any active session is
// torn down first so the one-active-session invariant holds even when the
// command layer is misused.
func (m *Manager) startSession(req models.PlayRequest) error {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()

	if m.cur != nil {
		m.stopSessionLocked()
	}

	m.metaMu.Lock()
	m.tags.Reset()
	m.metaMu.Unlock()

	scheme, location := splitURI(req.Path)

	m.videoMu.Lock()
	v := m.video
	m.videoMu.Unlock()

	pipe, err := m.cfg.Factory.New(engine.Config{
		Scheme:      scheme,
		Location:    location,
		URI:         req.Path,
		Video:       req.Content == models.ContentVideo,
		AudioSink:   m.cfg.AudioSink,
		AudioDevice: m.cfg.AudioDevice,
		VideoDevice: m.cfg.VideoDevice,
		Display:     v,
	})
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	s := &session{
		id:             req.PlayID,
		content:        req.Content,
		pipe:           pipe,
		state:          stateStarting,
		startOffset:    req.StartSeconds(),
		translatorDone: make(chan struct{}),
	}
	s.startedAt.Mark()
	s.tracker.Reset(req.StartSeconds())
	go m.translate(s)

	if err := m.prerollSession(s, req.KeepPause); err != nil {
		s.mu.Lock()
		s.state = stateFailed
		s.mu.Unlock()
		s.engMu.Lock()
		s.pipe.SetState(engine.StateNull, stateTimeout)
		s.pipe.Close()
		s.engMu.Unlock()
		<-s.translatorDone
		return err
	}

	m.cur = s
	return nil
}

// prerollSession walks the pipeline to Paused, applies the requested start
// offset, and releases playback unless the caller asked to stay paused.
func (m *Manager) prerollSession(s *session, keepPause bool) error {
	s.engMu.Lock()
	defer s.engMu.Unlock()

	if err := s.pipe.SetState(engine.StatePaused, stateTimeout); err != nil {
		return fmt.Errorf("preroll: %w", err)
	}

	seekable, err := s.pipe.QuerySeekable()
	if err != nil {
		m.log.Debug("seekable query failed", "play_id", s.id, "error", err)
	}
	s.seekEnabled = seekable

	if s.startOffset > 0 {
		if seekable {
			target := time.Duration(s.startOffset) * time.Second
			if err := s.pipe.Seek(target, true); err != nil {
				m.log.Warn("start offset seek failed",
					"play_id", s.id, "error", err)
			}
		} else {
			// Unseekable content starts from zero.
			s.startOffset = 0
			s.tracker.Reset(0)
		}
	}

	if keepPause {
		s.mu.Lock()
		s.state = statePaused
		s.mu.Unlock()
		return nil
	}

	if err := s.pipe.SetState(engine.StatePlaying, stateTimeout); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}
	return nil
}

// stopSessionLocked tears down the active session. Idempotent: a nil
// session is a no-op. Callers hold lifeMu.
func (m *Manager) stopSessionLocked() {
	s := m.cur
	if s == nil {
		return
	}
	m.cur = nil

	s.mu.Lock()
	s.userStop = true
	s.state = stateStopping
	s.mu.Unlock()

	s.engMu.Lock()
	if err := s.pipe.SetState(engine.StateNull, stateTimeout); err != nil {
		m.log.Warn("pipeline teardown", "play_id", s.id, "error", err)
	}
	s.pipe.Close()
	s.engMu.Unlock()
	<-s.translatorDone

	m.releaseSlot()
	m.log.Info("session stopped", "play_id", s.id,
		"elapsed", s.startedAt.Since().Round(time.Millisecond))
	m.cfg.Notifier.Stopped(s.id)
}
