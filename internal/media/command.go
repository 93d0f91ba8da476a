package media

import (
	"time"

	"github.com/avkit/playbackd/internal/engine"
	"github.com/avkit/playbackd/internal/models"
)

// commandKind enumerates the single-slot register values. cmdNone marks an
// empty slot.
type commandKind int

const (
	cmdNone commandKind = iota
	cmdPlay
	cmdStop
	cmdPause
	cmdResume
	cmdSeek
	cmdNormal
	cmdFastForward
	cmdFastBackward
	cmdTurboFastForward
	cmdTurboFastBackward
)

func (k commandKind) String() string {
	switch k {
	case cmdPlay:
		return "play"
	case cmdStop:
		return "stop"
	case cmdPause:
		return "pause"
	case cmdResume:
		return "resume"
	case cmdSeek:
		return "seek"
	case cmdNormal:
		return "normal"
	case cmdFastForward:
		return "fast_forward"
	case cmdFastBackward:
		return "fast_backward"
	case cmdTurboFastForward:
		return "turbo_fast_forward"
	case cmdTurboFastBackward:
		return "turbo_fast_backward"
	}
	return "none"
}

// Trick-play rates. Normal restores 1.0.
const (
	fastRate  = 4.0
	turboRate = 16.0
)

// command is the slot content. A newly stored command overwrites whatever
// was pending; this lossy single-slot behavior is part of the observable
// contract.
type command struct {
	kind commandKind
	req  models.PlayRequest
}

// controlLoop drains the command slot at a fixed short interval. Dispatch
// runs with the slot lock held so a submit landing mid-dispatch waits for
// the next tick.
func (m *Manager) controlLoop() {
	defer close(m.ctlDone)
	ticker := time.NewTicker(m.cfg.CommandInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.cmdMu.Lock()
			cmd := m.pending
			if cmd.kind != cmdNone {
				m.dispatch(cmd)
				m.pending = command{}
			}
			m.cmdMu.Unlock()
		}
	}
}

func (m *Manager) dispatch(cmd command) {
	m.log.Debug("dispatch command", "command", cmd.kind.String(),
		"play_id", cmd.req.PlayID)
	switch cmd.kind {
	case cmdPlay:
		m.handlePlay(cmd.req)
	case cmdStop:
		m.handleStop()
	case cmdPause:
		m.handlePause()
	case cmdResume:
		m.handleResume()
	case cmdSeek:
		m.handleSeek(cmd.req)
	case cmdNormal:
		m.handleRate(1.0, DirNormal)
	case cmdFastForward:
		m.handleRate(fastRate, DirForward)
	case cmdFastBackward:
		m.handleRate(-fastRate, DirRewind)
	case cmdTurboFastForward:
		m.handleRate(turboRate, DirForward)
	case cmdTurboFastBackward:
		m.handleRate(-turboRate, DirRewind)
	}
}

func (m *Manager) handlePlay(req models.PlayRequest) {
	if err := m.startSession(req); err != nil {
		m.log.Error("session start failed", "play_id", req.PlayID, "error", err)
		m.reportError(classify(err), req.PlayID)
		m.releaseSlot()
	}
}

func (m *Manager) handleStop() {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()
	if m.cur != nil {
		m.stopSessionLocked()
		return
	}
	// A stop can overwrite its own play in the slot before the play
	// drains. The register is still held in that case; release it and
	// acknowledge the stop with no session ID.
	m.regMu.Lock()
	held := m.busy
	m.busy = false
	m.curID = 0
	m.regMu.Unlock()
	if held {
		m.log.Info("stop drained before play, slot released")
		m.cfg.Notifier.Stopped(-1)
	}
}

func (m *Manager) handlePause() {
	s := m.activeSession()
	if s == nil {
		return
	}
	s.setUserPause(true)
	s.engMu.Lock()
	err := s.pipe.SetState(engine.StatePaused, stateTimeout)
	s.engMu.Unlock()
	if err != nil {
		s.setUserPause(false)
		m.log.Warn("pause failed", "play_id", s.id, "error", err)
		m.reportError(models.ErrCodeGeneric, s.id)
		return
	}
	s.setDirection(DirNormal)
}

func (m *Manager) handleResume() {
	s := m.activeSession()
	if s == nil {
		return
	}
	s.engMu.Lock()
	err := s.pipe.SetState(engine.StatePlaying, stateTimeout)
	s.engMu.Unlock()
	if err != nil {
		m.log.Warn("resume failed", "play_id", s.id, "error", err)
		m.reportError(models.ErrCodeGeneric, s.id)
		return
	}
	s.setDirection(DirNormal)
}

func (m *Manager) handleSeek(req models.PlayRequest) {
	s := m.activeSession()
	if s == nil {
		return
	}
	if !s.seekEnabled {
		m.log.Warn("seek ignored, content not seekable", "play_id", s.id)
		return
	}
	target := time.Duration(req.StartSeconds()) * time.Second
	s.engMu.Lock()
	err := s.pipe.Seek(target, false)
	s.engMu.Unlock()
	if err != nil {
		m.log.Warn("seek failed", "play_id", s.id, "error", err)
		return
	}
	s.setDirection(DirNormal)
	s.tracker.Reset(req.StartSeconds())
	m.cfg.Notifier.SeekCompleted(req.Hour, req.Min, req.Sec, s.id)
}

func (m *Manager) handleRate(rate float64, dir Direction) {
	s := m.activeSession()
	if s == nil {
		return
	}
	s.engMu.Lock()
	err := s.pipe.SetRate(rate)
	s.engMu.Unlock()
	if err != nil {
		m.log.Warn("rate change failed", "play_id", s.id,
			"rate", rate, "error", err)
		return
	}
	s.setDirection(dir)
	m.log.Info("playback rate changed", "play_id", s.id, "rate", rate)
}

func (m *Manager) activeSession() *session {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()
	return m.cur
}
