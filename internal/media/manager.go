// Package media implements the playback core: a single-session manager that
// accepts commands through a one-slot register, drives the streaming engine,
// and translates engine messages into client notifications.
package media

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/avkit/playbackd/internal/engine"
	"github.com/avkit/playbackd/internal/models"
	"github.com/avkit/playbackd/internal/shm"
)

// Default intervals and the single internal wait bound. Every blocking
// engine transition uses stateTimeout; no caller-supplied timeouts exist.
const (
	defaultCommandInterval = 5 * time.Millisecond
	defaultPollInterval    = 250 * time.Millisecond
	stateTimeout           = 2 * time.Second
)

// Config carries the collaborators and device settings for a Manager.
type Config struct {
	Factory  engine.Factory
	Notifier Notifier
	Art      *shm.Segment
	Log      *slog.Logger
	Level    *slog.LevelVar

	AudioSink   string
	AudioDevice string
	VideoDevice string

	// InitialVideo seeds the display geometry; zero value means the
	// built-in default.
	InitialVideo models.VideoInfo

	// OnGeometryChange observes every accepted geometry update, letting
	// the daemon persist it. May be nil.
	OnGeometryChange func(models.VideoInfo)

	// Intervals are overridable for tests; zero means default.
	CommandInterval time.Duration
	PollInterval    time.Duration
}

// Manager owns the playback slot. Exactly one session exists at a time;
// the busy flag gates the slot between an accepted play and the completed
// stop. All engine work happens on the control goroutine, never on the
// caller's.
type Manager struct {
	cfg Config
	log *slog.Logger

	// regMu guards the busy flag and the current play-ID register.
	regMu sync.Mutex
	busy  bool
	curID int32

	// cmdMu guards the single pending-command slot. Dispatch runs with
	// cmdMu held, matching the slot's at-most-one-pending invariant, so
	// handlers must not resubmit commands.
	cmdMu   sync.Mutex
	pending command

	// lifeMu serializes session start and stop; cur is mutated only under
	// it.
	lifeMu sync.Mutex
	cur    *session

	// metaMu guards the per-session tag record.
	metaMu sync.Mutex
	tags   models.TrackTags

	// errMu guards the once-per-session error latch.
	errMu       sync.Mutex
	errReported bool

	// videoMu guards the process-wide display geometry.
	videoMu sync.Mutex
	video   models.VideoInfo

	stopCh     chan struct{}
	ctlDone    chan struct{}
	pollerDone chan struct{}
}

// NewManager builds a Manager from cfg. Call Start before submitting
// commands and Shutdown on the way out.
func NewManager(cfg Config) *Manager {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.CommandInterval <= 0 {
		cfg.CommandInterval = defaultCommandInterval
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	video := cfg.InitialVideo
	if video.Width == 0 || video.Height == 0 {
		video = models.DefaultVideoInfo()
	}
	return &Manager{
		cfg:        cfg,
		log:        cfg.Log,
		video:      video,
		stopCh:     make(chan struct{}),
		ctlDone:    make(chan struct{}),
		pollerDone: make(chan struct{}),
	}
}

// Start launches the control and position-reporting goroutines.
func (m *Manager) Start() {
	go m.controlLoop()
	go m.positionLoop()
}

// Shutdown joins the background goroutines and then stops any active
// session. Loop teardown comes first so a queued play cannot start a new
// session behind the final stop.
func (m *Manager) Shutdown() {
	close(m.stopCh)
	<-m.ctlDone
	<-m.pollerDone

	m.lifeMu.Lock()
	m.stopSessionLocked()
	m.lifeMu.Unlock()
}

// PlayStart submits a play request. It rejects with accepted=false and a
// zero current ID while a session occupies the slot; on acceptance the
// caller's play-ID is echoed back and becomes the current ID immediately,
// before the session actually starts.
func (m *Manager) PlayStart(req models.PlayRequest) (accepted bool, currentID int32) {
	m.regMu.Lock()
	if m.busy {
		m.regMu.Unlock()
		m.log.Info("play rejected, slot busy", "play_id", req.PlayID)
		return false, 0
	}
	m.busy = true
	m.curID = req.PlayID
	m.regMu.Unlock()

	m.resetErrorLatch()

	m.cmdMu.Lock()
	m.pending = command{kind: cmdPlay, req: req}
	m.cmdMu.Unlock()

	m.log.Info("play accepted", "play_id", req.PlayID, "path", req.Path,
		"content", req.Content.String())
	return true, req.PlayID
}

// PlayStop requests teardown of the identified session.
func (m *Manager) PlayStop(playID int32) models.Result {
	return m.submitForSession(cmdStop, playID, models.PlayRequest{})
}

// PlayPause requests a pause of the identified session.
func (m *Manager) PlayPause(playID int32) models.Result {
	return m.submitForSession(cmdPause, playID, models.PlayRequest{})
}

// PlayResume requests playback resume of the identified session.
func (m *Manager) PlayResume(playID int32) models.Result {
	return m.submitForSession(cmdResume, playID, models.PlayRequest{})
}

// PlaySeek requests an absolute seek of the identified session.
func (m *Manager) PlaySeek(hour, min, sec uint8, playID int32) models.Result {
	return m.submitForSession(cmdSeek, playID,
		models.PlayRequest{Hour: hour, Min: min, Sec: sec})
}

// PlayNormal restores normal-speed forward playback.
func (m *Manager) PlayNormal(playID int32) models.Result {
	return m.submitForSession(cmdNormal, playID, models.PlayRequest{})
}

// PlayFastForward switches to fast forward playback.
func (m *Manager) PlayFastForward(playID int32) models.Result {
	return m.submitForSession(cmdFastForward, playID, models.PlayRequest{})
}

// PlayFastBackward switches to fast reverse playback.
func (m *Manager) PlayFastBackward(playID int32) models.Result {
	return m.submitForSession(cmdFastBackward, playID, models.PlayRequest{})
}

// PlayTurboFastForward switches to turbo fast forward playback.
func (m *Manager) PlayTurboFastForward(playID int32) models.Result {
	return m.submitForSession(cmdTurboFastForward, playID, models.PlayRequest{})
}

// PlayTurboFastBackward switches to turbo fast reverse playback.
func (m *Manager) PlayTurboFastBackward(playID int32) models.Result {
	return m.submitForSession(cmdTurboFastBackward, playID, models.PlayRequest{})
}

// submitForSession stores a session-scoped command after validating the
// busy/ID preconditions. Precondition failures are returned synchronously
// and never enter the slot.
func (m *Manager) submitForSession(kind commandKind, playID int32, req models.PlayRequest) models.Result {
	m.regMu.Lock()
	if !m.busy {
		m.regMu.Unlock()
		return models.ResultNotPlaying
	}
	if m.curID != playID {
		cur := m.curID
		m.regMu.Unlock()
		m.log.Warn("command rejected, play-ID mismatch",
			"command", kind.String(), "play_id", playID, "current", cur)
		return models.ResultWrongID
	}
	m.regMu.Unlock()

	req.PlayID = playID
	m.cmdMu.Lock()
	m.pending = command{kind: kind, req: req}
	m.cmdMu.Unlock()
	return models.ResultOK
}

// Status reports whether the playback slot is occupied.
func (m *Manager) Status() bool {
	m.regMu.Lock()
	defer m.regMu.Unlock()
	return m.busy
}

// CurrentPlayID returns the play-ID occupying the slot, zero when idle.
func (m *Manager) CurrentPlayID() int32 {
	m.regMu.Lock()
	defer m.regMu.Unlock()
	return m.curID
}

// AlbumArtKey returns the fixed shared-memory key and capacity callers use
// to attach the album-art segment.
func (m *Manager) AlbumArtKey() (key, size int32) {
	return shm.Key, shm.Size
}

// AlbumArt returns a copy of the staged album art for the current session,
// nil when none has been staged.
func (m *Manager) AlbumArt() []byte {
	m.metaMu.Lock()
	defer m.metaMu.Unlock()
	if !m.tags.ArtStaged || m.cfg.Art == nil {
		return nil
	}
	out := make([]byte, m.tags.ArtLength)
	copy(out, m.cfg.Art.Bytes())
	return out
}

// Video returns the current process-wide display geometry.
func (m *Manager) Video() models.VideoInfo {
	m.videoMu.Lock()
	defer m.videoMu.Unlock()
	return m.video
}

// SetDisplay updates the primary output geometry and applies it to the
// active session, if any.
func (m *Manager) SetDisplay(x, y, w, h uint32) {
	m.videoMu.Lock()
	m.video.X, m.video.Y = x, y
	m.video.Width, m.video.Height = w, h
	v := m.video
	m.videoMu.Unlock()
	m.applyDisplay(v)
}

// SetDualDisplay updates the secondary output geometry. A zero area
// disables the dual output.
func (m *Manager) SetDualDisplay(x, y, w, h uint32) {
	m.videoMu.Lock()
	m.video.DualX, m.video.DualY = x, y
	m.video.DualWidth, m.video.DualHeight = w, h
	m.video.DualEnabled = w > 0 && h > 0
	v := m.video
	m.videoMu.Unlock()
	m.applyDisplay(v)
}

// SetMargin updates the symmetric margins applied inside the primary
// geometry. Margins that would consume the whole output are clamped.
func (m *Manager) SetMargin(w, h uint32) {
	m.videoMu.Lock()
	if m.video.Width > 0 && 2*w >= m.video.Width {
		w = (m.video.Width - 1) / 2
	}
	if m.video.Height > 0 && 2*h >= m.video.Height {
		h = (m.video.Height - 1) / 2
	}
	m.video.MarginW, m.video.MarginH = w, h
	v := m.video
	m.videoMu.Unlock()
	m.applyDisplay(v)
}

func (m *Manager) applyDisplay(v models.VideoInfo) {
	if m.cfg.OnGeometryChange != nil {
		m.cfg.OnGeometryChange(v)
	}
	m.lifeMu.Lock()
	s := m.cur
	m.lifeMu.Unlock()
	if s == nil || s.content != models.ContentVideo {
		return
	}
	s.engMu.Lock()
	err := s.pipe.SetDisplay(v)
	s.engMu.Unlock()
	if err != nil {
		m.log.Warn("apply display geometry failed", "error", err)
	}
}

// SetDebugLevel adjusts log verbosity at runtime. Zero and below is info,
// anything higher enables debug output.
func (m *Manager) SetDebugLevel(level int32) {
	if m.cfg.Level == nil {
		return
	}
	if level > 0 {
		m.cfg.Level.Set(slog.LevelDebug)
	} else {
		m.cfg.Level.Set(slog.LevelInfo)
	}
	m.log.Info("debug level changed", "level", level)
}

// releaseSlot clears the busy flag and current ID after a completed stop or
// a failed start.
func (m *Manager) releaseSlot() {
	m.regMu.Lock()
	m.busy = false
	m.curID = 0
	m.regMu.Unlock()
}

func (m *Manager) resetErrorLatch() {
	m.errMu.Lock()
	m.errReported = false
	m.errMu.Unlock()
}

// reportError fires the error notification at most once per session.
func (m *Manager) reportError(code models.ErrorCode, playID int32) {
	m.errMu.Lock()
	already := m.errReported
	m.errReported = true
	m.errMu.Unlock()
	if already {
		return
	}
	m.log.Error("playback error", "code", code.String(), "play_id", playID)
	m.cfg.Notifier.Error(code, playID)
}

// classify maps an arbitrary failure to the client error taxonomy.
func classify(err error) models.ErrorCode {
	var e *engine.Error
	if errors.As(err, &e) {
		return e.Classify()
	}
	return models.ErrCodeGeneric
}
