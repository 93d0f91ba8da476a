// Package mpvengine implements the engine abstraction on top of libmpv.
package mpvengine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/wildeyedskies/go-mpv/mpv"

	"github.com/avkit/playbackd/internal/engine"
	"github.com/avkit/playbackd/internal/models"
)

const msgBufferSize = 32

var errClosed = errors.New("pipeline closed")

// Factory builds libmpv-backed pipelines.
type Factory struct {
	Log *slog.Logger
}

// New prepares a pipeline for the content described by cfg. The underlying
// engine instance is created and initialized but nothing is loaded until the
// first transition out of the null state.
func (f *Factory) New(cfg engine.Config) (engine.Pipeline, error) {
	log := f.Log
	if log == nil {
		log = slog.Default()
	}

	m := mpv.Create()

	m.SetOptionString("audio-display", "no")
	m.SetOptionString("idle", "yes")
	if cfg.Video {
		m.SetOptionString("geometry", geometryString(cfg.Display))
		if cfg.VideoDevice != "" {
			m.SetOptionString("drm-connector", cfg.VideoDevice)
		}
	} else {
		m.SetOptionString("video", "no")
	}
	if cfg.AudioSink != "" {
		m.SetOptionString("ao", cfg.AudioSink)
	}
	if cfg.AudioDevice != "" {
		m.SetOptionString("audio-device", cfg.AudioDevice)
	}

	if err := m.Initialize(); err != nil {
		m.TerminateDestroy()
		return nil, fmt.Errorf("initialize engine: %w", err)
	}

	p := &pipeline{
		m:      m,
		cfg:    cfg,
		log:    log,
		msgs:   make(chan engine.Message, msgBufferSize),
		loaded: make(chan struct{}),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		state:  engine.StateNull,
	}
	go p.eventLoop()
	return p, nil
}

type pipeline struct {
	m   *mpv.Mpv
	cfg engine.Config
	log *slog.Logger

	msgs   chan engine.Message
	loaded chan struct{}
	quit   chan struct{}
	done   chan struct{}

	mu        sync.Mutex
	state     engine.State
	loadedSet bool
	closed    bool
}

// isClosed gates property queries; libmpv must not be touched once the
// instance is torn down.
func (p *pipeline) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *pipeline) Messages() <-chan engine.Message {
	return p.msgs
}

func (p *pipeline) SetState(s engine.State, timeout time.Duration) error {
	p.mu.Lock()
	old := p.state
	p.mu.Unlock()
	if s == old {
		return nil
	}

	switch s {
	case engine.StateReady:
		// Nothing is loaded yet; just record the transition.
	case engine.StatePaused:
		if old == engine.StatePlaying {
			if err := p.m.SetPropertyString("pause", "yes"); err != nil {
				return fmt.Errorf("pause: %w", err)
			}
		} else {
			if err := p.load(timeout); err != nil {
				return err
			}
		}
	case engine.StatePlaying:
		if old != engine.StatePaused {
			if err := p.load(timeout); err != nil {
				return err
			}
		}
		if err := p.m.SetPropertyString("pause", "no"); err != nil {
			return fmt.Errorf("resume: %w", err)
		}
	case engine.StateNull:
		p.m.Command([]string{"stop"})
	}

	p.mu.Lock()
	p.state = s
	p.mu.Unlock()

	if s != engine.StateNull {
		p.send(engine.Message{Kind: engine.MsgStateChanged,
			State: &engine.StateChange{Old: old, New: s}})
	}
	return nil
}

// load issues the loadfile command with playback held paused and waits for
// the engine to finish prerolling the content.
func (p *pipeline) load(timeout time.Duration) error {
	if err := p.m.SetPropertyString("pause", "yes"); err != nil {
		return fmt.Errorf("hold paused: %w", err)
	}
	if err := p.m.Command([]string{"loadfile", p.cfg.URI}); err != nil {
		return p.loadError(err)
	}
	select {
	case <-p.loaded:
	case <-p.quit:
		return fmt.Errorf("engine shut down during load")
	case <-time.After(timeout):
		return p.loadError(fmt.Errorf("timed out loading %q", p.cfg.URI))
	}
	return nil
}

// loadError classifies a failed load into an engine error. libmpv does not
// expose structured error domains over this binding, so the most common
// failure is resolved by probing the source ourselves.
func (p *pipeline) loadError(cause error) error {
	code := engine.ResourceOpenRead
	if p.cfg.Scheme == "file" || p.cfg.Scheme == "" {
		if _, err := os.Stat(p.cfg.Location); os.IsNotExist(err) {
			code = engine.ResourceNotFound
		}
	}
	return &engine.Error{
		Domain:  engine.DomainResource,
		Code:    code,
		Message: cause.Error(),
	}
}

func (p *pipeline) Seek(pos time.Duration, accurate bool) error {
	mode := "absolute+keyframes"
	if accurate {
		mode = "absolute+exact"
	}
	secs := strconv.FormatFloat(pos.Seconds(), 'f', 3, 64)
	if err := p.m.Command([]string{"seek", secs, mode}); err != nil {
		return fmt.Errorf("seek to %s: %w", pos, err)
	}
	return nil
}

func (p *pipeline) SetRate(rate float64) error {
	dir := "forward"
	if rate < 0 {
		dir = "backward"
		rate = -rate
	}
	if err := p.m.SetPropertyString("play-dir", dir); err != nil {
		return fmt.Errorf("set direction: %w", err)
	}
	if err := p.m.SetPropertyString("speed", strconv.FormatFloat(rate, 'f', 2, 64)); err != nil {
		return fmt.Errorf("set rate: %w", err)
	}
	return nil
}

func (p *pipeline) QuerySeekable() (bool, error) {
	if p.isClosed() {
		return false, errClosed
	}
	v, err := p.m.GetProperty("seekable", mpv.FORMAT_FLAG)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (p *pipeline) Position() (time.Duration, error) {
	if p.isClosed() {
		return 0, errClosed
	}
	v, err := p.m.GetProperty("time-pos", mpv.FORMAT_DOUBLE)
	if err != nil {
		return 0, err
	}
	return time.Duration(v.(float64) * float64(time.Second)), nil
}

func (p *pipeline) Duration() (time.Duration, error) {
	if p.isClosed() {
		return 0, errClosed
	}
	v, err := p.m.GetProperty("duration", mpv.FORMAT_DOUBLE)
	if err != nil {
		return 0, err
	}
	return time.Duration(v.(float64) * float64(time.Second)), nil
}

func (p *pipeline) SampleRate() (int, error) {
	if p.isClosed() {
		return 0, errClosed
	}
	v, err := p.m.GetProperty("audio-params/samplerate", mpv.FORMAT_INT64)
	if err != nil {
		return 0, err
	}
	return int(v.(int64)), nil
}

func (p *pipeline) SetDisplay(v models.VideoInfo) error {
	if !p.cfg.Video {
		return nil
	}
	if err := p.m.SetPropertyString("geometry", geometryString(v)); err != nil {
		return fmt.Errorf("set geometry: %w", err)
	}
	return nil
}

func (p *pipeline) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.quit)
	p.m.Command([]string{"quit"})
	<-p.done
	p.m.TerminateDestroy()
	close(p.msgs)
	return nil
}

// eventLoop drains the libmpv event queue and translates events into engine
// messages. WaitEvent must be called from a single goroutine.
func (p *pipeline) eventLoop() {
	defer close(p.done)
	for {
		select {
		case <-p.quit:
			return
		default:
		}
		e := p.m.WaitEvent(1)
		if e == nil {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		switch e.Event_Id {
		case mpv.EVENT_SHUTDOWN:
			return
		case mpv.EVENT_FILE_LOADED:
			p.onLoaded()
		case mpv.EVENT_PLAYBACK_RESTART:
			p.send(engine.Message{Kind: engine.MsgAsyncDone})
		case mpv.EVENT_END_FILE:
			p.log.Debug("engine reached end of file", "uri", p.cfg.URI)
			p.send(engine.Message{Kind: engine.MsgEOS})
		}
	}
}

// onLoaded fires once per load: it releases the waiter in load, reports the
// now-known duration, and publishes container metadata.
func (p *pipeline) onLoaded() {
	p.mu.Lock()
	first := !p.loadedSet
	p.loadedSet = true
	p.mu.Unlock()
	if !first {
		return
	}
	close(p.loaded)
	p.send(engine.Message{Kind: engine.MsgDurationChanged})
	if t := p.readTags(); t != nil {
		p.send(engine.Message{Kind: engine.MsgTags, Tags: t})
	}
}

func (p *pipeline) send(msg engine.Message) {
	select {
	case p.msgs <- msg:
	case <-p.quit:
	}
}

func geometryString(v models.VideoInfo) string {
	w := v.Width - 2*v.MarginW
	h := v.Height - 2*v.MarginH
	return fmt.Sprintf("%dx%d+%d+%d", w, h, v.X+v.MarginW, v.Y+v.MarginH)
}
