package media_test

import (
	"sync"
	"testing"
	"time"

	"github.com/avkit/playbackd/internal/engine"
	"github.com/avkit/playbackd/internal/media"
	"github.com/avkit/playbackd/internal/models"
	"github.com/avkit/playbackd/internal/shm"
)

// fakeFactory hands out scripted pipelines so tests can drive the manager
// without a real engine.
type fakeFactory struct {
	mu        sync.Mutex
	pipes     []*fakePipeline
	createErr error

	seekable   bool
	duration   time.Duration
	sampleRate int
	failPlay   bool
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		seekable:   true,
		duration:   3*time.Minute + 25*time.Second,
		sampleRate: 44100,
	}
}

func (f *fakeFactory) New(cfg engine.Config) (engine.Pipeline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	p := &fakePipeline{
		cfg:        cfg,
		msgs:       make(chan engine.Message, 16),
		seekable:   f.seekable,
		duration:   f.duration,
		sampleRate: f.sampleRate,
		failPlay:   f.failPlay,
	}
	f.pipes = append(f.pipes, p)
	return p, nil
}

func (f *fakeFactory) last() *fakePipeline {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pipes) == 0 {
		return nil
	}
	return f.pipes[len(f.pipes)-1]
}

type fakePipeline struct {
	cfg engine.Config

	mu         sync.Mutex
	msgs       chan engine.Message
	state      engine.State
	closed     bool
	seekable   bool
	duration   time.Duration
	position   time.Duration
	sampleRate int
	failPlay   bool

	seeks []time.Duration
	rates []float64
}

func (p *fakePipeline) Messages() <-chan engine.Message { return p.msgs }

func (p *fakePipeline) SetState(s engine.State, _ time.Duration) error {
	p.mu.Lock()
	old := p.state
	if s == engine.StatePlaying && p.failPlay {
		p.mu.Unlock()
		return &engine.Error{Domain: engine.DomainStream, Message: "refused"}
	}
	p.state = s
	closed := p.closed
	p.mu.Unlock()
	if !closed && s != engine.StateNull {
		p.msgs <- engine.Message{Kind: engine.MsgStateChanged,
			State: &engine.StateChange{Old: old, New: s}}
	}
	return nil
}

func (p *fakePipeline) Seek(pos time.Duration, _ bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seeks = append(p.seeks, pos)
	p.position = pos
	return nil
}

func (p *fakePipeline) SetRate(rate float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rates = append(p.rates, rate)
	return nil
}

func (p *fakePipeline) QuerySeekable() (bool, error) { return p.seekable, nil }

func (p *fakePipeline) Position() (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position, nil
}

func (p *fakePipeline) setPosition(d time.Duration) {
	p.mu.Lock()
	p.position = d
	p.mu.Unlock()
}

func (p *fakePipeline) Duration() (time.Duration, error) { return p.duration, nil }

func (p *fakePipeline) SampleRate() (int, error) { return p.sampleRate, nil }

func (p *fakePipeline) SetDisplay(models.VideoInfo) error { return nil }

func (p *fakePipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.msgs)
	}
	return nil
}

// push injects an engine message as if the pipeline produced it.
func (p *fakePipeline) push(msg engine.Message) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if !closed {
		p.msgs <- msg
	}
}

// recorder collects notifications for assertion.
type recorder struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recorder) add(ev models.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) Playing(id int32) { r.add(models.Event{Kind: models.EventPlaying, PlayID: id}) }
func (r *recorder) Stopped(id int32) { r.add(models.Event{Kind: models.EventStopped, PlayID: id}) }
func (r *recorder) Paused(id int32)  { r.add(models.Event{Kind: models.EventPaused, PlayID: id}) }

func (r *recorder) Duration(h, m, s uint8, id int32) {
	r.add(models.Event{Kind: models.EventDuration, PlayID: id, Hour: h, Min: m, Sec: s})
}

func (r *recorder) PlayPosition(h, m, s uint8, id int32) {
	r.add(models.Event{Kind: models.EventPlayPosition, PlayID: id, Hour: h, Min: m, Sec: s})
}

func (r *recorder) TagInfo(cat models.TagCategory, text string, id int32) {
	r.add(models.Event{Kind: models.EventTagInfo, PlayID: id, Category: cat, Text: text})
}

func (r *recorder) AlbumArtReady(id int32, length uint32) {
	r.add(models.Event{Kind: models.EventAlbumArtReady, PlayID: id, ArtLength: length})
}

func (r *recorder) PlayEnded(id int32) {
	r.add(models.Event{Kind: models.EventPlayEnded, PlayID: id})
}

func (r *recorder) SeekCompleted(h, m, s uint8, id int32) {
	r.add(models.Event{Kind: models.EventSeekCompleted, PlayID: id, Hour: h, Min: m, Sec: s})
}

func (r *recorder) Error(code models.ErrorCode, id int32) {
	r.add(models.Event{Kind: models.EventError, PlayID: id, Code: code})
}

func (r *recorder) Samplerate(rate, id int32) {
	r.add(models.Event{Kind: models.EventSamplerate, PlayID: id, Samplerate: rate})
}

// waitFor blocks until an event of the given kind arrives or the timeout
// elapses.
func (r *recorder) waitFor(t *testing.T, kind models.EventKind) models.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		for _, ev := range r.events {
			if ev.Kind == kind {
				r.mu.Unlock()
				return ev
			}
		}
		r.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s event", kind)
	return models.Event{}
}

func (r *recorder) count(kind models.EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// newTestManager builds a started manager on the fake engine with short
// intervals. The cleanup shuts it down.
func newTestManager(t *testing.T, f *fakeFactory, art *shm.Segment) (*media.Manager, *recorder) {
	t.Helper()
	rec := &recorder{}
	m := media.NewManager(media.Config{
		Factory:         f,
		Notifier:        rec,
		Art:             art,
		CommandInterval: time.Millisecond,
		PollInterval:    10 * time.Millisecond,
	})
	m.Start()
	t.Cleanup(m.Shutdown)
	return m, rec
}

func startPlaying(t *testing.T, m *media.Manager, f *fakeFactory, rec *recorder, id int32) *fakePipeline {
	t.Helper()
	before := rec.count(models.EventPlaying)
	ok, cur := m.PlayStart(models.PlayRequest{PlayID: id, Path: "file:///tmp/a.mp3"})
	if !ok || cur != id {
		t.Fatalf("PlayStart = (%v, %d), want (true, %d)", ok, cur, id)
	}
	deadline := time.Now().Add(2 * time.Second)
	for rec.count(models.EventPlaying) <= before {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for playback to start")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return f.last()
}
