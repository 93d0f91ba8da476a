// Package engine defines the streaming-engine abstraction the media core
// drives. A Pipeline wraps one prepared piece of content; messages flow back
// over a channel so the core can translate them into client notifications
// without knowing which engine produced them.
package engine

import (
	"time"

	"github.com/avkit/playbackd/internal/models"
)

// State is the target lifecycle state of a pipeline.
type State int

const (
	StateNull State = iota
	StateReady
	StatePaused
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateNull:
		return "null"
	case StateReady:
		return "ready"
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Domain classifies which part of the engine raised an error.
type Domain int

const (
	DomainCore Domain = iota
	DomainLibrary
	DomainResource
	DomainStream
)

// Resource error codes, in the order the engine reports them.
// Only these map onto the client-facing error enumeration; anything else
// collapses to a generic failure.
const (
	ResourceTooLazy = iota
	ResourceNotFound
	ResourceBusy
	ResourceOpenRead
	ResourceOpenWrite
	ResourceOpenReadWrite
	ResourceClosed
	ResourceRead
	ResourceWrite
	ResourceSeek
	ResourceSync
	ResourceSettings
	ResourceNoSpaceLeft
)

// Error is a failure reported by the engine.
type Error struct {
	Domain  Domain
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Classify maps an engine error onto the client-facing error code set.
// Resource-domain codes within the known range translate one to one;
// everything else is generic.
func (e *Error) Classify() models.ErrorCode {
	if e.Domain == DomainResource &&
		e.Code >= ResourceTooLazy && e.Code <= ResourceNoSpaceLeft {
		return models.ErrorCode(e.Code)
	}
	return models.ErrCodeGeneric
}

// MessageKind discriminates engine bus messages.
type MessageKind int

const (
	MsgEOS MessageKind = iota
	MsgTags
	MsgStateChanged
	MsgError
	MsgAsyncDone
	MsgDurationChanged
)

// Tags carries stream metadata parsed by the engine, plus any embedded
// picture found in the container.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	Image  []byte
}

// StateChange reports a completed state transition of the playback element.
type StateChange struct {
	Old State
	New State
}

// Message is one item from the engine's message channel.
// Exactly one payload field is meaningful, selected by Kind.
type Message struct {
	Kind  MessageKind
	Tags  *Tags
	State *StateChange
	Err   *Error
}

// Pipeline is one prepared piece of content under engine control.
// Implementations serialize mutations through the caller's locking, but
// read-only queries may arrive concurrently with each other and with an
// in-flight mutation.
type Pipeline interface {
	// Messages returns the engine message channel. It is closed when the
	// pipeline shuts down.
	Messages() <-chan Message

	// SetState requests a lifecycle transition and waits up to timeout for
	// it to take effect.
	SetState(s State, timeout time.Duration) error

	// Seek jumps to an absolute position. When accurate is set the engine
	// resolves the exact sample; otherwise it snaps to the nearest sync
	// point.
	Seek(pos time.Duration, accurate bool) error

	// SetRate changes the playback rate. 1.0 is normal speed; negative
	// rates play backward.
	SetRate(rate float64) error

	// QuerySeekable reports whether the loaded content supports seeking.
	QuerySeekable() (bool, error)

	// Position returns the current playback position.
	Position() (time.Duration, error)

	// Duration returns the total length of the content, if known.
	Duration() (time.Duration, error)

	// SampleRate returns the decoded audio sample rate in Hz.
	SampleRate() (int, error)

	// SetDisplay updates the video output geometry.
	SetDisplay(v models.VideoInfo) error

	// Close tears the pipeline down and releases engine resources. The
	// message channel is closed before Close returns.
	Close() error
}

// Config describes the content and outputs for a new pipeline.
type Config struct {
	// Scheme is the URI scheme of the content ("file", "http", ...).
	Scheme string
	// Location is the path or remainder after the scheme separator.
	Location string
	// URI is the full original locator.
	URI string

	Video       bool
	AudioSink   string
	AudioDevice string
	VideoDevice string

	Display models.VideoInfo
}

// Factory builds pipelines. The media core holds one factory for the life
// of the process; tests substitute their own.
type Factory interface {
	New(cfg Config) (Pipeline, error)
}
