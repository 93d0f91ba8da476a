package models

// EventKind discriminates the notification events published on the bus.
type EventKind int

const (
	EventPlaying EventKind = iota
	EventStopped
	EventPaused
	EventDuration
	EventPlayPosition
	EventTagInfo
	EventAlbumArtReady
	EventPlayEnded
	EventSeekCompleted
	EventError
	EventSamplerate
)

func (k EventKind) String() string {
	switch k {
	case EventPlaying:
		return "playing"
	case EventStopped:
		return "stopped"
	case EventPaused:
		return "paused"
	case EventDuration:
		return "duration"
	case EventPlayPosition:
		return "play_position"
	case EventTagInfo:
		return "tag_info"
	case EventAlbumArtReady:
		return "albumart_ready"
	case EventPlayEnded:
		return "play_ended"
	case EventSeekCompleted:
		return "seek_completed"
	case EventError:
		return "error"
	case EventSamplerate:
		return "samplerate"
	}
	return "unknown"
}

// Event is one asynchronous notification. Only the fields relevant to the
// Kind are populated; PlayID is always set.
type Event struct {
	Kind   EventKind
	PlayID int32

	// EventDuration, EventPlayPosition, EventSeekCompleted
	Hour uint8
	Min  uint8
	Sec  uint8

	// EventTagInfo
	Category TagCategory
	Text     string

	// EventAlbumArtReady
	ArtLength uint32

	// EventError
	Code ErrorCode

	// EventSamplerate
	Samplerate int32
}
