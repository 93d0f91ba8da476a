package media

import (
	"github.com/avkit/playbackd/internal/events"
	"github.com/avkit/playbackd/internal/models"
)

// Notifier receives the asynchronous playback notifications the core emits.
// The daemon wires a bus-backed implementation; tests substitute a recorder.
type Notifier interface {
	Playing(playID int32)
	Stopped(playID int32)
	Paused(playID int32)
	Duration(hour, min, sec uint8, playID int32)
	PlayPosition(hour, min, sec uint8, playID int32)
	TagInfo(category models.TagCategory, text string, playID int32)
	AlbumArtReady(playID int32, length uint32)
	PlayEnded(playID int32)
	SeekCompleted(hour, min, sec uint8, playID int32)
	Error(code models.ErrorCode, playID int32)
	Samplerate(rate int32, playID int32)
}

// BusNotifier publishes every notification as an event on a Bus.
type BusNotifier struct {
	Bus *events.Bus
}

func (n *BusNotifier) Playing(playID int32) {
	n.Bus.Publish(models.Event{Kind: models.EventPlaying, PlayID: playID})
}

func (n *BusNotifier) Stopped(playID int32) {
	n.Bus.Publish(models.Event{Kind: models.EventStopped, PlayID: playID})
}

func (n *BusNotifier) Paused(playID int32) {
	n.Bus.Publish(models.Event{Kind: models.EventPaused, PlayID: playID})
}

func (n *BusNotifier) Duration(hour, min, sec uint8, playID int32) {
	n.Bus.Publish(models.Event{Kind: models.EventDuration, PlayID: playID,
		Hour: hour, Min: min, Sec: sec})
}

func (n *BusNotifier) PlayPosition(hour, min, sec uint8, playID int32) {
	n.Bus.Publish(models.Event{Kind: models.EventPlayPosition, PlayID: playID,
		Hour: hour, Min: min, Sec: sec})
}

func (n *BusNotifier) TagInfo(category models.TagCategory, text string, playID int32) {
	n.Bus.Publish(models.Event{Kind: models.EventTagInfo, PlayID: playID,
		Category: category, Text: text})
}

func (n *BusNotifier) AlbumArtReady(playID int32, length uint32) {
	n.Bus.Publish(models.Event{Kind: models.EventAlbumArtReady, PlayID: playID,
		ArtLength: length})
}

func (n *BusNotifier) PlayEnded(playID int32) {
	n.Bus.Publish(models.Event{Kind: models.EventPlayEnded, PlayID: playID})
}

func (n *BusNotifier) SeekCompleted(hour, min, sec uint8, playID int32) {
	n.Bus.Publish(models.Event{Kind: models.EventSeekCompleted, PlayID: playID,
		Hour: hour, Min: min, Sec: sec})
}

func (n *BusNotifier) Error(code models.ErrorCode, playID int32) {
	n.Bus.Publish(models.Event{Kind: models.EventError, PlayID: playID, Code: code})
}

func (n *BusNotifier) Samplerate(rate int32, playID int32) {
	n.Bus.Publish(models.Event{Kind: models.EventSamplerate, PlayID: playID,
		Samplerate: rate})
}
