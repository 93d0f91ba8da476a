// Package models defines the passive data structures shared by the playback
// daemon: play requests, display geometry, track metadata and the typed
// notification events broadcast to clients.
package models

// ContentType selects which sinks a session is built with.
type ContentType uint8

const (
	ContentAudio ContentType = iota
	ContentVideo
)

func (c ContentType) String() string {
	if c == ContentVideo {
		return "video"
	}
	return "audio"
}

// PlayRequest is one queued play command as accepted from a caller.
// PlayID is caller-supplied and echoed on every notification; the daemon
// never generates session ids itself.
type PlayRequest struct {
	PlayID    int32
	Content   ContentType
	Path      string
	Hour      uint8
	Min       uint8
	Sec       uint8
	KeepPause bool
}

// StartSeconds returns the requested start offset as whole seconds.
func (r PlayRequest) StartSeconds() int64 {
	return int64(r.Hour)*3600 + int64(r.Min)*60 + int64(r.Sec)
}

// VideoInfo is the process-wide display geometry, applied to the active
// session's video sink whenever one exists. The dual fields describe the
// optional secondary output; DualEnabled tracks whether it has a nonzero
// area.
type VideoInfo struct {
	X       uint32
	Y       uint32
	Width   uint32
	Height  uint32
	MarginW uint32
	MarginH uint32

	DualEnabled bool
	DualX       uint32
	DualY       uint32
	DualWidth   uint32
	DualHeight  uint32
}

// DefaultVideoInfo returns the boot-time display geometry.
func DefaultVideoInfo() VideoInfo {
	return VideoInfo{Width: 800, Height: 480}
}

// TagCategory identifies one of the fixed metadata text fields.
type TagCategory int32

const (
	TagTitle TagCategory = iota
	TagArtist
	TagAlbum
	TagGenre
	totalTagCategories
)

func (c TagCategory) String() string {
	switch c {
	case TagTitle:
		return "title"
	case TagArtist:
		return "artist"
	case TagAlbum:
		return "album"
	case TagGenre:
		return "genre"
	}
	return "unknown"
}

// Valid reports whether c names one of the four text fields.
func (c TagCategory) Valid() bool { return c >= TagTitle && c < totalTagCategories }

// MaxTagTextLen is the fixed capacity of each metadata text field; longer
// values are truncated before notification.
const MaxTagTextLen = 512

// TrackTags holds the extracted metadata for the current session. One
// instance exists per Manager and is reset at the start of every session.
type TrackTags struct {
	Title  string
	Artist string
	Album  string
	Genre  string

	// ArtLength is the staged album-art byte count; ArtStaged latches once
	// per session so repeated image tags do not restage.
	ArtLength uint32
	ArtStaged bool
}

// Reset clears all fields for a new session.
func (t *TrackTags) Reset() { *t = TrackTags{} }

// Clock decomposes a whole-second count into hour/minute/second fields for
// the wire format used by time-carrying notifications.
func Clock(totalSec int64) (hour, min, sec uint8) {
	if totalSec < 0 {
		totalSec = 0
	}
	s := totalSec
	m := s / 60
	s %= 60
	h := m / 60
	m %= 60
	return uint8(h), uint8(m), uint8(s)
}
