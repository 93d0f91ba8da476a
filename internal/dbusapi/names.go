// Package dbusapi exposes the playback core on the message bus: one
// exported object carrying the control methods, and a bus subscriber that
// rebroadcasts core notifications as signals.
package dbusapi

const (
	// BusName is the well-known name the daemon claims.
	BusName = "org.avkit.Playback1"
	// ObjectPath is where the control object lives.
	ObjectPath = "/org/avkit/Playback1"
	// Interface carries both methods and signals.
	Interface = "org.avkit.Playback1"
)

// Signal member names, one per notification.
const (
	sigPlaying       = "Playing"
	sigStopped       = "Stopped"
	sigPaused        = "Paused"
	sigDuration      = "Duration"
	sigPlayPosition  = "PlayPosition"
	sigTagInfo       = "TagInfo"
	sigAlbumArtReady = "AlbumArtReady"
	sigPlayEnded     = "PlayEnded"
	sigSeekCompleted = "SeekCompleted"
	sigError         = "Error"
	sigSamplerate    = "Samplerate"
)
