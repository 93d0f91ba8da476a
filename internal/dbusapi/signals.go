package dbusapi

import (
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"

	"github.com/avkit/playbackd/internal/events"
	"github.com/avkit/playbackd/internal/models"
)

// forwarder drains the notification bus and rebroadcasts each event as a
// signal on the message bus.
type forwarder struct {
	conn *dbus.Conn
	bus  *events.Bus
	log  *slog.Logger

	id   string
	done chan struct{}
}

func newForwarder(conn *dbus.Conn, bus *events.Bus, log *slog.Logger) *forwarder {
	f := &forwarder{
		conn: conn,
		bus:  bus,
		log:  log,
		id:   uuid.New().String(),
		done: make(chan struct{}),
	}
	ch := bus.Subscribe(f.id)
	go f.run(ch)
	return f
}

func (f *forwarder) stop() {
	f.bus.Unsubscribe(f.id)
	<-f.done
}

func (f *forwarder) run(ch <-chan models.Event) {
	defer close(f.done)
	for ev := range ch {
		if err := f.emit(ev); err != nil {
			f.log.Warn("signal emit failed",
				"signal", ev.Kind.String(), "error", err)
		}
	}
}

func (f *forwarder) emit(ev models.Event) error {
	member := func(name string) string { return Interface + "." + name }
	switch ev.Kind {
	case models.EventPlaying:
		return f.conn.Emit(ObjectPath, member(sigPlaying), ev.PlayID)
	case models.EventStopped:
		return f.conn.Emit(ObjectPath, member(sigStopped), ev.PlayID)
	case models.EventPaused:
		return f.conn.Emit(ObjectPath, member(sigPaused), ev.PlayID)
	case models.EventDuration:
		return f.conn.Emit(ObjectPath, member(sigDuration),
			ev.Hour, ev.Min, ev.Sec, ev.PlayID)
	case models.EventPlayPosition:
		return f.conn.Emit(ObjectPath, member(sigPlayPosition),
			ev.Hour, ev.Min, ev.Sec, ev.PlayID)
	case models.EventTagInfo:
		return f.conn.Emit(ObjectPath, member(sigTagInfo),
			int32(ev.Category), ev.Text, ev.PlayID)
	case models.EventAlbumArtReady:
		return f.conn.Emit(ObjectPath, member(sigAlbumArtReady),
			ev.PlayID, ev.ArtLength)
	case models.EventPlayEnded:
		return f.conn.Emit(ObjectPath, member(sigPlayEnded), ev.PlayID)
	case models.EventSeekCompleted:
		return f.conn.Emit(ObjectPath, member(sigSeekCompleted),
			ev.Hour, ev.Min, ev.Sec, ev.PlayID)
	case models.EventError:
		return f.conn.Emit(ObjectPath, member(sigError),
			int32(ev.Code), ev.PlayID)
	case models.EventSamplerate:
		return f.conn.Emit(ObjectPath, member(sigSamplerate),
			ev.Samplerate, ev.PlayID)
	}
	return nil
}
