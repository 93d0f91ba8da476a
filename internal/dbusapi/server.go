package dbusapi

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/avkit/playbackd/internal/events"
	"github.com/avkit/playbackd/internal/media"
	"github.com/avkit/playbackd/internal/models"
)

// Server owns the bus connection, the exported control object, and the
// signal forwarder.
type Server struct {
	conn *dbus.Conn
	mgr  *media.Manager
	log  *slog.Logger

	fwd *forwarder
}

// Options selects the bus and carries the collaborators.
type Options struct {
	Manager *media.Manager
	Bus     *events.Bus
	Log     *slog.Logger
	// SystemBus connects to the system bus instead of the session bus.
	SystemBus bool
}

// NewServer connects, claims the well-known name, and exports the control
// object. Call Close to release the name and connection.
func NewServer(opts Options) (*Server, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	var conn *dbus.Conn
	var err error
	if opts.SystemBus {
		conn, err = dbus.ConnectSystemBus()
	} else {
		conn, err = dbus.ConnectSessionBus()
	}
	if err != nil {
		return nil, fmt.Errorf("connect bus: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("request name %s: %w", BusName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("name %s already taken", BusName)
	}

	s := &Server{conn: conn, mgr: opts.Manager, log: log}

	obj := &control{mgr: opts.Manager, log: log}
	if err := conn.Export(obj, ObjectPath, Interface); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export control object: %w", err)
	}
	if err := conn.Export(introspect.NewIntrospectable(introspectNode), ObjectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export introspection: %w", err)
	}

	if opts.Bus != nil {
		s.fwd = newForwarder(conn, opts.Bus, log)
	}

	log.Info("message bus ready", "name", BusName, "path", ObjectPath)
	return s, nil
}

// Close tears down the connection; the bus releases the name.
func (s *Server) Close() error {
	if s.fwd != nil {
		s.fwd.stop()
	}
	return s.conn.Close()
}

// control is the exported method table. Every method returns the core's
// synchronous result; the bus layer adds nothing but marshalling.
type control struct {
	mgr *media.Manager
	log *slog.Logger
}

func (c *control) PlayStart(path string, hour, min, sec uint8, isVideo bool, playID int32, keepPause bool) (int32, int32, *dbus.Error) {
	content := models.ContentAudio
	if isVideo {
		content = models.ContentVideo
	}
	accepted, cur := c.mgr.PlayStart(models.PlayRequest{
		PlayID:    playID,
		Content:   content,
		Path:      path,
		Hour:      hour,
		Min:       min,
		Sec:       sec,
		KeepPause: keepPause,
	})
	if !accepted {
		return int32(models.ResultBusy), 0, nil
	}
	return int32(models.ResultOK), cur, nil
}

func (c *control) PlayStop(playID int32) (int32, *dbus.Error) {
	return int32(c.mgr.PlayStop(playID)), nil
}

func (c *control) PlayPause(playID int32) (int32, *dbus.Error) {
	return int32(c.mgr.PlayPause(playID)), nil
}

func (c *control) PlayResume(playID int32) (int32, *dbus.Error) {
	return int32(c.mgr.PlayResume(playID)), nil
}

func (c *control) PlaySeek(hour, min, sec uint8, playID int32) (int32, *dbus.Error) {
	return int32(c.mgr.PlaySeek(hour, min, sec, playID)), nil
}

func (c *control) PlayNormal(playID int32) (int32, *dbus.Error) {
	return int32(c.mgr.PlayNormal(playID)), nil
}

func (c *control) PlayFastForward(playID int32) (int32, *dbus.Error) {
	return int32(c.mgr.PlayFastForward(playID)), nil
}

func (c *control) PlayFastBackward(playID int32) (int32, *dbus.Error) {
	return int32(c.mgr.PlayFastBackward(playID)), nil
}

func (c *control) PlayTurboFastForward(playID int32) (int32, *dbus.Error) {
	return int32(c.mgr.PlayTurboFastForward(playID)), nil
}

func (c *control) PlayTurboFastBackward(playID int32) (int32, *dbus.Error) {
	return int32(c.mgr.PlayTurboFastBackward(playID)), nil
}

func (c *control) SetDisplay(x, y, w, h uint32) *dbus.Error {
	c.mgr.SetDisplay(x, y, w, h)
	return nil
}

func (c *control) SetDualDisplay(x, y, w, h uint32) *dbus.Error {
	c.mgr.SetDualDisplay(x, y, w, h)
	return nil
}

func (c *control) SetMargin(w, h uint32) *dbus.Error {
	c.mgr.SetMargin(w, h)
	return nil
}

func (c *control) SetDebugLevel(level int32) *dbus.Error {
	c.mgr.SetDebugLevel(level)
	return nil
}

func (c *control) GetStatus() (bool, *dbus.Error) {
	return c.mgr.Status(), nil
}

func (c *control) GetPlayID() (int32, *dbus.Error) {
	return c.mgr.CurrentPlayID(), nil
}

func (c *control) GetAlbumArtKey() (int32, int32, *dbus.Error) {
	key, size := c.mgr.AlbumArtKey()
	return key, size, nil
}
