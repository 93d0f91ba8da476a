// Command playbackd is the single-instance media playback daemon. It claims
// a well-known message-bus name, drives the streaming engine for one session
// at a time, and stages album art through a fixed shared-memory segment.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/avkit/playbackd/internal/config"
	"github.com/avkit/playbackd/internal/dbusapi"
	"github.com/avkit/playbackd/internal/engine/mpvengine"
	"github.com/avkit/playbackd/internal/events"
	"github.com/avkit/playbackd/internal/media"
	"github.com/avkit/playbackd/internal/models"
	"github.com/avkit/playbackd/internal/shm"
)

func main() {
	var (
		debug       = flag.Bool("debug", false, "enable debug logging")
		noDaemon    = flag.Bool("no-daemon", false, "stay in the foreground")
		systemBus   = flag.Bool("system-bus", false, "claim the name on the system bus instead of the session bus")
		cfgDir      = flag.String("config-dir", "", "settings directory (default: ~/.config/playbackd)")
		audioSink   = flag.String("audio-sink", "", "audio output driver (engine default when empty)")
		audioDevice = flag.String("audio-device", "", "audio output device")
		videoDevice = flag.String("video-device", "", "video output connector")
		pidFile     = flag.String("pid-file", "", "write the daemon pid to this file")
	)
	flag.Parse()

	level := new(slog.LevelVar)
	if *debug {
		level.Set(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if !*noDaemon {
		if forked, err := daemonize(); err != nil {
			slog.Error("daemonize failed", "err", err)
			os.Exit(1)
		} else if forked {
			// Parent exits; the detached child carries on.
			return
		}
	}
	if *pidFile != "" {
		if err := writePIDFile(*pidFile); err != nil {
			slog.Error("write pid file", "path", *pidFile, "err", err)
			os.Exit(1)
		}
		defer os.Remove(*pidFile)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *cfgDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("cannot determine home directory", "err", err)
			os.Exit(1)
		}
		*cfgDir = filepath.Join(home, ".config", "playbackd")
	}
	store := config.NewStore(*cfgDir)
	settings, err := store.Load()
	if err != nil {
		slog.Warn("settings unreadable, using defaults", "path", store.Path(), "err", err)
	}
	if *audioSink == "" {
		*audioSink = settings.AudioSink
	}
	if *audioDevice == "" {
		*audioDevice = settings.AudioDevice
	}
	if *videoDevice == "" {
		*videoDevice = settings.VideoDevice
	}
	defer store.Flush()

	art, err := shm.Create(shm.Key, shm.Size)
	if err != nil {
		slog.Error("create album-art segment", "key", shm.Key, "err", err)
		os.Exit(1)
	}
	// Detach first, then mark the segment for destruction.
	defer art.Remove()
	defer art.Close()

	bus := events.NewBus()
	mgr := media.NewManager(media.Config{
		Factory:      &mpvengine.Factory{Log: slog.Default()},
		Notifier:     &media.BusNotifier{Bus: bus},
		Art:          art,
		Log:          slog.Default(),
		Level:        level,
		AudioSink:    *audioSink,
		AudioDevice:  *audioDevice,
		VideoDevice:  *videoDevice,
		InitialVideo: settings.Display,
		OnGeometryChange: func(v models.VideoInfo) {
			s := settings
			s.Display = v
			store.Save(s)
		},
	})
	mgr.Start()
	defer mgr.Shutdown()

	// Pick up externally edited settings while running; geometry applies
	// immediately, device selection at the next start.
	watcher := store.Watch(func(set config.Settings) {
		if set.Display == mgr.Video() {
			return
		}
		d := set.Display
		slog.Info("settings changed on disk, applying display geometry")
		mgr.SetDisplay(d.X, d.Y, d.Width, d.Height)
		mgr.SetMargin(d.MarginW, d.MarginH)
		mgr.SetDualDisplay(d.DualX, d.DualY, d.DualWidth, d.DualHeight)
	})
	defer watcher.Close()

	srv, err := dbusapi.NewServer(dbusapi.Options{
		Manager:   mgr,
		Bus:       bus,
		Log:       slog.Default(),
		SystemBus: *systemBus,
	})
	if err != nil {
		slog.Error("message bus setup failed", "err", err)
		os.Exit(1)
	}
	defer srv.Close()

	slog.Info("playbackd ready")
	<-ctx.Done()
	slog.Info("shutting down")
}
