// Package config persists the daemon's settings: output device selection
// and the last-applied display geometry, so a restart comes back up with
// the same outputs configured.
package config

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/avkit/playbackd/internal/models"
)

const (
	settingsFileName = "playbackd.json"
	debounceDelay    = 500 * time.Millisecond
)

// Settings is everything the daemon remembers across restarts. Command-line
// flags override the stored values for one run without rewriting them.
type Settings struct {
	AudioSink   string `json:"audio_sink,omitempty"`
	AudioDevice string `json:"audio_device,omitempty"`
	VideoDevice string `json:"video_device,omitempty"`

	Display models.VideoInfo `json:"display"`
}

// DefaultSettings returns the boot defaults.
func DefaultSettings() Settings {
	return Settings{Display: models.DefaultVideoInfo()}
}

// Store is an atomic JSON settings store with debounced writes. Geometry
// updates arrive in bursts while a client drags an output around, so each
// Save only schedules a write.
type Store struct {
	mu      sync.Mutex
	path    string
	timer   *time.Timer
	pending *Settings
}

// NewStore creates a store under the given directory.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, settingsFileName)}
}

// Path returns the file path used by this store.
func (s *Store) Path() string { return s.path }

// Load reads the settings from disk. Missing or corrupt files yield the
// defaults rather than an error; a daemon that cannot read its settings
// still has to come up.
func (s *Store) Load() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), err
	}

	var set Settings
	if err := json.Unmarshal(data, &set); err != nil {
		slog.Warn("config: corrupt settings file, using defaults",
			"path", s.path, "err", err)
		return DefaultSettings(), nil
	}
	if set.Display.Width == 0 || set.Display.Height == 0 {
		set.Display = models.DefaultVideoInfo()
	}
	return set, nil
}

// Save schedules a debounced write. The actual write happens after 500ms
// with no further Save calls.
func (s *Store) Save(set Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy := set
	s.pending = &copy

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(debounceDelay, func() {
		s.mu.Lock()
		st := s.pending
		s.mu.Unlock()
		if st != nil {
			if err := s.writeAtomic(st); err != nil {
				slog.Error("config: failed to write settings",
					"path", s.path, "err", err)
			}
		}
	})
}

// Flush forces an immediate write of any pending settings.
func (s *Store) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	st := s.pending
	s.mu.Unlock()
	if st == nil {
		return nil
	}
	return s.writeAtomic(st)
}

func (s *Store) writeAtomic(set *Settings) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	// Write to temp file, then rename (atomic on Linux)
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}
