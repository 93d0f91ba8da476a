package media

import (
	"bytes"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/avkit/playbackd/internal/engine"
	"github.com/avkit/playbackd/internal/models"
)

// mergeTags folds engine metadata into the per-session tag record under the
// metadata lock, notifying once per field that actually changed. Album art
// is staged into shared memory at most once per session.
func (m *Manager) mergeTags(s *session, t *engine.Tags) {
	m.metaMu.Lock()
	defer m.metaMu.Unlock()

	update := func(dst *string, val string, cat models.TagCategory) {
		if val == "" {
			return
		}
		if len(val) > models.MaxTagTextLen {
			val = val[:models.MaxTagTextLen]
		}
		if *dst == val {
			return
		}
		*dst = val
		m.log.Debug("tag updated", "play_id", s.id,
			"category", cat.String(), "value", val)
		m.cfg.Notifier.TagInfo(cat, val, s.id)
	}

	update(&m.tags.Title, t.Title, models.TagTitle)
	update(&m.tags.Artist, t.Artist, models.TagArtist)
	update(&m.tags.Album, t.Album, models.TagAlbum)
	update(&m.tags.Genre, t.Genre, models.TagGenre)

	if len(t.Image) > 0 && !m.tags.ArtStaged {
		m.stageArt(s, t.Image)
	}
}

// stageArt copies image bytes into the shared segment and latches the
// staged flag so later image tags in the same session are ignored. Callers
// hold the metadata lock.
func (m *Manager) stageArt(s *session, data []byte) {
	if m.cfg.Art == nil {
		m.log.Debug("album art dropped, no shared segment", "play_id", s.id)
		return
	}
	n := m.cfg.Art.Write(data)
	if n < len(data) {
		m.log.Warn("album art truncated",
			"play_id", s.id, "size", len(data), "staged", n)
	}
	m.tags.ArtLength = uint32(n)
	m.tags.ArtStaged = true

	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		m.log.Info("album art staged", "play_id", s.id, "bytes", n,
			"format", format, "width", cfg.Width, "height", cfg.Height)
	} else {
		m.log.Info("album art staged", "play_id", s.id, "bytes", n)
	}
	m.cfg.Notifier.AlbumArtReady(s.id, uint32(n))
}
