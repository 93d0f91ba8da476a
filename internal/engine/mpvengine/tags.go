package mpvengine

import (
	"os"

	"github.com/dhowden/tag"
	"github.com/wildeyedskies/go-mpv/mpv"

	"github.com/avkit/playbackd/internal/engine"
)

// readTags collects stream metadata. Local files are parsed directly so the
// embedded picture can be recovered; libmpv itself exposes text fields only.
func (p *pipeline) readTags() *engine.Tags {
	t := &engine.Tags{}

	if p.cfg.Scheme == "file" || p.cfg.Scheme == "" {
		if f, err := os.Open(p.cfg.Location); err == nil {
			if md, err := tag.ReadFrom(f); err == nil {
				t.Title = md.Title()
				t.Artist = md.Artist()
				t.Album = md.Album()
				t.Genre = md.Genre()
				if pic := md.Picture(); pic != nil {
					t.Image = pic.Data
				}
			}
			f.Close()
		}
	}

	if t.Title == "" {
		if v, err := p.m.GetProperty("media-title", mpv.FORMAT_STRING); err == nil {
			if s, ok := v.(string); ok {
				t.Title = s
			}
		}
	}

	if t.Title == "" && t.Artist == "" && t.Album == "" &&
		t.Genre == "" && len(t.Image) == 0 {
		return nil
	}
	return t
}
