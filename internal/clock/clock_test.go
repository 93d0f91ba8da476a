package clock_test

import (
	"testing"
	"time"

	"github.com/avkit/playbackd/internal/clock"
)

func TestStampUnmarked(t *testing.T) {
	var s clock.Stamp
	if got := s.Since(); got != 0 {
		t.Errorf("Since() on unmarked stamp = %v, want 0", got)
	}
	if !s.Time().IsZero() {
		t.Error("Time() on unmarked stamp is not zero")
	}
}

func TestStampSince(t *testing.T) {
	var s clock.Stamp
	s.MarkAt(time.Now().Add(-time.Second))
	if got := s.Since(); got < time.Second {
		t.Errorf("Since() = %v, want at least 1s", got)
	}
}

func TestStampMarkOverwrites(t *testing.T) {
	var s clock.Stamp
	s.MarkAt(time.Unix(100, 0))
	s.MarkAt(time.Unix(200, 0))
	if got := s.Time(); !got.Equal(time.Unix(200, 0)) {
		t.Errorf("Time() = %v, want %v", got, time.Unix(200, 0))
	}
}
