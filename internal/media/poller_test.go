package media_test

import (
	"testing"
	"time"

	"github.com/avkit/playbackd/internal/engine"
	"github.com/avkit/playbackd/internal/media"
	"github.com/avkit/playbackd/internal/models"
)

func TestPositionTrackerNormal(t *testing.T) {
	var tr media.PositionTracker
	tr.Reset(10)

	if tr.Update(10, media.DirNormal) {
		t.Error("unchanged second reported at normal speed")
	}
	if !tr.Update(11, media.DirNormal) {
		t.Error("forward change not reported at normal speed")
	}
	if !tr.Update(9, media.DirNormal) {
		t.Error("backward change not reported at normal speed")
	}
}

func TestPositionTrackerForward(t *testing.T) {
	var tr media.PositionTracker
	tr.Reset(10)

	// Fast forward only reports forward movement.
	if tr.Update(9, media.DirForward) {
		t.Error("backward movement reported while fast forwarding")
	}
	if tr.Update(10, media.DirForward) {
		t.Error("no movement reported while fast forwarding")
	}
	if !tr.Update(11, media.DirForward) {
		t.Error("forward movement not reported while fast forwarding")
	}
	if !tr.Update(20, media.DirForward) {
		t.Error("large forward jump not reported while fast forwarding")
	}
}

func TestPositionTrackerRewind(t *testing.T) {
	var tr media.PositionTracker
	tr.Reset(10)

	if tr.Update(11, media.DirRewind) {
		t.Error("forward movement reported while rewinding")
	}
	if tr.Update(10, media.DirRewind) {
		t.Error("no movement reported while rewinding")
	}
	if !tr.Update(9, media.DirRewind) {
		t.Error("backward movement not reported while rewinding")
	}
	if !tr.Update(2, media.DirRewind) {
		t.Error("large backward jump not reported while rewinding")
	}
}

func TestPositionReporting(t *testing.T) {
	f := newFakeFactory()
	m, rec := newTestManager(t, f, nil)
	p := startPlaying(t, m, f, rec, 21)

	// Position reporting waits for the async-ready mark.
	p.setPosition(65 * time.Second)
	time.Sleep(40 * time.Millisecond)
	if rec.count(models.EventPlayPosition) != 0 {
		t.Fatal("position reported before async done")
	}

	p.push(engine.Message{Kind: engine.MsgAsyncDone})
	ev := rec.waitFor(t, models.EventPlayPosition)
	if ev.Hour != 0 || ev.Min != 1 || ev.Sec != 5 {
		t.Errorf("position = %d:%d:%d, want 0:1:5", ev.Hour, ev.Min, ev.Sec)
	}
	if ev.PlayID != 21 {
		t.Errorf("position play id = %d, want 21", ev.PlayID)
	}
}

func TestClockDecomposition(t *testing.T) {
	cases := []struct {
		total   int64
		h, m, s uint8
	}{
		{0, 0, 0, 0},
		{59, 0, 0, 59},
		{60, 0, 1, 0},
		{3599, 0, 59, 59},
		{3600, 1, 0, 0},
		{3725, 1, 2, 5},
		{-5, 0, 0, 0},
	}
	for _, tc := range cases {
		h, m, s := models.Clock(tc.total)
		if h != tc.h || m != tc.m || s != tc.s {
			t.Errorf("Clock(%d) = %d:%d:%d, want %d:%d:%d",
				tc.total, h, m, s, tc.h, tc.m, tc.s)
		}
	}
}
