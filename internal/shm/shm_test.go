package shm_test

import (
	"bytes"
	"testing"

	"github.com/avkit/playbackd/internal/shm"
)

// A throwaway key keeps the test from colliding with a running daemon.
const testKey = 0x7a11

func TestSegmentWriteRead(t *testing.T) {
	seg, err := shm.Create(testKey, 4096)
	if err != nil {
		t.Skipf("sysv shm unavailable: %v", err)
	}
	defer func() {
		seg.Close()
		seg.Remove()
	}()

	payload := []byte("album art bytes")
	n := seg.Write(payload)
	if n != len(payload) {
		t.Fatalf("wrote %d bytes, want %d", n, len(payload))
	}
	if !bytes.Equal(seg.Bytes()[:n], payload) {
		t.Errorf("segment content mismatch")
	}
	if seg.Cap() < 4096 {
		t.Errorf("cap %d, want at least 4096", seg.Cap())
	}
}

func TestSegmentWriteTruncates(t *testing.T) {
	seg, err := shm.Create(testKey+1, 4096)
	if err != nil {
		t.Skipf("sysv shm unavailable: %v", err)
	}
	defer func() {
		seg.Close()
		seg.Remove()
	}()

	big := make([]byte, 10000)
	n := seg.Write(big)
	if n != seg.Cap() {
		t.Errorf("wrote %d bytes, want cap %d", n, seg.Cap())
	}
}

func TestSegmentCloseIdempotent(t *testing.T) {
	seg, err := shm.Create(testKey+2, 4096)
	if err != nil {
		t.Skipf("sysv shm unavailable: %v", err)
	}
	defer seg.Remove()

	if err := seg.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := seg.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
