// Package shm manages the System V shared-memory segment used to hand album
// art to clients. The key and size are a fixed contract with readers, which
// attach the same segment by key.
package shm

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const (
	// Key identifies the album-art segment to clients.
	Key = 3443
	// Size is the fixed capacity of the segment.
	Size = 8 * 1024 * 1024
)

// Segment is an attached System V shared-memory segment.
type Segment struct {
	id   int
	data []byte
}

// Create obtains the segment for key, creating it if needed, and attaches it
// read-write.
func Create(key, size int) (*Segment, error) {
	id, err := unix.SysvShmGet(key, size, unix.IPC_CREAT|0o666)
	if err != nil {
		return nil, fmt.Errorf("shmget key %d: %w", key, err)
	}
	data, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("shmat id %d: %w", id, err)
	}
	return &Segment{id: id, data: data}, nil
}

// Write copies b into the segment starting at offset 0 and returns the number
// of bytes copied. Content longer than the segment is truncated.
func (s *Segment) Write(b []byte) int {
	return copy(s.data, b)
}

// Bytes returns the live segment memory. The slice aliases the mapping and
// is invalid after Close.
func (s *Segment) Bytes() []byte {
	return s.data
}

// Cap returns the attached segment size.
func (s *Segment) Cap() int {
	return len(s.data)
}

// Close detaches the mapping. The segment itself stays allocated so clients
// holding an attachment keep their view; call Remove to destroy it.
func (s *Segment) Close() error {
	if s.data == nil {
		return nil
	}
	err := unix.SysvShmDetach(s.data)
	s.data = nil
	if err != nil {
		return fmt.Errorf("shmdt: %w", err)
	}
	return nil
}

// Remove marks the segment for destruction once every attachment is gone.
func (s *Segment) Remove() error {
	if _, err := unix.SysvShmCtl(s.id, unix.IPC_RMID, nil); err != nil {
		return fmt.Errorf("shmctl rmid: %w", err)
	}
	return nil
}
