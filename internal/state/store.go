package state

import (
	"fmt"
	"sync"
	"time"
)

// Snapshot describes the relay link as last seen by the poller.
type Snapshot struct {
	Relay               string
	Connected           bool
	Next                uint64 // sequence to request next
	Received            int    // entities imported since startup
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the relay has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetRelay records the relay address being polled.
func (s *Store) SetRelay(relay string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Relay = relay
}

// Update records the outcome of one poll. When err is non-nil the previous
// cursor is kept but the error is recorded for visibility.
func (s *Store) Update(next uint64, received int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Connected = true
	if next > s.snapshot.Next {
		s.snapshot.Next = next
	}
	s.snapshot.Received += received
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Advance moves the cursor to next and counts received entities without
// touching the error state. It never moves the cursor backwards.
func (s *Store) Advance(next uint64, received int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if next > s.snapshot.Next {
		s.snapshot.Next = next
	}
	s.snapshot.Received += received
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
