package sync

import (
	"sync"
	"time"
)

// SyncError is one entry in the bounded error ring shown to the user.
type SyncError struct {
	OrderLocalID int64
	Message      string
	Transient    bool
	At           time.Time
}

// Snapshot is a copy of the engine statistics, safe for the UI to hold.
type Snapshot struct {
	LastSyncAt   time.Time
	TotalSynced  int
	PendingCount int
	IsSyncing    bool
	Errors       []SyncError
}

// Stats is owned by one engine instance; never package-level, so engines
// under test don't interfere.
type Stats struct {
	mu           sync.Mutex
	lastSyncAt   time.Time
	totalSynced  int
	pendingCount int
	errors       []SyncError
	ringSize     int
}

func NewStats(ringSize int) *Stats {
	if ringSize <= 0 {
		ringSize = 20
	}
	return &Stats{ringSize: ringSize}
}

func (s *Stats) AddSynced(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalSynced += n
}

func (s *Stats) RecordError(e SyncError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, e)
	if len(s.errors) > s.ringSize {
		s.errors = s.errors[len(s.errors)-s.ringSize:]
	}
}

// FinishCycle records the cycle end time and the recomputed pending count.
func (s *Stats) FinishCycle(at time.Time, pending int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSyncAt = at
	s.pendingCount = pending
}

// Reset clears the displayed pending count and the error ring. The monotonic
// synced counter and last sync time survive.
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingCount = 0
	s.errors = nil
}

func (s *Stats) snapshot(isSyncing bool) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := make([]SyncError, len(s.errors))
	copy(errs, s.errors)
	return Snapshot{
		LastSyncAt:   s.lastSyncAt,
		TotalSynced:  s.totalSynced,
		PendingCount: s.pendingCount,
		IsSyncing:    isSyncing,
		Errors:       errs,
	}
}
