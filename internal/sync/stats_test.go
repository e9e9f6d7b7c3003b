package sync

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsErrorRingIsBounded(t *testing.T) {
	s := NewStats(3)
	for i := 0; i < 10; i++ {
		s.RecordError(SyncError{OrderLocalID: int64(i), Message: fmt.Sprintf("e%d", i)})
	}

	snap := s.snapshot(false)
	assert.Len(t, snap.Errors, 3)
	// Most recent entries are retained.
	assert.Equal(t, int64(7), snap.Errors[0].OrderLocalID)
	assert.Equal(t, int64(9), snap.Errors[2].OrderLocalID)
}

func TestStatsResetKeepsMonotonicCounter(t *testing.T) {
	s := NewStats(5)
	s.AddSynced(4)
	s.FinishCycle(time.Now(), 2)
	s.RecordError(SyncError{OrderLocalID: 1, Message: "boom"})

	s.Reset()

	snap := s.snapshot(false)
	assert.Equal(t, 4, snap.TotalSynced, "totalSynced is monotonic and survives reset")
	assert.Equal(t, 0, snap.PendingCount)
	assert.Empty(t, snap.Errors)
	assert.False(t, snap.LastSyncAt.IsZero())
}

func TestStatsSnapshotIsACopy(t *testing.T) {
	s := NewStats(5)
	s.RecordError(SyncError{OrderLocalID: 1, Message: "boom"})

	snap := s.snapshot(true)
	snap.Errors[0].Message = "mutated"

	assert.Equal(t, "boom", s.snapshot(false).Errors[0].Message)
	assert.True(t, snap.IsSyncing)
}
