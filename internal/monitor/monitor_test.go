package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeEngine struct {
	syncRequests int
	statsResets  int
	syncing      bool
}

func (f *fakeEngine) RequestSync() { f.syncRequests++ }
func (f *fakeEngine) IsSyncing() bool {
	return f.syncing
}
func (f *fakeEngine) ResetStats() { f.statsResets++ }

func newMonitor() (*Monitor, *fakeEngine) {
	m := New(zap.NewNop())
	e := &fakeEngine{}
	m.Attach(e)
	return m, e
}

func TestOnlineEdgeRequestsSync(t *testing.T) {
	m, e := newMonitor()
	m.SetAuthenticated(true)

	m.SetOnline(true)
	assert.Equal(t, 1, e.syncRequests)

	// Repeating the same state is not an edge.
	m.SetOnline(true)
	assert.Equal(t, 1, e.syncRequests)
}

func TestOnlineEdgeWithoutSessionStaysQuiet(t *testing.T) {
	m, e := newMonitor()

	m.SetOnline(true)
	assert.Zero(t, e.syncRequests)
}

func TestGoingOfflineDoesNotRequestSync(t *testing.T) {
	m, e := newMonitor()
	m.SetAuthenticated(true)
	m.SetOnline(true)
	before := e.syncRequests

	m.SetOnline(false)
	assert.Equal(t, before, e.syncRequests)
	assert.False(t, m.Online())
}

func TestSignInWhileOnlineRequestsSync(t *testing.T) {
	m, e := newMonitor()
	m.SetOnline(true)
	assert.Zero(t, e.syncRequests)

	m.SetAuthenticated(true)
	assert.Equal(t, 1, e.syncRequests)
}

func TestSignInWhileOfflineDefersSync(t *testing.T) {
	m, e := newMonitor()

	m.SetAuthenticated(true)
	assert.Zero(t, e.syncRequests)

	m.SetOnline(true)
	assert.Equal(t, 1, e.syncRequests)
}

func TestSignOutResetsStats(t *testing.T) {
	m, e := newMonitor()
	m.SetAuthenticated(true)

	m.SetAuthenticated(false)
	assert.Equal(t, 1, e.statsResets)

	// Already signed out, no second reset.
	m.SetAuthenticated(false)
	assert.Equal(t, 1, e.statsResets)
}

func TestCanSync(t *testing.T) {
	m, e := newMonitor()
	assert.False(t, m.CanSync())

	m.SetOnline(true)
	assert.False(t, m.CanSync())

	m.SetAuthenticated(true)
	assert.True(t, m.CanSync())
	assert.True(t, m.Allowed())

	e.syncing = true
	assert.False(t, m.CanSync())
	assert.True(t, m.Allowed(), "the engine owns the in-flight check")

	e.syncing = false
	m.SetOnline(false)
	assert.False(t, m.CanSync())
	assert.False(t, m.Allowed())
}
