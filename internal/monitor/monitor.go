// Package monitor tracks network reachability and authentication state and
// decides when the sync engine is allowed to run.
package monitor

import (
	"sync"

	"go.uber.org/zap"
)

// Engine is the slice of the sync engine the monitor drives. Wired after
// construction to break the mutual dependency.
type Engine interface {
	RequestSync()
	IsSyncing() bool
	ResetStats()
}

type Monitor struct {
	mu            sync.Mutex
	online        bool
	authenticated bool

	engine Engine
	logger *zap.Logger
}

func New(log *zap.Logger) *Monitor {
	return &Monitor{logger: log}
}

// Attach connects the sync engine. Must be called before platform events
// start flowing.
func (m *Monitor) Attach(e Engine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine = e
}

// SetOnline records a connectivity transition. Only the offline-to-online
// edge requests a sync; going offline merely gates future attempts.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	wasOnline := m.online
	m.online = online
	engine := m.engine
	authenticated := m.authenticated
	m.mu.Unlock()

	if online == wasOnline {
		return
	}
	m.logger.Info("connectivity changed", zap.Bool("online", online))

	if online && authenticated && engine != nil {
		engine.RequestSync()
	}
}

// SetAuthenticated records a session transition. Signing in requests a sync;
// signing out resets the engine's displayed stats and error ring but leaves
// order rows alone.
func (m *Monitor) SetAuthenticated(ok bool) {
	m.mu.Lock()
	was := m.authenticated
	m.authenticated = ok
	engine := m.engine
	online := m.online
	m.mu.Unlock()

	if ok == was {
		return
	}
	m.logger.Info("authentication changed", zap.Bool("authenticated", ok))

	if engine == nil {
		return
	}
	if ok {
		if online {
			engine.RequestSync()
		}
	} else {
		engine.ResetStats()
	}
}

// Online reports the last known connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Authenticated reports whether a session is active.
func (m *Monitor) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// CanSync is the combined gate: online, authenticated, and no cycle already
// running.
func (m *Monitor) CanSync() bool {
	m.mu.Lock()
	online, authenticated, engine := m.online, m.authenticated, m.engine
	m.mu.Unlock()

	if !online || !authenticated {
		return false
	}
	return engine == nil || !engine.IsSyncing()
}

// Allowed is the gate the engine itself checks at cycle start; it excludes
// the isSyncing term, which the engine owns.
func (m *Monitor) Allowed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online && m.authenticated
}
