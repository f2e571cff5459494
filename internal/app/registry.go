package app

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mindcare/signaling/internal/core"
)

type connState int

const (
	stateConnected connState = iota
	stateDisconnecting
)

type connEntry struct {
	sess  core.SignalConnection
	state connState
}

// Registry owns every live transport connection. Other components keep
// only the ConnID, never the connection itself.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.ConnID]*connEntry)}
}

// Register allocates a fresh connection id for a newly accepted transport.
func (r *Registry) Register(sess core.SignalConnection) core.ConnID {
	id := core.ConnID(uuid.NewString())
	r.mu.Lock()
	r.conns[id] = &connEntry{sess: sess}
	r.mu.Unlock()
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("registered connection")
	return id
}

func (r *Registry) Lookup(id core.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	return e.sess, true
}

// BeginDisconnect moves the connection into the disconnecting state.
// It reports false when the connection is unknown or a disconnect is
// already in flight, which makes transport-close handling idempotent.
func (r *Registry) BeginDisconnect(id core.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok || e.state != stateConnected {
		return false
	}
	e.state = stateDisconnecting
	return true
}

// Unregister is the final step of disconnect handling, after presence
// and room cleanup have read the connection's state.
func (r *Registry) Unregister(id core.ConnID) {
	r.mu.Lock()
	_, ok := r.conns[id]
	delete(r.conns, id)
	r.mu.Unlock()
	if !ok {
		log.Warn().Str("module", "app.registry").Str("conn", string(id)).Msg("unregister of unknown connection")
		return
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unregistered connection")
}

type ConnSnap struct {
	ID   core.ConnID
	Sess core.SignalConnection
}

// Snapshot returns every registered connection for broadcast fan-out.
func (r *Registry) Snapshot() []ConnSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ConnSnap, 0, len(r.conns))
	for id, e := range r.conns {
		out = append(out, ConnSnap{ID: id, Sess: e.sess})
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
