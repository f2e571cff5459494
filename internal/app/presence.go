package app

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mindcare/signaling/internal/core"
	"github.com/mindcare/signaling/internal/domain"
)

// PresenceEntry binds one identity to the connection currently holding it.
type PresenceEntry struct {
	Identity domain.Identity
	Role     domain.Role
	Conn     core.ConnID
}

// Presence maps participant identities to their current connection.
// At most one entry per identity; a later announce replaces the
// earlier one without touching the superseded connection.
type Presence struct {
	mu      sync.RWMutex
	entries map[domain.Identity]PresenceEntry
}

func NewPresence() *Presence {
	return &Presence{entries: make(map[domain.Identity]PresenceEntry)}
}

// Announce binds identity to conn, last writer wins. The previous
// entry is returned so callers can log the displacement.
func (p *Presence) Announce(conn core.ConnID, identity domain.Identity, role domain.Role) (PresenceEntry, bool) {
	p.mu.Lock()
	prev, had := p.entries[identity]
	p.entries[identity] = PresenceEntry{Identity: identity, Role: role, Conn: conn}
	p.mu.Unlock()

	ev := log.Info().Str("module", "app.presence").
		Str("identity", string(identity)).
		Str("role", string(role)).
		Str("conn", string(conn))
	if had && prev.Conn != conn {
		ev = ev.Str("superseded_conn", string(prev.Conn))
	}
	ev.Msg("presence announced")
	return prev, had && prev.Conn != conn
}

// Withdraw removes the entry held by conn, if any. A connection that
// was superseded by a later announce no longer holds its identity, so
// its disconnect must not mark the identity offline.
func (p *Presence) Withdraw(conn core.ConnID) (PresenceEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for identity, e := range p.entries {
		if e.Conn == conn {
			delete(p.entries, identity)
			log.Info().Str("module", "app.presence").
				Str("identity", string(identity)).
				Str("conn", string(conn)).
				Msg("presence withdrawn")
			return e, true
		}
	}
	return PresenceEntry{}, false
}

func (p *Presence) IsOnline(identity domain.Identity) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.entries[identity]
	return ok
}

// Holder returns the connection currently bound to identity.
func (p *Presence) Holder(identity domain.Identity) (core.ConnID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.entries[identity]
	return e.Conn, ok
}

// Snapshot lists all online participants, ordered by identity.
func (p *Presence) Snapshot() []core.PresenceDTO {
	p.mu.RLock()
	out := make([]core.PresenceDTO, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, core.PresenceDTO{Identity: e.Identity, Role: e.Role, Online: true})
	}
	p.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out
}
