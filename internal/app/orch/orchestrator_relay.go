package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/mindcare/signaling/internal/core"
)

// Relay delivers one frame to a specific connection. A recipient that
// already disconnected is dropped silently; real-time signaling treats
// a vanished peer as a transient, self-healing condition.
func (o *Orchestrator) Relay(to core.ConnID, frame core.Frame) bool {
	sess, ok := o.Registry.Lookup(to)
	if !ok {
		log.Debug().Str("module", "orch").Str("to", string(to)).Msg("relay dropped, recipient gone")
		return false
	}
	if err := sess.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("to", string(to)).Msg("relay send failed")
		return false
	}
	return true
}

// Fanout best-effort delivers a frame to each listed connection.
func (o *Orchestrator) Fanout(targets []core.ConnID, frame core.Frame) {
	for _, id := range targets {
		o.Relay(id, frame)
	}
}

// Broadcast delivers a frame to every registered connection except
// the sender. One slow or closed recipient never blocks the rest.
func (o *Orchestrator) Broadcast(from core.ConnID, frame core.Frame) int {
	sent := 0
	for _, snap := range o.Registry.Snapshot() {
		if snap.ID == from {
			continue
		}
		if err := snap.Sess.TrySend(frame); err != nil {
			log.Warn().Err(err).Str("module", "orch").Str("to", string(snap.ID)).Msg("broadcast send failed")
			continue
		}
		sent++
	}
	return sent
}
