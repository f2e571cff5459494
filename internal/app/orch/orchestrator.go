package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/mindcare/signaling/internal/app"
	"github.com/mindcare/signaling/internal/core"
	"github.com/mindcare/signaling/internal/domain"
)

// Orchestrator ties the registry, presence directory and room set
// together. It owns state transitions; wire encoding stays in the
// signal adapter.
type Orchestrator struct {
	Registry *app.Registry
	Presence *app.Presence
	Rooms    *app.RoomSet
}

func New(reg *app.Registry, pres *app.Presence, rooms *app.RoomSet) *Orchestrator {
	return &Orchestrator{Registry: reg, Presence: pres, Rooms: rooms}
}

func (o *Orchestrator) Announce(conn core.ConnID, identity domain.Identity, role domain.Role) {
	o.Presence.Announce(conn, identity, role)
}

func (o *Orchestrator) Join(conn core.ConnID, room domain.RoomID) []core.ConnID {
	return o.Rooms.Join(room, conn)
}

func (o *Orchestrator) Leave(conn core.ConnID, room domain.RoomID) ([]core.ConnID, bool) {
	return o.Rooms.Leave(room, conn)
}

// RoomDeparture reports one room a disconnecting member left and who
// is still there to notify.
type RoomDeparture struct {
	Room      domain.RoomID
	Remaining []core.ConnID
}

// DisconnectReport carries the state a disconnect released so the
// adapter can notify affected peers after cleanup is done.
type DisconnectReport struct {
	Withdrawn *app.PresenceEntry
	Departed  []RoomDeparture
}

// Disconnect runs the transport-loss sequence: presence withdraw, room
// departure for every membership, then registry removal. A second
// disconnect for the same connection is a no-op.
func (o *Orchestrator) Disconnect(conn core.ConnID) (DisconnectReport, bool) {
	var rep DisconnectReport
	if !o.Registry.BeginDisconnect(conn) {
		log.Debug().Str("module", "orch").Str("conn", string(conn)).Msg("disconnect ignored, connection already gone")
		return rep, false
	}

	if e, ok := o.Presence.Withdraw(conn); ok {
		rep.Withdrawn = &e
	}

	for _, room := range o.Rooms.RoomsContaining(conn) {
		remaining, ok := o.Rooms.Leave(room, conn)
		if !ok {
			continue
		}
		rep.Departed = append(rep.Departed, RoomDeparture{Room: room, Remaining: remaining})
	}

	o.Registry.Unregister(conn)
	log.Info().Str("module", "orch").Str("conn", string(conn)).
		Int("rooms_left", len(rep.Departed)).
		Bool("presence_withdrawn", rep.Withdrawn != nil).
		Msg("disconnect complete")
	return rep, true
}
