package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/mindcare/signaling/internal/core"
	"github.com/mindcare/signaling/internal/domain"
)

func (ctl *Controller) handleJoin(id core.ConnID, conn *wsConn, data []byte) {
	var p struct {
		Type string `json:"type"`
		Room string `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, errorEvent{Type: evError, Reason: "bad_payload"})
		return
	}
	if p.Room == "" {
		ctl.sendJSON(conn, errorEvent{Type: evError, Reason: "empty roomId"})
		return
	}
	room := domain.RoomID(p.Room)

	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", p.Room).Msg("join")
	others := ctl.Orch.Join(id, room)

	ctl.sendJSON(conn, roomJoinedEvent{
		Type:         evRoomJoined,
		Room:         room,
		OtherMembers: others,
	})

	ctl.fanoutJSON(others, peerEvent{
		Type: evRoomPeerJoined,
		Room: room,
		Conn: id,
	})
}

func (ctl *Controller) handleLeave(id core.ConnID, conn *wsConn, data []byte) {
	var p struct {
		Type string `json:"type"`
		Room string `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave payload")
		ctl.sendJSON(conn, errorEvent{Type: evError, Reason: "bad_payload"})
		return
	}
	room := domain.RoomID(p.Room)

	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", p.Room).Msg("leave")
	remaining, ok := ctl.Orch.Leave(id, room)
	if !ok {
		return
	}

	ctl.fanoutJSON(remaining, peerEvent{
		Type: evRoomPeerLeft,
		Room: room,
		Conn: id,
	})
}
