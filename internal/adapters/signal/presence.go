package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/mindcare/signaling/internal/core"
	"github.com/mindcare/signaling/internal/domain"
)

func (ctl *Controller) handleAnnounce(id core.ConnID, conn *wsConn, data []byte) {
	var p struct {
		Type     string `json:"type"`
		Identity string `json:"identity"`
		Role     string `json:"role"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad announce payload")
		ctl.sendJSON(conn, errorEvent{Type: evError, Reason: "bad_payload"})
		return
	}
	if p.Identity == "" {
		ctl.sendJSON(conn, errorEvent{Type: evError, Reason: "empty identity"})
		return
	}
	role, err := domain.ParseRole(p.Role)
	if err != nil {
		ctl.sendJSON(conn, errorEvent{Type: evError, Reason: "unknown role"})
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(id)).Str("identity", p.Identity).Str("role", p.Role).Msg("announce")
	ctl.Orch.Announce(id, domain.Identity(p.Identity), role)

	// Any counselor or student UI may be showing status for this
	// participant, so the change goes to everyone else.
	ctl.broadcastJSON(id, presenceStatusEvent{
		Type:     evPresenceStatus,
		Identity: domain.Identity(p.Identity),
		Role:     role,
		Online:   true,
	})
}
