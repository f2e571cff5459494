package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/mindcare/signaling/internal/core"
)

// relayPayload is the common addressed shape of every signaling
// message. The SDP/ICE content is never inspected here.
type relayPayload struct {
	Type      string          `json:"type"`
	To        string          `json:"to"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

func (ctl *Controller) decodeRelay(conn *wsConn, data []byte) (relayPayload, bool) {
	var p relayPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad relay payload")
		ctl.sendJSON(conn, errorEvent{Type: evError, Reason: "bad_payload"})
		return p, false
	}
	if p.To == "" {
		ctl.sendJSON(conn, errorEvent{Type: evError, Reason: "missing to"})
		return p, false
	}
	return p, true
}

// relay forwards one event annotated with the sender's connection id.
// An unknown recipient means the peer already disconnected; the
// message is dropped and no error reaches the sender.
func (ctl *Controller) relay(to string, ev relayEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("relay marshal")
		return
	}
	ctl.Orch.Relay(core.ConnID(to), b)
}

func (ctl *Controller) handleOffer(id core.ConnID, conn *wsConn, data []byte) {
	p, ok := ctl.decodeRelay(conn, data)
	if !ok {
		return
	}
	ctl.relay(p.To, relayEvent{Type: evIncomingOffer, From: id, Offer: p.Offer})
}

func (ctl *Controller) handleAnswer(id core.ConnID, conn *wsConn, data []byte) {
	p, ok := ctl.decodeRelay(conn, data)
	if !ok {
		return
	}
	ctl.relay(p.To, relayEvent{Type: evAnswer, From: id, Answer: p.Answer})
}

func (ctl *Controller) handleRenegotiateOffer(id core.ConnID, conn *wsConn, data []byte) {
	p, ok := ctl.decodeRelay(conn, data)
	if !ok {
		return
	}
	ctl.relay(p.To, relayEvent{Type: evRenegOffer, From: id, Offer: p.Offer})
}

func (ctl *Controller) handleRenegotiateDone(id core.ConnID, conn *wsConn, data []byte) {
	p, ok := ctl.decodeRelay(conn, data)
	if !ok {
		return
	}
	ctl.relay(p.To, relayEvent{Type: evRenegDone, From: id, Answer: p.Answer})
}

func (ctl *Controller) handleCandidate(id core.ConnID, conn *wsConn, data []byte) {
	p, ok := ctl.decodeRelay(conn, data)
	if !ok {
		return
	}
	ctl.relay(p.To, relayEvent{Type: evIceCandidate, From: id, Candidate: p.Candidate})
}
