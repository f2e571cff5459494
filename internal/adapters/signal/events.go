package signal

import (
	"encoding/json"

	"github.com/mindcare/signaling/internal/core"
	"github.com/mindcare/signaling/internal/domain"
)

// Client -> server message types.
const (
	evPresenceAnnounce = "presence.announce"
	evRoomJoin         = "room.join"
	evRoomLeave        = "room.leave"
	evSignalOffer      = "signal.offer"
	evSignalAnswer     = "signal.answer"
	evSignalRenegOffer = "signal.renegotiate-offer"
	evSignalRenegDone  = "signal.renegotiate-done"
	evSignalCandidate  = "signal.ice-candidate"
	evPing             = "ping"
)

// Server -> client message types.
const (
	evConnected      = "connected"
	evPresenceStatus = "presence.status"
	evRoomJoined     = "room.joined"
	evRoomPeerJoined = "room.peer-joined"
	evRoomPeerLeft   = "room.peer-left"
	evIncomingOffer  = "signal.incoming-offer"
	evAnswer         = "signal.answer"
	evRenegOffer     = "signal.renegotiate-offer"
	evRenegDone      = "signal.renegotiate-done"
	evIceCandidate   = "signal.ice-candidate"
	evPong           = "pong"
	evError          = "error"
)

type connectedEvent struct {
	Type   string      `json:"type"`
	ConnID core.ConnID `json:"connectionId"`
}

type presenceStatusEvent struct {
	Type     string          `json:"type"`
	Identity domain.Identity `json:"identity"`
	Role     domain.Role     `json:"role"`
	Online   bool            `json:"online"`
}

type roomJoinedEvent struct {
	Type         string        `json:"type"`
	Room         domain.RoomID `json:"roomId"`
	OtherMembers []core.ConnID `json:"otherMembers"`
}

// peerEvent announces a member arriving in or leaving a room.
type peerEvent struct {
	Type string        `json:"type"`
	Room domain.RoomID `json:"roomId"`
	Conn core.ConnID   `json:"connectionId"`
}

// relayEvent mirrors a signaling message to its recipient. The SDP and
// ICE payloads pass through as opaque blobs.
type relayEvent struct {
	Type      string          `json:"type"`
	From      core.ConnID     `json:"from"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type errorEvent struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}
