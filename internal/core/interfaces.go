package core

import "github.com/mindcare/signaling/internal/domain"

// Frame is an encoded wire message (JSON).
type Frame []byte

// ConnID identifies one live transport session.
type ConnID string

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PresenceDTO is a read-only view for APIs (no transport fields).
type PresenceDTO struct {
	Identity domain.Identity `json:"identity"`
	Role     domain.Role     `json:"role"`
	Online   bool            `json:"online"`
}

type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"member_count"`
}
