// Package domain contains entity without logic, just meta-data
package domain

import "errors"

var ErrUnknownRole = errors.New("unknown role")

// Identity is a stable participant id supplied by the auth layer,
// distinct from the ephemeral connection id.
type Identity string

type Role string

const (
	RoleCounselor Role = "counselor"
	RoleStudent   Role = "student"
)

func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleCounselor, RoleStudent:
		return Role(raw), nil
	default:
		return "", ErrUnknownRole
	}
}
