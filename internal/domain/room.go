package domain

// RoomID is caller-supplied, typically derived from a confirmed
// appointment id on the REST side.
type RoomID string
