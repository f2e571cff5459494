package app

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mindcare/signaling/internal/core"
	"github.com/mindcare/signaling/internal/domain"
)

// RoomSet tracks which connections collaborate on which call. Rooms
// are created lazily on first join and deleted when the last member
// leaves; there is never an empty-but-alive room visible to a join.
type RoomSet struct {
	mu      sync.RWMutex
	members map[domain.RoomID]map[core.ConnID]struct{}
	byConn  map[core.ConnID]map[domain.RoomID]struct{}
}

func NewRoomSet() *RoomSet {
	return &RoomSet{
		members: make(map[domain.RoomID]map[core.ConnID]struct{}),
		byConn:  make(map[core.ConnID]map[domain.RoomID]struct{}),
	}
}

// Join adds conn to the room, creating it if absent, and returns the
// other members present at join time so the joiner can start
// signaling with each. No occupancy cap is enforced.
func (s *RoomSet) Join(room domain.RoomID, conn core.ConnID) []core.ConnID {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[room]
	if !ok {
		m = make(map[core.ConnID]struct{})
		s.members[room] = m
		log.Info().Str("module", "app.rooms").Str("room", string(room)).Msg("room created")
	}
	others := make([]core.ConnID, 0, len(m))
	for id := range m {
		if id != conn {
			others = append(others, id)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i] < others[j] })

	m[conn] = struct{}{}
	rs, ok := s.byConn[conn]
	if !ok {
		rs = make(map[domain.RoomID]struct{})
		s.byConn[conn] = rs
	}
	rs[room] = struct{}{}

	log.Info().Str("module", "app.rooms").Str("room", string(room)).Str("conn", string(conn)).Int("members", len(m)).Msg("member joined")
	return others
}

// Leave removes conn from the room and returns the remaining members
// to notify. The room is deleted once it has no members.
func (s *RoomSet) Leave(room domain.RoomID, conn core.ConnID) ([]core.ConnID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[room]
	if !ok {
		return nil, false
	}
	if _, ok := m[conn]; !ok {
		return nil, false
	}
	delete(m, conn)
	if rs, ok := s.byConn[conn]; ok {
		delete(rs, room)
		if len(rs) == 0 {
			delete(s.byConn, conn)
		}
	}

	if len(m) == 0 {
		delete(s.members, room)
		log.Info().Str("module", "app.rooms").Str("room", string(room)).Msg("room deleted")
		return nil, true
	}

	remaining := make([]core.ConnID, 0, len(m))
	for id := range m {
		remaining = append(remaining, id)
	}
	sort.Slice(remaining, func(i, j int) bool { return remaining[i] < remaining[j] })
	log.Info().Str("module", "app.rooms").Str("room", string(room)).Str("conn", string(conn)).Int("members", len(remaining)).Msg("member left")
	return remaining, true
}

// RoomsContaining lists every room the connection belongs to, for
// disconnect cleanup.
func (s *RoomSet) RoomsContaining(conn core.ConnID) []domain.RoomID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.byConn[conn]
	if !ok {
		return nil
	}
	out := make([]domain.RoomID, 0, len(rs))
	for room := range rs {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Members returns the current member set of a room in fan-out order.
func (s *RoomSet) Members(room domain.RoomID) ([]core.ConnID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[room]
	if !ok {
		return nil, false
	}
	out := make([]core.ConnID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, true
}

func (s *RoomSet) List() []core.RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(s.members))
	for room, m := range s.members {
		out = append(out, core.RoomInfo{ID: room, MemberCount: len(m)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
