package app

import (
	"reflect"
	"testing"

	"github.com/mindcare/signaling/internal/core"
	"github.com/mindcare/signaling/internal/domain"
)

func TestRoomLifecycle(t *testing.T) {
	s := NewRoomSet()

	others := s.Join("appt-42", "c1")
	if len(others) != 0 {
		t.Fatalf("first join should see an empty room, got %v", others)
	}

	others = s.Join("appt-42", "c2")
	if !reflect.DeepEqual(others, []core.ConnID{"c1"}) {
		t.Fatalf("second join should see c1, got %v", others)
	}

	remaining, ok := s.Leave("appt-42", "c1")
	if !ok {
		t.Fatal("leave by member should succeed")
	}
	if !reflect.DeepEqual(remaining, []core.ConnID{"c2"}) {
		t.Fatalf("expected c2 remaining, got %v", remaining)
	}

	remaining, ok = s.Leave("appt-42", "c2")
	if !ok {
		t.Fatal("last leave should succeed")
	}
	if len(remaining) != 0 {
		t.Fatalf("room should be empty, got %v", remaining)
	}

	if _, ok := s.Members("appt-42"); ok {
		t.Fatal("room should be deleted once the last member leaves")
	}
	if got := s.RoomsContaining("c1"); len(got) != 0 {
		t.Fatalf("c1 should belong to no rooms, got %v", got)
	}
	if got := s.RoomsContaining("c2"); len(got) != 0 {
		t.Fatalf("c2 should belong to no rooms, got %v", got)
	}
}

func TestRoomLeaveNonMember(t *testing.T) {
	s := NewRoomSet()
	s.Join("appt-42", "c1")

	if _, ok := s.Leave("appt-42", "c2"); ok {
		t.Fatal("leave by a non-member should be a no-op")
	}
	if _, ok := s.Leave("no-such-room", "c1"); ok {
		t.Fatal("leave of unknown room should be a no-op")
	}
	if members, _ := s.Members("appt-42"); !reflect.DeepEqual(members, []core.ConnID{"c1"}) {
		t.Fatalf("room membership should be untouched, got %v", members)
	}
}

func TestRoomsContaining(t *testing.T) {
	s := NewRoomSet()
	s.Join("appt-42", "c1")
	s.Join("appt-7", "c1")
	s.Join("appt-42", "c2")

	got := s.RoomsContaining("c1")
	want := []domain.RoomID{"appt-42", "appt-7"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRoomUnboundedMembership(t *testing.T) {
	s := NewRoomSet()
	// No occupancy cap: a third and fourth member are accepted.
	s.Join("appt-42", "c1")
	s.Join("appt-42", "c2")
	s.Join("appt-42", "c3")
	others := s.Join("appt-42", "c4")
	if !reflect.DeepEqual(others, []core.ConnID{"c1", "c2", "c3"}) {
		t.Fatalf("expected ordered members c1..c3, got %v", others)
	}
}

func TestRoomList(t *testing.T) {
	s := NewRoomSet()
	s.Join("appt-42", "c1")
	s.Join("appt-42", "c2")
	s.Join("appt-7", "c3")

	infos := s.List()
	if len(infos) != 2 {
		t.Fatalf("expected 2 rooms, got %v", infos)
	}
	if infos[0].ID != "appt-42" || infos[0].MemberCount != 2 {
		t.Fatalf("unexpected first room info: %+v", infos[0])
	}
	if infos[1].ID != "appt-7" || infos[1].MemberCount != 1 {
		t.Fatalf("unexpected second room info: %+v", infos[1])
	}
}
