package orch_test

import (
	"errors"
	"sync"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/mindcare/signaling/internal/app"
	"github.com/mindcare/signaling/internal/app/orch"
	"github.com/mindcare/signaling/internal/core"
	"github.com/mindcare/signaling/internal/core/mocks"
	"github.com/mindcare/signaling/internal/domain"
)

// recordConn captures delivered frames so tests can assert fan-out.
type recordConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
}

func (c *recordConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("send buffer full")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *recordConn) Close() {}

func (c *recordConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func newOrchestrator() *orch.Orchestrator {
	return orch.New(app.NewRegistry(), app.NewPresence(), app.NewRoomSet())
}

func TestRelayAddressing(t *testing.T) {
	ctrl := gomock.NewController(t)
	o := newOrchestrator()

	recipient := mocks.NewMockSignalConnection(ctrl)
	to := o.Registry.Register(recipient)

	payload := core.Frame(`{"type":"signal.incoming-offer","from":"c1","offer":{}}`)
	recipient.EXPECT().TrySend(payload).Return(nil).Times(1)

	if !o.Relay(to, payload) {
		t.Fatal("relay to a registered connection should deliver")
	}
}

func TestRelayUnknownRecipientDropped(t *testing.T) {
	o := newOrchestrator()

	// No error surfaces to the sender; the frame just vanishes.
	if o.Relay("gone-conn", core.Frame(`{}`)) {
		t.Fatal("relay to an unknown connection should report dropped")
	}
}

func TestRelayBackpressureDropped(t *testing.T) {
	o := newOrchestrator()
	slow := &recordConn{fail: true}
	to := o.Registry.Register(slow)

	if o.Relay(to, core.Frame(`{}`)) {
		t.Fatal("relay into a full send buffer should report dropped")
	}
}

func TestBroadcastSkipsSender(t *testing.T) {
	o := newOrchestrator()
	a := &recordConn{}
	b := &recordConn{}
	c := &recordConn{}
	idA := o.Registry.Register(a)
	o.Registry.Register(b)
	o.Registry.Register(c)

	sent := o.Broadcast(idA, core.Frame(`{"type":"presence.status"}`))
	if sent != 2 {
		t.Fatalf("expected 2 deliveries, got %d", sent)
	}
	if a.count() != 0 {
		t.Fatal("sender must not receive its own broadcast")
	}
	if b.count() != 1 || c.count() != 1 {
		t.Fatalf("peers should receive one frame each, got %d and %d", b.count(), c.count())
	}
}

func TestBroadcastSurvivesFailingPeer(t *testing.T) {
	o := newOrchestrator()
	bad := &recordConn{fail: true}
	good := &recordConn{}
	o.Registry.Register(bad)
	o.Registry.Register(good)

	sent := o.Broadcast("nobody", core.Frame(`{}`))
	if sent != 1 {
		t.Fatalf("expected 1 delivery past the failing peer, got %d", sent)
	}
	if good.count() != 1 {
		t.Fatal("healthy peer should still receive the frame")
	}
}

func TestDisconnectCleanupCompleteness(t *testing.T) {
	o := newOrchestrator()

	target := &recordConn{}
	peer := &recordConn{}
	id := o.Registry.Register(target)
	peerID := o.Registry.Register(peer)

	o.Announce(id, "cns-1", domain.RoleCounselor)
	o.Join(id, "appt-1")
	o.Join(peerID, "appt-1")
	o.Join(id, "appt-2")

	rep, ok := o.Disconnect(id)
	if !ok {
		t.Fatal("first disconnect should run")
	}

	if rep.Withdrawn == nil || rep.Withdrawn.Identity != "cns-1" {
		t.Fatalf("expected cns-1 withdrawn, got %+v", rep.Withdrawn)
	}
	if o.Presence.IsOnline("cns-1") {
		t.Fatal("identity should be offline after disconnect")
	}

	if len(rep.Departed) != 2 {
		t.Fatalf("expected 2 room departures, got %+v", rep.Departed)
	}
	if rep.Departed[0].Room != "appt-1" || len(rep.Departed[0].Remaining) != 1 || rep.Departed[0].Remaining[0] != peerID {
		t.Fatalf("unexpected appt-1 departure: %+v", rep.Departed[0])
	}
	if rep.Departed[1].Room != "appt-2" || len(rep.Departed[1].Remaining) != 0 {
		t.Fatalf("unexpected appt-2 departure: %+v", rep.Departed[1])
	}

	if _, ok := o.Rooms.Members("appt-2"); ok {
		t.Fatal("appt-2 should be deleted, the disconnecting member was its last")
	}
	if members, _ := o.Rooms.Members("appt-1"); len(members) != 1 {
		t.Fatalf("appt-1 should keep its remaining member, got %v", members)
	}
	if got := o.Rooms.RoomsContaining(id); len(got) != 0 {
		t.Fatalf("disconnected connection should belong to no rooms, got %v", got)
	}
	if _, ok := o.Registry.Lookup(id); ok {
		t.Fatal("connection should be absent from the registry")
	}
}

func TestDisconnectIdempotent(t *testing.T) {
	o := newOrchestrator()
	id := o.Registry.Register(&recordConn{})
	o.Announce(id, "stu-1", domain.RoleStudent)

	if _, ok := o.Disconnect(id); !ok {
		t.Fatal("first disconnect should run")
	}
	if _, ok := o.Disconnect(id); ok {
		t.Fatal("second disconnect must be a no-op")
	}
}

func TestDisconnectSupersededPresence(t *testing.T) {
	o := newOrchestrator()
	first := o.Registry.Register(&recordConn{})
	second := o.Registry.Register(&recordConn{})

	o.Announce(first, "stu-1", domain.RoleStudent)
	o.Announce(second, "stu-1", domain.RoleStudent)

	rep, ok := o.Disconnect(first)
	if !ok {
		t.Fatal("disconnect of superseded connection should still run")
	}
	if rep.Withdrawn != nil {
		t.Fatalf("superseded connection must not withdraw the identity, got %+v", rep.Withdrawn)
	}
	if !o.Presence.IsOnline("stu-1") {
		t.Fatal("identity must stay online, bound to the newer connection")
	}
}
