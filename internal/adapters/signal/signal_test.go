package signal

import (
	"testing"

	"github.com/mindcare/signaling/internal/core"
)

func TestTrySendBackpressure(t *testing.T) {
	c := &wsConn{send: make(chan core.Frame, 1)}

	if err := c.TrySend(core.Frame(`{}`)); err != nil {
		t.Fatalf("send into empty buffer should succeed: %v", err)
	}
	if err := c.TrySend(core.Frame(`{}`)); err != ErrBackpressure {
		t.Fatalf("send into full buffer should report backpressure, got %v", err)
	}
}

func TestTrySendClosed(t *testing.T) {
	c := &wsConn{send: make(chan core.Frame, 1), closed: true}

	if err := c.TrySend(core.Frame(`{}`)); err == nil {
		t.Fatal("send on a closed connection should fail")
	}
}
