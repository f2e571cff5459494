package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mindcare/signaling/internal/app/orch"
	"github.com/mindcare/signaling/internal/config"
	"github.com/mindcare/signaling/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Orch *orch.Orchestrator
	Cfg  *config.Config
}

func NewController(o *orch.Orchestrator, cfg *config.Config) *Controller {
	return &Controller{Orch: o, Cfg: cfg}
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and runs the connection lifecycle.
// The caller is assumed to be authenticated already; the client token
// is carried for diagnostics only.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	subject := c.GetString("client_token")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	id := ctl.Orch.Registry.Register(conn)
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("subject", subject).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, id, conn)

	// The client needs its own connection id to be addressable by peers.
	ctl.sendJSON(conn, connectedEvent{Type: evConnected, ConnID: id})
}

// finishDisconnect runs the cleanup sequence and notifies affected
// peers. Cleanup never waits on notification delivery.
func (ctl *Controller) finishDisconnect(id core.ConnID) {
	rep, ok := ctl.Orch.Disconnect(id)
	if !ok {
		return
	}

	if rep.Withdrawn != nil {
		ctl.broadcastJSON(id, presenceStatusEvent{
			Type:     evPresenceStatus,
			Identity: rep.Withdrawn.Identity,
			Role:     rep.Withdrawn.Role,
			Online:   false,
		})
	}

	for _, dep := range rep.Departed {
		ctl.fanoutJSON(dep.Remaining, peerEvent{
			Type: evRoomPeerLeft,
			Room: dep.Room,
			Conn: id,
		})
	}
}
