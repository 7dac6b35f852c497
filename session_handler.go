package limbo

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
)

// Handler is implemented by application code that drives players while they
// are inside a limbo.
type Handler interface {
	OnSpawn(server *Limbo, player *Player)
	OnDisconnect()
}

// sessionHandler is installed on a connection for the duration of one limbo
// visit. It keeps the client alive and measures its ping.
type sessionHandler struct {
	conn     *mcConn
	player   *Player
	handler  Handler
	previous core.Server
	interval time.Duration

	ping       int64
	lastID     int64
	lastSentAt time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func newSessionHandler(conn *mcConn, player *Player, handler Handler, previous core.Server, interval time.Duration) *sessionHandler {
	return &sessionHandler{
		conn:     conn,
		player:   player,
		handler:  handler,
		previous: previous,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (h *sessionHandler) start() {
	if h.interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.conn.Execute(h.sendKeepAlive)
			case <-h.stop:
				return
			case <-h.conn.closeCh:
				return
			}
		}
	}()
}

func (h *sessionHandler) stopped() bool {
	select {
	case <-h.stop:
		return true
	default:
		return false
	}
}

// sendKeepAlive runs on the connection's goroutine
func (h *sessionHandler) sendKeepAlive() {
	if h.stopped() {
		return
	}
	id := time.Now().UnixMilli()
	if !mc.Supports(h.conn.protocol, mc.FeatureLongKeepAlive) {
		id = int64(int32(id))
	}
	pk, err := mc.Encode(h.conn.protocol, mc.KeepAlive{ID: id})
	if err != nil {
		return
	}
	h.lastID = id
	h.lastSentAt = time.Now()
	h.conn.writeNow(pk)
	h.conn.flushNow()
}

// HandlePacket runs on the connection's goroutine
func (h *sessionHandler) HandlePacket(pk mc.Packet) {
	if h.stopped() {
		return
	}
	id, ok, err := mc.UnmarshalKeepAlive(h.conn.protocol, pk)
	if err != nil || !ok {
		return
	}
	if id == h.lastID && !h.lastSentAt.IsZero() {
		atomic.StoreInt64(&h.ping, int64(time.Since(h.lastSentAt)))
	}
}

func (h *sessionHandler) Disconnected() {
	h.stopOnce.Do(func() {
		close(h.stop)
		limboSessions.WithLabelValues(h.player.server.Name()).Dec()
		if h.handler != nil {
			h.handler.OnDisconnect()
		}
	})
}

func (h *sessionHandler) PreviousServer() core.Server {
	return h.previous
}

func (h *sessionHandler) Ping() time.Duration {
	return time.Duration(atomic.LoadInt64(&h.ping))
}

func (h *sessionHandler) connectionLost() {
	h.player.connectionLost(h)
}
