package limbo_test

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
)

const (
	writeEvent      = "write"
	writeFlushEvent = "write+flush"
	flushEvent      = "flush"
	closeEvent      = "close"
	playStateEvent  = "state:play"
	requestEvent    = "request"
)

// fakeConn runs every task right away and records what the session asks of it
type fakeConn struct {
	mu       sync.Mutex
	protocol mc.ProtocolVersion
	state    core.ConnState
	handler  core.SessionHandler
	events   []string
	packets  []mc.Packet
	closed   bool
	writeErr error
}

func newFakeConn(v mc.ProtocolVersion, handler core.SessionHandler) *fakeConn {
	return &fakeConn{
		protocol: v,
		state:    core.LimboState,
		handler:  handler,
	}
}

func (c *fakeConn) record(event string, pk *mc.Packet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.events = append(c.events, event)
	if pk != nil {
		c.packets = append(c.packets, *pk)
	}
	return nil
}

func (c *fakeConn) WritePacket(pk mc.Packet) error {
	return c.record(writeEvent, &pk)
}

func (c *fakeConn) WritePacketAndFlush(pk mc.Packet) error {
	return c.record(writeFlushEvent, &pk)
}

func (c *fakeConn) Flush() error {
	return c.record(flushEvent, nil)
}

func (c *fakeConn) CloseWith(pk mc.Packet) error {
	if err := c.record(closeEvent, &pk); err != nil {
		return err
	}
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) Execute(task func()) {
	task()
}

func (c *fakeConn) Protocol() mc.ProtocolVersion {
	return c.protocol
}

func (c *fakeConn) State() core.ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *fakeConn) SetState(state core.ConnState) {
	c.mu.Lock()
	c.state = state
	if state != core.LimboState {
		c.handler = nil
	}
	c.mu.Unlock()
	if state == core.PlayState {
		c.record(playStateEvent, nil)
	}
}

func (c *fakeConn) SessionHandler() core.SessionHandler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler
}

func (c *fakeConn) Events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.events...)
}

func (c *fakeConn) Packets() []mc.Packet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]mc.Packet(nil), c.packets...)
}

func count(events []string, event string) int {
	n := 0
	for _, e := range events {
		if e == event {
			n++
		}
	}
	return n
}

type fakeSessionHandler struct {
	mu           sync.Mutex
	disconnected int
	previous     core.Server
	ping         time.Duration
}

func (h *fakeSessionHandler) Disconnected() {
	h.mu.Lock()
	h.disconnected++
	h.mu.Unlock()
}

func (h *fakeSessionHandler) PreviousServer() core.Server {
	return h.previous
}

func (h *fakeSessionHandler) Ping() time.Duration {
	return h.ping
}

func (h *fakeSessionHandler) Disconnects() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.disconnected
}

type fakeServer struct {
	name  string
	state core.ServerState
}

func (s fakeServer) Name() string {
	return s.name
}

func (s fakeServer) State() core.ServerState {
	return s.state
}

func (s fakeServer) CreateConn(req core.RequestData) (net.Conn, error) {
	return nil, errors.New("fake servers can not be dialed")
}

type fakePlayer struct {
	name     string
	conn     *fakeConn
	mu       sync.Mutex
	requests []core.Server
}

func (p *fakePlayer) Name() string {
	return p.name
}

func (p *fakePlayer) UUID() uuid.UUID {
	return mc.OfflineUUID(p.name)
}

func (p *fakePlayer) Protocol() mc.ProtocolVersion {
	return p.conn.protocol
}

func (p *fakePlayer) Conn() core.Conn {
	return p.conn
}

func (p *fakePlayer) CreateConnectionRequest(target core.Server) core.ConnectionRequest {
	return fakeRequest{player: p, target: target}
}

func (p *fakePlayer) Requests() []core.Server {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.Server(nil), p.requests...)
}

type fakeRequest struct {
	player *fakePlayer
	target core.Server
}

func (r fakeRequest) Target() core.Server {
	return r.target
}

func (r fakeRequest) FireAndForget() {
	r.player.mu.Lock()
	r.player.requests = append(r.player.requests, r.target)
	r.player.mu.Unlock()
	r.player.conn.record(requestEvent, nil)
}

type fakeQueue struct {
	queued     bool
	next       int
	nextServer core.Server
}

func (q *fakeQueue) Queued(p core.Player) bool {
	return q.queued
}

func (q *fakeQueue) Next(p core.Player) {
	q.next++
}

func (q *fakeQueue) SetNextServer(p core.Player, server core.Server) {
	q.nextServer = server
}
