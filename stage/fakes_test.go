package stage_test

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	limbo "github.com/realDragonium/limbo"
	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
)

const defaultChTimeout = time.Second

type fakeConn struct {
	mu       sync.Mutex
	protocol mc.ProtocolVersion
	state    core.ConnState
	session  core.SessionHandler
	packets  []mc.Packet
}

func (c *fakeConn) write(pk mc.Packet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.packets = append(c.packets, pk)
	return nil
}

func (c *fakeConn) WritePacket(pk mc.Packet) error {
	return c.write(pk)
}

func (c *fakeConn) WritePacketAndFlush(pk mc.Packet) error {
	return c.write(pk)
}

func (c *fakeConn) Flush() error {
	return nil
}

func (c *fakeConn) CloseWith(pk mc.Packet) error {
	return c.write(pk)
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
	defer c.mu.Unlock()
	c.state = state
	if state != core.LimboState {
		c.session = nil
	}
}

func (c *fakeConn) SessionHandler() core.SessionHandler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// packetIDs lists the ids of everything written so far
func (c *fakeConn) packetIDs() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]byte, 0, len(c.packets))
	for _, pk := range c.packets {
		ids = append(ids, pk.ID)
	}
	return ids
}

// fakeSession tells the stage handler once the visit is over, like the
// session runtime does.
type fakeSession struct {
	handler  limbo.Handler
	previous core.Server
	once     sync.Once
}

func (s *fakeSession) Disconnected() {
	s.once.Do(s.handler.OnDisconnect)
}

func (s *fakeSession) PreviousServer() core.Server {
	return s.previous
}

func (s *fakeSession) Ping() time.Duration {
	return 0
}

type fakePlayer struct {
	conn      *fakeConn
	requestCh chan core.Server
}

func (p *fakePlayer) Name() string {
	return "notch"
}

func (p *fakePlayer) UUID() uuid.UUID {
	return mc.OfflineUUID("notch")
}

func (p *fakePlayer) Protocol() mc.ProtocolVersion {
	return p.conn.protocol
}

func (p *fakePlayer) Conn() core.Conn {
	return p.conn
}

func (p *fakePlayer) CreateConnectionRequest(target core.Server) core.ConnectionRequest {
	return fakeRequest{target: target, requestCh: p.requestCh}
}

type fakeRequest struct {
	target    core.Server
	requestCh chan core.Server
}

func (r fakeRequest) Target() core.Server {
	return r.target
}

func (r fakeRequest) FireAndForget() {
	r.requestCh <- r.target
}

// fakeServer can be switched on and off while a test runs
type fakeServer struct {
	name   string
	online int32
}

func (s *fakeServer) Name() string {
	return s.name
}

func (s *fakeServer) State() core.ServerState {
	if atomic.LoadInt32(&s.online) == 1 {
		return core.Online
	}
	return core.Offline
}

func (s *fakeServer) setOnline() {
	atomic.StoreInt32(&s.online, 1)
}

func (s *fakeServer) CreateConn(req core.RequestData) (net.Conn, error) {
	return nil, errors.New("fake servers can not be dialed")
}

type visit struct {
	conn   *fakeConn
	proxy  *fakePlayer
	player *limbo.Player
}

// newVisit puts a fake player in server with handler driving it
func newVisit(server *limbo.Limbo, handler limbo.Handler, previous core.Server) visit {
	conn := &fakeConn{
		protocol: mc.V1_17,
		state:    core.LimboState,
		session:  &fakeSession{handler: handler, previous: previous},
	}
	proxy := &fakePlayer{conn: conn, requestCh: make(chan core.Server, 1)}
	return visit{
		conn:   conn,
		proxy:  proxy,
		player: limbo.NewPlayer(server, proxy, nil),
	}
}
