package limbo

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
)

// ProxyPlayer is a client that finished its login with the proxy. It lives as
// long as the client connection, across limbo visits and the final backend.
type ProxyPlayer struct {
	name      string
	uuid      uuid.UUID
	handshake mc.ServerBoundHandshake
	addr      net.Addr
	conn      *mcConn
	loggedIn  int32

	mu    sync.Mutex
	queue core.LoginQueue
}

func newProxyPlayer(conn *mcConn, handshake mc.ServerBoundHandshake, name string) *ProxyPlayer {
	return &ProxyPlayer{
		name:      name,
		uuid:      mc.OfflineUUID(name),
		handshake: handshake,
		addr:      conn.netConn.RemoteAddr(),
		conn:      conn,
	}
}

func (p *ProxyPlayer) Name() string {
	return p.name
}

func (p *ProxyPlayer) UUID() uuid.UUID {
	return p.uuid
}

func (p *ProxyPlayer) Protocol() mc.ProtocolVersion {
	return p.conn.Protocol()
}

func (p *ProxyPlayer) Conn() core.Conn {
	return p.conn
}

func (p *ProxyPlayer) RemoteAddr() net.Addr {
	return p.addr
}

func (p *ProxyPlayer) CreateConnectionRequest(target core.Server) core.ConnectionRequest {
	return &connectionRequest{
		player: p,
		target: target,
	}
}

func (p *ProxyPlayer) requestData() core.RequestData {
	return core.RequestData{
		Handshake: p.handshake,
		Addr:      p.addr,
		Username:  p.name,
		UUID:      p.uuid,
	}
}

// claimLoginSuccess returns true for whoever sends the client its login
// success, which happens exactly once per connection.
func (p *ProxyPlayer) claimLoginSuccess() bool {
	return atomic.CompareAndSwapInt32(&p.loggedIn, 0, 1)
}

func (p *ProxyPlayer) loginQueue() core.LoginQueue {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue
}

func (p *ProxyPlayer) setLoginQueue(queue core.LoginQueue) {
	p.mu.Lock()
	p.queue = queue
	p.mu.Unlock()
}
