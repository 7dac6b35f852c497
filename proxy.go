package limbo

import (
	"bufio"
	"errors"
	"log"
	"net"
	"time"

	"github.com/realDragonium/limbo/config"
	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
	"github.com/realDragonium/limbo/module"
)

const unsupportedVersionReason = "Your minecraft version is not supported"

// Proxy accepts players and decides where they go: through the login queue,
// straight to the default backend, or into the fallback limbo while the
// backend is down.
type Proxy struct {
	cfg         config.Proxy
	queue       *LoginQueue
	backend     *Backend
	fallback    *Limbo
	fallbackFn  func() Handler
	connLimiter module.ConnectionLimiter
}

// ProxyOption configures optional parts of a Proxy
type ProxyOption func(*Proxy)

func WithLoginQueue(queue *LoginQueue) ProxyOption {
	return func(p *Proxy) {
		if queue != nil && queue.Stages() > 0 {
			p.queue = queue
		}
	}
}

func WithDefaultBackend(backend *Backend) ProxyOption {
	return func(p *Proxy) {
		p.backend = backend
	}
}

// WithFallback sets the limbo players wait in while the default backend is
// offline, handler is called once per player.
func WithFallback(limbo *Limbo, handler func() Handler) ProxyOption {
	return func(p *Proxy) {
		p.fallback = limbo
		p.fallbackFn = handler
	}
}

func NewProxy(cfg config.Proxy, opts ...ProxyOption) *Proxy {
	p := &Proxy{
		cfg:         cfg,
		connLimiter: module.AlwaysAllowConnection{},
	}
	if cfg.RateLimit > 0 {
		p.connLimiter = module.NewBotFilterConnLimiter(cfg.RateLimit, cfg.RateCooldown, cfg.RateClearTime, cfg.RateUnverify)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Serve accepts connections until the listener is closed
func (p *Proxy) Serve(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				log.Printf("net.Listener was closed, stopping with accepting calls")
				return
			}
			log.Println(err)
			continue
		}
		go p.handle(conn)
	}
}

func (p *Proxy) handle(conn net.Conn) {
	conn.SetDeadline(time.Now().Add(p.cfg.IOTimeout))
	reader := bufio.NewReader(conn)
	hsPacket, err := mc.ReadPacket(reader)
	if err != nil {
		conn.Close()
		return
	}
	handshake, err := mc.UnmarshalServerBoundHandshake(hsPacket)
	if err != nil {
		log.Printf("error while parsing handshake from %v: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}

	switch {
	case handshake.IsStatusRequest():
		newConnections.WithLabelValues("status").Inc()
		p.status(conn, reader, handshake)
	case handshake.IsLoginRequest():
		newConnections.WithLabelValues("login").Inc()
		p.login(conn, reader, handshake)
	default:
		log.Printf("%v from %v", core.ErrNotValidHandshake, conn.RemoteAddr())
		conn.Close()
	}
}

func (p *Proxy) status(conn net.Conn, reader *bufio.Reader, handshake mc.ServerBoundHandshake) {
	defer conn.Close()
	if _, err := mc.ReadPacket(reader); err != nil {
		return
	}
	status, ok := mc.Packet{}, false
	if p.backend != nil {
		status, ok = p.backend.Status()
	}
	if !ok {
		status = p.cfg.DefaultStatus.ForProtocol(handshake.Version()).Marshal()
	}
	if _, err := conn.Write(status.Marshal()); err != nil {
		return
	}

	pingPk, err := mc.ReadPacket(reader)
	if err != nil {
		return
	}
	ping, err := mc.UnmarshalServerBoundPing(pingPk)
	if err != nil {
		return
	}
	conn.Write(ping.Pong().Marshal())
}

func (p *Proxy) login(conn net.Conn, reader *bufio.Reader, handshake mc.ServerBoundHandshake) {
	loginPk, err := mc.ReadPacket(reader)
	if err != nil {
		conn.Close()
		return
	}
	loginStart, err := mc.UnmarshalServerBoundLoginStart(loginPk)
	if err != nil {
		log.Printf("error while parsing login packet from %v: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}

	version := handshake.Version()
	if !version.Supported() {
		log.Printf("%v: %d from %v", core.ErrUnsupportedVersion, handshake.ProtocolVersion, conn.RemoteAddr())
		disconnect(conn, unsupportedVersionReason)
		return
	}
	req := core.RequestData{
		Handshake: handshake,
		Addr:      conn.RemoteAddr(),
		Username:  string(loginStart.Name),
	}
	if !p.connLimiter.Allow(req) {
		disconnect(conn, p.cfg.RateDisconnectMsg)
		return
	}
	conn.SetDeadline(time.Time{})

	mcConn := newMcConn(conn, reader, version, core.LoginState)
	player := newProxyPlayer(mcConn, handshake, string(loginStart.Name))
	mcConn.start()
	p.route(player)
}

func (p *Proxy) route(player *ProxyPlayer) {
	if p.queue != nil {
		p.queue.Join(player)
		return
	}
	if p.backend != nil && p.backend.State() == core.Online {
		player.CreateConnectionRequest(p.backend).FireAndForget()
		return
	}
	if p.fallback != nil {
		var handler Handler
		if p.fallbackFn != nil {
			handler = p.fallbackFn()
		}
		var previous core.Server
		if p.backend != nil {
			previous = p.backend
		}
		if _, err := p.fallback.Spawn(player, handler, previous); err != nil {
			log.Printf("%s could not enter limbo %s: %v", player.Name(), p.fallback.Name(), err)
		}
		return
	}
	closeWithoutTarget(player)
}

func disconnect(conn net.Conn, reason string) {
	pk := mc.ClientBoundDisconnect{Reason: mc.TextComponent(reason)}
	conn.Write(pk.Marshal().Marshal())
	conn.Close()
}
