package limbo

import (
	"net"

	"github.com/realDragonium/limbo/config"
	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
	"github.com/realDragonium/limbo/module"
)

// Backend is a real minecraft server players can be sent to
type Backend struct {
	name              string
	connCreator       module.ConnectionCreator
	sendProxyProtocol bool
	hsModifier        module.HandshakeModifier
	stateAgent        module.StateAgent
	statusCache       module.StatusCache
}

func NewBackend(cfg config.Backend) *Backend {
	dialer := net.Dialer{
		Timeout: cfg.DialTimeout,
		LocalAddr: &net.TCPAddr{
			IP: net.ParseIP(cfg.ProxyBind),
		},
	}
	connCreator := module.BasicConnCreator(cfg.ProxyTo, dialer)

	var hsModifier module.HandshakeModifier
	switch {
	case cfg.NewRealIP:
		hsModifier = module.NewRealIP2_5(cfg.RealIPKey)
	case cfg.OldRealIP:
		hsModifier = module.NewRealIP2_4()
	}

	var statusCache module.StatusCache
	if cfg.CacheStatus {
		statusCache = module.NewStatusCache(cfg.ValidProtocol, cfg.CacheUpdateCooldown, connCreator)
	}

	return &Backend{
		name:              cfg.Name,
		connCreator:       connCreator,
		sendProxyProtocol: cfg.SendProxyProtocol,
		hsModifier:        hsModifier,
		stateAgent:        module.NewMcServerState(cfg.StateUpdateCooldown, connCreator),
		statusCache:       statusCache,
	}
}

func (b *Backend) Name() string {
	return b.name
}

func (b *Backend) State() core.ServerState {
	return b.stateAgent.State()
}

// Status is the cached server list response of the backend, ok is false when
// caching is turned off or the backend could not be reached.
func (b *Backend) Status() (pk mc.Packet, ok bool) {
	if b.statusCache == nil {
		return mc.Packet{}, false
	}
	pk, err := b.statusCache.Status()
	if err != nil {
		return mc.Packet{}, false
	}
	return pk, true
}

// CreateConn dials the backend and starts a login for the player
func (b *Backend) CreateConn(req core.RequestData) (net.Conn, error) {
	var conn net.Conn
	var err error
	if b.sendProxyProtocol {
		conn, err = module.ProxyProtocolConn(b.connCreator, req.Addr)
	} else {
		conn, err = b.connCreator.Conn()()
	}
	if err != nil {
		return nil, err
	}

	handshake := req.Handshake
	handshake.NextState = mc.LoginState
	if b.hsModifier != nil && req.Addr != nil {
		b.hsModifier.Modify(&handshake, req.Addr.String())
	}

	mcConn := mc.NewMcConn(conn)
	if err := mcConn.WriteMcPacket(handshake); err != nil {
		conn.Close()
		return nil, err
	}
	if err := mcConn.WriteMcPacket(mc.ServerLoginStart{Name: mc.String(req.Username)}); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
