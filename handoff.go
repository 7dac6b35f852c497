package limbo

import (
	"log"
	"sync/atomic"

	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
)

const noTargetReason = "There is no server to send you to"

// Disconnect ends the visit. A queued player moves on to the next queue
// stage, anyone else goes back to the server they came from. Only the first
// call has any effect.
func (p *Player) Disconnect() error {
	if !atomic.CompareAndSwapInt32(&p.state, inLimbo, detaching) {
		log.Printf("%s left limbo %s twice", p.proxy.Name(), p.server.Name())
		return core.ErrStaleSession
	}
	defer atomic.StoreInt32(&p.state, detached)

	handler := p.conn.SessionHandler()
	queued := p.queue != nil && p.queue.Queued(p.proxy)
	p.notify(handler)

	switch {
	case queued:
		handoffs.WithLabelValues("queue").Inc()
		p.queue.Next(p.proxy)
	case handler != nil && handler.PreviousServer() != nil:
		handoffs.WithLabelValues("backend").Inc()
		p.sendTo(handler.PreviousServer())
	default:
		handoffs.WithLabelValues("close").Inc()
		p.closeWithoutTarget()
	}
	return nil
}

// DisconnectTo ends the visit and sends the player to server. Queued players
// first finish the remaining queue stages, server becomes where the queue
// sends them afterwards.
func (p *Player) DisconnectTo(server core.Server) error {
	if server == nil {
		return p.Disconnect()
	}
	if !atomic.CompareAndSwapInt32(&p.state, inLimbo, detaching) {
		log.Printf("%s left limbo %s twice", p.proxy.Name(), p.server.Name())
		return core.ErrStaleSession
	}
	defer atomic.StoreInt32(&p.state, detached)

	queued := p.queue != nil && p.queue.Queued(p.proxy)
	p.notify(p.conn.SessionHandler())

	if queued {
		handoffs.WithLabelValues("queue").Inc()
		p.queue.SetNextServer(p.proxy, server)
		p.queue.Next(p.proxy)
		return nil
	}
	handoffs.WithLabelValues("backend").Inc()
	p.sendTo(server)
	return nil
}

func (p *Player) notify(handler core.SessionHandler) {
	if handler != nil {
		handler.Disconnected()
	}
}

func (p *Player) sendTo(server core.Server) {
	handOff(p.proxy, server)
}

// handOff switches the connection back to play and asks the proxy to connect
// it to server, both on the connection's own goroutine.
func handOff(proxy core.Player, server core.Server) {
	conn := proxy.Conn()
	conn.Execute(func() {
		conn.SetState(core.PlayState)
	})
	conn.Execute(func() {
		proxy.CreateConnectionRequest(server).FireAndForget()
	})
}

func (p *Player) closeWithoutTarget() {
	closeWithoutTarget(p.proxy)
}

// closeWithoutTarget kicks a player that has nowhere left to go
func closeWithoutTarget(proxy core.Player) {
	conn := proxy.Conn()
	pk, err := disconnectPacket(conn, noTargetReason)
	if err != nil {
		log.Printf("encoding disconnect for %s: %v", proxy.Name(), err)
		return
	}
	conn.Execute(func() {
		conn.SetState(core.PlayState)
	})
	if err := conn.CloseWith(pk); err != nil {
		log.Printf("closing connection of %s: %v", proxy.Name(), err)
	}
}

// disconnectPacket picks the login or play disconnect, whichever the client
// is able to read right now.
func disconnectPacket(conn core.Conn, reason string) (mc.Packet, error) {
	if conn.State() == core.LoginState {
		return mc.ClientBoundDisconnect{Reason: mc.TextComponent(reason)}.Marshal(), nil
	}
	return mc.Encode(conn.Protocol(), mc.PlayDisconnect{Reason: mc.TextComponent(reason)})
}

// connectionLost runs when the client went away while in limbo
func (p *Player) connectionLost(handler *sessionHandler) {
	if !atomic.CompareAndSwapInt32(&p.state, inLimbo, detached) {
		return
	}
	handoffs.WithLabelValues("lost").Inc()
	handler.Disconnected()
}
