package core

import (
	"time"

	"github.com/realDragonium/limbo/mc"
)

type ConnState byte

const (
	HandshakeState ConnState = iota
	StatusState
	LoginState
	PlayState
	LimboState
)

func (state ConnState) String() string {
	var text string
	switch state {
	case HandshakeState:
		text = "handshake"
	case StatusState:
		text = "status"
	case LoginState:
		text = "login"
	case PlayState:
		text = "play"
	case LimboState:
		text = "limbo"
	}
	return text
}

// Conn is the live client connection as the limbo session sees it. Writes are
// queued on the connection's own execution context and never block the caller.
type Conn interface {
	// WritePacket queues a packet without flushing it
	WritePacket(pk mc.Packet) error
	WritePacketAndFlush(pk mc.Packet) error
	Flush() error
	// CloseWith writes the packet, flushes and closes the connection
	CloseWith(pk mc.Packet) error
	// Execute runs task on the connection's execution context, after all
	// previously submitted work.
	Execute(task func())

	Protocol() mc.ProtocolVersion
	State() ConnState
	SetState(state ConnState)
	// SessionHandler returns the handler of the limbo session currently
	// running on this connection, nil when there is none.
	SessionHandler() SessionHandler
}

type SessionHandler interface {
	Disconnected()
	PreviousServer() Server
	Ping() time.Duration
}
