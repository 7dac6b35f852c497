package core

import (
	"github.com/google/uuid"
	"github.com/realDragonium/limbo/mc"
)

// Player is a client that completed its login with the proxy
type Player interface {
	Name() string
	UUID() uuid.UUID
	Protocol() mc.ProtocolVersion
	Conn() Conn
	CreateConnectionRequest(target Server) ConnectionRequest
}

type ConnectionRequest interface {
	Target() Server
	// FireAndForget connects in the background, failures are handled by the
	// request itself.
	FireAndForget()
}

type LoginQueue interface {
	Queued(p Player) bool
	Next(p Player)
	SetNextServer(p Player, server Server)
}
