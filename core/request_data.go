package core

import (
	"net"

	"github.com/google/uuid"
	"github.com/realDragonium/limbo/mc"
)

type RequestData struct {
	Handshake mc.ServerBoundHandshake
	Addr      net.Addr
	Username  string
	UUID      uuid.UUID
}
