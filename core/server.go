package core

import (
	"net"
)

type Server interface {
	Name() string
	State() ServerState
	// CreateConn dials the server and sends the handshake and login start
	CreateConn(req RequestData) (net.Conn, error)
}

type ServerState byte

const (
	Unknown ServerState = iota
	Online
	Offline
)

func (state ServerState) String() string {
	var text string
	switch state {
	case Unknown:
		text = "Unknown"
	case Online:
		text = "Online"
	case Offline:
		text = "Offline"
	}
	return text
}
