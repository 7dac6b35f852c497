package module

import (
	"sync"
	"time"

	"github.com/realDragonium/limbo/core"
)

type StateAgent interface {
	State() core.ServerState
}

func NewMcServerState(cooldown time.Duration, connCreator ConnectionCreator) StateAgent {
	return &McServerState{
		state:       core.Unknown,
		cooldown:    cooldown,
		connCreator: connCreator,
	}
}

// McServerState probes the server by opening a connection to it, the result
// is reused until the cooldown has passed.
type McServerState struct {
	mu          sync.Mutex
	state       core.ServerState
	cooldown    time.Duration
	startTime   time.Time
	connCreator ConnectionCreator
}

func (server *McServerState) State() core.ServerState {
	server.mu.Lock()
	defer server.mu.Unlock()
	if server.state != core.Unknown && time.Since(server.startTime) <= server.cooldown {
		return server.state
	}
	server.startTime = time.Now()
	conn, err := server.connCreator.Conn()()
	if err != nil {
		server.state = core.Offline
	} else {
		server.state = core.Online
		conn.Close()
	}
	return server.state
}

type AlwaysOnlineState struct{}

func (agent AlwaysOnlineState) State() core.ServerState {
	return core.Online
}

type AlwaysOfflineState struct{}

func (agent AlwaysOfflineState) State() core.ServerState {
	return core.Offline
}
