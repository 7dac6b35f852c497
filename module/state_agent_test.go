package module_test

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/module"
)

// probeCounter dials a pipe, or fails while down is set.
type probeCounter struct {
	probes int
	down   bool
}

func (p *probeCounter) creator() module.ConnectionCreatorFunc {
	return func() (net.Conn, error) {
		p.probes++
		if p.down {
			return nil, errors.New("backend is down")
		}
		client, server := net.Pipe()
		server.Close()
		return client, nil
	}
}

func TestFixedStates(t *testing.T) {
	agents := map[core.ServerState]module.StateAgent{
		core.Online:  module.AlwaysOnlineState{},
		core.Offline: module.AlwaysOfflineState{},
	}
	for want, agent := range agents {
		if got := agent.State(); got != want {
			t.Errorf("expected %v but got %v", want, got)
		}
	}
}

func TestMcServerState(t *testing.T) {
	t.Run("reachable backend is online", func(t *testing.T) {
		probe := &probeCounter{}
		if state := module.NewMcServerState(time.Minute, probe.creator()).State(); state != core.Online {
			t.Errorf("got %v", state)
		}
	})

	t.Run("unreachable backend is offline", func(t *testing.T) {
		probe := &probeCounter{down: true}
		if state := module.NewMcServerState(time.Minute, probe.creator()).State(); state != core.Offline {
			t.Errorf("got %v", state)
		}
	})

	t.Run("remembers the state during cooldown", func(t *testing.T) {
		probe := &probeCounter{down: true}
		agent := module.NewMcServerState(time.Minute, probe.creator())
		agent.State()
		probe.down = false
		if state := agent.State(); state != core.Offline {
			t.Errorf("expected the cached %v but got %v", core.Offline, state)
		}
		if probe.probes != 1 {
			t.Errorf("expected 1 probe but got %d", probe.probes)
		}
	})

	t.Run("probes again once the cooldown passed", func(t *testing.T) {
		probe := &probeCounter{down: true}
		agent := module.NewMcServerState(time.Millisecond, probe.creator())
		agent.State()
		probe.down = false
		time.Sleep(5 * time.Millisecond)
		if state := agent.State(); state != core.Online {
			t.Errorf("expected %v after the backend came back but got %v", core.Online, state)
		}
		if probe.probes != 2 {
			t.Errorf("expected 2 probes but got %d", probe.probes)
		}
	})
}
