package stage

import (
	"sync"
	"time"

	limbo "github.com/realDragonium/limbo"
	"github.com/realDragonium/limbo/core"
)

// WaitingRoom keeps a player around until backend is online and then sends
// the player there.
type WaitingRoom struct {
	backend  core.Server
	title    string
	subtitle string
	interval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

func NewWaitingRoom(backend core.Server, title, subtitle string, interval time.Duration) *WaitingRoom {
	return &WaitingRoom{
		backend:  backend,
		title:    title,
		subtitle: subtitle,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (room *WaitingRoom) OnSpawn(server *limbo.Limbo, player *limbo.Player) {
	if room.backend.State() == core.Online {
		player.DisconnectTo(room.backend)
		return
	}
	player.DisableFalling()
	if room.title != "" || room.subtitle != "" {
		player.SetTitle(room.title, room.subtitle, defaultFadeIn, defaultStay, defaultFadeOut)
	}
	go room.wait(player)
}

func (room *WaitingRoom) wait(player *limbo.Player) {
	ticker := time.NewTicker(room.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if room.backend.State() != core.Online {
				continue
			}
			player.DisconnectTo(room.backend)
			return
		case <-room.stop:
			return
		}
	}
}

func (room *WaitingRoom) OnDisconnect() {
	room.stopOnce.Do(func() {
		close(room.stop)
	})
}
