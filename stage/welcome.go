package stage

import (
	"image"
	"log"
	"sync"
	"time"

	limbo "github.com/realDragonium/limbo"
)

// Welcome greets a player with a title and an optional image on a map, the
// player moves on once duration has passed.
type Welcome struct {
	title    string
	subtitle string
	image    image.Image
	mapID    int
	duration time.Duration

	mu    sync.Mutex
	timer *time.Timer
	done  bool
}

func NewWelcome(title, subtitle string, img image.Image, mapID int, duration time.Duration) *Welcome {
	return &Welcome{
		title:    title,
		subtitle: subtitle,
		image:    img,
		mapID:    mapID,
		duration: duration,
	}
}

func (w *Welcome) OnSpawn(server *limbo.Limbo, player *limbo.Player) {
	spawn := server.SpawnPosition()
	if err := player.DisableFalling(); err != nil {
		return
	}
	if err := player.Teleport(spawn.X, spawn.Y, spawn.Z, spawn.Yaw, spawn.Pitch); err != nil {
		return
	}
	if w.title != "" || w.subtitle != "" {
		player.SetTitle(w.title, w.subtitle, defaultFadeIn, defaultStay, defaultFadeOut)
	}
	if w.image != nil {
		if err := player.DisplayImage(w.mapID, w.image, true, true); err != nil {
			log.Printf("showing welcome image to %s: %v", player.ProxyPlayer().Name(), err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return
	}
	w.timer = time.AfterFunc(w.duration, func() {
		player.Disconnect()
	})
}

func (w *Welcome) OnDisconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.done = true
	if w.timer != nil {
		w.timer.Stop()
	}
}
