// Package stage contains the handlers that drive players through a limbo.
package stage

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	limbo "github.com/realDragonium/limbo"
	"github.com/realDragonium/limbo/config"
	"github.com/realDragonium/limbo/core"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	defaultFadeIn  = 10
	defaultStay    = 70
	defaultFadeOut = 20

	defaultWelcomeDuration = 5 * time.Second
	defaultWaitingInterval = 5 * time.Second
)

// FromConfig builds the handler factory for a login queue stage
func FromConfig(cfg config.Stage, servers core.ServerCatalog) (func() limbo.Handler, error) {
	switch cfg.Handler {
	case config.WelcomeHandler:
		var img image.Image
		if cfg.Image != "" {
			var err error
			img, err = LoadImage(cfg.Image)
			if err != nil {
				return nil, err
			}
		}
		duration := cfg.Duration
		if duration <= 0 {
			duration = defaultWelcomeDuration
		}
		return func() limbo.Handler {
			return NewWelcome(cfg.Title, cfg.Subtitle, img, cfg.MapID, duration)
		}, nil
	case config.WaitingRoomHandler:
		backend, err := servers.Find(cfg.Backend)
		if err != nil {
			return nil, fmt.Errorf("waiting room for %s: %w", cfg.Backend, err)
		}
		interval := cfg.Duration
		if interval <= 0 {
			interval = defaultWaitingInterval
		}
		return func() limbo.Handler {
			return NewWaitingRoom(backend, cfg.Title, cfg.Subtitle, interval)
		}, nil
	}
	return nil, fmt.Errorf("unknown stage handler: %q", cfg.Handler)
}

// LoadImage reads a png, jpeg, bmp or webp image
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}
