package core

import (
	"image"

	"github.com/realDragonium/limbo/mc"
)

// Palette turns a map sized image into map colour indexes, row major
type Palette interface {
	Indexes(img image.Image, v mc.ProtocolVersion) []byte
}
