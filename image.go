package limbo

import (
	"image"

	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
	"golang.org/x/image/draw"
)

// DisplayImage draws img on map mapID. Images have to be 128x128 unless
// resize is set, in which case they are scaled to fit. With sendItem the
// filled map is also put in the first hotbar slot.
func (p *Player) DisplayImage(mapID int, img image.Image, sendItem, resize bool) error {
	if err := p.alive("display an image"); err != nil {
		return err
	}
	if img == nil {
		return core.NewInvalidInput("no image given")
	}
	if mapID < 0 {
		return core.NewInvalidInput("map id %d is negative", mapID)
	}

	bounds := img.Bounds()
	if bounds.Dx() != mc.MapDimension || bounds.Dy() != mc.MapDimension {
		if !resize {
			return core.NewInvalidInput("image is %dx%d, maps are %dx%d",
				bounds.Dx(), bounds.Dy(), mc.MapDimension, mc.MapDimension)
		}
		img = scaleToMap(img)
	}

	indexes := p.server.palette.Indexes(img, p.version)
	packets, err := p.mapPackets(mapID, indexes, sendItem)
	if err != nil {
		return err
	}

	// the item goes first so the client knows the map before its pixels arrive
	if sendItem {
		if err := p.conn.WritePacketAndFlush(packets[0]); err != nil {
			return err
		}
		packets = packets[1:]
	}
	if len(packets) == 1 {
		return p.conn.WritePacketAndFlush(packets[0])
	}
	for _, pk := range packets {
		if err := p.conn.WritePacket(pk); err != nil {
			return err
		}
	}
	return p.conn.Flush()
}

// mapPackets encodes everything up front so a failure sends nothing
func (p *Player) mapPackets(mapID int, indexes []byte, sendItem bool) ([]mc.Packet, error) {
	var packets []mc.Packet
	if sendItem {
		pk, err := mc.Encode(p.version, mc.SetSlot{Slot: HotbarSlot, Item: mc.FilledMap(p.version, mapID)})
		if err != nil {
			return nil, err
		}
		packets = append(packets, pk)
	}

	if mc.Supports(p.version, mc.FeatureFullMapCanvas) {
		pk, err := mc.Encode(p.version, mc.NewMapCanvas(mapID, indexes))
		if err != nil {
			return nil, err
		}
		return append(packets, pk), nil
	}

	for x := 0; x < mc.MapDimension; x++ {
		column := make([]byte, mc.MapDimension)
		for y := 0; y < mc.MapDimension; y++ {
			column[y] = indexes[y*mc.MapDimension+x]
		}
		pk, err := mc.Encode(p.version, mc.NewMapColumn(mapID, x, column))
		if err != nil {
			return nil, err
		}
		packets = append(packets, pk)
	}
	return packets, nil
}

func scaleToMap(img image.Image) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, mc.MapDimension, mc.MapDimension))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
