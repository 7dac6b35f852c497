package module

import (
	"image"
	"image/color"

	"github.com/realDragonium/limbo/mc"
)

type rgb struct {
	r, g, b int32
}

// Base colours of the vanilla map palette, index 0 is transparent.
var baseColors = []rgb{
	{0, 0, 0},
	{127, 178, 56}, {247, 233, 163}, {199, 199, 199}, {255, 0, 0},
	{160, 160, 255}, {167, 167, 167}, {0, 124, 0}, {255, 255, 255},
	{164, 168, 184}, {151, 109, 77}, {112, 112, 112}, {64, 64, 255},
	{143, 119, 72},
	// 1.8
	{255, 252, 245}, {216, 127, 51}, {178, 76, 216}, {102, 153, 216},
	{229, 229, 51}, {127, 204, 25}, {242, 127, 165}, {76, 76, 76},
	{153, 153, 153}, {76, 127, 153}, {127, 63, 178}, {51, 76, 178},
	{102, 76, 51}, {102, 127, 51}, {153, 51, 51}, {25, 25, 25},
	{250, 238, 77}, {92, 219, 213}, {74, 128, 255}, {0, 217, 58},
	{129, 86, 49}, {112, 2, 0},
	// 1.12
	{209, 177, 161}, {159, 82, 36}, {149, 87, 108}, {112, 108, 138},
	{186, 133, 36}, {103, 117, 53}, {160, 77, 78}, {57, 41, 35},
	{135, 107, 98}, {87, 92, 92}, {122, 73, 88}, {76, 62, 92},
	{76, 50, 35}, {76, 82, 42}, {142, 60, 46}, {37, 22, 16},
	// 1.16
	{189, 48, 49}, {148, 63, 97}, {92, 25, 29}, {22, 126, 134},
	{58, 142, 140}, {86, 44, 62}, {20, 180, 133},
	// 1.17
	{100, 100, 100}, {216, 175, 147}, {127, 167, 150},
}

var shadeMultipliers = []int32{180, 220, 255, 135}

type paletteEntry struct {
	index byte
	color rgb
}

type paletteRange struct {
	since  mc.ProtocolVersion
	colors int
	shades int
}

var paletteRanges = []paletteRange{
	{since: mc.V1_7_2, colors: 14, shades: 3},
	{since: mc.V1_8, colors: 36, shades: 4},
	{since: mc.V1_12, colors: 52, shades: 4},
	{since: mc.V1_16, colors: 59, shades: 4},
	{since: mc.V1_17, colors: 62, shades: 4},
}

// palettes are precomputed once, there are only a handful of them
var palettes = buildPalettes()

func buildPalettes() [][]paletteEntry {
	result := make([][]paletteEntry, len(paletteRanges))
	for i, r := range paletteRanges {
		entries := make([]paletteEntry, 0, r.colors*r.shades)
		for base := 1; base < r.colors; base++ {
			for shade := 0; shade < r.shades; shade++ {
				c := baseColors[base]
				m := shadeMultipliers[shade]
				entries = append(entries, paletteEntry{
					index: byte(base*4 + shade),
					color: rgb{c.r * m / 255, c.g * m / 255, c.b * m / 255},
				})
			}
		}
		result[i] = entries
	}
	return result
}

func paletteFor(v mc.ProtocolVersion) []paletteEntry {
	entries := palettes[0]
	for i, r := range paletteRanges {
		if v.AtLeast(r.since) {
			entries = palettes[i]
		}
	}
	return entries
}

// MapPalette maps pixels onto the nearest colour a client's map can show
type MapPalette struct{}

func (MapPalette) Indexes(img image.Image, v mc.ProtocolVersion) []byte {
	entries := paletteFor(v)
	bounds := img.Bounds()
	out := make([]byte, mc.MapSize)
	cache := make(map[color.RGBA]byte)
	for y := 0; y < mc.MapDimension; y++ {
		for x := 0; x < mc.MapDimension; x++ {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			index, ok := cache[c]
			if !ok {
				index = nearest(entries, c)
				cache[c] = index
			}
			out[y*mc.MapDimension+x] = index
		}
	}
	return out
}

func nearest(entries []paletteEntry, c color.RGBA) byte {
	if c.A < 128 {
		return 0
	}
	// colours are premultiplied, undo it for half transparent pixels
	r, g, b := int32(c.R), int32(c.G), int32(c.B)
	if c.A != 0xff {
		r, g, b = r*255/int32(c.A), g*255/int32(c.A), b*255/int32(c.A)
	}
	best := entries[0].index
	bestDistance := int32(-1)
	for _, entry := range entries {
		dr, dg, db := r-entry.color.r, g-entry.color.g, b-entry.color.b
		distance := dr*dr + dg*dg + db*db
		if bestDistance < 0 || distance < bestDistance {
			best = entry.index
			bestDistance = distance
		}
	}
	return best
}
