package mc

import "fmt"

type Dimension byte

const (
	Overworld Dimension = iota
	Nether
	End
)

func ParseDimension(name string) (Dimension, error) {
	switch name {
	case "", "overworld", "minecraft:overworld":
		return Overworld, nil
	case "nether", "the_nether", "minecraft:the_nether":
		return Nether, nil
	case "end", "the_end", "minecraft:the_end":
		return End, nil
	}
	return Overworld, fmt.Errorf("unknown dimension: %q", name)
}

// LegacyID is the numeric dimension id used before 1.16
func (d Dimension) LegacyID() int32 {
	switch d {
	case Nether:
		return -1
	case End:
		return 1
	}
	return 0
}

// Key is the namespaced dimension name used from 1.16 on
func (d Dimension) Key() string {
	switch d {
	case Nether:
		return "minecraft:the_nether"
	case End:
		return "minecraft:the_end"
	}
	return "minecraft:overworld"
}

func (d Dimension) String() string {
	return d.Key()
}

// nbt has no boolean tag, flags are bytes
func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}

type dimensionType struct {
	PiglinSafe         byte    `nbt:"piglin_safe"`
	Natural            byte    `nbt:"natural"`
	AmbientLight       float32 `nbt:"ambient_light"`
	Infiniburn         string  `nbt:"infiniburn"`
	RespawnAnchorWorks byte    `nbt:"respawn_anchor_works"`
	HasSkylight        byte    `nbt:"has_skylight"`
	BedWorks           byte    `nbt:"bed_works"`
	Effects            string  `nbt:"effects"`
	HasRaids           byte    `nbt:"has_raids"`
	MinY               int32   `nbt:"min_y"`
	Height             int32   `nbt:"height"`
	LogicalHeight      int32   `nbt:"logical_height"`
	CoordinateScale    float64 `nbt:"coordinate_scale"`
	Ultrawarm          byte    `nbt:"ultrawarm"`
	HasCeiling         byte    `nbt:"has_ceiling"`
}

// 1.16 and 1.16.1 list the dimensions inline with their name and the shrunk flag
type legacyDimensionType struct {
	Name               string  `nbt:"name"`
	PiglinSafe         byte    `nbt:"piglin_safe"`
	Natural            byte    `nbt:"natural"`
	AmbientLight       float32 `nbt:"ambient_light"`
	Infiniburn         string  `nbt:"infiniburn"`
	RespawnAnchorWorks byte    `nbt:"respawn_anchor_works"`
	HasSkylight        byte    `nbt:"has_skylight"`
	BedWorks           byte    `nbt:"bed_works"`
	HasRaids           byte    `nbt:"has_raids"`
	LogicalHeight      int32   `nbt:"logical_height"`
	Shrunk             byte    `nbt:"shrunk"`
	Ultrawarm          byte    `nbt:"ultrawarm"`
	HasCeiling         byte    `nbt:"has_ceiling"`
}

type legacyDimensionCodec struct {
	Dimensions []legacyDimensionType `nbt:"dimension"`
}

type dimensionTypeEntry struct {
	Name    string        `nbt:"name"`
	ID      int32         `nbt:"id"`
	Element dimensionType `nbt:"element"`
}

type dimensionTypeRegistry struct {
	Type  string               `nbt:"type"`
	Value []dimensionTypeEntry `nbt:"value"`
}

type biomeEffects struct {
	SkyColor      int32 `nbt:"sky_color"`
	WaterFogColor int32 `nbt:"water_fog_color"`
	FogColor      int32 `nbt:"fog_color"`
	WaterColor    int32 `nbt:"water_color"`
}

type biome struct {
	Precipitation string       `nbt:"precipitation"`
	Depth         float32      `nbt:"depth"`
	Temperature   float32      `nbt:"temperature"`
	Scale         float32      `nbt:"scale"`
	Downfall      float32      `nbt:"downfall"`
	Category      string       `nbt:"category"`
	Effects       biomeEffects `nbt:"effects"`
}

type biomeEntry struct {
	Name    string `nbt:"name"`
	ID      int32  `nbt:"id"`
	Element biome  `nbt:"element"`
}

type biomeRegistry struct {
	Type  string       `nbt:"type"`
	Value []biomeEntry `nbt:"value"`
}

type registryCodec struct {
	DimensionTypes dimensionTypeRegistry `nbt:"minecraft:dimension_type"`
	Biomes         biomeRegistry         `nbt:"minecraft:worldgen/biome"`
}

func (d Dimension) element(v ProtocolVersion) dimensionType {
	infiniburn := "minecraft:infiniburn_overworld"
	dim := dimensionType{
		Natural:         1,
		HasSkylight:     1,
		BedWorks:        1,
		Effects:         "minecraft:overworld",
		HasRaids:        1,
		MinY:            0,
		Height:          256,
		LogicalHeight:   256,
		CoordinateScale: 1,
	}
	switch d {
	case Nether:
		infiniburn = "minecraft:infiniburn_nether"
		dim = dimensionType{
			PiglinSafe:         1,
			AmbientLight:       0.1,
			RespawnAnchorWorks: 1,
			Effects:            "minecraft:the_nether",
			MinY:               0,
			Height:             256,
			LogicalHeight:      128,
			CoordinateScale:    8,
			Ultrawarm:          1,
			HasCeiling:         1,
		}
	case End:
		infiniburn = "minecraft:infiniburn_end"
		dim = dimensionType{
			Effects:         "minecraft:the_end",
			HasRaids:        1,
			MinY:            0,
			Height:          256,
			LogicalHeight:   256,
			CoordinateScale: 1,
		}
	}
	// 1.18.2 reads infiniburn as a block tag reference
	if v.AtLeast(V1_18_2) {
		infiniburn = "#" + infiniburn
	}
	dim.Infiniburn = infiniburn
	return dim
}

func (d Dimension) legacyElement() legacyDimensionType {
	el := d.element(V1_16)
	return legacyDimensionType{
		Name:               d.Key(),
		PiglinSafe:         el.PiglinSafe,
		Natural:            el.Natural,
		AmbientLight:       el.AmbientLight,
		Infiniburn:         el.Infiniburn,
		RespawnAnchorWorks: el.RespawnAnchorWorks,
		HasSkylight:        el.HasSkylight,
		BedWorks:           el.BedWorks,
		HasRaids:           el.HasRaids,
		LogicalHeight:      el.LogicalHeight,
		Shrunk:             flag(el.CoordinateScale > 1),
		Ultrawarm:          el.Ultrawarm,
		HasCeiling:         el.HasCeiling,
	}
}

// dimensionCodec builds the registry a 1.16+ client needs in its join game
// packet. Only the dimension the limbo lives in is sent.
func (d Dimension) dimensionCodec(v ProtocolVersion) interface{} {
	if !Supports(v, FeatureDimensionRegistry) {
		return legacyDimensionCodec{
			Dimensions: []legacyDimensionType{d.legacyElement()},
		}
	}
	return registryCodec{
		DimensionTypes: dimensionTypeRegistry{
			Type: "minecraft:dimension_type",
			Value: []dimensionTypeEntry{
				{Name: d.Key(), ID: 0, Element: d.element(v)},
			},
		},
		Biomes: biomeRegistry{
			Type: "minecraft:worldgen/biome",
			Value: []biomeEntry{
				{
					Name: "minecraft:plains",
					ID:   1,
					Element: biome{
						Precipitation: "none",
						Depth:         0.125,
						Temperature:   0.8,
						Scale:         0.05,
						Downfall:      0.4,
						Category:      "plains",
						Effects: biomeEffects{
							SkyColor:      7907327,
							WaterFogColor: 329011,
							FogColor:      12638463,
							WaterColor:    4159204,
						},
					},
				},
			},
		},
	}
}
