package mc

import (
	"errors"
	"fmt"
)

const (
	// MapDimension is the width and height of a map canvas in pixels
	MapDimension = 128
	// MapSize is the amount of pixels on a map canvas
	MapSize = MapDimension * MapDimension
)

var ErrLegacyMapColumn = errors.New("1.7 clients only accept single column map updates")

type GameMode byte

const (
	Survival GameMode = iota
	Creative
	Adventure
	Spectator
)

func (mode GameMode) String() string {
	var text string
	switch mode {
	case Survival:
		text = "survival"
	case Creative:
		text = "creative"
	case Adventure:
		text = "adventure"
	case Spectator:
		text = "spectator"
	}
	return text
}

func ParseGameMode(name string) (GameMode, error) {
	switch name {
	case "", "adventure":
		return Adventure, nil
	case "survival":
		return Survival, nil
	case "creative":
		return Creative, nil
	case "spectator":
		return Spectator, nil
	}
	return Adventure, fmt.Errorf("unknown game mode: %q", name)
}

// Feature reports which protocol feature a game mode depends on, if any
func (mode GameMode) Feature() (Feature, bool) {
	if mode == Spectator {
		return FeatureSpectator, true
	}
	return 0, false
}

type JoinGame struct {
	EntityID           int32
	GameMode           GameMode
	Dimension          Dimension
	Difficulty         byte
	MaxPlayers         int
	LevelType          string
	ViewDistance       int
	SimulationDistance int
	ReducedDebugInfo   bool
	HashedSeed         int64
}

func (pk JoinGame) Kind() PacketKind {
	return JoinGamePacket
}

func (pk JoinGame) Fields(v ProtocolVersion) ([]FieldEncoder, error) {
	if Supports(v, FeatureDimensionCodec) {
		return pk.codecFields(v)
	}

	fields := []FieldEncoder{Int(pk.EntityID), UnsignedByte(pk.GameMode)}
	if Supports(v, FeatureIntDimension) {
		fields = append(fields, Int(pk.Dimension.LegacyID()))
	} else {
		fields = append(fields, Byte(pk.Dimension.LegacyID()))
	}
	if Supports(v, FeatureJoinDifficulty) {
		fields = append(fields, UnsignedByte(pk.Difficulty))
	}
	if Supports(v, FeatureHashedSeed) {
		fields = append(fields, Long(pk.HashedSeed))
	}
	fields = append(fields, UnsignedByte(pk.MaxPlayers), String(pk.LevelType))
	if Supports(v, FeatureViewDistance) {
		fields = append(fields, VarInt(pk.ViewDistance))
	}
	if Supports(v, FeatureReducedDebugInfo) {
		fields = append(fields, Boolean(pk.ReducedDebugInfo))
	}
	if Supports(v, FeatureRespawnScreen) {
		fields = append(fields, Boolean(true))
	}
	return fields, nil
}

func (pk JoinGame) codecFields(v ProtocolVersion) ([]FieldEncoder, error) {
	codec, err := MarshalNBT(pk.Dimension.dimensionCodec(v))
	if err != nil {
		return nil, fmt.Errorf("dimension codec: %w", err)
	}
	key := Identifier(pk.Dimension.Key())

	if !Supports(v, FeatureDimensionRegistry) {
		return []FieldEncoder{
			Int(pk.EntityID),
			UnsignedByte(pk.GameMode),
			UnsignedByte(0xFF), // no previous game mode
			VarInt(1), key,
			codec,
			key, // dimension type
			key, // world name
			Long(pk.HashedSeed),
			UnsignedByte(pk.MaxPlayers),
			VarInt(pk.ViewDistance),
			Boolean(pk.ReducedDebugInfo),
			Boolean(true),  // respawn screen
			Boolean(false), // debug world
			Boolean(true),  // flat world
		}, nil
	}

	dimension, err := MarshalNBT(pk.Dimension.element(v))
	if err != nil {
		return nil, fmt.Errorf("dimension type: %w", err)
	}
	fields := []FieldEncoder{
		Int(pk.EntityID),
		Boolean(false), // hardcore
		UnsignedByte(pk.GameMode),
		Byte(-1),
		VarInt(1), key,
		codec,
		dimension,
		key,
		Long(pk.HashedSeed),
		VarInt(pk.MaxPlayers),
		VarInt(pk.ViewDistance),
	}
	if Supports(v, FeatureSimulationDistance) {
		fields = append(fields, VarInt(pk.SimulationDistance))
	}
	return append(fields,
		Boolean(pk.ReducedDebugInfo),
		Boolean(true),
		Boolean(false),
		Boolean(true),
	), nil
}

type PositionAndLook struct {
	X, Y, Z         float64
	Yaw, Pitch      float32
	TeleportID      int32
	OnGround        bool
	DismountVehicle bool
}

func (pk PositionAndLook) Kind() PacketKind {
	return PositionAndLookPacket
}

func (pk PositionAndLook) Fields(v ProtocolVersion) ([]FieldEncoder, error) {
	if v.Before(V1_8) {
		// 1.7 clients expect the eye position instead of the feet position
		return []FieldEncoder{
			Double(pk.X), Double(pk.Y + 1.62), Double(pk.Z),
			Float(pk.Yaw), Float(pk.Pitch),
			Boolean(pk.OnGround),
		}, nil
	}

	fields := []FieldEncoder{
		Double(pk.X), Double(pk.Y), Double(pk.Z),
		Float(pk.Yaw), Float(pk.Pitch),
		Byte(0), // all coordinates are absolute
	}
	if Supports(v, FeatureTeleportID) {
		fields = append(fields, VarInt(pk.TeleportID))
	}
	if Supports(v, FeatureDismountVehicle) {
		fields = append(fields, Boolean(pk.DismountVehicle))
	}
	return fields, nil
}

const ChangeGameModeReason byte = 3

type ChangeGameState struct {
	Reason byte
	Value  float32
}

func (pk ChangeGameState) Kind() PacketKind {
	return ChangeGameStatePacket
}

func (pk ChangeGameState) Fields(v ProtocolVersion) ([]FieldEncoder, error) {
	return []FieldEncoder{UnsignedByte(pk.Reason), Float(pk.Value)}, nil
}

type PlayerAbilities struct {
	Flags     byte
	FlySpeed  float32
	WalkSpeed float32
}

func (pk PlayerAbilities) Kind() PacketKind {
	return PlayerAbilitiesPacket
}

func (pk PlayerAbilities) Fields(v ProtocolVersion) ([]FieldEncoder, error) {
	return []FieldEncoder{Byte(pk.Flags), Float(pk.FlySpeed), Float(pk.WalkSpeed)}, nil
}

// ItemStack is a slot's content. An ID of zero or a count of zero is an empty slot.
type ItemStack struct {
	ID    int
	Count byte
	Data  int16
	NBT   interface{}
}

func (item ItemStack) Empty() bool {
	return item.ID == 0 || item.Count == 0
}

func (item ItemStack) fields(v ProtocolVersion) ([]FieldEncoder, error) {
	if Supports(v, FeatureVarIntSlots) {
		if item.Empty() {
			return []FieldEncoder{Boolean(false)}, nil
		}
		tag, err := MarshalNBT(item.NBT)
		if err != nil {
			return nil, err
		}
		return []FieldEncoder{Boolean(true), VarInt(item.ID), Byte(item.Count), tag}, nil
	}

	if item.Empty() {
		return []FieldEncoder{Short(-1)}, nil
	}
	var tag RawBytes
	var err error
	if Supports(v, FeatureGzipSlotNBT) {
		tag, err = MarshalGzipNBT(item.NBT)
	} else {
		tag, err = MarshalNBT(item.NBT)
	}
	if err != nil {
		return nil, err
	}
	// 1.13 and 1.13.1 keep the short id but dropped the damage value
	if Supports(v, FeatureFlattenedSlots) {
		return []FieldEncoder{Short(item.ID), Byte(item.Count), tag}, nil
	}
	return []FieldEncoder{Short(item.ID), Byte(item.Count), Short(item.Data), tag}, nil
}

type SetSlot struct {
	WindowID byte
	Slot     int16
	Item     ItemStack
}

func (pk SetSlot) Kind() PacketKind {
	return SetSlotPacket
}

func (pk SetSlot) Fields(v ProtocolVersion) ([]FieldEncoder, error) {
	fields := []FieldEncoder{Byte(pk.WindowID)}
	if Supports(v, FeatureSlotStateID) {
		fields = append(fields, VarInt(0))
	}
	fields = append(fields, Short(pk.Slot))
	item, err := pk.Item.fields(v)
	if err != nil {
		return nil, fmt.Errorf("slot %d: %w", pk.Slot, err)
	}
	return append(fields, item...), nil
}

// MapData updates a rectangle of a map canvas. Clients before 1.8 only accept
// a single column per packet.
type MapData struct {
	MapID   int
	Scale   byte
	Columns byte
	Rows    byte
	X       byte
	Z       byte
	Data    []byte
}

// NewMapCanvas updates the whole 128x128 canvas, canvas is row major
func NewMapCanvas(mapID int, canvas []byte) MapData {
	return MapData{
		MapID:   mapID,
		Columns: MapDimension,
		Rows:    MapDimension,
		Data:    canvas,
	}
}

// NewMapColumn updates column x of the canvas, from top to bottom
func NewMapColumn(mapID int, x int, column []byte) MapData {
	return MapData{
		MapID:   mapID,
		Columns: 1,
		Rows:    byte(len(column)),
		X:       byte(x),
		Data:    column,
	}
}

func (pk MapData) Kind() PacketKind {
	return MapDataPacket
}

func (pk MapData) Fields(v ProtocolVersion) ([]FieldEncoder, error) {
	if !Supports(v, FeatureFullMapCanvas) {
		if pk.Columns != 1 {
			return nil, ErrLegacyMapColumn
		}
		payload := make([]byte, 0, len(pk.Data)+3)
		payload = append(payload, 0x00, pk.X, pk.Z)
		payload = append(payload, pk.Data...)
		return []FieldEncoder{VarInt(pk.MapID), Short(len(payload)), RawBytes(payload)}, nil
	}

	fields := []FieldEncoder{VarInt(pk.MapID), Byte(pk.Scale)}
	if Supports(v, FeatureMapTracking) {
		fields = append(fields, Boolean(false))
	}
	if Supports(v, FeatureMapLocked) {
		fields = append(fields, Boolean(false))
	}
	if Supports(v, FeatureOptionalMapIcons) {
		fields = append(fields, Boolean(false))
	} else {
		fields = append(fields, VarInt(0))
	}
	return append(fields,
		UnsignedByte(pk.Columns),
		UnsignedByte(pk.Rows),
		Byte(pk.X),
		Byte(pk.Z),
		ByteArray(pk.Data),
	), nil
}

type TitleAction byte

const (
	SetTitle TitleAction = iota
	SetSubtitle
	SetTimes
)

// LegacyTitle is the combined title packet of 1.8 up to 1.16.5
type LegacyTitle struct {
	Action    TitleAction
	Component Chat
	FadeIn    int32
	Stay      int32
	FadeOut   int32
}

func (pk LegacyTitle) Kind() PacketKind {
	return LegacyTitlePacket
}

func (pk LegacyTitle) Fields(v ProtocolVersion) ([]FieldEncoder, error) {
	switch pk.Action {
	case SetTitle, SetSubtitle:
		return []FieldEncoder{VarInt(pk.Action), pk.Component}, nil
	case SetTimes:
		// action bar took action id 2 in 1.11
		action := VarInt(2)
		if Supports(v, FeatureTitleActionBar) {
			action = 3
		}
		return []FieldEncoder{action, Int(pk.FadeIn), Int(pk.Stay), Int(pk.FadeOut)}, nil
	}
	return nil, fmt.Errorf("unknown title action: %d", pk.Action)
}

type TitleText struct {
	Component Chat
}

func (pk TitleText) Kind() PacketKind {
	return TitleTextPacket
}

func (pk TitleText) Fields(v ProtocolVersion) ([]FieldEncoder, error) {
	return []FieldEncoder{pk.Component}, nil
}

type SubtitleText struct {
	Component Chat
}

func (pk SubtitleText) Kind() PacketKind {
	return SubtitleTextPacket
}

func (pk SubtitleText) Fields(v ProtocolVersion) ([]FieldEncoder, error) {
	return []FieldEncoder{pk.Component}, nil
}

type TitleTimes struct {
	FadeIn  int32
	Stay    int32
	FadeOut int32
}

func (pk TitleTimes) Kind() PacketKind {
	return TitleTimesPacket
}

func (pk TitleTimes) Fields(v ProtocolVersion) ([]FieldEncoder, error) {
	return []FieldEncoder{Int(pk.FadeIn), Int(pk.Stay), Int(pk.FadeOut)}, nil
}

// TitleSequence returns the set-title, set-subtitle and set-times packets in
// that order, in the shape the client's protocol version understands.
func TitleSequence(v ProtocolVersion, title, subtitle Chat, fadeIn, stay, fadeOut int32) ([]VersionedPacket, bool) {
	if !Supports(v, FeatureTitle) {
		return nil, false
	}
	if Supports(v, FeatureSplitTitle) {
		return []VersionedPacket{
			TitleText{Component: title},
			SubtitleText{Component: subtitle},
			TitleTimes{FadeIn: fadeIn, Stay: stay, FadeOut: fadeOut},
		}, true
	}
	return []VersionedPacket{
		LegacyTitle{Action: SetTitle, Component: title},
		LegacyTitle{Action: SetSubtitle, Component: subtitle},
		LegacyTitle{Action: SetTimes, FadeIn: fadeIn, Stay: stay, FadeOut: fadeOut},
	}, true
}

type KeepAlive struct {
	ID int64
}

func (pk KeepAlive) Kind() PacketKind {
	return KeepAlivePacket
}

func (pk KeepAlive) Fields(v ProtocolVersion) ([]FieldEncoder, error) {
	switch {
	case Supports(v, FeatureLongKeepAlive):
		return []FieldEncoder{Long(pk.ID)}, nil
	case Supports(v, FeatureVarIntKeepAlive):
		return []FieldEncoder{VarInt(int32(pk.ID))}, nil
	}
	return []FieldEncoder{Int(int32(pk.ID))}, nil
}

// UnmarshalKeepAlive reads the id out of a serverbound keep alive packet.
// ok is false when the packet is something else.
func UnmarshalKeepAlive(v ProtocolVersion, pk Packet) (id int64, ok bool, err error) {
	expected, known := PacketID(v, ServerBoundKeepAlivePacket)
	if !known || pk.ID != expected {
		return 0, false, nil
	}
	switch {
	case Supports(v, FeatureLongKeepAlive):
		var l Long
		err = pk.Scan(&l)
		id = int64(l)
	case Supports(v, FeatureVarIntKeepAlive):
		var vi VarInt
		err = pk.Scan(&vi)
		id = int64(vi)
	default:
		var i Int
		err = pk.Scan(&i)
		id = int64(i)
	}
	return id, err == nil, err
}

type PluginMessage struct {
	Channel string
	Data    []byte
}

// NewBrandMessage tells the client what server software it is connected to
func NewBrandMessage(v ProtocolVersion, brand string) PluginMessage {
	channel := "MC|Brand"
	if Supports(v, FeatureNamespacedChannels) {
		channel = "minecraft:brand"
	}
	data := []byte(brand)
	if v.AtLeast(V1_8) {
		data = String(brand).Encode()
	}
	return PluginMessage{Channel: channel, Data: data}
}

func (pk PluginMessage) Kind() PacketKind {
	return PluginMessagePacket
}

func (pk PluginMessage) Fields(v ProtocolVersion) ([]FieldEncoder, error) {
	if v.Before(V1_8) {
		return []FieldEncoder{String(pk.Channel), Short(len(pk.Data)), RawBytes(pk.Data)}, nil
	}
	return []FieldEncoder{String(pk.Channel), RawBytes(pk.Data)}, nil
}

type PlayDisconnect struct {
	Reason Chat
}

func (pk PlayDisconnect) Kind() PacketKind {
	return DisconnectPacket
}

func (pk PlayDisconnect) Fields(v ProtocolVersion) ([]FieldEncoder, error) {
	return []FieldEncoder{pk.Reason}, nil
}
