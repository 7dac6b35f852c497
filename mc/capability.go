package mc

import (
	"errors"
	"fmt"
)

var ErrUnsupportedPacket = errors.New("packet is not available on this protocol version")

type Feature byte

const (
	FeatureSpectator Feature = iota
	FeatureTitle
	FeatureTitleActionBar
	FeatureSplitTitle
	FeatureFullMapCanvas
	FeatureMapTracking
	FeatureMapLocked
	FeatureOptionalMapIcons
	FeatureItemMapTag
	FeatureFlattenedSlots
	FeatureVarIntSlots
	FeatureGzipSlotNBT
	FeatureSlotStateID
	FeatureTeleportID
	FeatureDismountVehicle
	FeatureLongKeepAlive
	FeatureVarIntKeepAlive
	FeatureNamespacedChannels
	FeatureDashedUUIDLogin
	FeatureUUIDLogin
	FeatureReducedDebugInfo
	FeatureIntDimension
	FeatureJoinDifficulty
	FeatureViewDistance
	FeatureHashedSeed
	FeatureRespawnScreen
	FeatureDimensionCodec
	FeatureDimensionRegistry
	FeatureSimulationDistance
)

// versionRange is [since, until); until zero means the feature was never removed
type versionRange struct {
	since ProtocolVersion
	until ProtocolVersion
}

func (r versionRange) contains(v ProtocolVersion) bool {
	if v < r.since {
		return false
	}
	return r.until == 0 || v < r.until
}

var features = map[Feature]versionRange{
	FeatureSpectator:          {since: V1_8},
	FeatureTitle:              {since: V1_8},
	FeatureTitleActionBar:     {since: V1_11},
	FeatureSplitTitle:         {since: V1_17},
	FeatureFullMapCanvas:      {since: V1_8},
	FeatureMapTracking:        {since: V1_9, until: V1_17},
	FeatureMapLocked:          {since: V1_14},
	FeatureOptionalMapIcons:   {since: V1_17},
	FeatureItemMapTag:         {since: V1_13},
	FeatureFlattenedSlots:     {since: V1_13},
	FeatureVarIntSlots:        {since: V1_13_2},
	FeatureGzipSlotNBT:        {since: V1_7_2, until: V1_8},
	FeatureSlotStateID:        {since: V1_17_1},
	FeatureTeleportID:         {since: V1_9},
	FeatureDismountVehicle:    {since: V1_17},
	FeatureLongKeepAlive:      {since: V1_12_2},
	FeatureVarIntKeepAlive:    {since: V1_8, until: V1_12_2},
	FeatureNamespacedChannels: {since: V1_13},
	FeatureDashedUUIDLogin:    {since: V1_7_6},
	FeatureUUIDLogin:          {since: V1_16},
	FeatureReducedDebugInfo:   {since: V1_8},
	FeatureIntDimension:       {since: V1_9_1},
	FeatureJoinDifficulty:     {since: V1_7_2, until: V1_14},
	FeatureViewDistance:       {since: V1_14},
	FeatureHashedSeed:         {since: V1_15},
	FeatureRespawnScreen:      {since: V1_15},
	FeatureDimensionCodec:     {since: V1_16},
	FeatureDimensionRegistry:  {since: V1_16_2},
	FeatureSimulationDistance: {since: V1_18},
}

// Supports reports whether clients speaking v know about feature f
func Supports(v ProtocolVersion, f Feature) bool {
	r, ok := features[f]
	if !ok {
		return false
	}
	return r.contains(v)
}

type PacketKind byte

const (
	KeepAlivePacket PacketKind = iota
	JoinGamePacket
	PluginMessagePacket
	DisconnectPacket
	PositionAndLookPacket
	ChangeGameStatePacket
	PlayerAbilitiesPacket
	SetSlotPacket
	MapDataPacket
	LegacyTitlePacket
	TitleTextPacket
	SubtitleTextPacket
	TitleTimesPacket
	ServerBoundKeepAlivePacket
)

func (kind PacketKind) String() string {
	var text string
	switch kind {
	case KeepAlivePacket:
		text = "keep_alive"
	case JoinGamePacket:
		text = "join_game"
	case PluginMessagePacket:
		text = "plugin_message"
	case DisconnectPacket:
		text = "disconnect"
	case PositionAndLookPacket:
		text = "position_and_look"
	case ChangeGameStatePacket:
		text = "change_game_state"
	case PlayerAbilitiesPacket:
		text = "player_abilities"
	case SetSlotPacket:
		text = "set_slot"
	case MapDataPacket:
		text = "map_data"
	case LegacyTitlePacket:
		text = "title"
	case TitleTextPacket:
		text = "title_text"
	case SubtitleTextPacket:
		text = "subtitle_text"
	case TitleTimesPacket:
		text = "title_times"
	case ServerBoundKeepAlivePacket:
		text = "serverbound_keep_alive"
	}
	return text
}

// noPacket marks the version from where on a packet no longer exists
const noPacket = -1

type idMapping struct {
	since ProtocolVersion
	id    int
}

// Packet ids in the play state, sorted by version. A mapping is valid until the
// next mapping in the list takes over.
var playPacketIDs = map[PacketKind][]idMapping{
	KeepAlivePacket: {
		{V1_7_2, 0x00}, {V1_9, 0x1F}, {V1_13, 0x21}, {V1_14, 0x20}, {V1_15, 0x21},
		{V1_16, 0x20}, {V1_16_2, 0x1F}, {V1_17, 0x21},
	},
	JoinGamePacket: {
		{V1_7_2, 0x01}, {V1_9, 0x23}, {V1_13, 0x25}, {V1_15, 0x26}, {V1_16, 0x25},
		{V1_16_2, 0x24}, {V1_17, 0x26},
	},
	PluginMessagePacket: {
		{V1_7_2, 0x3F}, {V1_9, 0x18}, {V1_13, 0x19}, {V1_14, 0x18}, {V1_15, 0x19},
		{V1_16, 0x18}, {V1_16_2, 0x17}, {V1_17, 0x18},
	},
	DisconnectPacket: {
		{V1_7_2, 0x40}, {V1_9, 0x1A}, {V1_13, 0x1B}, {V1_14, 0x1A}, {V1_15, 0x1B},
		{V1_16, 0x1A}, {V1_16_2, 0x19}, {V1_17, 0x1A},
	},
	PositionAndLookPacket: {
		{V1_7_2, 0x08}, {V1_9, 0x2E}, {V1_12_1, 0x2F}, {V1_13, 0x32}, {V1_14, 0x35},
		{V1_15, 0x36}, {V1_16, 0x35}, {V1_16_2, 0x34}, {V1_17, 0x38},
	},
	ChangeGameStatePacket: {
		{V1_7_2, 0x2B}, {V1_9, 0x1E}, {V1_13, 0x20}, {V1_14, 0x1E}, {V1_15, 0x1F},
		{V1_16, 0x1E}, {V1_16_2, 0x1D}, {V1_17, 0x1E},
	},
	PlayerAbilitiesPacket: {
		{V1_7_2, 0x39}, {V1_9, 0x2B}, {V1_12_1, 0x2C}, {V1_13, 0x2E}, {V1_14, 0x31},
		{V1_15, 0x32}, {V1_16, 0x31}, {V1_16_2, 0x30}, {V1_17, 0x32},
	},
	SetSlotPacket: {
		{V1_7_2, 0x2F}, {V1_9, 0x16}, {V1_13, 0x17}, {V1_14, 0x16}, {V1_15, 0x17},
		{V1_16, 0x16}, {V1_16_2, 0x15}, {V1_17, 0x16},
	},
	MapDataPacket: {
		{V1_7_2, 0x34}, {V1_9, 0x24}, {V1_13, 0x26}, {V1_15, 0x27}, {V1_16, 0x26},
		{V1_16_2, 0x25}, {V1_17, 0x27},
	},
	LegacyTitlePacket: {
		{V1_8, 0x45}, {V1_12, 0x47}, {V1_12_1, 0x48}, {V1_13, 0x4B}, {V1_14, 0x4F},
		{V1_15, 0x50}, {V1_16, 0x4F}, {V1_17, noPacket},
	},
	TitleTextPacket:    {{V1_17, 0x59}, {V1_18, 0x5A}},
	SubtitleTextPacket: {{V1_17, 0x57}, {V1_18, 0x58}},
	TitleTimesPacket:   {{V1_17, 0x5A}, {V1_18, 0x5B}},
	ServerBoundKeepAlivePacket: {
		{V1_7_2, 0x00}, {V1_9, 0x0B}, {V1_12, 0x0C}, {V1_12_1, 0x0B}, {V1_13, 0x0E},
		{V1_14, 0x0F}, {V1_16, 0x10}, {V1_17, 0x0F},
	},
}

// PacketID looks up the id of a play packet for the given protocol version
func PacketID(v ProtocolVersion, kind PacketKind) (byte, bool) {
	id := noPacket
	for _, mapping := range playPacketIDs[kind] {
		if mapping.since > v {
			break
		}
		id = mapping.id
	}
	if id == noPacket {
		return 0, false
	}
	return byte(id), true
}

// VersionedPacket is a logical packet whose id and payload depend on the
// protocol version of the receiving client.
type VersionedPacket interface {
	Kind() PacketKind
	Fields(v ProtocolVersion) ([]FieldEncoder, error)
}

// Encode turns a logical packet into the wire packet a client of version v expects
func Encode(v ProtocolVersion, pk VersionedPacket) (Packet, error) {
	id, ok := PacketID(v, pk.Kind())
	if !ok {
		return Packet{}, fmt.Errorf("%w: %v on %v", ErrUnsupportedPacket, pk.Kind(), v)
	}
	fields, err := pk.Fields(v)
	if err != nil {
		return Packet{}, fmt.Errorf("encoding %v for %v: %w", pk.Kind(), v, err)
	}
	return MarshalPacket(id, fields...), nil
}
