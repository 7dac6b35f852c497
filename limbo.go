package limbo

import (
	"log"
	"time"

	"github.com/realDragonium/limbo/config"
	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
	"github.com/realDragonium/limbo/module"
)

// limboEntityID is the entity id every player gets in a limbo, there is
// nobody else in the world to collide with.
const limboEntityID = 1

// Position is a spot in the world plus where to look at
type Position struct {
	X, Y, Z    float64
	Yaw, Pitch float32
}

// Limbo is a virtual server. It has no world or entities, it only keeps
// players busy until they can be sent somewhere else.
type Limbo struct {
	name         string
	brand        string
	dimension    mc.Dimension
	gameMode     mc.GameMode
	spawn        Position
	viewDistance int
	keepAlive    time.Duration
	palette      core.Palette
}

func NewLimbo(cfg config.World) *Limbo {
	return &Limbo{
		name:      cfg.Name,
		brand:     cfg.Brand,
		dimension: cfg.Dimension,
		gameMode:  cfg.GameMode,
		spawn: Position{
			X:     cfg.SpawnX,
			Y:     cfg.SpawnY,
			Z:     cfg.SpawnZ,
			Yaw:   cfg.Yaw,
			Pitch: cfg.Pitch,
		},
		viewDistance: cfg.ViewDistance,
		keepAlive:    cfg.KeepAlive,
		palette:      module.MapPalette{},
	}
}

func (l *Limbo) Name() string {
	return l.name
}

func (l *Limbo) SpawnPosition() Position {
	return l.spawn
}

// SetPalette replaces the palette used to turn images into map colours
func (l *Limbo) SetPalette(palette core.Palette) {
	l.palette = palette
}

func (l *Limbo) joinPackets(v mc.ProtocolVersion) ([]mc.Packet, error) {
	packets := []mc.VersionedPacket{
		mc.JoinGame{
			EntityID:           limboEntityID,
			GameMode:           l.gameMode,
			Dimension:          l.dimension,
			MaxPlayers:         1,
			LevelType:          "flat",
			ViewDistance:       l.viewDistance,
			SimulationDistance: l.viewDistance,
		},
		mc.NewBrandMessage(v, l.brand),
	}
	return l.encode(v, packets...)
}

func (l *Limbo) spawnPackets(v mc.ProtocolVersion) ([]mc.Packet, error) {
	return l.encode(v, mc.PositionAndLook{
		X:               l.spawn.X,
		Y:               l.spawn.Y,
		Z:               l.spawn.Z,
		Yaw:             l.spawn.Yaw,
		Pitch:           l.spawn.Pitch,
		TeleportID:      teleportID,
		DismountVehicle: true,
	})
}

func (l *Limbo) encode(v mc.ProtocolVersion, packets ...mc.VersionedPacket) ([]mc.Packet, error) {
	encoded := make([]mc.Packet, 0, len(packets))
	for _, pk := range packets {
		packet, err := mc.Encode(v, pk)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, packet)
	}
	return encoded, nil
}

// Spawn puts the player in this limbo. Players coming straight from the
// login get their login success and join game first. Players moving over
// from another limbo keep the world they already have and are only moved to
// the spawn position. previous is where Disconnect sends the player back to.
func (l *Limbo) Spawn(proxy *ProxyPlayer, handler Handler, previous core.Server) (*Player, error) {
	conn := proxy.conn
	v := proxy.Protocol()

	var packets []mc.Packet
	if conn.State() != core.LimboState {
		join, err := l.joinPackets(v)
		if err != nil {
			return nil, err
		}
		packets = join
	}
	spawn, err := l.spawnPackets(v)
	if err != nil {
		return nil, err
	}
	packets = append(packets, spawn...)

	player := NewPlayer(l, proxy, proxy.loginQueue())
	session := newSessionHandler(conn, player, handler, previous, l.keepAlive)
	success := mc.LoginSuccess{UUID: proxy.UUID(), Username: proxy.Name()}.Encode(v)

	fromLogin := proxy.claimLoginSuccess()
	conn.SetState(core.LimboState)
	limboSessions.WithLabelValues(l.name).Inc()
	if !conn.installSession(session) {
		player.connectionLost(session)
		return player, core.ErrConnClosed
	}

	conn.Execute(func() {
		if fromLogin {
			conn.writeNow(success)
		}
		for _, pk := range packets {
			conn.writeNow(pk)
		}
		conn.flushNow()
	})
	if handler != nil {
		conn.Execute(func() {
			handler.OnSpawn(l, player)
		})
	}
	session.start()
	log.Printf("%s joined limbo %s", proxy.Name(), l.name)
	return player, nil
}
