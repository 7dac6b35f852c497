package limbo

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
)

const (
	inLimbo int32 = iota
	detaching
	detached
)

const (
	// HotbarSlot is the first hotbar slot in the player inventory window
	HotbarSlot = 36
	// teleportID is echoed back by the client in its teleport confirm
	teleportID = 44
	// creative flight flags without the ability to take damage from falling
	noFallingFlags byte = 0x06
)

// Player is a single visit of a player to a limbo. It turns what the
// application wants to show into packets for the player's protocol version
// and hands the connection onwards once the visit ends. A Player can not be
// reused after Disconnect.
type Player struct {
	server  *Limbo
	proxy   core.Player
	conn    core.Conn
	queue   core.LoginQueue
	version mc.ProtocolVersion
	state   int32
}

func NewPlayer(server *Limbo, proxy core.Player, queue core.LoginQueue) *Player {
	return &Player{
		server:  server,
		proxy:   proxy,
		conn:    proxy.Conn(),
		queue:   queue,
		version: proxy.Protocol(),
		state:   inLimbo,
	}
}

func (p *Player) Server() *Limbo {
	return p.server
}

func (p *Player) ProxyPlayer() core.Player {
	return p.proxy
}

func (p *Player) Protocol() mc.ProtocolVersion {
	return p.version
}

// InLimbo reports whether the session is still active
func (p *Player) InLimbo() bool {
	return atomic.LoadInt32(&p.state) == inLimbo
}

// Ping is the last measured round trip time, zero once the session ended
func (p *Player) Ping() time.Duration {
	if !p.InLimbo() {
		return 0
	}
	handler := p.conn.SessionHandler()
	if handler == nil {
		return 0
	}
	return handler.Ping()
}

// PreviousServer is the server the player came from, nil once the session ended
func (p *Player) PreviousServer() core.Server {
	if !p.InLimbo() {
		return nil
	}
	handler := p.conn.SessionHandler()
	if handler == nil {
		return nil
	}
	return handler.PreviousServer()
}

func (p *Player) alive(action string) error {
	if p.InLimbo() {
		return nil
	}
	log.Printf("%s tried to %s after leaving limbo %s", p.proxy.Name(), action, p.server.Name())
	return core.ErrStaleSession
}

func (p *Player) writeAndFlush(pk mc.VersionedPacket) error {
	packet, err := mc.Encode(p.version, pk)
	if err != nil {
		return err
	}
	return p.conn.WritePacketAndFlush(packet)
}

func (p *Player) Teleport(x, y, z float64, yaw, pitch float32) error {
	if err := p.alive("teleport"); err != nil {
		return err
	}
	return p.writeAndFlush(mc.PositionAndLook{
		X:               x,
		Y:               y,
		Z:               z,
		Yaw:             yaw,
		Pitch:           pitch,
		TeleportID:      teleportID,
		OnGround:        false,
		DismountVehicle: true,
	})
}

// SetGameMode does nothing when the client does not know the game mode
func (p *Player) SetGameMode(mode mc.GameMode) error {
	if err := p.alive("change game mode"); err != nil {
		return err
	}
	if feature, ok := mode.Feature(); ok && !mc.Supports(p.version, feature) {
		return nil
	}
	return p.writeAndFlush(mc.ChangeGameState{
		Reason: mc.ChangeGameModeReason,
		Value:  float32(mode),
	})
}

// SetTitle shows a title, fade times are in ticks. Clients without titles
// get nothing.
func (p *Player) SetTitle(title, subtitle string, fadeIn, stay, fadeOut int32) error {
	if err := p.alive("show a title"); err != nil {
		return err
	}
	packets, ok := mc.TitleSequence(p.version, mc.TextComponent(title), mc.TextComponent(subtitle), fadeIn, stay, fadeOut)
	if !ok {
		return nil
	}
	encoded := make([]mc.Packet, 0, len(packets))
	for _, pk := range packets {
		packet, err := mc.Encode(p.version, pk)
		if err != nil {
			return err
		}
		encoded = append(encoded, packet)
	}
	for _, packet := range encoded {
		if err := p.conn.WritePacketAndFlush(packet); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) DisableFalling() error {
	if err := p.alive("disable falling"); err != nil {
		return err
	}
	return p.writeAndFlush(mc.PlayerAbilities{Flags: noFallingFlags})
}

func (p *Player) SetInventory(slot int16, item mc.ItemStack) error {
	if err := p.alive("set an inventory slot"); err != nil {
		return err
	}
	return p.writeAndFlush(mc.SetSlot{Slot: slot, Item: item})
}

// Kick ends the visit and closes the connection with reason. The session stays
// intact when the disconnect packet cannot be encoded.
func (p *Player) Kick(reason string) error {
	if err := p.alive("kick"); err != nil {
		return err
	}
	packet, err := mc.Encode(p.version, mc.PlayDisconnect{Reason: mc.TextComponent(reason)})
	if err != nil {
		return fmt.Errorf("kicking %s: %w", p.proxy.Name(), err)
	}
	if !atomic.CompareAndSwapInt32(&p.state, inLimbo, detached) {
		log.Printf("%s tried to kick after leaving limbo %s", p.proxy.Name(), p.server.Name())
		return core.ErrStaleSession
	}
	p.notify(p.conn.SessionHandler())
	handoffs.WithLabelValues("kick").Inc()
	return p.conn.CloseWith(packet)
}
