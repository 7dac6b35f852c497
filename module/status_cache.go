package module

import (
	"sync"
	"time"

	"github.com/realDragonium/limbo/mc"
)

type StatusCache interface {
	Status() (mc.Packet, error)
}

// NewStatusCache asks the backend for its server list response, answers are
// reused until cooldown has passed.
func NewStatusCache(protocol mc.ProtocolVersion, cooldown time.Duration, connCreator ConnectionCreator) StatusCache {
	handshake := mc.ServerBoundHandshake{
		ProtocolVersion: int(protocol),
		ServerAddress:   "limbo",
		ServerPort:      25565,
		NextState:       mc.StatusState,
	}

	return &statusCache{
		connCreator: connCreator,
		cooldown:    cooldown,
		handshake:   handshake,
	}
}

type statusCache struct {
	mu          sync.Mutex
	connCreator ConnectionCreator

	status    mc.Packet
	cooldown  time.Duration
	cacheTime time.Time
	handshake mc.ServerBoundHandshake
}

func (cache *statusCache) Status() (mc.Packet, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if !cache.cacheTime.IsZero() && time.Since(cache.cacheTime) < cache.cooldown {
		return cache.status, nil
	}
	answer, err := cache.newStatus()
	if err != nil {
		return cache.status, err
	}
	cache.cacheTime = time.Now()
	cache.status = answer
	return cache.status, nil
}

func (cache *statusCache) newStatus() (pk mc.Packet, err error) {
	conn, err := cache.connCreator.Conn()()
	if err != nil {
		return
	}
	defer conn.Close()

	mcConn := mc.NewMcConn(conn)
	if err = mcConn.WriteMcPacket(cache.handshake); err != nil {
		return
	}
	if err = mcConn.WriteMcPacket(mc.ServerBoundRequest{}); err != nil {
		return
	}
	pk, err = mcConn.ReadPacket()
	if err != nil {
		return
	}
	if pk.ID != mc.ClientBoundResponsePacketID {
		err = mc.ErrInvalidPacketID
	}
	return
}
