package module

import (
	"crypto/ecdsa"
	"log"

	"github.com/realDragonium/limbo/mc"
)

// HandshakeModifier rewrites the handshake sent to a backend, addr is the
// address of the client.
type HandshakeModifier interface {
	Modify(hs *mc.ServerBoundHandshake, addr string)
}

func NewRealIP2_4() RealIPv2_4 {
	return RealIPv2_4{}
}

type RealIPv2_4 struct{}

func (rip RealIPv2_4) Modify(hs *mc.ServerBoundHandshake, addr string) {
	hs.UpgradeToOldRealIP(addr)
}

func NewRealIP2_5(key *ecdsa.PrivateKey) RealIPv2_5 {
	return RealIPv2_5{
		realIPKey: key,
	}
}

type RealIPv2_5 struct {
	realIPKey *ecdsa.PrivateKey
}

func (rip RealIPv2_5) Modify(hs *mc.ServerBoundHandshake, addr string) {
	if err := hs.UpgradeToNewRealIP(addr, rip.realIPKey); err != nil {
		log.Printf("signing realip handshake for %v failed: %v", addr, err)
	}
}
