package mc

import (
	"crypto/ecdsa"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ServerBoundHandshake struct {
	ProtocolVersion int
	ServerAddress   string
	ServerPort      uint16
	NextState       int
}

func (pk ServerBoundHandshake) Marshal() Packet {
	return MarshalPacket(
		ServerBoundHandshakePacketID,
		VarInt(pk.ProtocolVersion),
		String(pk.ServerAddress),
		UnsignedShort(pk.ServerPort),
		VarInt(pk.NextState),
	)
}

func UnmarshalServerBoundHandshake(packet Packet) (ServerBoundHandshake, error) {
	var (
		protocol VarInt
		addr     String
		port     UnsignedShort
		next     VarInt
	)
	if packet.ID != ServerBoundHandshakePacketID {
		return ServerBoundHandshake{}, ErrInvalidPacketID
	}
	if err := packet.Scan(&protocol, &addr, &port, &next); err != nil {
		return ServerBoundHandshake{}, err
	}
	return ServerBoundHandshake{
		ProtocolVersion: int(protocol),
		ServerAddress:   string(addr),
		ServerPort:      uint16(port),
		NextState:       int(next),
	}, nil
}

func (pk ServerBoundHandshake) Version() ProtocolVersion {
	return ProtocolVersion(pk.ProtocolVersion)
}

func (pk ServerBoundHandshake) IsStatusRequest() bool {
	return VarInt(pk.NextState) == HandshakeStatusState
}

func (pk ServerBoundHandshake) IsLoginRequest() bool {
	return VarInt(pk.NextState) == HandshakeLoginState
}

func (pk ServerBoundHandshake) IsForgeAddress() bool {
	return strings.Contains(pk.ServerAddress, ForgeSeparator)
}

func (pk ServerBoundHandshake) IsRealIPAddress() bool {
	return strings.Contains(pk.ServerAddress, RealIPSeparator)
}

func (pk ServerBoundHandshake) ParseServerAddress() string {
	addr := strings.Split(pk.ServerAddress, ForgeSeparator)[0]
	addr = strings.Split(addr, RealIPSeparator)[0]
	return strings.TrimSuffix(addr, ".")
}

// UpgradeToOldRealIP rewrites the address to the RealIP 2.4 format
func (pk *ServerBoundHandshake) UpgradeToOldRealIP(clientAddr string) {
	pk.UpgradeToOldRealIPAt(clientAddr, time.Now())
}

func (pk *ServerBoundHandshake) UpgradeToOldRealIPAt(clientAddr string, stamp time.Time) {
	if pk.IsRealIPAddress() {
		return
	}

	parts := strings.SplitN(pk.ServerAddress, ForgeSeparator, 3)
	addr := fmt.Sprintf("%s///%s///%d", parts[0], clientAddr, stamp.Unix())
	if len(parts) > 1 {
		addr = fmt.Sprintf("%s\x00%s\x00", addr, parts[1])
	}
	pk.ServerAddress = addr
}

// UpgradeToNewRealIP rewrites the address to the RealIP 2.5 format, which
// appends a signature over the 2.4 address.
func (pk *ServerBoundHandshake) UpgradeToNewRealIP(clientAddr string, key *ecdsa.PrivateKey) error {
	pk.UpgradeToOldRealIP(clientAddr)
	hash := sha512.Sum512([]byte(pk.ServerAddress))
	signature, err := ecdsa.SignASN1(rand.Reader, key, hash[:])
	if err != nil {
		return err
	}
	pk.ServerAddress = fmt.Sprintf("%s///%s", pk.ServerAddress, base64.StdEncoding.EncodeToString(signature))
	return nil
}

const (
	ServerBoundLoginStartPacketID          byte = 0x00
	ServerBoundLoginPluginResponsePacketID byte = 0x02

	ClientBoundLoginDisconnectPacketID    byte = 0x00
	ClientBoundEncryptionRequestPacketID  byte = 0x01
	ClientBoundLoginSuccessPacketID       byte = 0x02
	ClientBoundSetCompressionPacketID     byte = 0x03
	ClientBoundLoginPluginRequestPacketID byte = 0x04
)

type ServerLoginStart struct {
	Name String
}

func (pk ServerLoginStart) Marshal() Packet {
	return MarshalPacket(ServerBoundLoginStartPacketID, pk.Name)
}

func UnmarshalServerBoundLoginStart(packet Packet) (ServerLoginStart, error) {
	var pk ServerLoginStart
	if packet.ID != ServerBoundLoginStartPacketID {
		return pk, ErrInvalidPacketID
	}
	if err := packet.Scan(&pk.Name); err != nil {
		return pk, err
	}
	return pk, nil
}

type ClientBoundDisconnect struct {
	Reason Chat
}

func (pk ClientBoundDisconnect) Marshal() Packet {
	return MarshalPacket(ClientBoundLoginDisconnectPacketID, pk.Reason)
}

func UnmarshalClientDisconnect(packet Packet) (ClientBoundDisconnect, error) {
	var pk ClientBoundDisconnect
	if packet.ID != ClientBoundLoginDisconnectPacketID {
		return pk, ErrInvalidPacketID
	}
	err := packet.Scan(&pk.Reason)
	return pk, err
}

// LoginSuccess finishes the login state. Its layout depends on the client
// version, so it is a VersionedPacket in disguise with a fixed id.
type LoginSuccess struct {
	UUID     uuid.UUID
	Username string
}

func (pk LoginSuccess) Encode(v ProtocolVersion) Packet {
	var id FieldEncoder
	switch {
	case Supports(v, FeatureUUIDLogin):
		id = UUID(pk.UUID)
	case Supports(v, FeatureDashedUUIDLogin):
		id = String(pk.UUID.String())
	default:
		id = String(strings.ReplaceAll(pk.UUID.String(), "-", ""))
	}
	return MarshalPacket(ClientBoundLoginSuccessPacketID, id, String(pk.Username))
}

type LoginPluginRequest struct {
	MessageID VarInt
	Channel   Identifier
	Data      RawBytes
}

func UnmarshalLoginPluginRequest(packet Packet) (LoginPluginRequest, error) {
	var pk LoginPluginRequest
	if packet.ID != ClientBoundLoginPluginRequestPacketID {
		return pk, ErrInvalidPacketID
	}
	err := packet.Scan(&pk.MessageID, &pk.Channel, &pk.Data)
	return pk, err
}

type LoginPluginResponse struct {
	MessageID  VarInt
	Successful bool
	Data       []byte
}

func (pk LoginPluginResponse) Marshal() Packet {
	if !pk.Successful {
		return MarshalPacket(ServerBoundLoginPluginResponsePacketID, pk.MessageID, Boolean(false))
	}
	return MarshalPacket(ServerBoundLoginPluginResponsePacketID, pk.MessageID, Boolean(true), RawBytes(pk.Data))
}

// OfflineUUID is the uuid an offline mode server hands out to a player name
func OfflineUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	id, _ := uuid.FromBytes(sum[:])
	return id
}
