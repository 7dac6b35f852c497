package mc

import (
	"encoding/json"
)

const (
	ClientBoundResponsePacketID byte = 0x00
	ServerBoundRequestPacketID  byte = 0x00
	ServerBoundPingPacketID     byte = 0x01
	ClientBoundPongPacketID     byte = 0x01
)

type SimpleStatus struct {
	Name        string `json:"name"`
	Protocol    int    `json:"protocol"`
	Description string `json:"text"`
	Favicon     string `json:"favicon,omitempty"`
	MaxPlayers  int    `json:"maxPlayers,omitempty"`
}

func (pk SimpleStatus) Marshal() Packet {
	jsonResponse := ResponseJSON{
		Version: VersionJSON{
			Name:     pk.Name,
			Protocol: pk.Protocol,
		},
		Players: PlayersJSON{
			Max: pk.MaxPlayers,
		},
		Description: DescriptionJSON{
			Text: pk.Description,
		},
		Favicon: pk.Favicon,
	}
	text, _ := json.Marshal(jsonResponse)
	return ClientBoundResponse{
		JSONResponse: String(text),
	}.Marshal()
}

// ForProtocol answers with the client's own protocol when no fixed one is configured
func (pk SimpleStatus) ForProtocol(v ProtocolVersion) SimpleStatus {
	if pk.Protocol == 0 {
		pk.Protocol = int(v)
	}
	return pk
}

type ClientBoundResponse struct {
	JSONResponse String
}

func (pk ClientBoundResponse) Marshal() Packet {
	return MarshalPacket(
		ClientBoundResponsePacketID,
		pk.JSONResponse,
	)
}

func UnmarshalClientBoundResponse(packet Packet) (ClientBoundResponse, error) {
	var pk ClientBoundResponse

	if packet.ID != ClientBoundResponsePacketID {
		return pk, ErrInvalidPacketID
	}

	if err := packet.Scan(
		&pk.JSONResponse,
	); err != nil {
		return pk, err
	}

	return pk, nil
}

type ResponseJSON struct {
	Version     VersionJSON     `json:"version"`
	Players     PlayersJSON     `json:"players"`
	Description DescriptionJSON `json:"description"`
	Favicon     string          `json:"favicon,omitempty"`
}

type VersionJSON struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type PlayersJSON struct {
	Max    int                `json:"max"`
	Online int                `json:"online"`
	Sample []PlayerSampleJSON `json:"sample,omitempty"`
}

type PlayerSampleJSON struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type DescriptionJSON struct {
	Text string `json:"text"`
}

type ServerBoundRequest struct{}

func (pk ServerBoundRequest) Marshal() Packet {
	return MarshalPacket(
		ServerBoundRequestPacketID,
	)
}

type ServerBoundPing struct {
	Time Long
}

func UnmarshalServerBoundPing(packet Packet) (ServerBoundPing, error) {
	var pk ServerBoundPing
	if packet.ID != ServerBoundPingPacketID {
		return pk, ErrInvalidPacketID
	}
	err := packet.Scan(&pk.Time)
	return pk, err
}

// Pong echoes the ping payload back to the client
func (pk ServerBoundPing) Pong() Packet {
	return MarshalPacket(ClientBoundPongPacketID, pk.Time)
}
