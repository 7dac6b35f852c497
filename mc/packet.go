package mc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	ErrInvalidPacketID = errors.New("invalid packet id")
	ErrPacketTooBig    = errors.New("packet contains too much data")
	MaxPacketSize      = 2097151
)

const (
	ServerBoundHandshakePacketID byte = 0x00

	StatusState = 1
	LoginState  = 2

	HandshakeStatusState = VarInt(StatusState)
	HandshakeLoginState  = VarInt(LoginState)

	ForgeSeparator  = "\x00"
	RealIPSeparator = "///"
)

// Packet is the raw representation of message that is send between the client and the server
type Packet struct {
	ID   byte
	Data []byte
}

type McPacket interface {
	Marshal() Packet
}

// Scan decodes and copies the Packet data into the fields
func (pk Packet) Scan(fields ...FieldDecoder) error {
	return ScanFields(bytes.NewReader(pk.Data), fields...)
}

// Marshal frames the packet: length prefix, id and data
func (pk Packet) Marshal() []byte {
	data := make([]byte, 0, len(pk.Data)+6)
	data = append(data, VarInt(int32(len(pk.Data)+1)).Encode()...)
	data = append(data, pk.ID)
	return append(data, pk.Data...)
}

// ScanFields decodes a byte stream into fields
func ScanFields(r DecodeReader, fields ...FieldDecoder) error {
	for _, field := range fields {
		if err := field.Decode(r); err != nil {
			return err
		}
	}
	return nil
}

// MarshalPacket transforms an ID and Fields into a Packet
func MarshalPacket(ID byte, fields ...FieldEncoder) Packet {
	var pkt Packet
	pkt.ID = ID

	for _, v := range fields {
		pkt.Data = append(pkt.Data, v.Encode()...)
	}

	return pkt
}

// ReadPacketBytes decodes a byte stream and cuts the first Packet as a byte array out
func ReadPacketBytes(r DecodeReader) ([]byte, error) {
	var packetLength VarInt
	if err := packetLength.Decode(r); err != nil {
		return nil, err
	}

	if packetLength < 1 {
		return nil, fmt.Errorf("packet length too short")
	}
	if int(packetLength) > MaxPacketSize {
		return nil, ErrPacketTooBig
	}

	data := make([]byte, packetLength)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("reading the content of the packet failed: %w", err)
	}

	return data, nil
}

// ReadPacket reads the next uncompressed packet from the stream
func ReadPacket(r DecodeReader) (Packet, error) {
	data, err := ReadPacketBytes(r)
	if err != nil {
		return Packet{}, err
	}

	return Packet{
		ID:   data[0],
		Data: data[1:],
	}, nil
}
