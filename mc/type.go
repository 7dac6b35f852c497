package mc

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/google/uuid"
)

var ErrVarIntTooBig = errors.New("VarInt is too big")

// A Field is both FieldEncoder and FieldDecoder
type Field interface {
	FieldEncoder
	FieldDecoder
}

// A FieldEncoder can be encode as minecraft protocol used.
type FieldEncoder interface {
	Encode() []byte
}

// A FieldDecoder can Decode from minecraft protocol
type FieldDecoder interface {
	Decode(r DecodeReader) error
}

// DecodeReader is both io.Reader and io.ByteReader
type DecodeReader interface {
	io.ByteReader
	io.Reader
}

type (
	// Boolean is either false or true
	Boolean bool
	// Byte is signed 8-bit integer, two's complement
	Byte int8
	// UnsignedByte is unsigned 8-bit integer
	UnsignedByte uint8
	// Short is signed 16-bit integer, two's complement
	Short int16
	// UnsignedShort is unsigned 16-bit integer
	UnsignedShort uint16
	// Int is signed 32-bit integer, two's complement
	Int int32
	// Long is signed 64-bit integer, two's complement
	Long int64
	// Float is a single-precision 32-bit IEEE 754 floating point number
	Float float32
	// Double is a double-precision 64-bit IEEE 754 floating point number
	Double float64
	// String is sequence of Unicode scalar values
	String string
	// Chat is encoded as a String with max length of 32767.
	Chat = String
	// Identifier is encoded as a String with max length of 32767.
	Identifier = String
	// VarInt is variable-length data encoding a two's complement signed 32-bit integer
	VarInt int32
	// UUID is encoded as an unsigned 128-bit integer
	UUID uuid.UUID
	// ByteArray is a VarInt length prefixed sequence of bytes
	ByteArray []byte
	// RawBytes is written as is and consumes the rest of the packet when read
	RawBytes []byte
)

// ReadNBytes read N bytes from bytes.Reader
func ReadNBytes(r DecodeReader, n int) ([]byte, error) {
	bb := make([]byte, n)
	if _, err := io.ReadFull(r, bb); err != nil {
		return nil, err
	}
	return bb, nil
}

// Encode a Boolean
func (b Boolean) Encode() []byte {
	if b {
		return []byte{0x01}
	}
	return []byte{0x00}
}

// Decode a Boolean
func (b *Boolean) Decode(r DecodeReader) error {
	v, err := r.ReadByte()
	if err != nil {
		return err
	}
	*b = v != 0
	return nil
}

// Encode a String
func (s String) Encode() []byte {
	byteString := []byte(s)
	var bb []byte
	bb = append(bb, VarInt(len(byteString)).Encode()...) // len
	bb = append(bb, byteString...)                       // data
	return bb
}

// Decode a String
func (s *String) Decode(r DecodeReader) error {
	var l VarInt // String length
	if err := l.Decode(r); err != nil {
		return err
	}
	if l < 0 || int(l) > MaxPacketSize {
		return ErrPacketTooBig
	}

	bb, err := ReadNBytes(r, int(l))
	if err != nil {
		return err
	}

	*s = String(bb)
	return nil
}

// Encode a Byte
func (b Byte) Encode() []byte {
	return []byte{byte(b)}
}

// Decode a Byte
func (b *Byte) Decode(r DecodeReader) error {
	v, err := r.ReadByte()
	if err != nil {
		return err
	}
	*b = Byte(v)
	return nil
}

// Encode a UnsignedByte
func (b UnsignedByte) Encode() []byte {
	return []byte{byte(b)}
}

// Decode a UnsignedByte
func (b *UnsignedByte) Decode(r DecodeReader) error {
	v, err := r.ReadByte()
	if err != nil {
		return err
	}
	*b = UnsignedByte(v)
	return nil
}

// Encode a Short
func (s Short) Encode() []byte {
	return UnsignedShort(s).Encode()
}

// Decode a Short
func (s *Short) Decode(r DecodeReader) error {
	var us UnsignedShort
	if err := us.Decode(r); err != nil {
		return err
	}
	*s = Short(us)
	return nil
}

// Encode a Unsigned Short
func (us UnsignedShort) Encode() []byte {
	n := uint16(us)
	return []byte{
		byte(n >> 8),
		byte(n),
	}
}

// Decode a UnsignedShort
func (us *UnsignedShort) Decode(r DecodeReader) error {
	bb, err := ReadNBytes(r, 2)
	if err != nil {
		return err
	}

	*us = UnsignedShort(binary.BigEndian.Uint16(bb))
	return nil
}

// Encode a Int
func (i Int) Encode() []byte {
	bb := make([]byte, 4)
	binary.BigEndian.PutUint32(bb, uint32(i))
	return bb
}

// Decode a Int
func (i *Int) Decode(r DecodeReader) error {
	bb, err := ReadNBytes(r, 4)
	if err != nil {
		return err
	}
	*i = Int(binary.BigEndian.Uint32(bb))
	return nil
}

// Encode a Long
func (l Long) Encode() []byte {
	bb := make([]byte, 8)
	binary.BigEndian.PutUint64(bb, uint64(l))
	return bb
}

// Decode a Long
func (l *Long) Decode(r DecodeReader) error {
	bb, err := ReadNBytes(r, 8)
	if err != nil {
		return err
	}
	*l = Long(binary.BigEndian.Uint64(bb))
	return nil
}

// Encode a Float
func (f Float) Encode() []byte {
	return Int(math.Float32bits(float32(f))).Encode()
}

// Decode a Float
func (f *Float) Decode(r DecodeReader) error {
	var i Int
	if err := i.Decode(r); err != nil {
		return err
	}
	*f = Float(math.Float32frombits(uint32(i)))
	return nil
}

// Encode a Double
func (d Double) Encode() []byte {
	return Long(math.Float64bits(float64(d))).Encode()
}

// Decode a Double
func (d *Double) Decode(r DecodeReader) error {
	var l Long
	if err := l.Decode(r); err != nil {
		return err
	}
	*d = Double(math.Float64frombits(uint64(l)))
	return nil
}

// Encode a VarInt
func (v VarInt) Encode() []byte {
	num := uint32(v)
	var bb []byte
	for {
		b := num & 0x7F
		num >>= 7
		if num != 0 {
			b |= 0x80
		}
		bb = append(bb, byte(b))
		if num == 0 {
			break
		}
	}
	return bb
}

// Decode a VarInt
func (v *VarInt) Decode(r DecodeReader) error {
	var n uint32
	for i := 0; ; i++ {
		if i >= 5 {
			return ErrVarIntTooBig
		}
		sec, err := r.ReadByte()
		if err != nil {
			return err
		}

		n |= uint32(sec&0x7F) << uint32(7*i)

		if sec&0x80 == 0 {
			break
		}
	}

	*v = VarInt(n)
	return nil
}

// Encode a UUID
func (u UUID) Encode() []byte {
	bb := make([]byte, 16)
	copy(bb, u[:])
	return bb
}

// Decode a UUID
func (u *UUID) Decode(r DecodeReader) error {
	bb, err := ReadNBytes(r, 16)
	if err != nil {
		return err
	}
	copy(u[:], bb)
	return nil
}

// Encode a ByteArray
func (b ByteArray) Encode() []byte {
	bb := VarInt(len(b)).Encode()
	return append(bb, b...)
}

// Decode a ByteArray
func (b *ByteArray) Decode(r DecodeReader) error {
	var l VarInt
	if err := l.Decode(r); err != nil {
		return err
	}
	if l < 0 || int(l) > MaxPacketSize {
		return ErrPacketTooBig
	}
	bb, err := ReadNBytes(r, int(l))
	if err != nil {
		return err
	}
	*b = bb
	return nil
}

// Encode RawBytes
func (b RawBytes) Encode() []byte {
	return b
}

// Decode RawBytes
func (b *RawBytes) Decode(r DecodeReader) error {
	bb, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	*b = bb
	return nil
}
