package mc

import (
	"bufio"
	"net"
)

// McConn is a blocking packet reader/writer on top of a plain connection.
// It is used while a connection is still in the handshake and login states.
type McConn struct {
	net.Conn
	reader *bufio.Reader
}

func NewMcConn(conn net.Conn) *McConn {
	return &McConn{
		Conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

func (conn *McConn) ReadPacket() (Packet, error) {
	return ReadPacket(conn.reader)
}

func (conn *McConn) WritePacket(p Packet) error {
	_, err := conn.Conn.Write(p.Marshal())
	return err
}

func (conn *McConn) WriteMcPacket(s McPacket) error {
	return conn.WritePacket(s.Marshal())
}

// Reader hands out the buffered reader, bytes that were read ahead of the
// last packet are still in there.
func (conn *McConn) Reader() *bufio.Reader {
	return conn.reader
}
