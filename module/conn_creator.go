package module

import (
	"net"

	"github.com/pires/go-proxyproto"
)

type ConnectionCreator interface {
	Conn() func() (net.Conn, error)
}

type ConnectionCreatorFunc func() (net.Conn, error)

func (creator ConnectionCreatorFunc) Conn() func() (net.Conn, error) {
	return creator
}

func BasicConnCreator(proxyTo string, dialer net.Dialer) ConnectionCreatorFunc {
	return func() (net.Conn, error) {
		return dialer.Dial("tcp", proxyTo)
	}
}

// ProxyProtocolConn opens a connection and announces clientAddr as the source
// of it with a PROXY protocol v2 header.
func ProxyProtocolConn(creator ConnectionCreator, clientAddr net.Addr) (net.Conn, error) {
	serverConn, err := creator.Conn()()
	if err != nil {
		return nil, err
	}
	header := &proxyproto.Header{
		Version:           2,
		Command:           proxyproto.PROXY,
		TransportProtocol: transportProtocol(clientAddr),
		SourceAddr:        clientAddr,
		DestinationAddr:   serverConn.RemoteAddr(),
	}
	if _, err = header.WriteTo(serverConn); err != nil {
		serverConn.Close()
		return nil, err
	}
	return serverConn, nil
}

func transportProtocol(addr net.Addr) proxyproto.AddressFamilyAndProtocol {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if ok && tcpAddr.IP.To4() == nil {
		return proxyproto.TCPv6
	}
	return proxyproto.TCPv4
}
