package module_test

import (
	"bufio"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/pires/go-proxyproto"
	"github.com/realDragonium/limbo/module"
)

var ErrEmptyConnCreator = errors.New("this conn creator doesnt provide connections")

func TestProxyProtocolConn(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer listener.Close()

	headerCh := make(chan *proxyproto.Header, 1)
	errCh := make(chan error, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			errCh <- err
			return
		}
		defer conn.Close()
		header, err := proxyproto.Read(bufio.NewReader(conn))
		if err != nil {
			errCh <- err
			return
		}
		headerCh <- header
	}()

	dialer := net.Dialer{Timeout: time.Second}
	creator := module.BasicConnCreator(listener.Addr().String(), dialer)
	clientAddr := &net.TCPAddr{IP: net.IPv4(1, 2, 3, 4), Port: 5678}
	conn, err := module.ProxyProtocolConn(creator, clientAddr)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	select {
	case header := <-headerCh:
		if header.SourceAddr.String() != clientAddr.String() {
			t.Errorf("got source: %v; want: %v", header.SourceAddr, clientAddr)
		}
		if header.Version != 2 {
			t.Errorf("got version: %d; want: 2", header.Version)
		}
	case err := <-errCh:
		t.Fatal(err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the header")
	}
}

func TestProxyProtocolConn_DialError(t *testing.T) {
	creator := module.ConnectionCreatorFunc(func() (net.Conn, error) {
		return nil, ErrEmptyConnCreator
	})
	if _, err := module.ProxyProtocolConn(creator, &net.TCPAddr{}); err != ErrEmptyConnCreator {
		t.Errorf("got: %v; want: %v", err, ErrEmptyConnCreator)
	}
}
