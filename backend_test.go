package limbo

import (
	"bufio"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/realDragonium/limbo/config"
	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
)

func testBackendConfig(proxyTo string) config.Backend {
	return config.Backend{
		Name:                "survival",
		ProxyTo:             proxyTo,
		DialTimeout:         time.Second,
		StateUpdateCooldown: time.Minute,
		ValidProtocol:       mc.Maximum,
	}
}

func TestBackend_CreateConn(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	packetCh := make(chan []mc.Packet, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		var packets []mc.Packet
		for i := 0; i < 2; i++ {
			pk, err := mc.ReadPacket(r)
			if err != nil {
				return
			}
			packets = append(packets, pk)
		}
		packetCh <- packets
	}()

	cfg := testBackendConfig(ln.Addr().String())
	cfg.OldRealIP = true
	backend := NewBackend(cfg)

	clientAddr := &net.TCPAddr{IP: net.ParseIP("203.0.113.7"), Port: 51234}
	conn, err := backend.CreateConn(core.RequestData{
		Handshake: mc.ServerBoundHandshake{
			ProtocolVersion: int(mc.V1_18),
			ServerAddress:   "play.example.com",
			ServerPort:      25565,
			NextState:       mc.StatusState,
		},
		Addr:     clientAddr,
		Username: "notch",
	})
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	var packets []mc.Packet
	select {
	case packets = <-packetCh:
	case <-time.After(defaultChTimeout):
		t.Fatal("backend did not receive the login")
	}

	handshake, err := mc.UnmarshalServerBoundHandshake(packets[0])
	if err != nil {
		t.Fatal(err)
	}
	if !handshake.IsLoginRequest() {
		t.Errorf("expected a login handshake but got next state %d", handshake.NextState)
	}
	if !handshake.IsRealIPAddress() {
		t.Errorf("expected a realip address but got %q", handshake.ServerAddress)
	}
	if !strings.Contains(handshake.ServerAddress, "203.0.113.7") {
		t.Errorf("expected the client address in %q", handshake.ServerAddress)
	}
	loginStart, err := mc.UnmarshalServerBoundLoginStart(packets[1])
	if err != nil {
		t.Fatal(err)
	}
	if loginStart.Name != "notch" {
		t.Errorf("expected login start for notch but got %q", loginStart.Name)
	}
}

func TestBackend_State(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	addr := ln.Addr().String()

	online := NewBackend(testBackendConfig(addr))
	if state := online.State(); state != core.Online {
		t.Errorf("expected %v but got %v", core.Online, state)
	}

	ln.Close()
	offline := NewBackend(testBackendConfig(addr))
	if state := offline.State(); state != core.Offline {
		t.Errorf("expected %v but got %v", core.Offline, state)
	}
	if _, ok := offline.Status(); ok {
		t.Error("a backend without status caching should not have a status")
	}
}

func TestBackendLogin(t *testing.T) {
	success := mc.LoginSuccess{UUID: mc.OfflineUUID("notch"), Username: "notch"}.Encode(mc.V1_17)
	pluginRequest := mc.MarshalPacket(mc.ClientBoundLoginPluginRequestPacketID,
		mc.VarInt(7), mc.String("velocity:player_info"), mc.RawBytes{1})

	tt := []struct {
		name     string
		packets  []mc.Packet
		err      error
		response bool
	}{
		{
			name:    "login success",
			packets: []mc.Packet{success},
		},
		{
			name:    "backend disconnects",
			packets: []mc.Packet{mc.ClientBoundDisconnect{Reason: mc.TextComponent("whitelisted")}.Marshal()},
			err:     core.ErrBackendLogin,
		},
		{
			name:    "online mode backend",
			packets: []mc.Packet{mc.MarshalPacket(mc.ClientBoundEncryptionRequestPacketID, mc.String(""))},
			err:     core.ErrBackendLogin,
		},
		{
			name:    "compression",
			packets: []mc.Packet{mc.MarshalPacket(mc.ClientBoundSetCompressionPacketID, mc.VarInt(256))},
			err:     core.ErrBackendLogin,
		},
		{
			name:     "plugin request is refused",
			packets:  []mc.Packet{pluginRequest, success},
			response: true,
		},
		{
			name:    "unknown packet",
			packets: []mc.Packet{mc.MarshalPacket(0x2A)},
			err:     mc.ErrInvalidPacketID,
		},
	}

	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			proxySide, backendSide := net.Pipe()
			defer proxySide.Close()
			defer backendSide.Close()

			responseCh := make(chan mc.Packet, 1)
			go func() {
				r := bufio.NewReader(backendSide)
				for i, pk := range tc.packets {
					if _, err := backendSide.Write(pk.Marshal()); err != nil {
						return
					}
					if i == 0 && tc.response {
						response, err := mc.ReadPacket(r)
						if err != nil {
							return
						}
						responseCh <- response
					}
				}
			}()

			pk, err := backendLogin(proxySide, bufio.NewReader(proxySide))
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected error %v but got: %v", tc.err, err)
			}
			if tc.err == nil && pk.ID != mc.ClientBoundLoginSuccessPacketID {
				t.Errorf("expected the login success to be returned but got %#x", pk.ID)
			}
			if !tc.response {
				return
			}
			select {
			case response := <-responseCh:
				var messageID mc.VarInt
				var understood mc.Boolean
				if err := response.Scan(&messageID, &understood); err != nil {
					t.Fatal(err)
				}
				if response.ID != mc.ServerBoundLoginPluginResponsePacketID || messageID != 7 || understood {
					t.Errorf("expected a not understood answer to message 7 but got %#x %d %v", response.ID, messageID, understood)
				}
			case <-time.After(defaultChTimeout):
				t.Fatal("plugin request was never answered")
			}
		})
	}
}

func TestBackendLogin_Timeout(t *testing.T) {
	old := backendLoginTimeout
	backendLoginTimeout = 10 * time.Millisecond
	defer func() {
		backendLoginTimeout = old
	}()

	proxySide, backendSide := net.Pipe()
	defer proxySide.Close()
	defer backendSide.Close()

	_, err := backendLogin(proxySide, bufio.NewReader(proxySide))
	if err == nil {
		t.Fatal("expected a silent backend to time out")
	}
	var netErr net.Error
	if !errors.As(err, &netErr) || !netErr.Timeout() {
		t.Errorf("expected a timeout error but got: %v", err)
	}
}
