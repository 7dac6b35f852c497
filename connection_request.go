package limbo

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
)

// backendLoginTimeout bounds how long a backend may take to finish the login
var backendLoginTimeout = 5 * time.Second

const backendUnreachableReason = "Could not connect you to the server"

type connectionRequest struct {
	player *ProxyPlayer
	target core.Server
}

func (r *connectionRequest) Target() core.Server {
	return r.target
}

func (r *connectionRequest) FireAndForget() {
	go r.connect()
}

func (r *connectionRequest) connect() {
	conn := r.player.conn
	serverConn, err := r.target.CreateConn(r.player.requestData())
	if err != nil {
		r.fail(err)
		return
	}
	reader := bufio.NewReader(serverConn)
	success, err := backendLogin(serverConn, reader)
	if err != nil {
		serverConn.Close()
		r.fail(err)
		return
	}
	connectionRequests.WithLabelValues("success").Inc()

	// the client only ever gets one login success
	forwardSuccess := r.player.claimLoginSuccess()
	conn.Execute(func() {
		if forwardSuccess {
			conn.writeNow(success)
		}
		conn.SetState(core.PlayState)
		conn.attach(serverConn, reader)
	})
	conn.OnClose(func() {
		serverConn.Close()
	})
	log.Printf("%s connected to %s", r.player.Name(), r.target.Name())
}

func (r *connectionRequest) fail(err error) {
	connectionRequests.WithLabelValues("failed").Inc()
	log.Printf("connecting %s to %s: %v", r.player.Name(), r.target.Name(), err)
	conn := r.player.conn
	// a client that never got its login success is still in the login state
	if r.player.claimLoginSuccess() {
		conn.CloseWith(mc.ClientBoundDisconnect{Reason: mc.TextComponent(backendUnreachableReason)}.Marshal())
		return
	}
	pk, err := mc.Encode(conn.Protocol(), mc.PlayDisconnect{Reason: mc.TextComponent(backendUnreachableReason)})
	if err != nil {
		conn.close()
		return
	}
	conn.CloseWith(pk)
}

// backendLogin reads the backend's answers to the login start until it
// accepts the player. Only offline mode backends without compression can be
// used, everything else is refused.
func backendLogin(conn net.Conn, reader *bufio.Reader) (mc.Packet, error) {
	conn.SetDeadline(time.Now().Add(backendLoginTimeout))
	defer conn.SetDeadline(time.Time{})

	for {
		pk, err := mc.ReadPacket(reader)
		if err != nil {
			return pk, err
		}
		switch pk.ID {
		case mc.ClientBoundLoginSuccessPacketID:
			return pk, nil
		case mc.ClientBoundLoginDisconnectPacketID:
			disconnect, err := mc.UnmarshalClientDisconnect(pk)
			if err != nil {
				return pk, fmt.Errorf("%w: %v", core.ErrBackendLogin, err)
			}
			return pk, fmt.Errorf("%w: %s", core.ErrBackendLogin, mc.PlainText(disconnect.Reason))
		case mc.ClientBoundEncryptionRequestPacketID:
			return pk, fmt.Errorf("%w: backend is in online mode", core.ErrBackendLogin)
		case mc.ClientBoundSetCompressionPacketID:
			return pk, fmt.Errorf("%w: backend wants compression", core.ErrBackendLogin)
		case mc.ClientBoundLoginPluginRequestPacketID:
			request, err := mc.UnmarshalLoginPluginRequest(pk)
			if err != nil {
				return pk, err
			}
			response := mc.LoginPluginResponse{MessageID: request.MessageID}.Marshal()
			if _, err := conn.Write(response.Marshal()); err != nil {
				return pk, err
			}
		default:
			return pk, mc.ErrInvalidPacketID
		}
	}
}
