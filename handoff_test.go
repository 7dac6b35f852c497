package limbo_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
)

func TestPlayer_Disconnect(t *testing.T) {
	t.Run("goes back to the previous server", func(t *testing.T) {
		previous := fakeServer{name: "survival", state: core.Online}
		setup := newTestPlayer(mc.V1_17, nil, previous)

		if err := setup.player.Disconnect(); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{playStateEvent, requestEvent}, setup.conn.Events()); diff != "" {
			t.Errorf("events mismatch (-want +got):\n%s", diff)
		}
		requests := setup.proxy.Requests()
		if len(requests) != 1 || requests[0].Name() != "survival" {
			t.Errorf("expected a single request to survival but got: %v", requests)
		}
		if setup.handler.Disconnects() != 1 {
			t.Errorf("expected the handler to be told once but got %d", setup.handler.Disconnects())
		}
		if setup.player.InLimbo() {
			t.Error("player should have left the limbo")
		}
	})

	t.Run("second call has no effect", func(t *testing.T) {
		previous := fakeServer{name: "survival", state: core.Online}
		setup := newTestPlayer(mc.V1_17, nil, previous)

		if err := setup.player.Disconnect(); err != nil {
			t.Fatal(err)
		}
		err := setup.player.Disconnect()
		if !errors.Is(err, core.ErrStaleSession) {
			t.Errorf("expected %v but got: %v", core.ErrStaleSession, err)
		}
		err = setup.player.DisconnectTo(fakeServer{name: "other"})
		if !errors.Is(err, core.ErrStaleSession) {
			t.Errorf("expected %v but got: %v", core.ErrStaleSession, err)
		}
		if n := len(setup.proxy.Requests()); n != 1 {
			t.Errorf("expected 1 connection request but got %d", n)
		}
		if setup.handler.Disconnects() != 1 {
			t.Errorf("expected the handler to be told once but got %d", setup.handler.Disconnects())
		}
	})

	t.Run("nowhere to go closes the connection", func(t *testing.T) {
		setup := newTestPlayer(mc.V1_17, nil, nil)

		if err := setup.player.Disconnect(); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{playStateEvent, closeEvent}, setup.conn.Events()); diff != "" {
			t.Errorf("events mismatch (-want +got):\n%s", diff)
		}
		packets := setup.conn.Packets()
		id, _ := mc.PacketID(mc.V1_17, mc.DisconnectPacket)
		if len(packets) != 1 || packets[0].ID != id {
			t.Errorf("expected a play disconnect but got: %v", packets)
		}
		if n := len(setup.proxy.Requests()); n != 0 {
			t.Errorf("expected no connection requests but got %d", n)
		}
	})

	t.Run("queued player moves to the next stage", func(t *testing.T) {
		queue := &fakeQueue{queued: true}
		previous := fakeServer{name: "survival", state: core.Online}
		setup := newTestPlayer(mc.V1_17, queue, previous)

		if err := setup.player.Disconnect(); err != nil {
			t.Fatal(err)
		}
		if queue.next != 1 {
			t.Errorf("expected the queue to advance once but got %d", queue.next)
		}
		if n := len(setup.proxy.Requests()); n != 0 {
			t.Errorf("expected no connection requests but got %d", n)
		}
		if events := setup.conn.Events(); len(events) != 0 {
			t.Errorf("expected the queue to own the connection but got: %v", events)
		}
	})

	t.Run("player that left the queue goes back", func(t *testing.T) {
		queue := &fakeQueue{queued: false}
		previous := fakeServer{name: "survival", state: core.Online}
		setup := newTestPlayer(mc.V1_17, queue, previous)

		if err := setup.player.Disconnect(); err != nil {
			t.Fatal(err)
		}
		if queue.next != 0 {
			t.Errorf("didnt expect the queue to advance but got %d", queue.next)
		}
		if n := len(setup.proxy.Requests()); n != 1 {
			t.Errorf("expected 1 connection request but got %d", n)
		}
	})
}

func TestPlayer_DisconnectTo(t *testing.T) {
	t.Run("sends the player to the server", func(t *testing.T) {
		previous := fakeServer{name: "survival", state: core.Online}
		setup := newTestPlayer(mc.V1_17, nil, previous)
		target := fakeServer{name: "creative", state: core.Online}

		if err := setup.player.DisconnectTo(target); err != nil {
			t.Fatal(err)
		}
		requests := setup.proxy.Requests()
		if len(requests) != 1 || requests[0].Name() != "creative" {
			t.Errorf("expected a single request to creative but got: %v", requests)
		}
		if diff := cmp.Diff([]string{playStateEvent, requestEvent}, setup.conn.Events()); diff != "" {
			t.Errorf("events mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("queued player keeps going through the queue", func(t *testing.T) {
		queue := &fakeQueue{queued: true}
		setup := newTestPlayer(mc.V1_17, queue, nil)
		target := fakeServer{name: "creative", state: core.Online}

		if err := setup.player.DisconnectTo(target); err != nil {
			t.Fatal(err)
		}
		if queue.nextServer != target {
			t.Errorf("expected %v as next server but got: %v", target, queue.nextServer)
		}
		if queue.next != 1 {
			t.Errorf("expected the queue to advance once but got %d", queue.next)
		}
		if n := len(setup.proxy.Requests()); n != 0 {
			t.Errorf("expected no connection requests but got %d", n)
		}
	})

	t.Run("nil server behaves like disconnect", func(t *testing.T) {
		previous := fakeServer{name: "survival", state: core.Online}
		setup := newTestPlayer(mc.V1_17, nil, previous)

		if err := setup.player.DisconnectTo(nil); err != nil {
			t.Fatal(err)
		}
		requests := setup.proxy.Requests()
		if len(requests) != 1 || requests[0].Name() != "survival" {
			t.Errorf("expected a single request to survival but got: %v", requests)
		}
	})
}

func TestPlayer_StaleSession(t *testing.T) {
	previous := fakeServer{name: "survival", state: core.Online}
	setup := newTestPlayer(mc.V1_17, nil, previous)
	setup.handler.ping = 42
	if setup.player.Ping() != 42 {
		t.Errorf("expected ping 42 but got %v", setup.player.Ping())
	}
	if setup.player.PreviousServer() != previous {
		t.Errorf("expected previous server %v but got %v", previous, setup.player.PreviousServer())
	}

	if err := setup.player.Disconnect(); err != nil {
		t.Fatal(err)
	}
	eventsAfterDisconnect := len(setup.conn.Events())

	ops := map[string]func() error{
		"teleport": func() error { return setup.player.Teleport(0, 0, 0, 0, 0) },
		"gamemode": func() error { return setup.player.SetGameMode(mc.Creative) },
		"title":    func() error { return setup.player.SetTitle("a", "b", 1, 1, 1) },
		"falling":  func() error { return setup.player.DisableFalling() },
		"slot":     func() error { return setup.player.SetInventory(36, mc.ItemStack{}) },
		"image":    func() error { return setup.player.DisplayImage(0, filledImage(128, 128), true, false) },
		"kick":     func() error { return setup.player.Kick("bye") },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, core.ErrStaleSession) {
			t.Errorf("%s: expected %v but got: %v", name, core.ErrStaleSession, err)
		}
	}
	if n := len(setup.conn.Events()); n != eventsAfterDisconnect {
		t.Errorf("stale calls wrote %d events", n-eventsAfterDisconnect)
	}
	if setup.player.Ping() != 0 {
		t.Errorf("expected no ping after leaving but got %v", setup.player.Ping())
	}
	if setup.player.PreviousServer() != nil {
		t.Errorf("expected no previous server after leaving but got %v", setup.player.PreviousServer())
	}
}

func TestPlayer_Kick(t *testing.T) {
	setup := newTestPlayer(mc.V1_12_2, nil, fakeServer{name: "survival"})

	if err := setup.player.Kick("go away"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{closeEvent}, setup.conn.Events()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if setup.handler.Disconnects() != 1 {
		t.Errorf("expected the handler to be told once but got %d", setup.handler.Disconnects())
	}
	if n := len(setup.proxy.Requests()); n != 0 {
		t.Errorf("a kicked player should not be sent anywhere, got %d requests", n)
	}
	if err := setup.player.Disconnect(); !errors.Is(err, core.ErrStaleSession) {
		t.Errorf("expected %v but got: %v", core.ErrStaleSession, err)
	}
}

func TestPlayer_KickKeepsSessionWhenDisconnectCannotBeEncoded(t *testing.T) {
	setup := newTestPlayer(mc.ProtocolVersion(3), nil, fakeServer{name: "survival"})

	err := setup.player.Kick("go away")
	if !errors.Is(err, mc.ErrUnsupportedPacket) {
		t.Fatalf("expected %v but got: %v", mc.ErrUnsupportedPacket, err)
	}
	if n := len(setup.conn.Events()); n != 0 {
		t.Errorf("expected nothing written but got %v", setup.conn.Events())
	}
	if setup.handler.Disconnects() != 0 {
		t.Errorf("handler should not be told about a failed kick")
	}
	if !setup.player.InLimbo() {
		t.Fatal("expected the player to still be in limbo")
	}
	if err := setup.player.Disconnect(); err != nil {
		t.Fatalf("didnt expect an error but got: %v", err)
	}
	if n := len(setup.proxy.Requests()); n != 1 {
		t.Errorf("expected one request to the previous server but got %d", n)
	}
}
