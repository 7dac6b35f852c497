package core_test

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/realDragonium/limbo/core"
)

type namedServer string

func (s namedServer) Name() string {
	return string(s)
}

func (s namedServer) State() core.ServerState {
	return core.Unknown
}

func (s namedServer) CreateConn(req core.RequestData) (net.Conn, error) {
	return nil, errors.New("not dialable")
}

func TestServerCatalog_Find(t *testing.T) {
	catalog := core.NewServerCatalog(namedServer("Survival"), namedServer("creative"))

	tt := []struct {
		name   string
		lookup string
		want   string
		err    error
	}{
		{name: "exact", lookup: "creative", want: "creative"},
		{name: "case insensitive", lookup: "survival", want: "Survival"},
		{name: "unknown", lookup: "skyblock", err: core.ErrNoServerFound},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			server, err := catalog.Find(tc.lookup)
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected error %v but got: %v", tc.err, err)
			}
			if tc.err != nil {
				return
			}
			if server.Name() != tc.want {
				t.Errorf("expected %s but got %s", tc.want, server.Name())
			}
		})
	}
}

func TestInvalidInputError(t *testing.T) {
	err := fmt.Errorf("showing image: %w", core.NewInvalidInput("map id %d is negative", -1))

	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("expected %v to match %v", err, core.ErrInvalidInput)
	}
	var invalid *core.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected an InvalidInputError in %v", err)
	}
	if invalid.Reason != "map id -1 is negative" {
		t.Errorf("got reason: %q", invalid.Reason)
	}
	if err.Error() != "showing image: invalid input: map id -1 is negative" {
		t.Errorf("got message: %q", err.Error())
	}
}

func TestStateStrings(t *testing.T) {
	if core.Online.String() != "Online" || core.Offline.String() != "Offline" {
		t.Error("server states should print their name")
	}
	if core.LimboState.String() != "limbo" || core.LoginState.String() != "login" {
		t.Error("connection states should print their name")
	}
}
