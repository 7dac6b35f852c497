package module_test

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/module"
)

func TestAlwaysAllowConnection(t *testing.T) {
	limiter := module.AlwaysAllowConnection{}
	if !limiter.Allow(core.RequestData{}) {
		t.Error("expected ok to be true but its false")
	}
}

// dont expect to need to generate more than 256 ip addresses
var counter = 0

func generateIPAddr() net.Addr {
	counter++
	return &net.TCPAddr{
		IP:   net.IPv4(1, 1, 1, byte(counter)),
		Port: 25565,
	}
}

func TestFilterIpFromAddr(t *testing.T) {
	tt := []struct {
		addr     net.Addr
		expected string
	}{
		{addr: &net.TCPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 1234}, expected: "10.0.0.1"},
		{addr: &net.TCPAddr{IP: net.ParseIP("::1"), Port: 1234}, expected: "::1"},
		{addr: &net.IPAddr{IP: net.IPv4(10, 0, 0, 2)}, expected: "10.0.0.2"},
	}
	for _, tc := range tt {
		if got := module.FilterIpFromAddr(tc.addr); got != tc.expected {
			t.Errorf("got: %v; want: %v", got, tc.expected)
		}
	}
}

func TestBotFilterConnLimiter(t *testing.T) {
	listClearTime := time.Minute
	unverifyCooldown := 10 * time.Second

	t.Run("testing rate limit border", func(t *testing.T) {
		tt := []struct {
			rateLimit int
			allowed   bool
		}{
			{rateLimit: 2, allowed: true},
			{rateLimit: 1, allowed: true},
			{rateLimit: 0, allowed: false},
		}
		for _, tc := range tt {
			name := fmt.Sprintf("allowed:%v ratelimit:%d", tc.allowed, tc.rateLimit)
			t.Run(name, func(t *testing.T) {
				connLimiter := module.NewBotFilterConnLimiter(tc.rateLimit, time.Second, listClearTime, unverifyCooldown)
				req := core.RequestData{
					Addr:     generateIPAddr(),
					Username: "steve",
				}
				if ok := connLimiter.Allow(req); ok != tc.allowed {
					t.Errorf("expected: %v, got: %v", tc.allowed, ok)
				}
			})
		}
	})

	t.Run("clears counter when cooldown is over", func(t *testing.T) {
		cooldown := time.Millisecond
		connLimiter := module.NewBotFilterConnLimiter(1, cooldown, listClearTime, 0)
		req := core.RequestData{
			Addr:     generateIPAddr(),
			Username: "steve",
		}
		connLimiter.Allow(req)
		time.Sleep(2 * cooldown)
		if !connLimiter.Allow(req) {
			t.Fatal("expected to be allowed but it was denied")
		}
	})

	t.Run("verifies by asking to reconnect", func(t *testing.T) {
		connLimiter := module.NewBotFilterConnLimiter(0, time.Minute, listClearTime, unverifyCooldown)
		req := core.RequestData{
			Addr:     generateIPAddr(),
			Username: "steve",
		}
		if connLimiter.Allow(req) {
			t.Fatal("first attempt while limiting should be denied")
		}
		if !connLimiter.Allow(req) {
			t.Fatal("reconnecting with the same name should be allowed")
		}
	})

	t.Run("blacklists ip switching names", func(t *testing.T) {
		connLimiter := module.NewBotFilterConnLimiter(0, time.Minute, listClearTime, unverifyCooldown)
		addr := generateIPAddr()
		connLimiter.Allow(core.RequestData{Addr: addr, Username: "steve"})
		if connLimiter.Allow(core.RequestData{Addr: addr, Username: "alex"}) {
			t.Fatal("switching names should be denied")
		}
		if connLimiter.Allow(core.RequestData{Addr: addr, Username: "steve"}) {
			t.Fatal("a blacklisted ip should be denied")
		}
	})
}
