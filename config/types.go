package config

import (
	"crypto/ecdsa"
	"time"

	"github.com/realDragonium/limbo/mc"
)

// LimboConfig is the main config file
type LimboConfig struct {
	FilePath            string          `json:"-"`
	ListenTo            string          `json:"listenTo"`
	DefaultStatus       mc.SimpleStatus `json:"defaultStatus"`
	AcceptProxyProtocol bool            `json:"acceptProxyProtocol"`
	UsePrometheus       bool            `json:"enablePrometheus"`
	PrometheusBind      string          `json:"prometheusBind"`
	IODeadline          string          `json:"ioDeadline"`
	KeepAliveInterval   string          `json:"keepAliveInterval"`

	// DefaultBackend is where players go when there is no login queue or
	// once they finished it.
	DefaultBackend string `json:"defaultBackend"`
	// Fallback is the limbo players wait in while the default backend is offline
	Fallback   string          `json:"fallbackLimbo"`
	Limbos     []WorldConfig   `json:"limbos"`
	Backends   []BackendConfig `json:"backends"`
	LoginQueue []StageConfig   `json:"loginQueue"`

	RateLimit           int    `json:"rateLimit"`
	RateDuration        string `json:"rateCooldown"`
	RateBanListCooldown string `json:"banListCooldown"`
	RateUnverify        string `json:"unverifyCooldown"`
	RateDisconMsg       string `json:"reconnectMsg"`

	EnableHotSwap bool   `json:"enableHotSwap"`
	PidFile       string `json:"pidFile"`
}

func DefaultLimboConfig() LimboConfig {
	return LimboConfig{
		ListenTo: ":25565",
		DefaultStatus: mc.SimpleStatus{
			Name:        "Limbo",
			Description: "Waiting for the server",
			MaxPlayers:  100,
		},
		UsePrometheus:       true,
		PrometheusBind:      ":9100",
		IODeadline:          "1s",
		KeepAliveInterval:   "10s",
		RateLimit:           0,
		RateDuration:        "1s",
		RateBanListCooldown: "5m",
		RateUnverify:        "10s",
		RateDisconMsg:       "Please reconnect to verify yourself",
		EnableHotSwap:       true,
		PidFile:             "/var/run/limbo.pid",
	}
}

// WorldConfig describes one virtual server
type WorldConfig struct {
	Name         string  `json:"name"`
	Brand        string  `json:"brand"`
	Dimension    string  `json:"dimension"`
	GameMode     string  `json:"gameMode"`
	SpawnX       float64 `json:"spawnX"`
	SpawnY       float64 `json:"spawnY"`
	SpawnZ       float64 `json:"spawnZ"`
	Yaw          float32 `json:"yaw"`
	Pitch        float32 `json:"pitch"`
	ViewDistance int     `json:"viewDistance"`
}

func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Brand:        "limbo",
		Dimension:    "overworld",
		GameMode:     "adventure",
		SpawnY:       100,
		ViewDistance: 2,
	}
}

type BackendConfig struct {
	Name              string `json:"name"`
	ProxyTo           string `json:"proxyTo"`
	ProxyBind         string `json:"proxyBind"`
	DialTimeout       string `json:"dialTimeout"`
	OldRealIP         bool   `json:"useRealIPv2.4"`
	NewRealIP         bool   `json:"useRealIPv2.5"`
	RealIPKey         string `json:"realIPKeyPath"`
	SendProxyProtocol bool   `json:"sendProxyProtocol"`

	StateUpdateCooldown string `json:"stateUpdateCooldown"`
	CacheStatus         bool   `json:"cacheStatus"`
	CacheUpdateCooldown string `json:"cacheUpdateCooldown"`
	ValidProtocol       int    `json:"validProtocol"`
}

func DefaultBackendConfig() BackendConfig {
	return BackendConfig{
		DialTimeout:         "1s",
		StateUpdateCooldown: "1s",
		CacheUpdateCooldown: "1s",
		ValidProtocol:       int(mc.Maximum),
	}
}

// StageConfig is one step of the login queue
type StageConfig struct {
	Limbo    string `json:"limbo"`
	Handler  string `json:"handler"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
	MapID    int    `json:"mapId"`
	Duration string `json:"duration"`
	// Backend is the server the waiting room waits for
	Backend string `json:"backend"`
}

const (
	WelcomeHandler     = "welcome"
	WaitingRoomHandler = "waitingRoom"
)

// World is the runtime form of WorldConfig
type World struct {
	Name         string
	Brand        string
	Dimension    mc.Dimension
	GameMode     mc.GameMode
	SpawnX       float64
	SpawnY       float64
	SpawnZ       float64
	Yaw          float32
	Pitch        float32
	ViewDistance int
	KeepAlive    time.Duration
}

type Backend struct {
	Name                string
	ProxyTo             string
	ProxyBind           string
	DialTimeout         time.Duration
	SendProxyProtocol   bool
	OldRealIP           bool
	NewRealIP           bool
	RealIPKey           *ecdsa.PrivateKey
	StateUpdateCooldown time.Duration
	CacheStatus         bool
	CacheUpdateCooldown time.Duration
	ValidProtocol       mc.ProtocolVersion
}

type Stage struct {
	Limbo    string
	Handler  string
	Title    string
	Subtitle string
	Image    string
	MapID    int
	Duration time.Duration
	Backend  string
}

// Proxy holds the settings of the frontend
type Proxy struct {
	DefaultStatus     mc.SimpleStatus
	IOTimeout         time.Duration
	RateLimit         int
	RateCooldown      time.Duration
	RateClearTime     time.Duration
	RateUnverify      time.Duration
	RateDisconnectMsg string
}
