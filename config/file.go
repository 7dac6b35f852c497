package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/realDragonium/limbo/mc"
)

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return duration, nil
}

func FileToWorld(cfg WorldConfig, keepAlive time.Duration) (World, error) {
	dimension, err := mc.ParseDimension(cfg.Dimension)
	if err != nil {
		return World{}, err
	}
	gameMode, err := mc.ParseGameMode(cfg.GameMode)
	if err != nil {
		return World{}, err
	}
	return World{
		Name:         cfg.Name,
		Brand:        cfg.Brand,
		Dimension:    dimension,
		GameMode:     gameMode,
		SpawnX:       cfg.SpawnX,
		SpawnY:       cfg.SpawnY,
		SpawnZ:       cfg.SpawnZ,
		Yaw:          cfg.Yaw,
		Pitch:        cfg.Pitch,
		ViewDistance: cfg.ViewDistance,
		KeepAlive:    keepAlive,
	}, nil
}

// FileToBackend converts the file config, the realip key is read or
// generated when RealIP v2.5 is used.
func FileToBackend(cfg BackendConfig, baseDir string) (Backend, error) {
	dialTimeout, err := parseDuration("dialTimeout", cfg.DialTimeout)
	if err != nil {
		return Backend{}, err
	}
	stateCooldown, err := parseDuration("stateUpdateCooldown", cfg.StateUpdateCooldown)
	if err != nil {
		return Backend{}, err
	}
	cacheCooldown, err := parseDuration("cacheUpdateCooldown", cfg.CacheUpdateCooldown)
	if err != nil {
		return Backend{}, err
	}
	backend := Backend{
		Name:                cfg.Name,
		ProxyTo:             cfg.ProxyTo,
		ProxyBind:           cfg.ProxyBind,
		DialTimeout:         dialTimeout,
		SendProxyProtocol:   cfg.SendProxyProtocol,
		OldRealIP:           cfg.OldRealIP,
		NewRealIP:           cfg.NewRealIP,
		StateUpdateCooldown: stateCooldown,
		CacheStatus:         cfg.CacheStatus,
		CacheUpdateCooldown: cacheCooldown,
		ValidProtocol:       mc.ProtocolVersion(cfg.ValidProtocol),
	}
	if !cfg.NewRealIP {
		return backend, nil
	}

	keyPath := cfg.RealIPKey
	if keyPath == "" {
		keyPath = filepath.Join(baseDir, fmt.Sprintf("%s-private.key", cfg.Name))
	}
	key, err := ReadRealIPPrivateKey(keyPath)
	if errors.Is(err, os.ErrNotExist) {
		key, err = GenerateRealIPKey(keyPath)
	}
	if err != nil {
		return Backend{}, err
	}
	backend.RealIPKey = key
	return backend, nil
}

func FileToStage(cfg StageConfig) (Stage, error) {
	duration, err := parseDuration("duration", cfg.Duration)
	if err != nil {
		return Stage{}, err
	}
	return Stage{
		Limbo:    cfg.Limbo,
		Handler:  cfg.Handler,
		Title:    cfg.Title,
		Subtitle: cfg.Subtitle,
		Image:    cfg.Image,
		MapID:    cfg.MapID,
		Duration: duration,
		Backend:  cfg.Backend,
	}, nil
}

func FileToProxy(cfg LimboConfig) (Proxy, error) {
	ioTimeout, err := parseDuration("ioDeadline", cfg.IODeadline)
	if err != nil {
		return Proxy{}, err
	}
	if ioTimeout == 0 {
		ioTimeout = time.Second
	}
	cooldown, err := parseDuration("rateCooldown", cfg.RateDuration)
	if err != nil {
		return Proxy{}, err
	}
	clearTime, err := parseDuration("banListCooldown", cfg.RateBanListCooldown)
	if err != nil {
		return Proxy{}, err
	}
	unverify, err := parseDuration("unverifyCooldown", cfg.RateUnverify)
	if err != nil {
		return Proxy{}, err
	}
	return Proxy{
		DefaultStatus:     cfg.DefaultStatus,
		IOTimeout:         ioTimeout,
		RateLimit:         cfg.RateLimit,
		RateCooldown:      cooldown,
		RateClearTime:     clearTime,
		RateUnverify:      unverify,
		RateDisconnectMsg: cfg.RateDisconMsg,
	}, nil
}

// KeepAlive is the keep alive interval shared by all limbos
func (cfg LimboConfig) KeepAlive() (time.Duration, error) {
	return parseDuration("keepAliveInterval", cfg.KeepAliveInterval)
}

func ReadRealIPPrivateKey(keyPath string) (*ecdsa.PrivateKey, error) {
	bb, err := ioutil.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}
	return x509.ParseECPrivateKey(bb)
}

// GenerateRealIPKey creates a new key at keyPath, the public key is written
// next to it so it can be handed to the backend.
func GenerateRealIPKey(keyPath string) (*ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	privBytes, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(keyPath, privBytes, 0600); err != nil {
		return nil, err
	}
	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}
	pubPath := filepath.Join(filepath.Dir(keyPath), publicKeyName(keyPath))
	if err := os.WriteFile(pubPath, pubBytes, 0644); err != nil {
		return nil, err
	}
	return key, nil
}

func publicKeyName(keyPath string) string {
	base := filepath.Base(keyPath)
	return base[:len(base)-len(filepath.Ext(base))] + ".pub"
}
