package main

import (
	"fmt"
	"path/filepath"
	"strings"

	limbo "github.com/realDragonium/limbo"
	"github.com/realDragonium/limbo/config"
	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/stage"
)

// setup turns a verified config into a ready to serve proxy
func setup(cfg config.LimboConfig) (*limbo.Proxy, error) {
	keepAlive, err := cfg.KeepAlive()
	if err != nil {
		return nil, err
	}
	limbos := make(map[string]*limbo.Limbo, len(cfg.Limbos))
	for _, worldCfg := range cfg.Limbos {
		world, err := config.FileToWorld(worldCfg, keepAlive)
		if err != nil {
			return nil, fmt.Errorf("limbo %s: %w", worldCfg.Name, err)
		}
		limbos[strings.ToLower(world.Name)] = limbo.NewLimbo(world)
	}

	baseDir := filepath.Dir(cfg.FilePath)
	servers := make([]core.Server, 0, len(cfg.Backends))
	backends := make(map[string]*limbo.Backend, len(cfg.Backends))
	for _, backendCfg := range cfg.Backends {
		backendConfig, err := config.FileToBackend(backendCfg, baseDir)
		if err != nil {
			return nil, fmt.Errorf("backend %s: %w", backendCfg.Name, err)
		}
		backend := limbo.NewBackend(backendConfig)
		backends[strings.ToLower(backend.Name())] = backend
		servers = append(servers, backend)
	}
	catalog := core.NewServerCatalog(servers...)

	var opts []limbo.ProxyOption
	var defaultBackend core.Server
	if backend, ok := backends[strings.ToLower(cfg.DefaultBackend)]; ok {
		defaultBackend = backend
		opts = append(opts, limbo.WithDefaultBackend(backend))
	}

	stages := make([]limbo.QueueStage, 0, len(cfg.LoginQueue))
	for i, stageCfg := range cfg.LoginQueue {
		stageConfig, err := config.FileToStage(stageCfg)
		if err != nil {
			return nil, fmt.Errorf("login queue stage %d: %w", i, err)
		}
		handler, err := stage.FromConfig(stageConfig, catalog)
		if err != nil {
			return nil, fmt.Errorf("login queue stage %d: %w", i, err)
		}
		stages = append(stages, limbo.QueueStage{
			Limbo:   limbos[strings.ToLower(stageConfig.Limbo)],
			Handler: handler,
		})
	}
	if len(stages) > 0 {
		opts = append(opts, limbo.WithLoginQueue(limbo.NewLoginQueue(defaultBackend, stages...)))
	}

	if fallback, ok := limbos[strings.ToLower(cfg.Fallback)]; ok {
		var handler func() limbo.Handler
		if defaultBackend != nil {
			handler, err = stage.FromConfig(config.Stage{
				Handler: config.WaitingRoomHandler,
				Title:   "Waiting for the server",
				Backend: defaultBackend.Name(),
			}, catalog)
			if err != nil {
				return nil, err
			}
		}
		opts = append(opts, limbo.WithFallback(fallback, handler))
	}

	proxyCfg, err := config.FileToProxy(cfg)
	if err != nil {
		return nil, err
	}
	return limbo.NewProxy(proxyCfg, opts...), nil
}
