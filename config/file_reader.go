package config

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"os"
)

var ErrNoConfigFile = errors.New("no config file found")

// ReadLimboConfig reads the main config file, missing fields keep their
// default value.
func ReadLimboConfig(path string) (LimboConfig, error) {
	bb, err := ioutil.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return LimboConfig{}, ErrNoConfigFile
	}
	if err != nil {
		return LimboConfig{}, err
	}
	cfg := DefaultLimboConfig()
	if err := json.Unmarshal(bb, &cfg); err != nil {
		return cfg, err
	}
	cfg.FilePath = path
	return cfg, nil
}

// WriteDefaultConfig writes the default config with a single limbo to path
func WriteDefaultConfig(path string) error {
	cfg := DefaultLimboConfig()
	world := DefaultWorldConfig()
	world.Name = "lobby"
	cfg.Limbos = []WorldConfig{world}
	cfg.Fallback = world.Name
	bb, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bb, 0644)
}

func (cfg *WorldConfig) UnmarshalJSON(b []byte) error {
	type plain WorldConfig
	world := plain(DefaultWorldConfig())
	if err := json.Unmarshal(b, &world); err != nil {
		return err
	}
	*cfg = WorldConfig(world)
	return nil
}

func (cfg *BackendConfig) UnmarshalJSON(b []byte) error {
	type plain BackendConfig
	backend := plain(DefaultBackendConfig())
	if err := json.Unmarshal(b, &backend); err != nil {
		return err
	}
	*cfg = BackendConfig(backend)
	return nil
}
