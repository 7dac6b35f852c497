package config

import (
	"fmt"
	"strings"
)

type DuplicateName struct {
	Kind string
	Name string
}

func (err *DuplicateName) Error() string {
	return fmt.Sprintf("%s '%s' has been configured more than once", err.Kind, err.Name)
}

type UnknownReference struct {
	Kind string
	Name string
	From string
}

func (err *UnknownReference) Error() string {
	return fmt.Sprintf("%s refers to %s '%s' which does not exist", err.From, err.Kind, err.Name)
}

type UnknownHandler struct {
	Stage   int
	Handler string
}

func (err *UnknownHandler) Error() string {
	return fmt.Sprintf("login queue stage %d has unknown handler '%s'", err.Stage, err.Handler)
}

// VerifyConfig checks whether every name the config refers to exists
func VerifyConfig(cfg LimboConfig) []error {
	errors := []error{}
	limbos := make(map[string]bool)
	for _, world := range cfg.Limbos {
		name := strings.ToLower(world.Name)
		if limbos[name] {
			errors = append(errors, &DuplicateName{Kind: "limbo", Name: world.Name})
			continue
		}
		limbos[name] = true
	}
	backends := make(map[string]bool)
	for _, backend := range cfg.Backends {
		name := strings.ToLower(backend.Name)
		if backends[name] {
			errors = append(errors, &DuplicateName{Kind: "backend", Name: backend.Name})
			continue
		}
		backends[name] = true
	}

	if cfg.DefaultBackend != "" && !backends[strings.ToLower(cfg.DefaultBackend)] {
		errors = append(errors, &UnknownReference{Kind: "backend", Name: cfg.DefaultBackend, From: "defaultBackend"})
	}
	if cfg.Fallback != "" && !limbos[strings.ToLower(cfg.Fallback)] {
		errors = append(errors, &UnknownReference{Kind: "limbo", Name: cfg.Fallback, From: "fallbackLimbo"})
	}
	for i, stage := range cfg.LoginQueue {
		from := fmt.Sprintf("login queue stage %d", i)
		if !limbos[strings.ToLower(stage.Limbo)] {
			errors = append(errors, &UnknownReference{Kind: "limbo", Name: stage.Limbo, From: from})
		}
		switch stage.Handler {
		case WelcomeHandler:
		case WaitingRoomHandler:
			if !backends[strings.ToLower(stage.Backend)] {
				errors = append(errors, &UnknownReference{Kind: "backend", Name: stage.Backend, From: from})
			}
		default:
			errors = append(errors, &UnknownHandler{Stage: i, Handler: stage.Handler})
		}
	}
	return errors
}
