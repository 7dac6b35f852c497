package core

import (
	"strings"
)

type ServerCatalog interface {
	Find(name string) (Server, error)
}

func NewServerCatalog(servers ...Server) BasicServerCatalog {
	catalog := BasicServerCatalog{
		ServerDict: make(map[string]Server, len(servers)),
	}
	for _, server := range servers {
		catalog.ServerDict[strings.ToLower(server.Name())] = server
	}
	return catalog
}

type BasicServerCatalog struct {
	ServerDict map[string]Server
}

func (catalog BasicServerCatalog) Find(name string) (Server, error) {
	server, ok := catalog.ServerDict[strings.ToLower(name)]
	if !ok {
		return nil, ErrNoServerFound
	}
	return server, nil
}
