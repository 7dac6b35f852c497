package limbo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	newConnections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "limbo",
		Name:      "new_connections_total",
		Help:      "The total number of accepted connections by handshake type",
	}, []string{"type"})
	limboSessions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "limbo",
		Name:      "sessions",
		Help:      "The number of players currently parked in a limbo",
	}, []string{"limbo"})
	handoffs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "limbo",
		Name:      "handoffs_total",
		Help:      "The total number of players that left a limbo, by where they went",
	}, []string{"kind"})
	connectionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "limbo",
		Name:      "connection_requests_total",
		Help:      "The total number of backend connection requests by result",
	}, []string{"result"})
)
