package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OpenConnections tracks currently open signaling channels
	OpenConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signaling_open_connections",
		Help: "Number of open WebSocket signaling connections.",
	})

	// ActiveRooms tracks rooms with at least one member
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signaling_active_rooms",
		Help: "Number of rooms with at least one member.",
	})

	// EventsReceived counts inbound events by type
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signaling_events_received_total",
		Help: "Inbound signaling events by type.",
	}, []string{"type"})

	// JoinsRejected counts joins refused because the room was full
	JoinsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signaling_joins_rejected_total",
		Help: "Join attempts rejected because the room was at capacity.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
