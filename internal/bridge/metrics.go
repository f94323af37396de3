package bridge

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muurk/lutronctl/internal/protocol"
)

const metricsNamespace = "lutronctl"

// Metrics holds the relay's Prometheus collectors. Each Server owns its own
// registry so several servers (and tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	levelEvents      prometheus.Counter
	commands         *prometheus.CounterVec
	sessions         prometheus.Gauge
	connectionStatus prometheus.Gauge
}

// NewMetrics creates and registers the relay collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		levelEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "level_events_total",
			Help:      "Output level broadcasts received from the bridge.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "commands_total",
			Help:      "Commands relayed to the bridge, by command name.",
		}, []string{"command"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "ws_sessions",
			Help:      "Open WebSocket sessions.",
		}),
		connectionStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "connection_status",
			Help:      "Last reported bridge connection status code.",
		}),
	}

	m.connectionStatus.Set(float64(protocol.StatusDisconnected))
	m.registry.MustRegister(m.levelEvents, m.commands, m.sessions, m.connectionStatus)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeLevel() {
	m.levelEvents.Inc()
}

func (m *Metrics) observeCommand(name string) {
	m.commands.WithLabelValues(name).Inc()
}

func (m *Metrics) observeStatus(status protocol.ConnectionStatus) {
	m.connectionStatus.Set(float64(status))
}

func (m *Metrics) sessionOpened() { m.sessions.Inc() }
func (m *Metrics) sessionClosed() { m.sessions.Dec() }
