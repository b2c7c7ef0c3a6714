package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// Metrics holds the collectors for one application instance.
type Metrics struct {
	registry        *prometheus.Registry
	registrations   *prometheus.CounterVec
	commands        *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the appshell collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appshell_plugin_registrations_total",
				Help: "Plugin registration attempts during bootstrap, by outcome",
			},
			[]string{"plugin", "outcome"},
		),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appshell_commands_total",
				Help: "Plugin command invocations, by outcome",
			},
			[]string{"command", "outcome"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "appshell_command_duration_seconds",
				Help:    "Duration of plugin command invocations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
	}
	m.registry.MustRegister(m.registrations, m.commands, m.commandDuration)
	return m
}

// Registration records the outcome of a plugin registration step.
func (m *Metrics) Registration(plugin, outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(plugin, outcome).Inc()
}

// Command records a finished command invocation.
func (m *Metrics) Command(name string, took time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.commands.WithLabelValues(name, outcome).Inc()
	m.commandDuration.WithLabelValues(name).Observe(took.Seconds())
}

// Gatherer exposes the underlying registry (tests, custom exporters).
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
