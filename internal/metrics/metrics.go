// Package metrics records poll and discovery outcomes for Prometheus and,
// when an agent address is configured, DogStatsD.
package metrics

import (
	"net/http"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pivovar/internal/logger"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// Recorder is what the services report to.
type Recorder interface {
	Poll(device string, took time.Duration, err error)
	Temperature(device string, celsius float64)
	Discovery(err error)
}

// DatadogConfig enables the DogStatsD gauges when Addr is set.
type DatadogConfig struct {
	Addr      string
	Namespace string
	Tags      []string
}

type Metric struct {
	registry    *prometheus.Registry
	polls       *prometheus.CounterVec
	pollTiming  *prometheus.SummaryVec
	temperature *prometheus.GaugeVec
	discoveries *prometheus.CounterVec

	dogstatsd *statsd.Client
	log       *logger.Logger
}

var _ Recorder = (*Metric)(nil)

// New registers the collectors on a private registry so several instances
// can coexist in one process.
func New(dd DatadogConfig, log *logger.Logger) *Metric {
	m := &Metric{
		registry: prometheus.NewRegistry(),
		polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pivovar",
				Name:      "temp_log_polls_total",
				Help:      "Temperature log requests by device and result.",
			},
			[]string{"device", "result"},
		),
		pollTiming: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace: "pivovar",
				Name:      "temp_log_poll_seconds",
				Help:      "Temperature log request latency.",
			},
			[]string{"device"},
		),
		temperature: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "pivovar",
				Name:      "wash_machine_temperature_celsius",
				Help:      "Latest reading of each wash machine.",
			},
			[]string{"device"},
		),
		discoveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pivovar",
				Name:      "discoveries_total",
				Help:      "Wash machine discovery attempts by result.",
			},
			[]string{"result"},
		),
		log: log,
	}
	m.registry.MustRegister(m.polls, m.pollTiming, m.temperature, m.discoveries)

	if dd.Addr != "" {
		client, err := statsd.New(dd.Addr, statsd.WithNamespace(dd.Namespace), statsd.WithTags(dd.Tags))
		if err != nil {
			log.Warnw("dogstatsd_init_failed", "addr", dd.Addr, "err", err)
		} else {
			m.dogstatsd = client
			log.Infow("dogstatsd_initialized", "addr", dd.Addr, "namespace", dd.Namespace, "tags", dd.Tags)
		}
	}
	return m
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}

func (m *Metric) Poll(device string, took time.Duration, err error) {
	m.polls.WithLabelValues(device, result(err)).Inc()
	m.pollTiming.WithLabelValues(device).Observe(took.Seconds())
}

func (m *Metric) Temperature(device string, celsius float64) {
	m.temperature.WithLabelValues(device).Set(celsius)
	m.gauge("wash_machine.temperature", celsius, "device:"+device)
}

func (m *Metric) Discovery(err error) {
	m.discoveries.WithLabelValues(result(err)).Inc()
}

func (m *Metric) gauge(name string, value float64, tags ...string) {
	if m.dogstatsd == nil {
		return
	}
	if err := m.dogstatsd.Gauge(name, value, tags, 1); err != nil {
		m.log.Warnw("dogstatsd_gauge_failed", "metric", name, "err", err)
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metric) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Close flushes the DogStatsD client, if any.
func (m *Metric) Close() error {
	if m.dogstatsd == nil {
		return nil
	}
	return m.dogstatsd.Close()
}

// Nop discards everything.
type Nop struct{}

func (Nop) Poll(string, time.Duration, error) {}
func (Nop) Temperature(string, float64)       {}
func (Nop) Discovery(error)                   {}
