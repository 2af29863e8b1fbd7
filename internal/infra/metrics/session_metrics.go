// Package metrics exposes session manager activity as Prometheus collectors.
package metrics

import (
	"time"

	"miniblog/config"
	"miniblog/internal/domain/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

const namespace = "miniblog"

type sessionMetrics struct {
	logins    *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	logouts   prometheus.Counter
	reuse     *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewRegistry creates the registry served on the metrics endpoint, with Go and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// Params defines the dependencies of the session metrics.
type Params struct {
	fx.In

	Config   *config.Config
	Registry *prometheus.Registry
}

// New returns Prometheus-backed metrics, or a no-op recorder when metrics are disabled.
func New(params Params) (service.SessionMetrics, error) {
	if params.Config.Metrics == nil || !params.Config.Metrics.Enabled {
		return NewNoop(), nil
	}

	return NewSessionMetrics(params.Registry)
}

// NewSessionMetrics registers the session collectors on reg.
func NewSessionMetrics(reg prometheus.Registerer) (service.SessionMetrics, error) {
	m := &sessionMetrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "refreshes_total",
			Help:      "Refresh token rotations by outcome.",
		}, []string{"outcome"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logouts_total",
			Help:      "Logout requests.",
		}),
		reuse: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "reuse_detected_total",
			Help:      "Revoked refresh tokens presented again, by configured policy.",
		}, []string{"policy"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "operation_duration_seconds",
			Help:      "Latency of session manager operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{m.logins, m.refreshes, m.logouts, m.reuse, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *sessionMetrics) ObserveLogin(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *sessionMetrics) ObserveRefresh(outcome string) {
	m.refreshes.WithLabelValues(outcome).Inc()
}

func (m *sessionMetrics) ObserveLogout() {
	m.logouts.Inc()
}

func (m *sessionMetrics) ObserveReuse(policy string) {
	m.reuse.WithLabelValues(policy).Inc()
}

func (m *sessionMetrics) ObserveDuration(operation string, elapsed time.Duration) {
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

type noopMetrics struct{}

// NewNoop returns a recorder that discards every observation.
func NewNoop() service.SessionMetrics {
	return noopMetrics{}
}

func (noopMetrics) ObserveLogin(string)                   {}
func (noopMetrics) ObserveRefresh(string)                 {}
func (noopMetrics) ObserveLogout()                        {}
func (noopMetrics) ObserveReuse(string)                   {}
func (noopMetrics) ObserveDuration(string, time.Duration) {}

// Module provides the metrics FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewRegistry, New),
)
