// Package metrics owns the Prometheus registry that domain systems register collectors with.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// System exposes a registry for collectors and an HTTP handler for scraping.
type System interface {
	// Registerer returns the registry domain collectors register with.
	Registerer() prometheus.Registerer
	// Gatherer returns the registry for reading collected metrics.
	Gatherer() prometheus.Gatherer
	// Handler serves the registry in the Prometheus exposition format.
	Handler() http.Handler
	// Namespace is the metric name prefix for this service.
	Namespace() string
	// Enabled reports whether the scrape endpoint should be mounted.
	Enabled() bool
}

type registry struct {
	reg       *prometheus.Registry
	namespace string
	enabled   bool
}

// New creates a registry with Go runtime and process collectors pre-registered.
func New(cfg *Config) System {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &registry{
		reg:       reg,
		namespace: cfg.Namespace,
		enabled:   cfg.Enabled,
	}
}

func (r *registry) Registerer() prometheus.Registerer {
	return r.reg
}

func (r *registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

func (r *registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *registry) Namespace() string {
	return r.namespace
}

func (r *registry) Enabled() bool {
	return r.enabled
}

// Register registers c with reg. When an identical collector is already
// registered, the existing one is returned so callers can share it.
func Register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
