package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sarchlab/blockgen/hooking"
	"github.com/sarchlab/blockgen/producer"
)

const metricsNamespace = "blockgen"

// Metrics exports producer activity as Prometheus metrics. It is a hook that
// is attached to every producer.
type Metrics struct {
	registry *prometheus.Registry

	produced *prometheus.CounterVec
	pushed   *prometheus.CounterVec
	bindings *prometheus.CounterVec
	buffer   *prometheus.GaugeVec
}

// NewMetrics creates the metrics on their own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		produced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "items_produced_total",
				Help:      "Total number of items produced",
			},
			[]string{"producer", "item"},
		),
		pushed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "items_pushed_total",
				Help:      "Total number of items pushed to outputs",
			},
			[]string{"producer", "item"},
		),
		bindings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "recipe_bindings_total",
				Help:      "Recipe binding changes by event",
			},
			[]string{"producer", "event"},
		),
		buffer: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "buffer_items",
				Help:      "Items waiting in the producer buffer",
			},
			[]string{"producer"},
		),
	}

	m.registry.MustRegister(m.produced, m.pushed, m.bindings, m.buffer)

	return m
}

// Func updates the metrics from a producer hook.
func (m *Metrics) Func(ctx hooking.HookCtx) {
	name := domainName(ctx.Domain)

	switch ctx.Pos {
	case producer.HookPosProduced:
		r := ctx.Item.(producer.ProductionRecord)
		if r.Actual > 0 {
			m.produced.WithLabelValues(name, string(r.Item)).Add(float64(r.Actual))
		}
		m.buffer.WithLabelValues(name).Set(float64(r.Buffer.Count))
	case producer.HookPosOutputPushed:
		r := ctx.Item.(producer.PushRecord)
		m.pushed.WithLabelValues(name, string(r.Item)).Add(float64(r.Pushed))
		m.buffer.WithLabelValues(name).Set(float64(r.Remaining))
	case producer.HookPosRecipeBound,
		producer.HookPosRecipeAssigned,
		producer.HookPosRecipeLost:
		m.bindings.WithLabelValues(name, producer.BindingEvent(ctx.Pos)).Inc()
	}
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func domainName(d hooking.Hookable) string {
	if n, ok := d.(interface{ Name() string }); ok {
		return n.Name()
	}

	return ""
}
