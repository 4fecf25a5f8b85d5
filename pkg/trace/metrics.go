package trace

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsTracer counts generated member calls per model, attribute and kind.
type MetricsTracer struct {
	calls *prometheus.CounterVec
}

// NewMetricsTracer registers <namespace>_member_calls_total on reg.
// Registering twice on the same registry reuses the existing collector.
func NewMetricsTracer(reg prometheus.Registerer, namespace string) (*MetricsTracer, error) {
	if namespace == "" {
		namespace = "loamenum"
	}
	calls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "member_calls_total",
			Help:      "Total number of generated enum member and scope invocations",
		},
		[]string{"model", "attribute", "kind"},
	)

	if err := reg.Register(calls); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		calls = existing
	}
	return &MetricsTracer{calls: calls}, nil
}

// Trace implements Tracer. Labels prometheus rejects, such as invalid UTF-8,
// are dropped.
func (m *MetricsTracer) Trace(l Label) {
	c, err := m.calls.GetMetricWithLabelValues(l.Model, l.Attribute, string(l.Kind))
	if err != nil {
		return
	}
	c.Inc()
}

// Collector exposes the underlying counter, e.g. for testutil.
func (m *MetricsTracer) Collector() *prometheus.CounterVec {
	return m.calls
}
