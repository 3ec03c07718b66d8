// Package metrics exposes prometheus counters for service calls and cart actions.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is served on /metrics.
var Registry = prometheus.NewRegistry()

var (
	serviceOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "service_operations_total",
		Help:      "Service operations by service, operation and outcome.",
	}, []string{"service", "op", "outcome"})

	cartActions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "cart_actions_total",
		Help:      "Cart actions dispatched, by kind.",
	}, []string{"action"})

	cartLines = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "storefront",
		Name:      "cart_lines",
		Help:      "Lines currently in the cart.",
	})
)

func init() {
	Registry.MustRegister(
		serviceOps,
		cartActions,
		cartLines,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Outcome classifies err for the outcome label. Known sentinel errors get
// their own label; anything else is "error".
func Outcome(err error, known map[error]string) string {
	if err == nil {
		return "ok"
	}
	for target, label := range known {
		if errors.Is(err, target) {
			return label
		}
	}
	return "error"
}

func ObserveOp(service, op, outcome string) {
	serviceOps.WithLabelValues(service, op, outcome).Inc()
}

func ObserveCart(action string, lines int) {
	cartActions.WithLabelValues(action).Inc()
	cartLines.Set(float64(lines))
}
