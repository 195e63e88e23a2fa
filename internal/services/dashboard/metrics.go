package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposed on /metrics. Labels: kind ∈ sensor|activity|state|hotspots.
type Metrics struct {
	IngestTotal   *prometheus.CounterVec
	RejectedTotal *prometheus.CounterVec
	AssistantReqs prometheus.Counter
}

// NewMetrics registers the dashboard collectors on reg and a gauge set
// tracking the history window sizes.
func NewMetrics(reg prometheus.Registerer, store *Store) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		IngestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coopsim",
			Subsystem: "dashboard",
			Name:      "ingest_total",
			Help:      "Accepted ingest payloads by kind.",
		}, []string{"kind"}),
		RejectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coopsim",
			Subsystem: "dashboard",
			Name:      "rejected_total",
			Help:      "Ingest payloads rejected at the boundary by kind.",
		}, []string{"kind"}),
		AssistantReqs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "coopsim",
			Subsystem: "dashboard",
			Name:      "assistant_requests_total",
			Help:      "Assistant summary requests served.",
		}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "coopsim", Subsystem: "dashboard",
		Name: "history_sensor_entries", Help: "Sensor history window size.",
	}, func() float64 { n, _, _ := store.HistorySizes(); return float64(n) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "coopsim", Subsystem: "dashboard",
		Name: "history_activity_entries", Help: "Activity history window size.",
	}, func() float64 { _, n, _ := store.HistorySizes(); return float64(n) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "coopsim", Subsystem: "dashboard",
		Name: "history_hotspot_entries", Help: "Hotspot scan history window size.",
	}, func() float64 { _, _, n := store.HistorySizes(); return float64(n) })

	return m
}
