package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	mutations       *prometheus.CounterVec
	rejected        *prometheus.CounterVec
	persistFailures prometheus.Counter
	unitsSold       prometheus.Counter
	refreshes       prometheus.Counter
	inventories     prometheus.Gauge
	products        prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stockroom_mutations_total",
			Help: "Applied state mutations by operation.",
		}, []string{"op"}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stockroom_rejected_total",
			Help: "Mutations ignored because of validation or a missing target.",
		}, []string{"op"}),
		persistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "stockroom_persist_failures_total",
			Help: "Snapshot writes that failed; in-memory state was kept.",
		}),
		unitsSold: f.NewCounter(prometheus.CounterOpts{
			Name: "stockroom_units_sold_total",
			Help: "Units recorded through sales after clamping.",
		}),
		refreshes: f.NewCounter(prometheus.CounterOpts{
			Name: "stockroom_delivery_refreshes_total",
			Help: "Delivery status re-derivation passes.",
		}),
		inventories: f.NewGauge(prometheus.GaugeOpts{
			Name: "stockroom_inventories",
			Help: "Number of inventories.",
		}),
		products: f.NewGauge(prometheus.GaugeOpts{
			Name: "stockroom_products",
			Help: "Number of products across all inventories.",
		}),
	}
}

func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) Rejected(op string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(op).Inc()
}

func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

func (m *Metrics) UnitsSold(n int) {
	if m == nil {
		return
	}
	m.unitsSold.Add(float64(n))
}

func (m *Metrics) DeliveryRefresh() {
	if m == nil {
		return
	}
	m.refreshes.Inc()
}

func (m *Metrics) CatalogSize(inventories, products int) {
	if m == nil {
		return
	}
	m.inventories.Set(float64(inventories))
	m.products.Set(float64(products))
}
