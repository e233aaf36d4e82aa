package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the shop's Prometheus collectors.
type Metrics struct {
	Purchases    *prometheus.CounterVec
	GoldSpent    prometheus.Counter
	GoldAwarded  *prometheus.CounterVec
	Selections   prometheus.Counter
	ActivePlayer prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Purchases: f.NewCounterVec(prometheus.CounterOpts{
			Name: "costumeshop_purchases_total",
			Help: "Purchase attempts by outcome",
		}, []string{"outcome"}),
		GoldSpent: f.NewCounter(prometheus.CounterOpts{
			Name: "costumeshop_gold_spent_total",
			Help: "Gold debited by completed purchases",
		}),
		GoldAwarded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "costumeshop_gold_awarded_total",
			Help: "Gold credited to players, by reason",
		}, []string{"reason"}),
		Selections: f.NewCounter(prometheus.CounterOpts{
			Name: "costumeshop_selections_total",
			Help: "Catalog entries highlighted in shop views",
		}),
		ActivePlayer: f.NewGauge(prometheus.GaugeOpts{
			Name: "costumeshop_connected_sessions",
			Help: "Websocket sessions currently connected",
		}),
	}
}

// ObservePurchase counts one purchase attempt. A nil receiver is a no-op.
func (m *Metrics) ObservePurchase(outcome string, price int64) {
	if m == nil {
		return
	}
	m.Purchases.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.GoldSpent.Add(float64(price))
	}
}

func (m *Metrics) ObserveAward(reason string, amount int64) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unspecified"
	}
	m.GoldAwarded.WithLabelValues(reason).Add(float64(amount))
}

func (m *Metrics) ObserveSelection() {
	if m == nil {
		return
	}
	m.Selections.Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.ActivePlayer.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.ActivePlayer.Dec()
}
