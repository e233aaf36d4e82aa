package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservePurchase(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObservePurchase("ok", 25)
	m.ObservePurchase("insufficient_funds", 50)
	m.ObservePurchase("ok", 50)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Purchases.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Purchases.WithLabelValues("insufficient_funds")))
	assert.Equal(t, 75.0, testutil.ToFloat64(m.GoldSpent))
}

func TestObserveAwardAndSessions(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveAward("", 10)
	m.ObserveAward("level", 5)
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	assert.Equal(t, 10.0, testutil.ToFloat64(m.GoldAwarded.WithLabelValues("unspecified")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.GoldAwarded.WithLabelValues("level")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActivePlayer))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePurchase("ok", 1)
		m.ObserveAward("x", 1)
		m.ObserveSelection()
		m.SessionOpened()
		m.SessionClosed()
	})
}
