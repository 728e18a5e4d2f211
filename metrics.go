package match

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "trading"

// Metrics holds the exchange's prometheus collectors.
type Metrics struct {
	ordersTotal    *prometheus.CounterVec
	tradesTotal    *prometheus.CounterVec
	tradedQuantity *prometheus.CounterVec
	expiredTotal   prometheus.Counter
	sweepsTotal    prometheus.Counter
	matchDuration  prometheus.Histogram
	matchFailures  prometheus.Counter
	inflight       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ordersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "orders_total",
			Help:      "Orders placed, by status at placement.",
		}, []string{"status"}),
		tradesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "trades_total",
			Help:      "Trades executed, by symbol.",
		}, []string{"symbol"}),
		tradedQuantity: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "traded_quantity_total",
			Help:      "Quantity executed, by symbol.",
		}, []string{"symbol"}),
		expiredTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "orders_expired_total",
			Help:      "Orders retired because their deadline passed.",
		}),
		sweepsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "expiry_sweeps_total",
			Help:      "Completed expiry sweeps.",
		}),
		matchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "match_pass_duration_seconds",
			Help:      "Wall time of admitted matching passes.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		matchFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "match_pass_failures_total",
			Help:      "Matching passes that failed or panicked.",
		}),
		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "match_passes_inflight",
			Help:      "Matching passes currently holding an admission slot.",
		}),
	}
}

func (m *Metrics) orderPlaced(status OrderStatus) {
	m.ordersTotal.WithLabelValues(status.String()).Inc()
}

func (m *Metrics) tradeExecuted(trade *Trade) {
	m.tradesTotal.WithLabelValues(trade.Symbol).Inc()
	m.tradedQuantity.WithLabelValues(trade.Symbol).Add(float64(trade.Quantity))
}

func (m *Metrics) ordersExpired(n int) {
	m.expiredTotal.Add(float64(n))
}

func (m *Metrics) sweepDone() {
	m.sweepsTotal.Inc()
}

func (m *Metrics) passStarted() {
	m.inflight.Inc()
}

func (m *Metrics) passFinished(elapsed time.Duration, err error) {
	m.inflight.Dec()
	m.matchDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.matchFailures.Inc()
	}
}
