package match

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	ex, err := NewExchange(testConfig(), WithMetrics(metrics))
	require.NoError(t, err)
	defer func() { _ = ex.Shutdown(context.Background()) }()

	ctx := context.Background()
	ex.PlaceOrder(ctx, 1, Buy, "RIL", 100, decimal.NewFromInt(2000))
	ex.PlaceOrder(ctx, 2, Sell, "RIL", 60, decimal.NewFromInt(1900))
	ex.PlaceOrder(ctx, 2, Sell, "RIL", 0, decimal.NewFromInt(1900))
	ex.WaitIdle()

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ordersTotal.WithLabelValues("Accepted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ordersTotal.WithLabelValues("Rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.tradesTotal.WithLabelValues("RIL")))
	assert.Equal(t, float64(60), testutil.ToFloat64(metrics.tradedQuantity.WithLabelValues("RIL")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.inflight))

	count, err := testutil.GatherAndCount(reg, "trading_match_pass_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
