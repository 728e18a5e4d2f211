package match

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

// TestMatchingProperties drives one book with random placements, amendments,
// cancellations and clock jumps, checking the book after every pass.
func TestMatchingProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		clock := newTestClock()
		ledger := NewTradeLedger()
		engine := NewMatchingEngine(ledger, WithClock(clock.Now))
		book := engine.OrderBook("RIL")

		var orders []*Order
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			clock.Advance(time.Duration(rapid.IntRange(0, 120).Draw(t, "advanceSec")) * time.Second)

			switch {
			case len(orders) == 0 || rapid.IntRange(0, 9).Draw(t, "action") < 6:
				side := Buy
				if rapid.Bool().Draw(t, "sell") {
					side = Sell
				}
				now := clock.Now()
				order := &Order{
					ID:        int64(len(orders) + 1),
					Side:      side,
					Symbol:    "RIL",
					Quantity:  rapid.Int64Range(1, 50).Draw(t, "quantity"),
					Price:     decimal.NewFromInt(rapid.Int64Range(95, 105).Draw(t, "price")),
					Timestamp: now,
					ExpiresAt: now.Add(time.Duration(rapid.IntRange(1, 30).Draw(t, "expiryMin")) * time.Minute),
					Status:    Accepted,
				}
				order.OriginalQuantity = order.Quantity
				orders = append(orders, order)
				engine.place(order)
			case rapid.Bool().Draw(t, "cancel"):
				engine.cancel(rapid.SampledFrom(orders).Draw(t, "cancelOrder"))
			default:
				target := rapid.SampledFrom(orders).Draw(t, "amendOrder")
				engine.amend(target,
					rapid.Int64Range(1, 50).Draw(t, "newQuantity"),
					decimal.NewFromInt(rapid.Int64Range(95, 105).Draw(t, "newPrice")),
				)
			}
			engine.Match(context.Background(), "RIL")

			buy, sell := book.peekBest(Buy), book.peekBest(Sell)
			if buy != nil && sell != nil && !buy.Price.LessThan(sell.Price) {
				t.Fatalf("book crossed: bid %s >= ask %s", buy.Price, sell.Price)
			}
		}

		filled := map[int64]int64{}
		for _, trade := range ledger.List() {
			if trade.Quantity <= 0 {
				t.Fatalf("trade %d has quantity %d", trade.ID, trade.Quantity)
			}
			filled[trade.BuyerOrderID] += trade.Quantity
			filled[trade.SellerOrderID] += trade.Quantity
		}

		for _, order := range orders {
			if order.Quantity < 0 {
				t.Fatalf("order %d has negative quantity %d", order.ID, order.Quantity)
			}
			if order.Filled() != filled[order.ID] {
				t.Fatalf("order %d filled %d, trades say %d", order.ID, order.Filled(), filled[order.ID])
			}
			if book.contains(order) != (order.Status == Accepted) {
				t.Fatalf("order %d is %s but queued=%v", order.ID, order.Status, book.contains(order))
			}
			if order.Status == Completed && order.Quantity != 0 {
				t.Fatalf("completed order %d has %d left", order.ID, order.Quantity)
			}
		}
	})
}
